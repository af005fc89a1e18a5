package notify_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/repository/memory"
	"github.com/bottega-lab/maestro/pkg/service/notify"
)

type fakeRemote struct {
	channel   types.Channel
	fail      error
	delivered []*model.Notification
}

func (r *fakeRemote) Channel() types.Channel {
	return r.channel
}

func (r *fakeRemote) Deliver(ctx context.Context, n *model.Notification) error {
	if r.fail != nil {
		return r.fail
	}
	r.delivered = append(r.delivered, n)
	return nil
}

func TestNotifySend(t *testing.T) {
	ctx := context.Background()

	t.Run("console send always succeeds and is recorded", func(t *testing.T) {
		svc := notify.New(memory.New().Notifications())

		n := svc.Send(ctx, "Deploy done", "all good", types.SeverityInfo, types.ChannelConsole, nil)
		gt.Value(t, n).NotNil()
		gt.Bool(t, n.Success).True()

		history, err := svc.History(ctx, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, history).Length(1)
		gt.Value(t, history[0].Title).Equal("Deploy done")
	})

	t.Run("invalid severity and channel fall back to defaults", func(t *testing.T) {
		svc := notify.New(memory.New().Notifications())

		n := svc.Send(ctx, "t", "m", types.Severity("loud"), types.Channel("pager"), nil)
		gt.Value(t, n.Severity).Equal(types.SeverityInfo)
		gt.Value(t, n.Channel).Equal(types.ChannelConsole)
		gt.Bool(t, n.Success).True()
	})

	t.Run("remote channel delivers through the sender", func(t *testing.T) {
		remote := &fakeRemote{channel: types.ChannelSlack}
		svc := notify.New(memory.New().Notifications(), notify.WithRemote(remote))

		n := svc.Send(ctx, "Alert", "skill failed", types.SeverityError, types.ChannelSlack, nil)
		gt.Bool(t, n.Success).True()
		gt.Array(t, remote.delivered).Length(1)
	})

	t.Run("remote failure is captured, not raised", func(t *testing.T) {
		remote := &fakeRemote{channel: types.ChannelSlack, fail: goerr.New("rate limited")}
		svc := notify.New(memory.New().Notifications(), notify.WithRemote(remote))

		n := svc.Send(ctx, "Alert", "m", types.SeverityError, types.ChannelSlack, nil)
		gt.Bool(t, n.Success).False()
		gt.String(t, n.Error).Contains("rate limited")

		// The failed attempt still left a record
		history, err := svc.History(ctx, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, history).Length(1)
		gt.Bool(t, history[0].Success).False()
	})

	t.Run("unconfigured remote channel is a recorded failure", func(t *testing.T) {
		svc := notify.New(memory.New().Notifications())

		n := svc.Send(ctx, "Alert", "m", types.SeverityWarning, types.ChannelSlack, nil)
		gt.Bool(t, n.Success).False()
		gt.String(t, n.Error).Contains("not configured")
	})

	t.Run("stats aggregate the history", func(t *testing.T) {
		svc := notify.New(memory.New().Notifications())

		svc.Send(ctx, "a", "m", types.SeverityInfo, types.ChannelConsole, nil)
		svc.Send(ctx, "b", "m", types.SeverityError, types.ChannelConsole, nil)
		svc.Send(ctx, "c", "m", types.SeverityError, types.ChannelSlack, nil)

		stats, err := svc.Stats(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, stats.Total).Equal(3)
		gt.Number(t, stats.BySeverity[types.SeverityError]).Equal(2)
		gt.Number(t, stats.Failed).Equal(1)
	})
}
