package notify

import (
	"context"
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/interfaces"
	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/utils/logging"
)

// RemoteSender delivers a notification over one remote channel
type RemoteSender interface {
	Channel() types.Channel
	Deliver(ctx context.Context, n *model.Notification) error
}

// Service fans notifications out best-effort. Every send attempt leaves a
// local record; a failing remote channel is captured on the record and
// never propagates as an error.
type Service struct {
	log     interfaces.NotificationLog
	remotes map[types.Channel]RemoteSender
}

var _ interfaces.Notifier = &Service{}

// Option is a functional option for service configuration
type Option func(*Service)

// WithRemote attaches a remote channel sender
func WithRemote(sender RemoteSender) Option {
	return func(s *Service) {
		s.remotes[sender.Channel()] = sender
	}
}

// New creates a notification service over the given history log
func New(log interfaces.NotificationLog, opts ...Option) *Service {
	s := &Service{
		log:     log,
		remotes: make(map[types.Channel]RemoteSender),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send produces a notification record and attempts remote delivery when a
// remote channel is requested. The console-equivalent record cannot fail,
// so the caller always gets a record back and never an error.
func (s *Service) Send(ctx context.Context, title, message string, severity types.Severity, channel types.Channel, metadata map[string]any) *model.Notification {
	if !severity.IsValid() {
		severity = types.SeverityInfo
	}
	if !channel.IsValid() {
		channel = types.ChannelConsole
	}

	n := &model.Notification{
		ID:       types.NewNotificationID(),
		Title:    title,
		Message:  message,
		Severity: severity,
		Channel:  channel,
		Metadata: metadata,
		SentAt:   time.Now().UTC(),
		Success:  true,
	}

	// The local record is the guaranteed fallback
	s.emitLocal(ctx, n)

	if channel != types.ChannelConsole {
		if remote, ok := s.remotes[channel]; ok {
			if err := remote.Deliver(ctx, n); err != nil {
				n.Success = false
				n.Error = err.Error()
				logging.From(ctx).Warn("remote notification delivery failed",
					"channel", channel, "title", title, "error", err)
			}
		} else {
			n.Success = false
			n.Error = "channel not configured: " + channel.String()
		}
	}

	if err := s.log.Append(ctx, n); err != nil {
		logging.From(ctx).Error("failed to append notification record", "error", err)
	}

	return n
}

// emitLocal writes the console-equivalent record through the logger at a
// level derived from severity
func (s *Service) emitLocal(ctx context.Context, n *model.Notification) {
	logger := logging.From(ctx)
	args := []any{"title", n.Title, "severity", n.Severity, "channel", n.Channel}

	switch n.Severity {
	case types.SeverityDebug:
		logger.Debug(n.Message, args...)
	case types.SeverityWarning:
		logger.Warn(n.Message, args...)
	case types.SeverityError, types.SeverityCritical:
		logger.Error(n.Message, args...)
	default:
		logger.Info(n.Message, args...)
	}
}

// History returns up to limit recent notifications, newest first
func (s *Service) History(ctx context.Context, limit int) ([]*model.Notification, error) {
	return s.log.List(ctx, limit)
}

// Stats aggregates the retained history on demand
func (s *Service) Stats(ctx context.Context) (*model.NotificationStats, error) {
	return s.log.Stats(ctx)
}
