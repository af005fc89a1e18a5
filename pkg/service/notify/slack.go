package notify

import (
	"context"
	"fmt"

	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// SlackSender delivers notifications to a Slack channel via the Web API
type SlackSender struct {
	api       *slack.Client
	channelID string
}

var _ RemoteSender = &SlackSender{}

// NewSlackSender creates a Slack sender with the provided bot token and
// target channel
func NewSlackSender(token, channelID string) (*SlackSender, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	return &SlackSender{
		api:       slack.New(token),
		channelID: channelID,
	}, nil
}

// Channel reports the channel this sender serves
func (s *SlackSender) Channel() types.Channel {
	return types.ChannelSlack
}

// Deliver posts the notification as a colored attachment
func (s *SlackSender) Deliver(ctx context.Context, n *model.Notification) error {
	attachment := slack.Attachment{
		Color: severityColor(n.Severity),
		Title: n.Title,
		Text:  n.Message,
	}
	for k, v := range n.Metadata {
		attachment.Fields = append(attachment.Fields, slack.AttachmentField{
			Title: k,
			Value: fmt.Sprintf("%v", v),
			Short: true,
		})
	}

	_, _, err := s.api.PostMessageContext(ctx, s.channelID,
		slack.MsgOptionText(n.Title, false),
		slack.MsgOptionAttachments(attachment),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post Slack message", goerr.V("channelID", s.channelID))
	}

	return nil
}

func severityColor(severity types.Severity) string {
	switch severity {
	case types.SeverityCritical, types.SeverityError:
		return "danger"
	case types.SeverityWarning:
		return "warning"
	default:
		return "good"
	}
}
