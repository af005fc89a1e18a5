package config

import (
	"github.com/urfave/cli/v3"

	"github.com/bottega-lab/maestro/pkg/service/notify"
)

// Slack configures the optional Slack notification channel
type Slack struct {
	botToken  string
	channelID string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token for notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("MAESTRO_SLACK_BOT_TOKEN"),
			Destination: &x.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID notifications are posted to",
			Category:    "Slack",
			Sources:     cli.EnvVars("MAESTRO_SLACK_CHANNEL_ID"),
			Destination: &x.channelID,
		},
	}
}

// Configured reports whether a Slack sender can be built
func (x *Slack) Configured() bool {
	return x.botToken != "" && x.channelID != ""
}

// NewSender builds the Slack sender from the flags
func (x *Slack) NewSender() (*notify.SlackSender, error) {
	return notify.NewSlackSender(x.botToken, x.channelID)
}
