package config

import (
	"github.com/urfave/cli/v3"

	"github.com/clearpath-fin/clearpath/pkg/service/notify"
	"github.com/clearpath-fin/clearpath/pkg/utils/logging"
)

// Notify holds CLI flags for the Slack ops notifier
type Notify struct {
	slackToken   string
	slackChannel string
}

// Flags returns CLI flags for notifier configuration
func (n *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token for ops alerts",
			Sources:     cli.EnvVars("CLEARPATH_SLACK_BOT_TOKEN"),
			Destination: &n.slackToken,
		},
		&cli.StringFlag{
			Name:        "slack-ops-channel",
			Usage:       "Slack channel ID for ops alerts",
			Sources:     cli.EnvVars("CLEARPATH_SLACK_OPS_CHANNEL"),
			Destination: &n.slackChannel,
		},
	}
}

// IsConfigured reports whether Slack delivery is fully configured
func (n *Notify) IsConfigured() bool {
	return n.slackToken != "" && n.slackChannel != ""
}

// Configure builds the notifier service, falling back to log-only delivery
// when Slack is not configured
func (n *Notify) Configure() (notify.Service, error) {
	if !n.IsConfigured() {
		logging.Default().Info("Slack not configured, ops alerts go to the log")
		return notify.NewLogNotifier(), nil
	}
	svc, err := notify.New(n.slackToken, n.slackChannel)
	if err != nil {
		return nil, err
	}
	logging.Default().Info("Slack ops alerts enabled", "channel", n.slackChannel)
	return svc, nil
}
