package notify

import (
	"context"

	"github.com/clearpath-fin/clearpath/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// Service delivers operational alerts
type Service interface {
	// Alert posts an alert message to the ops channel
	Alert(ctx context.Context, title, detail string) error
}

// client implements Service backed by Slack
type client struct {
	api     *slack.Client
	channel string
}

// Option is a functional option for client configuration
type Option func(*client)

// New creates a new Slack-backed notifier. channel is the ops channel ID.
func New(token, channel string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack ops channel is required")
	}

	c := &client{
		api:     slack.New(token),
		channel: channel,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *client) Alert(ctx context.Context, title, detail string) error {
	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, title, false, false),
		),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, detail, false, false),
			nil, nil,
		),
	}

	_, _, err := c.api.PostMessageContext(ctx, c.channel,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(title, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post ops alert", goerr.V("channel", c.channel))
	}

	return nil
}

// logNotifier implements Service by logging only. Used when Slack is not
// configured.
type logNotifier struct{}

// NewLogNotifier creates a notifier that only writes to the log
func NewLogNotifier() Service {
	return &logNotifier{}
}

func (n *logNotifier) Alert(ctx context.Context, title, detail string) error {
	logging.From(ctx).Warn("ops alert", "title", title, "detail", detail)
	return nil
}
