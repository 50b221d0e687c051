package mailer

import (
	"context"

	"github.com/clearpath-fin/clearpath/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Message is a rendered email ready for delivery
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers rendered emails
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// logMailer implements Mailer by logging the message instead of sending.
// Used in development and tests.
type logMailer struct{}

// NewLogMailer creates a mailer that only writes to the log
func NewLogMailer() Mailer {
	return &logMailer{}
}

func (m *logMailer) Send(ctx context.Context, msg *Message) error {
	if msg.To == "" {
		return goerr.New("mail recipient is required")
	}
	logging.From(ctx).Info("email (log delivery)",
		"to", msg.To,
		"subject", msg.Subject,
		"body_len", len(msg.Body),
	)
	return nil
}
