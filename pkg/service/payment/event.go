package payment

import (
	"encoding/json"

	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Event names used by the subscription lifecycle. The full subscribed set
// is declared in webhook configuration; these are the ones the backend
// reacts to.
const (
	EventCheckoutCompleted   types.WebhookEventType = "checkout.session.completed"
	EventSubscriptionUpdated types.WebhookEventType = "customer.subscription.updated"
	EventSubscriptionDeleted types.WebhookEventType = "customer.subscription.deleted"
	EventPaymentFailed       types.WebhookEventType = "invoice.payment_failed"
)

// Event is the envelope of a payment provider webhook payload
type Event struct {
	ID        string                 `json:"id"`
	Type      types.WebhookEventType `json:"type"`
	CreatedAt int64                  `json:"created"`
	Data      EventData              `json:"data"`
}

// EventData wraps the event's object payload
type EventData struct {
	Object json.RawMessage `json:"object"`
}

// CheckoutSession is the object of a checkout.session.completed event
type CheckoutSession struct {
	ID             string            `json:"id"`
	CustomerID     string            `json:"customer"`
	SubscriptionID string            `json:"subscription"`
	ClientRef      string            `json:"client_reference_id"` // account ID
	Metadata       map[string]string `json:"metadata"`
}

// SubscriptionObject is the object of customer.subscription.* events
type SubscriptionObject struct {
	ID               string            `json:"id"`
	CustomerID       string            `json:"customer"`
	Status           string            `json:"status"`
	CurrentPeriodEnd int64             `json:"current_period_end"`
	TrialEnd         int64             `json:"trial_end"`
	Metadata         map[string]string `json:"metadata"`
}

// InvoiceObject is the object of invoice.* events
type InvoiceObject struct {
	ID             string `json:"id"`
	CustomerID     string `json:"customer"`
	SubscriptionID string `json:"subscription"`
	AmountDueCents int64  `json:"amount_due"`
	AttemptCount   int    `json:"attempt_count"`
}

// ParseEvent decodes a webhook payload envelope
func ParseEvent(body []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, goerr.Wrap(err, "failed to decode webhook event")
	}
	if event.ID == "" {
		return nil, goerr.New("webhook event missing ID")
	}
	if event.Type == "" {
		return nil, goerr.New("webhook event missing type", goerr.V("event_id", event.ID))
	}
	return &event, nil
}

// CheckoutSession decodes the event object as a checkout session
func (e *Event) CheckoutSession() (*CheckoutSession, error) {
	var session CheckoutSession
	if err := json.Unmarshal(e.Data.Object, &session); err != nil {
		return nil, goerr.Wrap(err, "failed to decode checkout session", goerr.V("event_id", e.ID))
	}
	return &session, nil
}

// Subscription decodes the event object as a subscription
func (e *Event) Subscription() (*SubscriptionObject, error) {
	var sub SubscriptionObject
	if err := json.Unmarshal(e.Data.Object, &sub); err != nil {
		return nil, goerr.Wrap(err, "failed to decode subscription object", goerr.V("event_id", e.ID))
	}
	return &sub, nil
}

// Invoice decodes the event object as an invoice
func (e *Event) Invoice() (*InvoiceObject, error) {
	var invoice InvoiceObject
	if err := json.Unmarshal(e.Data.Object, &invoice); err != nil {
		return nil, goerr.Wrap(err, "failed to decode invoice object", goerr.V("event_id", e.ID))
	}
	return &invoice, nil
}
