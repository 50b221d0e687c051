package model

import (
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/types"
)

// WebhookDelivery is an audit record of a single webhook request from the
// payment provider. Payload is retained verbatim for replay and debugging.
type WebhookDelivery struct {
	ID          string // UUID assigned on receipt
	EventID     string // provider-assigned event ID
	EventType   types.WebhookEventType
	Status      types.DeliveryStatus
	Payload     string
	Note        string
	RemoteAddr  string
	ReceivedAt  time.Time
	ProcessedAt *time.Time
}
