package types

import "fmt"

// WebhookEventType is the event name sent by the payment provider
// (e.g. "checkout.session.completed"). The set of handled events is
// declared in the webhook configuration, not here.
type WebhookEventType string

// String returns the string representation of the event type
func (e WebhookEventType) String() string {
	return string(e)
}

// DeliveryStatus represents the processing outcome of a webhook delivery
type DeliveryStatus string

const (
	DeliveryStatusReceived  DeliveryStatus = "RECEIVED"
	DeliveryStatusProcessed DeliveryStatus = "PROCESSED"
	DeliveryStatusIgnored   DeliveryStatus = "IGNORED"
	DeliveryStatusFailed    DeliveryStatus = "FAILED"
)

// AllDeliveryStatuses returns all valid delivery statuses
func AllDeliveryStatuses() []DeliveryStatus {
	return []DeliveryStatus{
		DeliveryStatusReceived,
		DeliveryStatusProcessed,
		DeliveryStatusIgnored,
		DeliveryStatusFailed,
	}
}

// IsValid checks if the delivery status is valid
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryStatusReceived,
		DeliveryStatusProcessed,
		DeliveryStatusIgnored,
		DeliveryStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the delivery status
func (s DeliveryStatus) String() string {
	return string(s)
}

// ParseDeliveryStatus parses a string into a DeliveryStatus
func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	status := DeliveryStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid delivery status: %s", s)
	}
	return status, nil
}
