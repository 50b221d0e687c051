package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// TierID represents a unique identifier for a subscription tier
type TierID string

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// TierFree is the fallback tier for accounts without a paid subscription
const TierFree TierID = "free"

// Validate checks if the TierID is valid
func (t TierID) Validate() error {
	if t == "" {
		return goerr.New("tier ID cannot be empty")
	}
	if !idPattern.MatchString(string(t)) {
		return goerr.New("tier ID must be lowercase alphanumeric with hyphens", goerr.V("id", t))
	}
	return nil
}

// String returns the string representation of TierID
func (t TierID) String() string {
	return string(t)
}

// SubscriptionStatus represents the lifecycle state of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "ACTIVE"
	SubscriptionStatusTrialing SubscriptionStatus = "TRIALING"
	SubscriptionStatusPastDue  SubscriptionStatus = "PAST_DUE"
	SubscriptionStatusCanceled SubscriptionStatus = "CANCELED"
)

// AllSubscriptionStatuses returns all valid subscription statuses
func AllSubscriptionStatuses() []SubscriptionStatus {
	return []SubscriptionStatus{
		SubscriptionStatusActive,
		SubscriptionStatusTrialing,
		SubscriptionStatusPastDue,
		SubscriptionStatusCanceled,
	}
}

// IsValid checks if the subscription status is valid
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusActive,
		SubscriptionStatusTrialing,
		SubscriptionStatusPastDue,
		SubscriptionStatusCanceled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the subscription status
func (s SubscriptionStatus) String() string {
	return string(s)
}

// ParseSubscriptionStatus converts a payment provider status string to a
// SubscriptionStatus. Provider statuses are lowercase.
func ParseSubscriptionStatus(s string) (SubscriptionStatus, error) {
	switch s {
	case "active":
		return SubscriptionStatusActive, nil
	case "trialing":
		return SubscriptionStatusTrialing, nil
	case "past_due", "unpaid":
		return SubscriptionStatusPastDue, nil
	case "canceled", "incomplete_expired":
		return SubscriptionStatusCanceled, nil
	default:
		return "", goerr.New("unknown subscription status", goerr.V("status", s))
	}
}
