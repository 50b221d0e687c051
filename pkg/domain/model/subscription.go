package model

import (
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/types"
)

// Subscription represents an account's subscription state, synced from the
// payment provider via webhooks.
type Subscription struct {
	ID                     int64
	AccountID              int64
	TierID                 types.TierID
	Status                 types.SubscriptionStatus
	TrialEndsAt            *time.Time
	CurrentPeriodEnd       time.Time
	ProviderCustomerID     string
	ProviderSubscriptionID string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// EffectiveTier returns the tier the account should be served at the given
// time. Expired trials and canceled subscriptions fall back to the free tier.
func (s *Subscription) EffectiveTier(now time.Time) types.TierID {
	switch s.Status {
	case types.SubscriptionStatusActive:
		return s.TierID
	case types.SubscriptionStatusTrialing:
		if s.TrialEndsAt != nil && now.After(*s.TrialEndsAt) {
			return types.TierFree
		}
		return s.TierID
	default:
		return types.TierFree
	}
}

// TrialExpired reports whether a trialing subscription's trial has ended
func (s *Subscription) TrialExpired(now time.Time) bool {
	return s.Status == types.SubscriptionStatusTrialing &&
		s.TrialEndsAt != nil && now.After(*s.TrialEndsAt)
}
