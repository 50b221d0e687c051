package model_test

import (
	"testing"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
)

func TestSubscription_EffectiveTier(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(7 * 24 * time.Hour)
	past := now.Add(-7 * 24 * time.Hour)

	tests := []struct {
		name     string
		sub      *model.Subscription
		expected types.TierID
	}{
		{
			name: "active subscription serves its tier",
			sub: &model.Subscription{
				TierID: types.TierID("premium"),
				Status: types.SubscriptionStatusActive,
			},
			expected: types.TierID("premium"),
		},
		{
			name: "trialing before trial end serves its tier",
			sub: &model.Subscription{
				TierID:      types.TierID("plus"),
				Status:      types.SubscriptionStatusTrialing,
				TrialEndsAt: &future,
			},
			expected: types.TierID("plus"),
		},
		{
			name: "trialing after trial end falls back to free",
			sub: &model.Subscription{
				TierID:      types.TierID("plus"),
				Status:      types.SubscriptionStatusTrialing,
				TrialEndsAt: &past,
			},
			expected: types.TierFree,
		},
		{
			name: "trialing with no trial end serves its tier",
			sub: &model.Subscription{
				TierID: types.TierID("plus"),
				Status: types.SubscriptionStatusTrialing,
			},
			expected: types.TierID("plus"),
		},
		{
			name: "past due falls back to free",
			sub: &model.Subscription{
				TierID: types.TierID("premium"),
				Status: types.SubscriptionStatusPastDue,
			},
			expected: types.TierFree,
		},
		{
			name: "canceled falls back to free",
			sub: &model.Subscription{
				TierID: types.TierID("premium"),
				Status: types.SubscriptionStatusCanceled,
			},
			expected: types.TierFree,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.sub.EffectiveTier(now)
			if result != tt.expected {
				t.Errorf("EffectiveTier() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSubscription_TrialExpired(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name     string
		sub      *model.Subscription
		expected bool
	}{
		{
			name: "trialing with past end is expired",
			sub: &model.Subscription{
				Status:      types.SubscriptionStatusTrialing,
				TrialEndsAt: &past,
			},
			expected: true,
		},
		{
			name: "trialing with future end is not expired",
			sub: &model.Subscription{
				Status:      types.SubscriptionStatusTrialing,
				TrialEndsAt: &future,
			},
			expected: false,
		},
		{
			name: "trialing with no end is not expired",
			sub: &model.Subscription{
				Status: types.SubscriptionStatusTrialing,
			},
			expected: false,
		},
		{
			name: "active subscription is never trial-expired",
			sub: &model.Subscription{
				Status:      types.SubscriptionStatusActive,
				TrialEndsAt: &past,
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.sub.TrialExpired(now)
			if result != tt.expected {
				t.Errorf("TrialExpired() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestTrialReminder_Sent(t *testing.T) {
	unsent := &model.TrialReminder{}
	if unsent.Sent() {
		t.Error("reminder without SentAt should not be sent")
	}

	now := time.Now().UTC()
	sent := &model.TrialReminder{SentAt: &now}
	if !sent.Sent() {
		t.Error("reminder with SentAt should be sent")
	}
}
