package config_test

import (
	"net"
	"testing"

	"github.com/clearpath-fin/clearpath/pkg/domain/model/config"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func testTierConfig() *config.TierConfig {
	return &config.TierConfig{
		Tiers: []config.Tier{
			{
				ID:   types.TierFree,
				Name: "Free",
			},
			{
				ID:                types.TierID("plus"),
				Name:              "Plus",
				MonthlyPriceCents: 999,
				TrialDays:         14,
				Features:          []types.FeatureID{"risk-report", "budget-coach"},
			},
			{
				ID:                types.TierID("premium"),
				Name:              "Premium",
				MonthlyPriceCents: 2499,
				TrialDays:         14,
				Features:          []types.FeatureID{"risk-report", "budget-coach", "tax-optimizer"},
			},
		},
		Prompts: []config.Prompt{
			{
				ID:           types.PromptID("upgrade-tax"),
				Title:        "Optimize your taxes",
				Feature:      types.FeatureID("tax-optimizer"),
				Weight:       10,
				MinScore:     0.6,
				CooldownDays: 7,
			},
		},
	}
}

func TestTierConfig_Tier(t *testing.T) {
	cfg := testTierConfig()

	tier := cfg.Tier(types.TierID("plus"))
	gt.Value(t, tier).NotNil()
	gt.Value(t, tier.Name).Equal("Plus")
	gt.Value(t, tier.MonthlyPriceCents).Equal(999)

	gt.Value(t, cfg.Tier(types.TierID("enterprise"))).Nil()
}

func TestTierConfig_Prompt(t *testing.T) {
	cfg := testTierConfig()

	prompt := cfg.Prompt(types.PromptID("upgrade-tax"))
	gt.Value(t, prompt).NotNil()
	gt.Value(t, prompt.Feature).Equal(types.FeatureID("tax-optimizer"))
	gt.Value(t, prompt.Weight).Equal(10)

	gt.Value(t, cfg.Prompt(types.PromptID("missing"))).Nil()
}

func TestTier_HasFeature(t *testing.T) {
	cfg := testTierConfig()

	plus := cfg.Tier(types.TierID("plus"))
	gt.B(t, plus.HasFeature("risk-report")).True()
	gt.B(t, plus.HasFeature("tax-optimizer")).False()

	free := cfg.Tier(types.TierFree)
	gt.B(t, free.HasFeature("risk-report")).False()
}

func TestWebhookConfig_IsEventRegistered(t *testing.T) {
	cfg := &config.WebhookConfig{
		Events: []types.WebhookEventType{
			"checkout.session.completed",
			"customer.subscription.updated",
		},
	}

	gt.B(t, cfg.IsEventRegistered("checkout.session.completed")).True()
	gt.B(t, cfg.IsEventRegistered("invoice.payment_failed")).False()
}

func TestWebhookConfig_IsSourceAllowed(t *testing.T) {
	tests := []struct {
		name     string
		cidrs    []string
		ip       string
		expected bool
	}{
		{
			name:     "empty allowlist accepts any source",
			cidrs:    nil,
			ip:       "198.51.100.7",
			expected: true,
		},
		{
			name:     "IP within CIDR is allowed",
			cidrs:    []string{"203.0.113.0/24"},
			ip:       "203.0.113.42",
			expected: true,
		},
		{
			name:     "IP outside CIDR is rejected",
			cidrs:    []string{"203.0.113.0/24"},
			ip:       "198.51.100.7",
			expected: false,
		},
		{
			name:     "bare IP entry matches exactly",
			cidrs:    []string{"198.51.100.7"},
			ip:       "198.51.100.7",
			expected: true,
		},
		{
			name:     "second entry matches",
			cidrs:    []string{"203.0.113.0/24", "198.51.100.0/24"},
			ip:       "198.51.100.7",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.WebhookConfig{AllowedCIDRs: tt.cidrs}
			result := cfg.IsSourceAllowed(net.ParseIP(tt.ip))
			if result != tt.expected {
				t.Errorf("IsSourceAllowed(%s) = %v, want %v", tt.ip, result, tt.expected)
			}
		})
	}
}
