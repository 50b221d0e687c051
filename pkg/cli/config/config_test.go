package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/clearpath-fin/clearpath/pkg/cli/config"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
)

func TestLoadAppConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name: "valid configuration with tiers, prompts and webhook",
			content: `
[[tier]]
id = "free"
name = "ClearPath Free"
monthly_price_cents = 0
trial_days = 0
features = []

[[tier]]
id = "plus"
name = "ClearPath Plus"
monthly_price_cents = 999
trial_days = 14
features = ["risk-report", "budget-coach"]

[[prompt]]
id = "upgrade-plus"
title = "Unlock your full risk report"
body = "See what is driving your score."
feature = "risk-report"
weight = 5
min_score = 0.0
cooldown_days = 30

[webhook]
endpoint_url = "https://app.example.com/hooks/payment"
signing_secret = "whsec_test"
max_retries = 3
tolerance_sec = 300
events = ["checkout.session.completed", "customer.subscription.updated"]
allowed_cidrs = ["203.0.113.0/24"]
`,
			wantErr: nil,
		},
		{
			name: "tiers only",
			content: `
[[tier]]
id = "free"
name = "Free"
`,
			wantErr: nil,
		},
		{
			name:    "config file not found",
			content: "", // Won't create the file
			wantErr: config.ErrConfigNotFound,
		},
		{
			name: "duplicate tier ID",
			content: `
[[tier]]
id = "plus"
name = "Plus"

[[tier]]
id = "plus"
name = "Duplicate"
`,
			wantErr: config.ErrDuplicateTierID,
		},
		{
			name: "missing tier name",
			content: `
[[tier]]
id = "plus"
`,
			wantErr: config.ErrMissingName,
		},
		{
			name: "duplicate prompt ID",
			content: `
[[tier]]
id = "plus"
name = "Plus"
features = ["risk-report"]

[[prompt]]
id = "upgrade-plus"
title = "Upgrade"
feature = "risk-report"

[[prompt]]
id = "upgrade-plus"
title = "Duplicate"
feature = "risk-report"
`,
			wantErr: config.ErrDuplicatePromptID,
		},
		{
			name: "prompt references ungranted feature",
			content: `
[[tier]]
id = "plus"
name = "Plus"
features = ["risk-report"]

[[prompt]]
id = "upgrade-tax"
title = "Upgrade"
feature = "tax-optimizer"
`,
			wantErr: config.ErrUnknownFeatureRef,
		},
		{
			name: "missing prompt title",
			content: `
[[tier]]
id = "plus"
name = "Plus"
features = ["risk-report"]

[[prompt]]
id = "upgrade-plus"
feature = "risk-report"
`,
			wantErr: config.ErrMissingName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.toml")

			// Only create file if content is not empty
			if tt.content != "" {
				err := os.WriteFile(configPath, []byte(tt.content), 0644)
				gt.NoError(t, err).Required()
			}

			cfg, err := config.LoadAppConfiguration(configPath)

			if tt.wantErr != nil {
				gt.Value(t, err).NotNil()
				if err != nil {
					gt.Error(t, err).Is(tt.wantErr)
				}
				return
			}

			gt.NoError(t, err)
			if err != nil {
				return
			}

			gt.Value(t, cfg).NotNil()
		})
	}
}

func TestLoadAppConfiguration_InvalidIdentifiers(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "uppercase tier ID",
			content: `
[[tier]]
id = "PlusTier"
name = "Plus"
`,
		},
		{
			name: "underscore tier ID",
			content: `
[[tier]]
id = "plus_tier"
name = "Plus"
`,
		},
		{
			name: "invalid feature ID",
			content: `
[[tier]]
id = "plus"
name = "Plus"
features = ["RiskReport"]
`,
		},
		{
			name: "negative tier price",
			content: `
[[tier]]
id = "plus"
name = "Plus"
monthly_price_cents = -100
`,
		},
		{
			name: "prompt min_score out of range",
			content: `
[[tier]]
id = "plus"
name = "Plus"
features = ["risk-report"]

[[prompt]]
id = "upgrade-plus"
title = "Upgrade"
feature = "risk-report"
min_score = 1.5
`,
		},
		{
			name: "negative webhook tolerance",
			content: `
[webhook]
tolerance_sec = -10
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.toml")
			err := os.WriteFile(configPath, []byte(tt.content), 0644)
			gt.NoError(t, err).Required()

			_, err = config.LoadAppConfiguration(configPath)
			gt.Value(t, err).NotNil()
		})
	}
}

func TestAppConfig_ToDomainTierConfig(t *testing.T) {
	content := `
[[tier]]
id = "plus"
name = "ClearPath Plus"
monthly_price_cents = 999
trial_days = 14
features = ["risk-report", "budget-coach"]

[[prompt]]
id = "upgrade-plus"
title = "Unlock your full risk report"
body = "See what is driving your score."
feature = "risk-report"
weight = 5
min_score = 0.6
cooldown_days = 7
`

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	err := os.WriteFile(configPath, []byte(content), 0644)
	gt.NoError(t, err).Required()

	cfg, err := config.LoadAppConfiguration(configPath)
	gt.NoError(t, err).Required()

	domain := cfg.ToDomainTierConfig()
	gt.Array(t, domain.Tiers).Length(1).Required()
	gt.Array(t, domain.Prompts).Length(1).Required()

	tier := domain.Tier(types.TierID("plus"))
	gt.Value(t, tier).NotNil().Required()
	gt.Value(t, tier.Name).Equal("ClearPath Plus")
	gt.Value(t, tier.MonthlyPriceCents).Equal(999)
	gt.Value(t, tier.TrialDays).Equal(14)
	gt.B(t, tier.HasFeature(types.FeatureID("risk-report"))).True()
	gt.B(t, tier.HasFeature(types.FeatureID("tax-optimizer"))).False()

	prompt := domain.Prompt(types.PromptID("upgrade-plus"))
	gt.Value(t, prompt).NotNil().Required()
	gt.Value(t, prompt.Feature).Equal(types.FeatureID("risk-report"))
	gt.Value(t, prompt.Weight).Equal(5)
	gt.Value(t, prompt.MinScore).Equal(0.6)
	gt.Value(t, prompt.CooldownDays).Equal(7)
}

func TestAppConfig_ToWebhookConfig(t *testing.T) {
	content := `
[webhook]
endpoint_url = "https://app.example.com/hooks/payment"
signing_secret = "whsec_test"
max_retries = 3
tolerance_sec = 300
events = ["checkout.session.completed", "invoice.payment_failed"]
allowed_cidrs = ["203.0.113.0/24", "198.51.100.7"]
`

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	err := os.WriteFile(configPath, []byte(content), 0644)
	gt.NoError(t, err).Required()

	cfg, err := config.LoadAppConfiguration(configPath)
	gt.NoError(t, err).Required()

	webhook := cfg.ToWebhookConfig()
	gt.Value(t, webhook.EndpointURL).Equal("https://app.example.com/hooks/payment")
	gt.Value(t, webhook.SigningSecret).Equal("whsec_test")
	gt.Value(t, webhook.MaxRetries).Equal(3)
	gt.Value(t, webhook.ToleranceSec).Equal(int64(300))
	gt.Array(t, webhook.Events).Length(2)
	gt.B(t, webhook.IsEventRegistered(types.WebhookEventType("checkout.session.completed"))).True()
	gt.B(t, webhook.IsEventRegistered(types.WebhookEventType("customer.subscription.deleted"))).False()
	gt.Array(t, webhook.AllowedCIDRs).Length(2)
}
