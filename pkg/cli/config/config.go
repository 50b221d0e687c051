package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	domainConfig "github.com/clearpath-fin/clearpath/pkg/domain/model/config"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
)

// AppConfig represents the application configuration
type AppConfig struct {
	Tiers   []Tier   `toml:"tier"`
	Prompts []Prompt `toml:"prompt"`
	Webhook Webhook  `toml:"webhook"`
}

// Tier represents a subscription tier configuration
type Tier struct {
	ID                string   `toml:"id"`
	Name              string   `toml:"name"`
	MonthlyPriceCents int      `toml:"monthly_price_cents"`
	TrialDays         int      `toml:"trial_days"`
	Features          []string `toml:"features"`
}

// Validate checks if the Tier is valid
func (t *Tier) Validate() error {
	id := types.TierID(t.ID)
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid tier ID")
	}
	if t.Name == "" {
		return goerr.Wrap(ErrMissingName, "tier name is required", goerr.V("id", t.ID))
	}
	if t.MonthlyPriceCents < 0 {
		return goerr.New("tier price cannot be negative", goerr.V("id", t.ID), goerr.V("price", t.MonthlyPriceCents))
	}
	if t.TrialDays < 0 {
		return goerr.New("trial days cannot be negative", goerr.V("id", t.ID), goerr.V("trial_days", t.TrialDays))
	}
	for _, f := range t.Features {
		if err := types.FeatureID(f).Validate(); err != nil {
			return goerr.Wrap(err, "invalid feature ID", goerr.V("tier", t.ID))
		}
	}
	return nil
}

// Prompt represents an upgrade prompt configuration
type Prompt struct {
	ID           string  `toml:"id"`
	Title        string  `toml:"title"`
	Body         string  `toml:"body"`
	Feature      string  `toml:"feature"`
	Weight       int     `toml:"weight"`
	MinScore     float64 `toml:"min_score"`
	CooldownDays int     `toml:"cooldown_days"`
}

// Validate checks if the Prompt is valid
func (p *Prompt) Validate() error {
	id := types.PromptID(p.ID)
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid prompt ID")
	}
	if p.Title == "" {
		return goerr.Wrap(ErrMissingName, "prompt title is required", goerr.V("id", p.ID))
	}
	if err := types.FeatureID(p.Feature).Validate(); err != nil {
		return goerr.Wrap(err, "invalid prompt feature", goerr.V("id", p.ID))
	}
	if p.MinScore < 0 || p.MinScore > 1 {
		return goerr.New("prompt min_score must be within [0,1]", goerr.V("id", p.ID), goerr.V("min_score", p.MinScore))
	}
	if p.CooldownDays < 0 {
		return goerr.New("prompt cooldown cannot be negative", goerr.V("id", p.ID))
	}
	return nil
}

// Webhook represents the payment provider webhook configuration
type Webhook struct {
	EndpointURL   string   `toml:"endpoint_url"`
	SigningSecret string   `toml:"signing_secret"`
	MaxRetries    int      `toml:"max_retries"`
	ToleranceSec  int64    `toml:"tolerance_sec"`
	Events        []string `toml:"events"`
	AllowedCIDRs  []string `toml:"allowed_cidrs"`
}

// Validate checks if the Webhook is valid
func (w *Webhook) Validate() error {
	if w.MaxRetries < 0 {
		return goerr.New("webhook max_retries cannot be negative", goerr.V("max_retries", w.MaxRetries))
	}
	if w.ToleranceSec < 0 {
		return goerr.New("webhook tolerance cannot be negative", goerr.V("tolerance_sec", w.ToleranceSec))
	}
	for _, e := range w.Events {
		if e == "" {
			return goerr.New("webhook event name cannot be empty")
		}
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	tierIDs := make(map[string]bool)
	grantedFeatures := make(map[string]bool)
	for _, tier := range a.Tiers {
		if err := tier.Validate(); err != nil {
			return goerr.Wrap(err, "invalid tier")
		}
		if tierIDs[tier.ID] {
			return goerr.Wrap(ErrDuplicateTierID, "duplicate tier", goerr.V("id", tier.ID))
		}
		tierIDs[tier.ID] = true
		for _, f := range tier.Features {
			grantedFeatures[f] = true
		}
	}

	promptIDs := make(map[string]bool)
	for _, prompt := range a.Prompts {
		if err := prompt.Validate(); err != nil {
			return goerr.Wrap(err, "invalid prompt")
		}
		if promptIDs[prompt.ID] {
			return goerr.Wrap(ErrDuplicatePromptID, "duplicate prompt", goerr.V("id", prompt.ID))
		}
		promptIDs[prompt.ID] = true
		if !grantedFeatures[prompt.Feature] {
			return goerr.Wrap(ErrUnknownFeatureRef, "prompt upsells an ungranted feature",
				goerr.V("prompt", prompt.ID), goerr.V("feature", prompt.Feature))
		}
	}

	if err := a.Webhook.Validate(); err != nil {
		return goerr.Wrap(err, "invalid webhook configuration")
	}

	return nil
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file missing", goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V("path", path))
	}

	return &config, nil
}

// ToDomainTierConfig converts AppConfig to the domain tier configuration
func (a *AppConfig) ToDomainTierConfig() *domainConfig.TierConfig {
	tiers := make([]domainConfig.Tier, len(a.Tiers))
	for i, tier := range a.Tiers {
		features := make([]types.FeatureID, len(tier.Features))
		for j, f := range tier.Features {
			features[j] = types.FeatureID(f)
		}
		tiers[i] = domainConfig.Tier{
			ID:                types.TierID(tier.ID),
			Name:              tier.Name,
			MonthlyPriceCents: tier.MonthlyPriceCents,
			TrialDays:         tier.TrialDays,
			Features:          features,
		}
	}

	prompts := make([]domainConfig.Prompt, len(a.Prompts))
	for i, prompt := range a.Prompts {
		prompts[i] = domainConfig.Prompt{
			ID:           types.PromptID(prompt.ID),
			Title:        prompt.Title,
			Body:         prompt.Body,
			Feature:      types.FeatureID(prompt.Feature),
			Weight:       prompt.Weight,
			MinScore:     prompt.MinScore,
			CooldownDays: prompt.CooldownDays,
		}
	}

	return &domainConfig.TierConfig{
		Tiers:   tiers,
		Prompts: prompts,
	}
}

// ToWebhookConfig converts the webhook section to the domain configuration
func (a *AppConfig) ToWebhookConfig() *domainConfig.WebhookConfig {
	events := make([]types.WebhookEventType, len(a.Webhook.Events))
	for i, e := range a.Webhook.Events {
		events[i] = types.WebhookEventType(e)
	}
	return &domainConfig.WebhookConfig{
		EndpointURL:   a.Webhook.EndpointURL,
		SigningSecret: a.Webhook.SigningSecret,
		MaxRetries:    a.Webhook.MaxRetries,
		ToleranceSec:  a.Webhook.ToleranceSec,
		Events:        events,
		AllowedCIDRs:  a.Webhook.AllowedCIDRs,
	}
}
