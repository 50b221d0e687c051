package config

import "github.com/clearpath-fin/clearpath/pkg/domain/types"

// Tier represents a subscription tier configuration
type Tier struct {
	ID                types.TierID
	Name              string
	MonthlyPriceCents int
	TrialDays         int
	Features          []types.FeatureID
}

// HasFeature reports whether the tier grants access to the feature
func (t *Tier) HasFeature(id types.FeatureID) bool {
	for _, f := range t.Features {
		if f == id {
			return true
		}
	}
	return false
}

// Prompt represents an upgrade prompt configuration
type Prompt struct {
	ID           types.PromptID
	Title        string
	Body         string
	Feature      types.FeatureID // feature the prompt upsells
	Weight       int             // higher weight wins among eligible prompts
	MinScore     float64         // minimum overall assessment score to be eligible
	CooldownDays int
}

// TierConfig holds all tier and upsell configuration
type TierConfig struct {
	Tiers   []Tier
	Prompts []Prompt
}

// Tier returns the tier definition for the given ID, or nil if unknown
func (c *TierConfig) Tier(id types.TierID) *Tier {
	for i := range c.Tiers {
		if c.Tiers[i].ID == id {
			return &c.Tiers[i]
		}
	}
	return nil
}

// TierWithFeature returns the cheapest tier granting the feature, or nil
// if no tier offers it
func (c *TierConfig) TierWithFeature(id types.FeatureID) *Tier {
	var best *Tier
	for i := range c.Tiers {
		tier := &c.Tiers[i]
		if !tier.HasFeature(id) {
			continue
		}
		if best == nil || tier.MonthlyPriceCents < best.MonthlyPriceCents {
			best = tier
		}
	}
	return best
}

// Prompt returns the prompt definition for the given ID, or nil if unknown
func (c *TierConfig) Prompt(id types.PromptID) *Prompt {
	for i := range c.Prompts {
		if c.Prompts[i].ID == id {
			return &c.Prompts[i]
		}
	}
	return nil
}
