package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// FeatureID represents a unique identifier for a gated product feature
type FeatureID string

// Validate checks if the FeatureID is valid
func (f FeatureID) Validate() error {
	if f == "" {
		return goerr.New("feature ID cannot be empty")
	}
	if !idPattern.MatchString(string(f)) {
		return goerr.New("feature ID must be lowercase alphanumeric with hyphens", goerr.V("id", f))
	}
	return nil
}

// String returns the string representation of FeatureID
func (f FeatureID) String() string {
	return string(f)
}

// DisplayName renders the feature ID as a human readable name,
// e.g. "tax-optimizer" becomes "Tax Optimizer"
func (f FeatureID) DisplayName() string {
	words := strings.Split(string(f), "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// PromptID represents a unique identifier for an upgrade prompt
type PromptID string

// Validate checks if the PromptID is valid
func (p PromptID) Validate() error {
	if p == "" {
		return goerr.New("prompt ID cannot be empty")
	}
	if !idPattern.MatchString(string(p)) {
		return goerr.New("prompt ID must be lowercase alphanumeric with hyphens", goerr.V("id", p))
	}
	return nil
}

// String returns the string representation of PromptID
func (p PromptID) String() string {
	return string(p)
}
