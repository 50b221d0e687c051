package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound    = goerr.New("configuration file not found")
	ErrInvalidConfig     = goerr.New("invalid configuration")
	ErrDuplicateTierID   = goerr.New("duplicate tier ID")
	ErrDuplicatePromptID = goerr.New("duplicate prompt ID")
	ErrUnknownFeatureRef = goerr.New("prompt references a feature no tier grants")
	ErrMissingName       = goerr.New("name is required")
)
