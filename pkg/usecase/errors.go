package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case failures
var (
	ErrUnknownTier     = goerr.New("unknown tier")
	ErrUnknownFeature  = goerr.New("unknown feature")
	ErrTrialNotAllowed = goerr.New("trial not allowed")
	ErrNoAssessment    = goerr.New("no assessment available")
)
