package scoring

import (
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// SpendingInput describes relationship-related monthly spending for an account
type SpendingInput struct {
	MonthlyIncome   float64
	CategorySpend   map[string]float64 // category -> monthly spend
	JointAccounts   bool
	DisclosesBudget bool
}

// SpendingResult is the outcome of a relationship spending risk calculation
type SpendingResult struct {
	Score          float64
	Grade          types.RiskGrade
	CategoryShares map[string]float64 // category -> weighted share of income
}

// Category weights: how strongly an income share in each category drives the
// risk score.
var defaultCategoryWeight = map[string]float64{
	"dining":        1.0,
	"gifts":         1.4,
	"entertainment": 0.9,
	"travel":        0.8,
	"shopping":      1.1,
	"subscriptions": 0.6,
}

const (
	defaultSpendWeight = 1.0

	jointAccountsDelta = -0.10
	noDisclosureDelta  = 0.15
)

// SpendingCalculator computes relationship spending risk
type SpendingCalculator struct {
	categoryWeight map[string]float64
	defaultWeight  float64
}

// SpendingOption applies a configuration option to the calculator
type SpendingOption func(*SpendingCalculator)

// WithCategoryWeight overrides the spending category weight table
func WithCategoryWeight(table map[string]float64) SpendingOption {
	return func(c *SpendingCalculator) {
		if len(table) > 0 {
			c.categoryWeight = table
		}
	}
}

// NewSpendingCalculator creates a calculator with the default weights
func NewSpendingCalculator(opts ...SpendingOption) *SpendingCalculator {
	c := &SpendingCalculator{
		categoryWeight: defaultCategoryWeight,
		defaultWeight:  defaultSpendWeight,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Score computes the spending risk score for the given profile
func (c *SpendingCalculator) Score(in SpendingInput) (*SpendingResult, error) {
	if in.MonthlyIncome <= 0 {
		return nil, goerr.New("monthly income must be positive",
			goerr.V("income", in.MonthlyIncome))
	}
	for category, spend := range in.CategorySpend {
		if spend < 0 {
			return nil, goerr.New("category spend must not be negative",
				goerr.V("category", category), goerr.V("spend", spend))
		}
	}

	shares := make(map[string]float64, len(in.CategorySpend))
	var total float64
	for category, spend := range in.CategorySpend {
		weight, ok := c.categoryWeight[category]
		if !ok {
			weight = c.defaultWeight
		}
		share := (spend / in.MonthlyIncome) * weight
		shares[category] = share
		total += share
	}

	if in.JointAccounts {
		total += jointAccountsDelta
	}
	if !in.DisclosesBudget {
		total += noDisclosureDelta
	}

	score := clamp01(total)

	return &SpendingResult{
		Score:          score,
		Grade:          types.GradeScore(score),
		CategoryShares: shares,
	}, nil
}
