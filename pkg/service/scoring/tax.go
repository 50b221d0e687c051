package scoring

import (
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// TaxInput describes an account's tax situation for one year
type TaxInput struct {
	Filing                 types.FilingStatus
	GrossIncome            float64
	RetirementContribution float64
	DeductionsClaimed      float64 // 0 means standard deduction
}

// TaxResult is the outcome of a tax efficiency calculation. Higher scores
// mean more of the available optimizations are being used.
type TaxResult struct {
	Score                   float64
	ContributionUtilization float64
	DeductionUtilization    float64
	MarginalRate            float64
}

// Standard deduction per filing status
var defaultStandardDeduction = map[types.FilingStatus]float64{
	types.FilingSingle:          14600,
	types.FilingMarriedJoint:    29200,
	types.FilingMarriedSeparate: 14600,
	types.FilingHeadOfHousehold: 21900,
}

// bracket is one row of the marginal rate table
type bracket struct {
	Threshold float64
	Rate      float64
}

// Simplified single-filer bracket table; used for all statuses since the
// score only needs the marginal rate, not a full liability calculation.
var defaultBrackets = []bracket{
	{0, 0.10},
	{11600, 0.12},
	{47150, 0.22},
	{100525, 0.24},
	{191950, 0.32},
	{243725, 0.35},
	{609350, 0.37},
}

const (
	defaultContributionLimit = 23000

	// full deduction utilization is reached at this multiple of the
	// filing status standard deduction
	deductionTarget = 1.5

	contributionWeight = 0.5
	deductionWeight    = 0.3
	bracketWeight      = 0.2
)

// TaxCalculator computes a tax efficiency score
type TaxCalculator struct {
	standardDeduction map[types.FilingStatus]float64
	brackets          []bracket
	contributionLimit float64
}

// TaxOption applies a configuration option to the calculator
type TaxOption func(*TaxCalculator)

// WithContributionLimit overrides the annual retirement contribution limit
func WithContributionLimit(limit float64) TaxOption {
	return func(c *TaxCalculator) {
		if limit > 0 {
			c.contributionLimit = limit
		}
	}
}

// NewTaxCalculator creates a calculator with the default tables
func NewTaxCalculator(opts ...TaxOption) *TaxCalculator {
	c := &TaxCalculator{
		standardDeduction: defaultStandardDeduction,
		brackets:          defaultBrackets,
		contributionLimit: defaultContributionLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MarginalRate returns the marginal tax rate for the given income
func (c *TaxCalculator) MarginalRate(income float64) float64 {
	rate := c.brackets[0].Rate
	for _, b := range c.brackets {
		if income >= b.Threshold {
			rate = b.Rate
		}
	}
	return rate
}

// Score computes the tax efficiency score for the given situation
func (c *TaxCalculator) Score(in TaxInput) (*TaxResult, error) {
	if !in.Filing.IsValid() {
		return nil, goerr.New("invalid filing status", goerr.V("filing", in.Filing))
	}
	if in.GrossIncome < 0 {
		return nil, goerr.New("gross income must not be negative",
			goerr.V("income", in.GrossIncome))
	}
	if in.RetirementContribution < 0 {
		return nil, goerr.New("retirement contribution must not be negative",
			goerr.V("contribution", in.RetirementContribution))
	}

	contribution := clamp01(in.RetirementContribution / c.contributionLimit)

	standard := c.standardDeduction[in.Filing]
	effective := in.DeductionsClaimed
	if effective < standard {
		effective = standard
	}
	// the standard deduction is the baseline; itemizing above it earns
	// extra credit up to deductionTarget times the standard amount
	deduction := clamp01(effective / (standard * deductionTarget))

	rate := c.MarginalRate(in.GrossIncome)
	// the higher the marginal rate, the more a sheltered dollar is worth;
	// weight utilization by how much is at stake
	topRate := c.brackets[len(c.brackets)-1].Rate
	stake := rate / topRate

	score := clamp01(
		contribution*contributionWeight +
			deduction*deductionWeight +
			(1-stake)*bracketWeight,
	)

	return &TaxResult{
		Score:                   score,
		ContributionUtilization: contribution,
		DeductionUtilization:    deduction,
		MarginalRate:            rate,
	}, nil
}
