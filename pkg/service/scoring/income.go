package scoring

import (
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// IncomeInput describes the comparison target
type IncomeInput struct {
	AnnualIncome float64
	Occupation   string
	Region       string
}

// IncomeResult is the outcome of an income comparison
type IncomeResult struct {
	Percentile float64 // position within the reference distribution, [0,1]
	Median     float64 // reference median income
}

// ReferencePoint is one point of an income distribution: the income at a
// given percentile.
type ReferencePoint struct {
	Percentile float64
	Income     float64
}

// Reference distributions keyed by "occupation/region". The "default"
// key is the national all-occupations distribution.
var defaultIncomeReference = map[string][]ReferencePoint{
	"default": {
		{0.10, 28000},
		{0.25, 41000},
		{0.50, 59000},
		{0.75, 89000},
		{0.90, 131000},
	},
	"software-engineering/default": {
		{0.10, 72000},
		{0.25, 95000},
		{0.50, 128000},
		{0.75, 168000},
		{0.90, 210000},
	},
	"nursing/default": {
		{0.10, 58000},
		{0.25, 68000},
		{0.50, 81000},
		{0.75, 97000},
		{0.90, 115000},
	},
	"teaching/default": {
		{0.10, 40000},
		{0.25, 48000},
		{0.50, 58000},
		{0.75, 70000},
		{0.90, 84000},
	},
}

// IncomeCalculator positions an income within a reference distribution
type IncomeCalculator struct {
	reference map[string][]ReferencePoint
}

// IncomeOption applies a configuration option to the calculator
type IncomeOption func(*IncomeCalculator)

// WithIncomeReference overrides the reference distribution table
func WithIncomeReference(table map[string][]ReferencePoint) IncomeOption {
	return func(c *IncomeCalculator) {
		if len(table) > 0 {
			c.reference = table
		}
	}
}

// NewIncomeCalculator creates a calculator with the default reference table
func NewIncomeCalculator(opts ...IncomeOption) *IncomeCalculator {
	c := &IncomeCalculator{
		reference: defaultIncomeReference,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// lookup resolves the most specific reference distribution available:
// occupation/region, then occupation/default, then default.
func (c *IncomeCalculator) lookup(occupation, region string) []ReferencePoint {
	occupation = strings.ToLower(strings.TrimSpace(occupation))
	region = strings.ToLower(strings.TrimSpace(region))

	if points, ok := c.reference[occupation+"/"+region]; ok {
		return points
	}
	if points, ok := c.reference[occupation+"/default"]; ok {
		return points
	}
	return c.reference["default"]
}

// Score computes the income percentile by linear interpolation between the
// reference points. Incomes below the lowest point map to its percentile,
// incomes above the highest to its percentile.
func (c *IncomeCalculator) Score(in IncomeInput) (*IncomeResult, error) {
	if in.AnnualIncome < 0 {
		return nil, goerr.New("annual income must not be negative",
			goerr.V("income", in.AnnualIncome))
	}

	points := c.lookup(in.Occupation, in.Region)
	if len(points) == 0 {
		return nil, goerr.New("no reference distribution available",
			goerr.V("occupation", in.Occupation), goerr.V("region", in.Region))
	}

	sorted := make([]ReferencePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Income < sorted[j].Income
	})

	median := interpolateIncome(sorted, 0.5)
	percentile := interpolatePercentile(sorted, in.AnnualIncome)

	return &IncomeResult{
		Percentile: clamp01(percentile),
		Median:     median,
	}, nil
}

func interpolatePercentile(points []ReferencePoint, income float64) float64 {
	if income <= points[0].Income {
		return points[0].Percentile
	}
	last := points[len(points)-1]
	if income >= last.Income {
		return last.Percentile
	}

	for i := 1; i < len(points); i++ {
		lo, hi := points[i-1], points[i]
		if income > hi.Income {
			continue
		}
		span := hi.Income - lo.Income
		if span == 0 {
			return hi.Percentile
		}
		frac := (income - lo.Income) / span
		return lo.Percentile + frac*(hi.Percentile-lo.Percentile)
	}

	return last.Percentile
}

// interpolateIncome is the inverse: the income at a given percentile,
// interpolated between the surrounding reference points.
func interpolateIncome(points []ReferencePoint, percentile float64) float64 {
	if percentile <= points[0].Percentile {
		return points[0].Income
	}
	last := points[len(points)-1]
	if percentile >= last.Percentile {
		return last.Income
	}

	for i := 1; i < len(points); i++ {
		lo, hi := points[i-1], points[i]
		if percentile > hi.Percentile {
			continue
		}
		span := hi.Percentile - lo.Percentile
		if span == 0 {
			return hi.Income
		}
		frac := (percentile - lo.Percentile) / span
		return lo.Income + frac*(hi.Income-lo.Income)
	}

	return last.Income
}
