package scoring

import (
	"strings"

	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// JobRiskInput describes an account's employment profile
type JobRiskInput struct {
	Occupation      string
	YearsExperience int
	Education       string // high-school, associate, bachelor, master, doctorate
}

// JobRiskResult is the outcome of a job automation risk calculation
type JobRiskResult struct {
	Occupation string
	BaseRisk   float64
	Score      float64
	Grade      types.RiskGrade
}

// Occupation base automation risk table. Occupations not listed fall back
// to defaultBaseRisk.
var defaultOccupationRisk = map[string]float64{
	"data-entry":           0.95,
	"telemarketing":        0.95,
	"accounting":           0.85,
	"retail":               0.80,
	"driver":               0.85,
	"food-service":         0.75,
	"customer-support":     0.70,
	"paralegal":            0.65,
	"finance":              0.55,
	"marketing":            0.45,
	"legal":                0.40,
	"software-engineering": 0.30,
	"management":           0.25,
	"teaching":             0.20,
	"healthcare":           0.15,
	"nursing":              0.10,
}

var defaultEducationModifier = map[string]float64{
	"high-school": 0.05,
	"associate":   0.00,
	"bachelor":    -0.05,
	"master":      -0.10,
	"doctorate":   -0.15,
}

const (
	defaultBaseRisk = 0.5

	// each year of experience shaves a little risk, bounded
	experienceStep     = 0.005
	maxExperienceDelta = 0.15
)

// JobRiskCalculator computes job automation risk from lookup tables
type JobRiskCalculator struct {
	occupationRisk    map[string]float64
	educationModifier map[string]float64
	defaultRisk       float64
}

// JobRiskOption applies a configuration option to the calculator
type JobRiskOption func(*JobRiskCalculator)

// WithOccupationRisk overrides the occupation base risk table
func WithOccupationRisk(table map[string]float64) JobRiskOption {
	return func(c *JobRiskCalculator) {
		if len(table) > 0 {
			c.occupationRisk = table
		}
	}
}

// WithEducationModifier overrides the education modifier table
func WithEducationModifier(table map[string]float64) JobRiskOption {
	return func(c *JobRiskCalculator) {
		if len(table) > 0 {
			c.educationModifier = table
		}
	}
}

// NewJobRiskCalculator creates a calculator with the default tables
func NewJobRiskCalculator(opts ...JobRiskOption) *JobRiskCalculator {
	c := &JobRiskCalculator{
		occupationRisk:    defaultOccupationRisk,
		educationModifier: defaultEducationModifier,
		defaultRisk:       defaultBaseRisk,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Score computes the automation risk score for the given profile
func (c *JobRiskCalculator) Score(in JobRiskInput) (*JobRiskResult, error) {
	if in.Occupation == "" {
		return nil, goerr.New("occupation is required")
	}
	if in.YearsExperience < 0 {
		return nil, goerr.New("years of experience must not be negative",
			goerr.V("years", in.YearsExperience))
	}

	occupation := strings.ToLower(strings.TrimSpace(in.Occupation))
	base, ok := c.occupationRisk[occupation]
	if !ok {
		base = c.defaultRisk
	}

	experienceDelta := float64(in.YearsExperience) * experienceStep
	if experienceDelta > maxExperienceDelta {
		experienceDelta = maxExperienceDelta
	}

	educationDelta := c.educationModifier[strings.ToLower(strings.TrimSpace(in.Education))]

	score := clamp01(base - experienceDelta + educationDelta)

	return &JobRiskResult{
		Occupation: occupation,
		BaseRisk:   base,
		Score:      score,
		Grade:      types.GradeScore(score),
	}, nil
}
