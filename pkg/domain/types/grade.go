package types

import "fmt"

// RiskGrade buckets a normalized risk score into a reportable grade
type RiskGrade string

const (
	RiskGradeLow      RiskGrade = "LOW"
	RiskGradeModerate RiskGrade = "MODERATE"
	RiskGradeHigh     RiskGrade = "HIGH"
	RiskGradeCritical RiskGrade = "CRITICAL"
)

// AllRiskGrades returns all valid risk grades
func AllRiskGrades() []RiskGrade {
	return []RiskGrade{
		RiskGradeLow,
		RiskGradeModerate,
		RiskGradeHigh,
		RiskGradeCritical,
	}
}

// IsValid checks if the risk grade is valid
func (g RiskGrade) IsValid() bool {
	switch g {
	case RiskGradeLow,
		RiskGradeModerate,
		RiskGradeHigh,
		RiskGradeCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk grade
func (g RiskGrade) String() string {
	return string(g)
}

// ParseRiskGrade parses a string into a RiskGrade
func ParseRiskGrade(s string) (RiskGrade, error) {
	grade := RiskGrade(s)
	if !grade.IsValid() {
		return "", fmt.Errorf("invalid risk grade: %s", s)
	}
	return grade, nil
}

// GradeScore buckets a score in [0,1] into a RiskGrade. Bucket boundaries
// follow the product's reporting thresholds.
func GradeScore(score float64) RiskGrade {
	switch {
	case score >= 0.8:
		return RiskGradeCritical
	case score >= 0.6:
		return RiskGradeHigh
	case score >= 0.35:
		return RiskGradeModerate
	default:
		return RiskGradeLow
	}
}

// FilingStatus represents a tax filing status
type FilingStatus string

const (
	FilingSingle          FilingStatus = "single"
	FilingMarriedJoint    FilingStatus = "married-joint"
	FilingMarriedSeparate FilingStatus = "married-separate"
	FilingHeadOfHousehold FilingStatus = "head-of-household"
)

// AllFilingStatuses returns all valid filing statuses
func AllFilingStatuses() []FilingStatus {
	return []FilingStatus{
		FilingSingle,
		FilingMarriedJoint,
		FilingMarriedSeparate,
		FilingHeadOfHousehold,
	}
}

// IsValid checks if the filing status is valid
func (f FilingStatus) IsValid() bool {
	switch f {
	case FilingSingle,
		FilingMarriedJoint,
		FilingMarriedSeparate,
		FilingHeadOfHousehold:
		return true
	default:
		return false
	}
}

// String returns the string representation of the filing status
func (f FilingStatus) String() string {
	return string(f)
}
