package model

import (
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/types"
)

// Assessment captures one run of the financial-wellness scoring battery for
// an account. All component scores are normalized to [0,1].
type Assessment struct {
	ID               int64
	AccountID        int64
	JobAutomation    float64
	Spending         float64
	TaxEfficiency    float64
	IncomePercentile float64
	Overall          float64
	Grade            types.RiskGrade
	RecommendedTier  types.TierID
	CreatedAt        time.Time
}
