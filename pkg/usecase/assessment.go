package usecase

import (
	"context"

	"github.com/clearpath-fin/clearpath/pkg/domain/interfaces"
	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/clearpath-fin/clearpath/pkg/domain/model/config"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/clearpath-fin/clearpath/pkg/service/scoring"
	"github.com/m-mizutani/goerr/v2"
)

// Overall score weights. Tax efficiency and income percentile are inverted:
// they measure strength, the overall score measures risk.
const (
	jobWeight      = 0.35
	spendingWeight = 0.30
	taxWeight      = 0.20
	incomeWeight   = 0.15
)

// Tier recommendation thresholds over the overall risk score
const (
	premiumThreshold = 0.65
	plusThreshold    = 0.35
)

// AssessmentInput collects the inputs of all four calculators
type AssessmentInput struct {
	JobRisk  scoring.JobRiskInput
	Spending scoring.SpendingInput
	Tax      scoring.TaxInput
	Income   scoring.IncomeInput
}

type AssessmentUseCase struct {
	repo       interfaces.Repository
	tierConfig *config.TierConfig
	jobRisk    *scoring.JobRiskCalculator
	spending   *scoring.SpendingCalculator
	tax        *scoring.TaxCalculator
	income     *scoring.IncomeCalculator
}

func NewAssessmentUseCase(repo interfaces.Repository, cfg *config.TierConfig, jobRisk *scoring.JobRiskCalculator, spending *scoring.SpendingCalculator, tax *scoring.TaxCalculator, income *scoring.IncomeCalculator) *AssessmentUseCase {
	return &AssessmentUseCase{
		repo:       repo,
		tierConfig: cfg,
		jobRisk:    jobRisk,
		spending:   spending,
		tax:        tax,
		income:     income,
	}
}

// Run executes the full scoring battery for an account and persists the
// resulting assessment.
func (uc *AssessmentUseCase) Run(ctx context.Context, accountID int64, in AssessmentInput) (*model.Assessment, error) {
	if _, err := uc.repo.Account().Get(ctx, accountID); err != nil {
		return nil, goerr.Wrap(err, "account not found", goerr.V("account_id", accountID))
	}

	jobResult, err := uc.jobRisk.Score(in.JobRisk)
	if err != nil {
		return nil, goerr.Wrap(err, "job risk scoring failed", goerr.V("account_id", accountID))
	}

	spendingResult, err := uc.spending.Score(in.Spending)
	if err != nil {
		return nil, goerr.Wrap(err, "spending scoring failed", goerr.V("account_id", accountID))
	}

	taxResult, err := uc.tax.Score(in.Tax)
	if err != nil {
		return nil, goerr.Wrap(err, "tax scoring failed", goerr.V("account_id", accountID))
	}

	incomeResult, err := uc.income.Score(in.Income)
	if err != nil {
		return nil, goerr.Wrap(err, "income comparison failed", goerr.V("account_id", accountID))
	}

	overall := jobResult.Score*jobWeight +
		spendingResult.Score*spendingWeight +
		(1-taxResult.Score)*taxWeight +
		(1-incomeResult.Percentile)*incomeWeight

	assessment := &model.Assessment{
		AccountID:        accountID,
		JobAutomation:    jobResult.Score,
		Spending:         spendingResult.Score,
		TaxEfficiency:    taxResult.Score,
		IncomePercentile: incomeResult.Percentile,
		Overall:          overall,
		Grade:            types.GradeScore(overall),
		RecommendedTier:  uc.recommendTier(overall),
	}

	created, err := uc.repo.Assessment().Create(ctx, assessment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save assessment", goerr.V("account_id", accountID))
	}

	return created, nil
}

// recommendTier buckets the overall score into a tier recommendation.
// Higher-risk accounts are steered to richer plans; recommendations only
// name tiers that exist in the configuration.
func (uc *AssessmentUseCase) recommendTier(overall float64) types.TierID {
	candidates := []struct {
		threshold float64
		tier      types.TierID
	}{
		{premiumThreshold, types.TierID("premium")},
		{plusThreshold, types.TierID("plus")},
	}

	for _, c := range candidates {
		if overall >= c.threshold && uc.tierConfig.Tier(c.tier) != nil {
			return c.tier
		}
	}

	return types.TierFree
}

// Latest returns the most recent assessment for an account
func (uc *AssessmentUseCase) Latest(ctx context.Context, accountID int64) (*model.Assessment, error) {
	assessment, err := uc.repo.Assessment().Latest(ctx, accountID)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNoAssessment, "account has no assessment", goerr.V("account_id", accountID))
		}
		return nil, goerr.Wrap(err, "failed to get latest assessment", goerr.V("account_id", accountID))
	}
	return assessment, nil
}

// History returns all assessments for an account, newest first
func (uc *AssessmentUseCase) History(ctx context.Context, accountID int64) ([]*model.Assessment, error) {
	assessments, err := uc.repo.Assessment().ListByAccount(ctx, accountID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments", goerr.V("account_id", accountID))
	}
	return assessments, nil
}
