package mailer_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/clearpath-fin/clearpath/pkg/service/mailer"
)

func TestRenderTrialReminder(t *testing.T) {
	t.Run("mid-trial reminder names days left", func(t *testing.T) {
		body, err := mailer.RenderTrialReminder(mailer.TrialReminderData{
			Name:      "Dana",
			TierName:  "ClearPath Plus",
			DaysLeft:  11,
			PriceText: "$9.99/month",
		})
		gt.NoError(t, err).Required()
		gt.B(t, strings.Contains(body, "Hi Dana,")).True()
		gt.B(t, strings.Contains(body, "11 days left")).True()
		gt.B(t, strings.Contains(body, "ClearPath Plus")).True()
	})

	t.Run("last day switches to the urgency wording", func(t *testing.T) {
		body, err := mailer.RenderTrialReminder(mailer.TrialReminderData{
			Name:      "Dana",
			TierName:  "ClearPath Plus",
			DaysLeft:  1,
			PriceText: "$9.99/month",
		})
		gt.NoError(t, err).Required()
		gt.B(t, strings.Contains(body, "ends today")).True()
		gt.B(t, strings.Contains(body, "$9.99/month")).True()
		gt.B(t, strings.Contains(body, "days left")).False()
	})
}

func TestRenderUpgradeNudge(t *testing.T) {
	body, err := mailer.RenderUpgradeNudge(mailer.UpgradeNudgeData{
		Name:        "Erin",
		FeatureName: "Tax Optimizer",
		TierName:    "ClearPath Premium",
	})
	gt.NoError(t, err).Required()
	gt.B(t, strings.Contains(body, "Tax Optimizer")).True()
	gt.B(t, strings.Contains(body, "ClearPath Premium")).True()
}

func TestRenderAssessmentSummary(t *testing.T) {
	body, err := mailer.RenderAssessmentSummary(mailer.AssessmentSummaryData{
		Name:             "Frank",
		Grade:            "HIGH",
		Overall:          0.72,
		JobAutomation:    0.95,
		Spending:         0.4,
		TaxEfficiency:    0.65,
		IncomePercentile: 0.3,
	})
	gt.NoError(t, err).Required()
	gt.B(t, strings.Contains(body, "Overall grade: HIGH.")).True()
	gt.B(t, strings.Contains(body, "95%")).True()
	gt.B(t, strings.Contains(body, "40%")).True()
	gt.B(t, strings.Contains(body, "30%")).True()
}
