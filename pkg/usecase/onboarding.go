package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/interfaces"
	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/clearpath-fin/clearpath/pkg/domain/model/config"
	"github.com/clearpath-fin/clearpath/pkg/service/mailer"
	"github.com/clearpath-fin/clearpath/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

type OnboardingUseCase struct {
	repo         interfaces.Repository
	tierConfig   *config.TierConfig
	subscription *SubscriptionUseCase
	mail         mailer.Mailer
}

func NewOnboardingUseCase(repo interfaces.Repository, cfg *config.TierConfig, subscription *SubscriptionUseCase, mail mailer.Mailer) *OnboardingUseCase {
	return &OnboardingUseCase{
		repo:         repo,
		tierConfig:   cfg,
		subscription: subscription,
		mail:         mail,
	}
}

// NextPrompt selects the upgrade prompt to show the account, or nil when
// no prompt is eligible. Selection rules:
//   - the prompt's feature must not already be accessible at the effective tier
//   - the account's latest overall assessment score must meet the prompt's
//     minimum (prompts with MinScore 0 need no assessment)
//   - the prompt must be outside its cooldown window
//
// Among eligible prompts the highest weight wins. The returned prompt's
// impression is recorded.
func (uc *OnboardingUseCase) NextPrompt(ctx context.Context, accountID int64) (*config.Prompt, error) {
	var overall float64
	var hasAssessment bool
	if assessment, err := uc.repo.Assessment().Latest(ctx, accountID); err == nil {
		overall = assessment.Overall
		hasAssessment = true
	} else if !isNotFound(err) {
		return nil, goerr.Wrap(err, "failed to get latest assessment", goerr.V("account_id", accountID))
	}

	now := time.Now().UTC()
	var best *config.Prompt
	for i := range uc.tierConfig.Prompts {
		prompt := &uc.tierConfig.Prompts[i]

		accessible, err := uc.subscription.CanAccess(ctx, accountID, prompt.Feature)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to check feature access",
				goerr.V("account_id", accountID), goerr.V("prompt", prompt.ID))
		}
		if accessible {
			continue
		}

		if prompt.MinScore > 0 && (!hasAssessment || overall < prompt.MinScore) {
			continue
		}

		if prompt.CooldownDays > 0 {
			last, err := uc.repo.PromptImpression().LastShown(ctx, accountID, prompt.ID)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to check prompt cooldown",
					goerr.V("account_id", accountID), goerr.V("prompt", prompt.ID))
			}
			if last != nil && now.Sub(last.ShownAt) < time.Duration(prompt.CooldownDays)*24*time.Hour {
				continue
			}
		}

		if best == nil || prompt.Weight > best.Weight {
			best = prompt
		}
	}

	if best == nil {
		return nil, nil
	}

	if _, err := uc.repo.PromptImpression().Create(ctx, &model.PromptImpression{
		AccountID: accountID,
		PromptID:  best.ID,
		ShownAt:   now,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to record prompt impression",
			goerr.V("account_id", accountID), goerr.V("prompt", best.ID))
	}

	return best, nil
}

// SendUpgradeNudge emails the account about the feature a prompt upsells,
// naming the cheapest tier that would unlock it.
func (uc *OnboardingUseCase) SendUpgradeNudge(ctx context.Context, accountID int64, prompt *config.Prompt) error {
	account, err := uc.repo.Account().Get(ctx, accountID)
	if err != nil {
		return goerr.Wrap(err, "account not found", goerr.V("account_id", accountID))
	}

	tier := uc.tierConfig.TierWithFeature(prompt.Feature)
	if tier == nil {
		return goerr.Wrap(ErrUnknownFeature, "no tier offers the prompted feature",
			goerr.V("feature", prompt.Feature))
	}

	body, err := mailer.RenderUpgradeNudge(mailer.UpgradeNudgeData{
		Name:        account.Name,
		FeatureName: prompt.Feature.DisplayName(),
		TierName:    tier.Name,
	})
	if err != nil {
		return err
	}

	if err := uc.mail.Send(ctx, &mailer.Message{
		To:      account.Email,
		Subject: fmt.Sprintf("Unlock more with %s", tier.Name),
		Body:    body,
	}); err != nil {
		return goerr.Wrap(err, "failed to send upgrade nudge", goerr.V("to", account.Email))
	}

	return nil
}

// SendDueReminders delivers all due trial reminder emails. Failures on
// individual reminders are logged and skipped so one bad address does not
// block the batch.
func (uc *OnboardingUseCase) SendDueReminders(ctx context.Context, now time.Time) (int, error) {
	due, err := uc.repo.TrialReminder().ListDue(ctx, now)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list due reminders")
	}

	sent := 0
	for _, reminder := range due {
		if err := uc.sendReminder(ctx, reminder, now); err != nil {
			errutil.Handle(ctx, goerr.Wrap(err, "trial reminder delivery failed",
				goerr.V("reminder_id", reminder.ID),
				goerr.V("account_id", reminder.AccountID),
			), "failed to send trial reminder")
			continue
		}
		sent++
	}

	return sent, nil
}

func (uc *OnboardingUseCase) sendReminder(ctx context.Context, reminder *model.TrialReminder, now time.Time) error {
	account, err := uc.repo.Account().Get(ctx, reminder.AccountID)
	if err != nil {
		return goerr.Wrap(err, "account not found", goerr.V("account_id", reminder.AccountID))
	}

	sub, err := uc.repo.Subscription().GetByAccount(ctx, reminder.AccountID)
	if err != nil {
		return goerr.Wrap(err, "subscription not found", goerr.V("account_id", reminder.AccountID))
	}

	// trial was converted or canceled; retire the reminder silently
	if sub.TrialEndsAt == nil {
		return uc.repo.TrialReminder().MarkSent(ctx, reminder.ID, now)
	}

	tier := uc.tierConfig.Tier(sub.TierID)
	if tier == nil {
		return goerr.Wrap(ErrUnknownTier, "subscription tier not configured", goerr.V("tier", sub.TierID))
	}

	daysLeft := int(sub.TrialEndsAt.Sub(now).Hours() / 24)
	if daysLeft < 0 {
		daysLeft = 0
	}

	body, err := mailer.RenderTrialReminder(mailer.TrialReminderData{
		Name:      account.Name,
		TierName:  tier.Name,
		DaysLeft:  daysLeft,
		PriceText: fmt.Sprintf("$%d.%02d/month", tier.MonthlyPriceCents/100, tier.MonthlyPriceCents%100),
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Your %s trial: %d days left", tier.Name, daysLeft)
	if daysLeft <= 1 {
		subject = fmt.Sprintf("Your %s trial ends today", tier.Name)
	}

	if err := uc.mail.Send(ctx, &mailer.Message{
		To:      account.Email,
		Subject: subject,
		Body:    body,
	}); err != nil {
		return goerr.Wrap(err, "failed to send reminder email", goerr.V("to", account.Email))
	}

	return uc.repo.TrialReminder().MarkSent(ctx, reminder.ID, now)
}

// SendAssessmentSummary emails the account a summary of its latest assessment
func (uc *OnboardingUseCase) SendAssessmentSummary(ctx context.Context, accountID int64) error {
	account, err := uc.repo.Account().Get(ctx, accountID)
	if err != nil {
		return goerr.Wrap(err, "account not found", goerr.V("account_id", accountID))
	}

	assessment, err := uc.repo.Assessment().Latest(ctx, accountID)
	if err != nil {
		if isNotFound(err) {
			return goerr.Wrap(ErrNoAssessment, "account has no assessment", goerr.V("account_id", accountID))
		}
		return goerr.Wrap(err, "failed to get latest assessment", goerr.V("account_id", accountID))
	}

	body, err := mailer.RenderAssessmentSummary(mailer.AssessmentSummaryData{
		Name:             account.Name,
		Grade:            assessment.Grade.String(),
		Overall:          assessment.Overall,
		JobAutomation:    assessment.JobAutomation,
		Spending:         assessment.Spending,
		TaxEfficiency:    assessment.TaxEfficiency,
		IncomePercentile: assessment.IncomePercentile,
	})
	if err != nil {
		return err
	}

	if err := uc.mail.Send(ctx, &mailer.Message{
		To:      account.Email,
		Subject: "Your financial wellness check-in",
		Body:    body,
	}); err != nil {
		return goerr.Wrap(err, "failed to send assessment summary", goerr.V("to", account.Email))
	}

	return nil
}
