package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/interfaces"
	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/clearpath-fin/clearpath/pkg/domain/model/config"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/clearpath-fin/clearpath/pkg/repository/firestore"
	"github.com/clearpath-fin/clearpath/pkg/repository/memory"
	"github.com/m-mizutani/goerr/v2"
)

// Trial reminder schedule: day of trial each reminder fires on. The last
// reminder is pinned to the final trial day regardless of trial length.
var trialReminderDays = []int{1, 3}

type SubscriptionUseCase struct {
	repo       interfaces.Repository
	tierConfig *config.TierConfig
}

func NewSubscriptionUseCase(repo interfaces.Repository, cfg *config.TierConfig) *SubscriptionUseCase {
	return &SubscriptionUseCase{
		repo:       repo,
		tierConfig: cfg,
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)
}

// EffectiveTier resolves the tier an account is currently served at.
// Accounts without a subscription, with an expired trial, or with a
// non-active subscription get the free tier.
func (uc *SubscriptionUseCase) EffectiveTier(ctx context.Context, accountID int64) (types.TierID, error) {
	sub, err := uc.repo.Subscription().GetByAccount(ctx, accountID)
	if err != nil {
		if isNotFound(err) {
			return types.TierFree, nil
		}
		return "", goerr.Wrap(err, "failed to get subscription", goerr.V("account_id", accountID))
	}

	return sub.EffectiveTier(time.Now().UTC()), nil
}

// CanAccess checks whether the account's effective tier grants the feature.
// Unknown features are always denied.
func (uc *SubscriptionUseCase) CanAccess(ctx context.Context, accountID int64, feature types.FeatureID) (bool, error) {
	if err := feature.Validate(); err != nil {
		return false, goerr.Wrap(ErrUnknownFeature, "invalid feature ID", goerr.V("feature", feature))
	}

	tierID, err := uc.EffectiveTier(ctx, accountID)
	if err != nil {
		return false, err
	}

	tier := uc.tierConfig.Tier(tierID)
	if tier == nil {
		return false, goerr.Wrap(ErrUnknownTier, "effective tier not configured", goerr.V("tier", tierID))
	}

	return tier.HasFeature(feature), nil
}

// GatedFeatures returns the features the account's effective tier does NOT
// grant, out of all features any tier grants. Used to drive upsell surfaces.
func (uc *SubscriptionUseCase) GatedFeatures(ctx context.Context, accountID int64) ([]types.FeatureID, error) {
	tierID, err := uc.EffectiveTier(ctx, accountID)
	if err != nil {
		return nil, err
	}

	current := uc.tierConfig.Tier(tierID)
	if current == nil {
		return nil, goerr.Wrap(ErrUnknownTier, "effective tier not configured", goerr.V("tier", tierID))
	}

	seen := make(map[types.FeatureID]bool)
	var gated []types.FeatureID
	for _, tier := range uc.tierConfig.Tiers {
		for _, feature := range tier.Features {
			if seen[feature] || current.HasFeature(feature) {
				continue
			}
			seen[feature] = true
			gated = append(gated, feature)
		}
	}

	return gated, nil
}

// StartTrial starts a trial of the given tier for the account and schedules
// the trial reminder emails.
func (uc *SubscriptionUseCase) StartTrial(ctx context.Context, accountID int64, tierID types.TierID) (*model.Subscription, error) {
	tier := uc.tierConfig.Tier(tierID)
	if tier == nil {
		return nil, goerr.Wrap(ErrUnknownTier, "cannot start trial of unknown tier", goerr.V("tier", tierID))
	}
	if tier.TrialDays <= 0 {
		return nil, goerr.Wrap(ErrTrialNotAllowed, "tier has no trial", goerr.V("tier", tierID))
	}

	if _, err := uc.repo.Subscription().GetByAccount(ctx, accountID); err == nil {
		return nil, goerr.Wrap(ErrTrialNotAllowed, "account already has a subscription", goerr.V("account_id", accountID))
	} else if !isNotFound(err) {
		return nil, goerr.Wrap(err, "failed to check existing subscription", goerr.V("account_id", accountID))
	}

	now := time.Now().UTC()
	trialEnds := now.AddDate(0, 0, tier.TrialDays)

	sub := &model.Subscription{
		AccountID:        accountID,
		TierID:           tierID,
		Status:           types.SubscriptionStatusTrialing,
		TrialEndsAt:      &trialEnds,
		CurrentPeriodEnd: trialEnds,
	}

	created, err := uc.repo.Subscription().Create(ctx, sub)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create trial subscription", goerr.V("account_id", accountID))
	}

	if err := uc.scheduleTrialReminders(ctx, accountID, now, tier.TrialDays); err != nil {
		return nil, err
	}

	return created, nil
}

func (uc *SubscriptionUseCase) scheduleTrialReminders(ctx context.Context, accountID int64, start time.Time, trialDays int) error {
	days := make([]int, 0, len(trialReminderDays)+1)
	for _, day := range trialReminderDays {
		if day < trialDays {
			days = append(days, day)
		}
	}
	days = append(days, trialDays) // last-day reminder

	for _, day := range days {
		reminder := &model.TrialReminder{
			AccountID: accountID,
			Day:       day,
			SendAt:    start.AddDate(0, 0, day).Add(-12 * time.Hour),
		}
		if _, err := uc.repo.TrialReminder().Create(ctx, reminder); err != nil {
			return goerr.Wrap(err, "failed to schedule trial reminder",
				goerr.V("account_id", accountID), goerr.V("day", day))
		}
	}

	return nil
}

// ApplyCheckoutCompleted provisions a paid subscription from a completed
// checkout session.
func (uc *SubscriptionUseCase) ApplyCheckoutCompleted(ctx context.Context, accountID int64, tierID types.TierID, customerID, providerSubID string, periodEnd time.Time) (*model.Subscription, error) {
	if uc.tierConfig.Tier(tierID) == nil {
		return nil, goerr.Wrap(ErrUnknownTier, "checkout references unknown tier", goerr.V("tier", tierID))
	}

	existing, err := uc.repo.Subscription().GetByAccount(ctx, accountID)
	if err != nil && !isNotFound(err) {
		return nil, goerr.Wrap(err, "failed to look up subscription", goerr.V("account_id", accountID))
	}

	if existing != nil {
		existing.TierID = tierID
		existing.Status = types.SubscriptionStatusActive
		existing.TrialEndsAt = nil
		existing.CurrentPeriodEnd = periodEnd
		existing.ProviderCustomerID = customerID
		existing.ProviderSubscriptionID = providerSubID
		updated, err := uc.repo.Subscription().Update(ctx, existing)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to activate subscription", goerr.V("account_id", accountID))
		}
		return updated, nil
	}

	created, err := uc.repo.Subscription().Create(ctx, &model.Subscription{
		AccountID:              accountID,
		TierID:                 tierID,
		Status:                 types.SubscriptionStatusActive,
		CurrentPeriodEnd:       periodEnd,
		ProviderCustomerID:     customerID,
		ProviderSubscriptionID: providerSubID,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create subscription", goerr.V("account_id", accountID))
	}

	return created, nil
}

// ApplySubscriptionUpdated syncs subscription state from the provider
func (uc *SubscriptionUseCase) ApplySubscriptionUpdated(ctx context.Context, providerSubID string, status types.SubscriptionStatus, periodEnd time.Time) (*model.Subscription, error) {
	if !status.IsValid() {
		return nil, goerr.New("invalid subscription status", goerr.V("status", status))
	}

	sub, err := uc.repo.Subscription().GetByProviderSubscription(ctx, providerSubID)
	if err != nil {
		return nil, goerr.Wrap(err, "subscription not found for provider ID", goerr.V("provider_subscription_id", providerSubID))
	}

	sub.Status = status
	sub.CurrentPeriodEnd = periodEnd

	updated, err := uc.repo.Subscription().Update(ctx, sub)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update subscription", goerr.V("id", sub.ID))
	}

	return updated, nil
}

// ApplySubscriptionDeleted cancels the subscription for the provider ID
func (uc *SubscriptionUseCase) ApplySubscriptionDeleted(ctx context.Context, providerSubID string) (*model.Subscription, error) {
	return uc.ApplySubscriptionUpdated(ctx, providerSubID, types.SubscriptionStatusCanceled, time.Now().UTC())
}

// ApplyPaymentFailed marks the subscription past due
func (uc *SubscriptionUseCase) ApplyPaymentFailed(ctx context.Context, providerSubID string) (*model.Subscription, error) {
	sub, err := uc.repo.Subscription().GetByProviderSubscription(ctx, providerSubID)
	if err != nil {
		return nil, goerr.Wrap(err, "subscription not found for provider ID", goerr.V("provider_subscription_id", providerSubID))
	}

	sub.Status = types.SubscriptionStatusPastDue

	updated, err := uc.repo.Subscription().Update(ctx, sub)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to mark subscription past due", goerr.V("id", sub.ID))
	}

	return updated, nil
}
