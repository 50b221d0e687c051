package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/clearpath-fin/clearpath/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestSubscriptionUseCase_EffectiveTier(t *testing.T) {
	uc, _, _ := newTestUseCases(t)
	ctx := context.Background()
	accountID := registerAccount(t, uc, "tier@example.com")

	t.Run("account without subscription is free", func(t *testing.T) {
		tierID, err := uc.Subscription.EffectiveTier(ctx, accountID)
		gt.NoError(t, err).Required()
		gt.Value(t, tierID).Equal(types.TierFree)
	})

	t.Run("trialing account is served at the trial tier", func(t *testing.T) {
		_, err := uc.Subscription.StartTrial(ctx, accountID, types.TierID("plus"))
		gt.NoError(t, err).Required()

		tierID, err := uc.Subscription.EffectiveTier(ctx, accountID)
		gt.NoError(t, err).Required()
		gt.Value(t, tierID).Equal(types.TierID("plus"))
	})
}

func TestSubscriptionUseCase_CanAccess(t *testing.T) {
	uc, _, _ := newTestUseCases(t)
	ctx := context.Background()
	accountID := registerAccount(t, uc, "access@example.com")

	t.Run("free account cannot access gated feature", func(t *testing.T) {
		ok, err := uc.Subscription.CanAccess(ctx, accountID, "risk-report")
		gt.NoError(t, err).Required()
		gt.B(t, ok).False()
	})

	t.Run("invalid feature ID is rejected", func(t *testing.T) {
		_, err := uc.Subscription.CanAccess(ctx, accountID, "Risk Report")
		gt.Value(t, err).NotNil()
		gt.B(t, errors.Is(err, usecase.ErrUnknownFeature)).True()
	})

	t.Run("trialing account can access trial tier features", func(t *testing.T) {
		_, err := uc.Subscription.StartTrial(ctx, accountID, types.TierID("plus"))
		gt.NoError(t, err).Required()

		ok, err := uc.Subscription.CanAccess(ctx, accountID, "risk-report")
		gt.NoError(t, err).Required()
		gt.B(t, ok).True()

		// feature of a higher tier stays gated
		ok, err = uc.Subscription.CanAccess(ctx, accountID, "tax-optimizer")
		gt.NoError(t, err).Required()
		gt.B(t, ok).False()
	})
}

func TestSubscriptionUseCase_GatedFeatures(t *testing.T) {
	uc, _, _ := newTestUseCases(t)
	ctx := context.Background()

	t.Run("free account sees every paid feature gated", func(t *testing.T) {
		accountID := registerAccount(t, uc, "gated-free@example.com")

		gated, err := uc.Subscription.GatedFeatures(ctx, accountID)
		gt.NoError(t, err).Required()

		gt.A(t, gated).Length(3)
		gt.A(t, gated).Has(types.FeatureID("risk-report"))
		gt.A(t, gated).Has(types.FeatureID("budget-coach"))
		gt.A(t, gated).Has(types.FeatureID("tax-optimizer"))
	})

	t.Run("top tier account has nothing gated", func(t *testing.T) {
		accountID := registerAccount(t, uc, "gated-premium@example.com")
		_, err := uc.Subscription.StartTrial(ctx, accountID, types.TierID("premium"))
		gt.NoError(t, err).Required()

		gated, err := uc.Subscription.GatedFeatures(ctx, accountID)
		gt.NoError(t, err).Required()
		gt.A(t, gated).Length(0)
	})
}

func TestSubscriptionUseCase_StartTrial(t *testing.T) {
	ctx := context.Background()

	t.Run("creates trialing subscription and schedules reminders", func(t *testing.T) {
		uc, repo, _ := newTestUseCases(t)
		accountID := registerAccount(t, uc, "trial@example.com")

		sub, err := uc.Subscription.StartTrial(ctx, accountID, types.TierID("plus"))
		gt.NoError(t, err).Required()

		gt.Value(t, sub.Status).Equal(types.SubscriptionStatusTrialing)
		gt.Value(t, sub.TierID).Equal(types.TierID("plus"))
		gt.Value(t, sub.TrialEndsAt).NotNil()

		remaining := time.Until(*sub.TrialEndsAt)
		gt.B(t, remaining > 13*24*time.Hour).True()
		gt.B(t, remaining <= 14*24*time.Hour).True()

		reminders, err := repo.TrialReminder().ListByAccount(ctx, accountID)
		gt.NoError(t, err).Required()
		gt.A(t, reminders).Length(3)
		gt.Value(t, reminders[0].Day).Equal(1)
		gt.Value(t, reminders[1].Day).Equal(3)
		gt.Value(t, reminders[2].Day).Equal(14)
	})

	t.Run("unknown tier is rejected", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		accountID := registerAccount(t, uc, "trial-unknown@example.com")

		_, err := uc.Subscription.StartTrial(ctx, accountID, types.TierID("enterprise"))
		gt.B(t, errors.Is(err, usecase.ErrUnknownTier)).True()
	})

	t.Run("tier without trial days is rejected", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		accountID := registerAccount(t, uc, "trial-free@example.com")

		_, err := uc.Subscription.StartTrial(ctx, accountID, types.TierFree)
		gt.B(t, errors.Is(err, usecase.ErrTrialNotAllowed)).True()
	})

	t.Run("second trial is rejected", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		accountID := registerAccount(t, uc, "trial-twice@example.com")

		_, err := uc.Subscription.StartTrial(ctx, accountID, types.TierID("plus"))
		gt.NoError(t, err).Required()

		_, err = uc.Subscription.StartTrial(ctx, accountID, types.TierID("premium"))
		gt.B(t, errors.Is(err, usecase.ErrTrialNotAllowed)).True()
	})
}

func TestSubscriptionUseCase_ApplyCheckoutCompleted(t *testing.T) {
	ctx := context.Background()
	periodEnd := time.Now().UTC().AddDate(0, 1, 0)

	t.Run("converts a trial to an active subscription", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		accountID := registerAccount(t, uc, "checkout-trial@example.com")

		_, err := uc.Subscription.StartTrial(ctx, accountID, types.TierID("plus"))
		gt.NoError(t, err).Required()

		sub, err := uc.Subscription.ApplyCheckoutCompleted(ctx, accountID, types.TierID("premium"), "cus_1", "sub_1", periodEnd)
		gt.NoError(t, err).Required()

		gt.Value(t, sub.Status).Equal(types.SubscriptionStatusActive)
		gt.Value(t, sub.TierID).Equal(types.TierID("premium"))
		gt.Value(t, sub.TrialEndsAt).Nil()
		gt.Value(t, sub.ProviderCustomerID).Equal("cus_1")
		gt.Value(t, sub.ProviderSubscriptionID).Equal("sub_1")
	})

	t.Run("creates a subscription when none exists", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		accountID := registerAccount(t, uc, "checkout-new@example.com")

		sub, err := uc.Subscription.ApplyCheckoutCompleted(ctx, accountID, types.TierID("plus"), "cus_2", "sub_2", periodEnd)
		gt.NoError(t, err).Required()

		gt.Value(t, sub.Status).Equal(types.SubscriptionStatusActive)
		gt.Value(t, sub.AccountID).Equal(accountID)
	})

	t.Run("unknown tier is rejected", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		accountID := registerAccount(t, uc, "checkout-bad@example.com")

		_, err := uc.Subscription.ApplyCheckoutCompleted(ctx, accountID, types.TierID("enterprise"), "cus_3", "sub_3", periodEnd)
		gt.B(t, errors.Is(err, usecase.ErrUnknownTier)).True()
	})
}

func TestSubscriptionUseCase_ProviderSync(t *testing.T) {
	ctx := context.Background()
	periodEnd := time.Now().UTC().AddDate(0, 1, 0)

	setup := func(t *testing.T) *usecase.UseCases {
		t.Helper()
		uc, _, _ := newTestUseCases(t)
		accountID := registerAccount(t, uc, "sync@example.com")
		_, err := uc.Subscription.ApplyCheckoutCompleted(ctx, accountID, types.TierID("plus"), "cus_s", "sub_s", periodEnd)
		gt.NoError(t, err).Required()
		return uc
	}

	t.Run("ApplySubscriptionUpdated syncs status and period end", func(t *testing.T) {
		uc := setup(t)

		newEnd := periodEnd.AddDate(0, 1, 0)
		sub, err := uc.Subscription.ApplySubscriptionUpdated(ctx, "sub_s", types.SubscriptionStatusPastDue, newEnd)
		gt.NoError(t, err).Required()

		gt.Value(t, sub.Status).Equal(types.SubscriptionStatusPastDue)
		gt.B(t, sub.CurrentPeriodEnd.Equal(newEnd)).True()
	})

	t.Run("ApplySubscriptionUpdated rejects unknown provider ID", func(t *testing.T) {
		uc := setup(t)

		_, err := uc.Subscription.ApplySubscriptionUpdated(ctx, "sub_missing", types.SubscriptionStatusActive, periodEnd)
		gt.Value(t, err).NotNil()
	})

	t.Run("ApplySubscriptionUpdated rejects invalid status", func(t *testing.T) {
		uc := setup(t)

		_, err := uc.Subscription.ApplySubscriptionUpdated(ctx, "sub_s", types.SubscriptionStatus("EXPIRED"), periodEnd)
		gt.Value(t, err).NotNil()
	})

	t.Run("ApplySubscriptionDeleted cancels the subscription", func(t *testing.T) {
		uc := setup(t)

		sub, err := uc.Subscription.ApplySubscriptionDeleted(ctx, "sub_s")
		gt.NoError(t, err).Required()
		gt.Value(t, sub.Status).Equal(types.SubscriptionStatusCanceled)
	})

	t.Run("ApplyPaymentFailed marks the subscription past due", func(t *testing.T) {
		uc := setup(t)

		sub, err := uc.Subscription.ApplyPaymentFailed(ctx, "sub_s")
		gt.NoError(t, err).Required()
		gt.Value(t, sub.Status).Equal(types.SubscriptionStatusPastDue)
	})
}
