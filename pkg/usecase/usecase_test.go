package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/clearpath-fin/clearpath/pkg/domain/model/config"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/clearpath-fin/clearpath/pkg/repository/memory"
	"github.com/clearpath-fin/clearpath/pkg/service/mailer"
	"github.com/clearpath-fin/clearpath/pkg/service/payment"
	"github.com/clearpath-fin/clearpath/pkg/usecase"
	"github.com/m-mizutani/gt"
)

// captureMailer records sent messages for assertions
type captureMailer struct {
	mu       sync.Mutex
	messages []*mailer.Message
}

func (m *captureMailer) Send(ctx context.Context, msg *mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *captureMailer) sent() []*mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*mailer.Message{}, m.messages...)
}

func testTierConfig() *config.TierConfig {
	return &config.TierConfig{
		Tiers: []config.Tier{
			{
				ID:   types.TierFree,
				Name: "Free",
			},
			{
				ID:                types.TierID("plus"),
				Name:              "Plus",
				MonthlyPriceCents: 999,
				TrialDays:         14,
				Features:          []types.FeatureID{"risk-report", "budget-coach"},
			},
			{
				ID:                types.TierID("premium"),
				Name:              "Premium",
				MonthlyPriceCents: 2499,
				TrialDays:         14,
				Features:          []types.FeatureID{"risk-report", "budget-coach", "tax-optimizer"},
			},
		},
		Prompts: []config.Prompt{
			{
				ID:           types.PromptID("upgrade-tax"),
				Title:        "Optimize your taxes",
				Feature:      types.FeatureID("tax-optimizer"),
				Weight:       10,
				MinScore:     0.6,
				CooldownDays: 7,
			},
			{
				ID:           types.PromptID("upgrade-plus"),
				Title:        "See your full risk report",
				Feature:      types.FeatureID("risk-report"),
				Weight:       5,
				CooldownDays: 30,
			},
		},
	}
}

func testWebhookConfig() *config.WebhookConfig {
	return &config.WebhookConfig{
		EndpointURL:   "https://api.example.com/hooks/payment",
		SigningSecret: "whsec_test",
		MaxRetries:    3,
		ToleranceSec:  300,
		Events: []types.WebhookEventType{
			payment.EventCheckoutCompleted,
			payment.EventSubscriptionUpdated,
			payment.EventSubscriptionDeleted,
			payment.EventPaymentFailed,
		},
	}
}

func newTestUseCases(t *testing.T) (*usecase.UseCases, *memory.Memory, *captureMailer) {
	t.Helper()

	repo := memory.New()
	mail := &captureMailer{}
	uc := usecase.New(repo, testTierConfig(),
		usecase.WithWebhookConfig(testWebhookConfig()),
		usecase.WithMailer(mail),
	)
	return uc, repo, mail
}

func registerAccount(t *testing.T, uc *usecase.UseCases, email string) int64 {
	t.Helper()

	account, err := uc.Account.Register(context.Background(), email, "Test Account", "retail", "us-west")
	gt.NoError(t, err).Required()
	return account.ID
}
