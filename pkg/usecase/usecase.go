package usecase

import (
	"github.com/clearpath-fin/clearpath/pkg/domain/interfaces"
	"github.com/clearpath-fin/clearpath/pkg/domain/model/config"
	"github.com/clearpath-fin/clearpath/pkg/service/mailer"
	"github.com/clearpath-fin/clearpath/pkg/service/scoring"
)

type UseCases struct {
	repo       interfaces.Repository
	tierConfig *config.TierConfig
	webhookCfg *config.WebhookConfig
	mail       mailer.Mailer

	Account      *AccountUseCase
	Subscription *SubscriptionUseCase
	Onboarding   *OnboardingUseCase
	Assessment   *AssessmentUseCase
	Webhook      *WebhookUseCase
}

type Option func(*UseCases)

func WithWebhookConfig(cfg *config.WebhookConfig) Option {
	return func(uc *UseCases) {
		uc.webhookCfg = cfg
	}
}

func WithMailer(m mailer.Mailer) Option {
	return func(uc *UseCases) {
		uc.mail = m
	}
}

func New(repo interfaces.Repository, tierCfg *config.TierConfig, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:       repo,
		tierConfig: tierCfg,
		mail:       mailer.NewLogMailer(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Account = NewAccountUseCase(repo)
	uc.Subscription = NewSubscriptionUseCase(repo, tierCfg)
	uc.Onboarding = NewOnboardingUseCase(repo, tierCfg, uc.Subscription, uc.mail)
	uc.Assessment = NewAssessmentUseCase(repo, tierCfg,
		scoring.NewJobRiskCalculator(),
		scoring.NewSpendingCalculator(),
		scoring.NewTaxCalculator(),
		scoring.NewIncomeCalculator(),
	)
	uc.Webhook = NewWebhookUseCase(repo, uc.Subscription, uc.webhookCfg)

	return uc
}
