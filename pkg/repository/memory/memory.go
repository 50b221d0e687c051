package memory

import (
	"github.com/clearpath-fin/clearpath/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	account      *accountRepository
	subscription *subscriptionRepository
	assessment   *assessmentRepository
	impression   *promptImpressionRepository
	reminder     *trialReminderRepository
	delivery     *webhookDeliveryRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		account:      newAccountRepository(),
		subscription: newSubscriptionRepository(),
		assessment:   newAssessmentRepository(),
		impression:   newPromptImpressionRepository(),
		reminder:     newTrialReminderRepository(),
		delivery:     newWebhookDeliveryRepository(),
	}
}

func (m *Memory) Account() interfaces.AccountRepository {
	return m.account
}

func (m *Memory) Subscription() interfaces.SubscriptionRepository {
	return m.subscription
}

func (m *Memory) Assessment() interfaces.AssessmentRepository {
	return m.assessment
}

func (m *Memory) PromptImpression() interfaces.PromptImpressionRepository {
	return m.impression
}

func (m *Memory) TrialReminder() interfaces.TrialReminderRepository {
	return m.reminder
}

func (m *Memory) WebhookDelivery() interfaces.WebhookDeliveryRepository {
	return m.delivery
}

func (m *Memory) Close() error {
	return nil
}
