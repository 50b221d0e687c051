package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Account() AccountRepository
	Subscription() SubscriptionRepository
	Assessment() AssessmentRepository
	PromptImpression() PromptImpressionRepository
	TrialReminder() TrialReminderRepository
	WebhookDelivery() WebhookDeliveryRepository

	Close() error
}
