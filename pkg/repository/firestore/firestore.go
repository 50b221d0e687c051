package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/clearpath-fin/clearpath/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when an entity does not exist
var ErrNotFound = goerr.New("not found")

type Firestore struct {
	client       *firestore.Client
	account      *accountRepository
	subscription *subscriptionRepository
	assessment   *assessmentRepository
	impression   *promptImpressionRepository
	reminder     *trialReminderRepository
	delivery     *webhookDeliveryRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.account.collectionPrefix = prefix
		f.subscription.collectionPrefix = prefix
		f.assessment.collectionPrefix = prefix
		f.impression.collectionPrefix = prefix
		f.reminder.collectionPrefix = prefix
		f.delivery.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:       client,
		account:      newAccountRepository(client),
		subscription: newSubscriptionRepository(client),
		assessment:   newAssessmentRepository(client),
		impression:   newPromptImpressionRepository(client),
		reminder:     newTrialReminderRepository(client),
		delivery:     newWebhookDeliveryRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Account() interfaces.AccountRepository {
	return f.account
}

func (f *Firestore) Subscription() interfaces.SubscriptionRepository {
	return f.subscription
}

func (f *Firestore) Assessment() interfaces.AssessmentRepository {
	return f.assessment
}

func (f *Firestore) PromptImpression() interfaces.PromptImpressionRepository {
	return f.impression
}

func (f *Firestore) TrialReminder() interfaces.TrialReminderRepository {
	return f.reminder
}

func (f *Firestore) WebhookDelivery() interfaces.WebhookDeliveryRepository {
	return f.delivery
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
