package firestore

import (
	"context"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type subscriptionDocument struct {
	ID                     int64      `firestore:"id"`
	AccountID              int64      `firestore:"account_id"`
	TierID                 string     `firestore:"tier_id"`
	Status                 string     `firestore:"status"`
	TrialEndsAt            *time.Time `firestore:"trial_ends_at"`
	CurrentPeriodEnd       time.Time  `firestore:"current_period_end"`
	ProviderCustomerID     string     `firestore:"provider_customer_id"`
	ProviderSubscriptionID string     `firestore:"provider_subscription_id"`
	CreatedAt              time.Time  `firestore:"created_at"`
	UpdatedAt              time.Time  `firestore:"updated_at"`
}

func (d *subscriptionDocument) toModel() *model.Subscription {
	return &model.Subscription{
		ID:                     d.ID,
		AccountID:              d.AccountID,
		TierID:                 types.TierID(d.TierID),
		Status:                 types.SubscriptionStatus(d.Status),
		TrialEndsAt:            d.TrialEndsAt,
		CurrentPeriodEnd:       d.CurrentPeriodEnd,
		ProviderCustomerID:     d.ProviderCustomerID,
		ProviderSubscriptionID: d.ProviderSubscriptionID,
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
	}
}

func subscriptionToDocument(s *model.Subscription) *subscriptionDocument {
	return &subscriptionDocument{
		ID:                     s.ID,
		AccountID:              s.AccountID,
		TierID:                 s.TierID.String(),
		Status:                 s.Status.String(),
		TrialEndsAt:            s.TrialEndsAt,
		CurrentPeriodEnd:       s.CurrentPeriodEnd,
		ProviderCustomerID:     s.ProviderCustomerID,
		ProviderSubscriptionID: s.ProviderSubscriptionID,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}

type subscriptionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSubscriptionRepository(client *firestore.Client) *subscriptionRepository {
	return &subscriptionRepository{client: client}
}

func (r *subscriptionRepository) collection() string {
	return prefixed(r.collectionPrefix, "subscriptions")
}

func (r *subscriptionRepository) counterCollection() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *model.Subscription) (*model.Subscription, error) {
	if _, err := r.GetByAccount(ctx, sub.AccountID); err == nil {
		return nil, goerr.New("account already has a subscription", goerr.V("account_id", sub.AccountID))
	}

	id, err := nextID(ctx, r.client, r.counterCollection(), "subscription_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := subscriptionToDocument(sub)
	doc.ID = id
	doc.CreatedAt = now
	doc.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(strconv.FormatInt(id, 10))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create subscription", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *subscriptionRepository) Get(ctx context.Context, id int64) (*model.Subscription, error) {
	docRef := r.client.Collection(r.collection()).Doc(strconv.FormatInt(id, 10))
	snapshot, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "subscription not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get subscription", goerr.V("id", id))
	}

	var doc subscriptionDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode subscription", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *subscriptionRepository) queryOne(ctx context.Context, field, value string) (*model.Subscription, error) {
	iter := r.client.Collection(r.collection()).Where(field, "==", value).Limit(1).Documents(ctx)
	defer iter.Stop()

	snapshot, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "subscription not found", goerr.V(field, value))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query subscription", goerr.V(field, value))
	}

	var doc subscriptionDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode subscription")
	}

	return doc.toModel(), nil
}

func (r *subscriptionRepository) GetByAccount(ctx context.Context, accountID int64) (*model.Subscription, error) {
	iter := r.client.Collection(r.collection()).Where("account_id", "==", accountID).Limit(1).Documents(ctx)
	defer iter.Stop()

	snapshot, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "subscription not found", goerr.V("account_id", accountID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query subscription", goerr.V("account_id", accountID))
	}

	var doc subscriptionDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode subscription")
	}

	return doc.toModel(), nil
}

func (r *subscriptionRepository) GetByProviderSubscription(ctx context.Context, providerSubID string) (*model.Subscription, error) {
	return r.queryOne(ctx, "provider_subscription_id", providerSubID)
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *model.Subscription) (*model.Subscription, error) {
	existing, err := r.Get(ctx, sub.ID)
	if err != nil {
		return nil, err
	}

	doc := subscriptionToDocument(sub)
	doc.CreatedAt = existing.CreatedAt
	doc.UpdatedAt = time.Now().UTC()

	docRef := r.client.Collection(r.collection()).Doc(strconv.FormatInt(sub.ID, 10))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to update subscription", goerr.V("id", sub.ID))
	}

	return doc.toModel(), nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}

	docRef := r.client.Collection(r.collection()).Doc(strconv.FormatInt(id, 10))
	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete subscription", goerr.V("id", id))
	}

	return nil
}
