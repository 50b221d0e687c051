package memory

import (
	"context"
	"sync"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type subscriptionRepository struct {
	mu     sync.RWMutex
	subs   map[int64]*model.Subscription
	nextID int64
}

func newSubscriptionRepository() *subscriptionRepository {
	return &subscriptionRepository{
		subs:   make(map[int64]*model.Subscription),
		nextID: 1,
	}
}

func copySubscription(s *model.Subscription) *model.Subscription {
	c := *s
	if s.TrialEndsAt != nil {
		t := *s.TrialEndsAt
		c.TrialEndsAt = &t
	}
	return &c
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *model.Subscription) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.subs {
		if existing.AccountID == sub.AccountID {
			return nil, goerr.New("account already has a subscription", goerr.V("account_id", sub.AccountID))
		}
	}

	now := time.Now().UTC()
	created := copySubscription(sub)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.subs[created.ID] = created
	return copySubscription(created), nil
}

func (r *subscriptionRepository) Get(ctx context.Context, id int64) (*model.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, exists := r.subs[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "subscription not found", goerr.V("id", id))
	}

	return copySubscription(sub), nil
}

func (r *subscriptionRepository) GetByAccount(ctx context.Context, accountID int64) (*model.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sub := range r.subs {
		if sub.AccountID == accountID {
			return copySubscription(sub), nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "subscription not found", goerr.V("account_id", accountID))
}

func (r *subscriptionRepository) GetByProviderSubscription(ctx context.Context, providerSubID string) (*model.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sub := range r.subs {
		if sub.ProviderSubscriptionID == providerSubID {
			return copySubscription(sub), nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "subscription not found", goerr.V("provider_subscription_id", providerSubID))
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *model.Subscription) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.subs[sub.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "subscription not found", goerr.V("id", sub.ID))
	}

	updated := copySubscription(sub)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.subs[updated.ID] = updated
	return copySubscription(updated), nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subs[id]; !exists {
		return goerr.Wrap(ErrNotFound, "subscription not found", goerr.V("id", id))
	}

	delete(r.subs, id)
	return nil
}
