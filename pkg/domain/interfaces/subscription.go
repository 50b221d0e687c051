package interfaces

import (
	"context"

	"github.com/clearpath-fin/clearpath/pkg/domain/model"
)

type SubscriptionRepository interface {
	// Create creates a new subscription with auto-generated ID
	Create(ctx context.Context, sub *model.Subscription) (*model.Subscription, error)

	// Get retrieves a subscription by ID
	Get(ctx context.Context, id int64) (*model.Subscription, error)

	// GetByAccount retrieves the subscription for an account
	GetByAccount(ctx context.Context, accountID int64) (*model.Subscription, error)

	// GetByProviderSubscription retrieves a subscription by the payment
	// provider's subscription ID
	GetByProviderSubscription(ctx context.Context, providerSubID string) (*model.Subscription, error)

	// Update updates an existing subscription
	Update(ctx context.Context, sub *model.Subscription) (*model.Subscription, error)

	// Delete deletes a subscription by ID
	Delete(ctx context.Context, id int64) error
}
