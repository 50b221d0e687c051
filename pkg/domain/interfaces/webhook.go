package interfaces

import (
	"context"

	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
)

type WebhookDeliveryRepository interface {
	// Create records a webhook delivery. The caller assigns the UUID.
	Create(ctx context.Context, delivery *model.WebhookDelivery) (*model.WebhookDelivery, error)

	// Get retrieves a delivery by UUID
	Get(ctx context.Context, id string) (*model.WebhookDelivery, error)

	// GetByEventID retrieves a delivery by the provider's event ID.
	// Used for duplicate detection on provider retries.
	GetByEventID(ctx context.Context, eventID string) (*model.WebhookDelivery, error)

	// List retrieves all deliveries, newest first
	List(ctx context.Context) ([]*model.WebhookDelivery, error)

	// UpdateStatus updates the processing status and note of a delivery
	UpdateStatus(ctx context.Context, id string, status types.DeliveryStatus, note string) error
}
