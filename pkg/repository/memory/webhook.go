package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type webhookDeliveryRepository struct {
	mu         sync.RWMutex
	deliveries map[string]*model.WebhookDelivery
}

func newWebhookDeliveryRepository() *webhookDeliveryRepository {
	return &webhookDeliveryRepository{
		deliveries: make(map[string]*model.WebhookDelivery),
	}
}

func copyDelivery(d *model.WebhookDelivery) *model.WebhookDelivery {
	c := *d
	if d.ProcessedAt != nil {
		t := *d.ProcessedAt
		c.ProcessedAt = &t
	}
	return &c
}

func (r *webhookDeliveryRepository) Create(ctx context.Context, delivery *model.WebhookDelivery) (*model.WebhookDelivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if delivery.ID == "" {
		return nil, goerr.New("delivery ID is required")
	}
	if _, exists := r.deliveries[delivery.ID]; exists {
		return nil, goerr.New("delivery already recorded", goerr.V("id", delivery.ID))
	}

	created := copyDelivery(delivery)
	if created.ReceivedAt.IsZero() {
		created.ReceivedAt = time.Now().UTC()
	}

	r.deliveries[created.ID] = created
	return copyDelivery(created), nil
}

func (r *webhookDeliveryRepository) Get(ctx context.Context, id string) (*model.WebhookDelivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	delivery, exists := r.deliveries[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "webhook delivery not found", goerr.V("id", id))
	}

	return copyDelivery(delivery), nil
}

func (r *webhookDeliveryRepository) GetByEventID(ctx context.Context, eventID string) (*model.WebhookDelivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, delivery := range r.deliveries {
		if delivery.EventID == eventID {
			return copyDelivery(delivery), nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "webhook delivery not found", goerr.V("event_id", eventID))
}

func (r *webhookDeliveryRepository) List(ctx context.Context) ([]*model.WebhookDelivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deliveries := make([]*model.WebhookDelivery, 0, len(r.deliveries))
	for _, delivery := range r.deliveries {
		deliveries = append(deliveries, copyDelivery(delivery))
	}

	sort.Slice(deliveries, func(i, j int) bool {
		return deliveries[i].ReceivedAt.After(deliveries[j].ReceivedAt)
	})

	return deliveries, nil
}

func (r *webhookDeliveryRepository) UpdateStatus(ctx context.Context, id string, status types.DeliveryStatus, note string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delivery, exists := r.deliveries[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "webhook delivery not found", goerr.V("id", id))
	}

	now := time.Now().UTC()
	delivery.Status = status
	delivery.Note = note
	delivery.ProcessedAt = &now
	return nil
}
