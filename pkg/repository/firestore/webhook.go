package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type webhookDeliveryDocument struct {
	ID          string     `firestore:"id"`
	EventID     string     `firestore:"event_id"`
	EventType   string     `firestore:"event_type"`
	Status      string     `firestore:"status"`
	Payload     string     `firestore:"payload"`
	Note        string     `firestore:"note"`
	RemoteAddr  string     `firestore:"remote_addr"`
	ReceivedAt  time.Time  `firestore:"received_at"`
	ProcessedAt *time.Time `firestore:"processed_at"`
}

func (d *webhookDeliveryDocument) toModel() *model.WebhookDelivery {
	return &model.WebhookDelivery{
		ID:          d.ID,
		EventID:     d.EventID,
		EventType:   types.WebhookEventType(d.EventType),
		Status:      types.DeliveryStatus(d.Status),
		Payload:     d.Payload,
		Note:        d.Note,
		RemoteAddr:  d.RemoteAddr,
		ReceivedAt:  d.ReceivedAt,
		ProcessedAt: d.ProcessedAt,
	}
}

type webhookDeliveryRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newWebhookDeliveryRepository(client *firestore.Client) *webhookDeliveryRepository {
	return &webhookDeliveryRepository{client: client}
}

func (r *webhookDeliveryRepository) collection() string {
	return prefixed(r.collectionPrefix, "webhook_deliveries")
}

func (r *webhookDeliveryRepository) Create(ctx context.Context, delivery *model.WebhookDelivery) (*model.WebhookDelivery, error) {
	if delivery.ID == "" {
		return nil, goerr.New("delivery ID is required")
	}

	receivedAt := delivery.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}

	doc := &webhookDeliveryDocument{
		ID:          delivery.ID,
		EventID:     delivery.EventID,
		EventType:   delivery.EventType.String(),
		Status:      delivery.Status.String(),
		Payload:     delivery.Payload,
		Note:        delivery.Note,
		RemoteAddr:  delivery.RemoteAddr,
		ReceivedAt:  receivedAt,
		ProcessedAt: delivery.ProcessedAt,
	}

	docRef := r.client.Collection(r.collection()).Doc(delivery.ID)
	if _, err := docRef.Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.New("delivery already recorded", goerr.V("id", delivery.ID))
		}
		return nil, goerr.Wrap(err, "failed to create webhook delivery", goerr.V("id", delivery.ID))
	}

	return doc.toModel(), nil
}

func (r *webhookDeliveryRepository) Get(ctx context.Context, id string) (*model.WebhookDelivery, error) {
	snapshot, err := r.client.Collection(r.collection()).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "webhook delivery not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get webhook delivery", goerr.V("id", id))
	}

	var doc webhookDeliveryDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode webhook delivery", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *webhookDeliveryRepository) GetByEventID(ctx context.Context, eventID string) (*model.WebhookDelivery, error) {
	iter := r.client.Collection(r.collection()).Where("event_id", "==", eventID).Limit(1).Documents(ctx)
	defer iter.Stop()

	snapshot, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "webhook delivery not found", goerr.V("event_id", eventID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query webhook delivery", goerr.V("event_id", eventID))
	}

	var doc webhookDeliveryDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode webhook delivery")
	}

	return doc.toModel(), nil
}

func (r *webhookDeliveryRepository) List(ctx context.Context) ([]*model.WebhookDelivery, error) {
	iter := r.client.Collection(r.collection()).
		OrderBy("received_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var deliveries []*model.WebhookDelivery
	for {
		snapshot, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate webhook deliveries")
		}

		var doc webhookDeliveryDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode webhook delivery")
		}
		deliveries = append(deliveries, doc.toModel())
	}

	return deliveries, nil
}

func (r *webhookDeliveryRepository) UpdateStatus(ctx context.Context, id string, deliveryStatus types.DeliveryStatus, note string) error {
	docRef := r.client.Collection(r.collection()).Doc(id)
	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "status", Value: deliveryStatus.String()},
		{Path: "note", Value: note},
		{Path: "processed_at", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "webhook delivery not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to update webhook delivery", goerr.V("id", id))
	}
	return nil
}
