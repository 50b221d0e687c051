package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/interfaces"
	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/clearpath-fin/clearpath/pkg/domain/model/config"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/clearpath-fin/clearpath/pkg/service/payment"
	"github.com/clearpath-fin/clearpath/pkg/utils/logging"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type WebhookUseCase struct {
	repo         interfaces.Repository
	subscription *SubscriptionUseCase
	cfg          *config.WebhookConfig
}

func NewWebhookUseCase(repo interfaces.Repository, subscription *SubscriptionUseCase, cfg *config.WebhookConfig) *WebhookUseCase {
	return &WebhookUseCase{
		repo:         repo,
		subscription: subscription,
		cfg:          cfg,
	}
}

// HandleEvent processes a verified webhook payload. Every request is recorded
// as a delivery for audit, including duplicates and events the backend does
// not react to. Signature checks and source filtering happen upstream in the
// HTTP layer.
func (uc *WebhookUseCase) HandleEvent(ctx context.Context, body []byte, remoteAddr string) (*model.WebhookDelivery, error) {
	event, err := payment.ParseEvent(body)
	if err != nil {
		return nil, err
	}

	// provider retries resend the same event ID; do not process twice
	if existing, err := uc.repo.WebhookDelivery().GetByEventID(ctx, event.ID); err == nil {
		logging.From(ctx).Info("duplicate webhook event ignored",
			"event_id", event.ID,
			"delivery_id", existing.ID,
		)
		return existing, nil
	} else if !isNotFound(err) {
		return nil, goerr.Wrap(err, "failed to check for duplicate event", goerr.V("event_id", event.ID))
	}

	delivery := &model.WebhookDelivery{
		ID:         uuid.NewString(),
		EventID:    event.ID,
		EventType:  event.Type,
		Status:     types.DeliveryStatusReceived,
		Payload:    string(body),
		RemoteAddr: remoteAddr,
		ReceivedAt: time.Now().UTC(),
	}
	if _, err := uc.repo.WebhookDelivery().Create(ctx, delivery); err != nil {
		return nil, goerr.Wrap(err, "failed to record webhook delivery", goerr.V("event_id", event.ID))
	}

	if uc.cfg != nil && !uc.cfg.IsEventRegistered(event.Type) {
		return uc.finish(ctx, delivery, types.DeliveryStatusIgnored, "event type not registered")
	}

	if err := uc.dispatch(ctx, event); err != nil {
		if _, ferr := uc.finish(ctx, delivery, types.DeliveryStatusFailed, err.Error()); ferr != nil {
			logging.From(ctx).Error("failed to mark delivery failed",
				"delivery_id", delivery.ID,
				"error", ferr.Error(),
			)
		}
		return nil, err
	}

	return uc.finish(ctx, delivery, types.DeliveryStatusProcessed, "")
}

func (uc *WebhookUseCase) finish(ctx context.Context, delivery *model.WebhookDelivery, status types.DeliveryStatus, note string) (*model.WebhookDelivery, error) {
	if err := uc.repo.WebhookDelivery().UpdateStatus(ctx, delivery.ID, status, note); err != nil {
		return nil, goerr.Wrap(err, "failed to update delivery status",
			goerr.V("delivery_id", delivery.ID), goerr.V("status", status))
	}
	delivery.Status = status
	delivery.Note = note
	return delivery, nil
}

func (uc *WebhookUseCase) dispatch(ctx context.Context, event *payment.Event) error {
	switch event.Type {
	case payment.EventCheckoutCompleted:
		return uc.handleCheckoutCompleted(ctx, event)

	case payment.EventSubscriptionUpdated:
		return uc.handleSubscriptionUpdated(ctx, event)

	case payment.EventSubscriptionDeleted:
		sub, err := event.Subscription()
		if err != nil {
			return err
		}
		_, err = uc.subscription.ApplySubscriptionDeleted(ctx, sub.ID)
		return err

	case payment.EventPaymentFailed:
		invoice, err := event.Invoice()
		if err != nil {
			return err
		}
		_, err = uc.subscription.ApplyPaymentFailed(ctx, invoice.SubscriptionID)
		return err

	default:
		// registered but not actionable; recorded and left as processed
		logging.From(ctx).Info("webhook event has no handler",
			"event_id", event.ID,
			"event_type", event.Type,
		)
		return nil
	}
}

func (uc *WebhookUseCase) handleCheckoutCompleted(ctx context.Context, event *payment.Event) error {
	session, err := event.CheckoutSession()
	if err != nil {
		return err
	}

	accountID, err := strconv.ParseInt(session.ClientRef, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "checkout session has invalid client reference",
			goerr.V("event_id", event.ID), goerr.V("client_ref", session.ClientRef))
	}

	tierID := types.TierID(session.Metadata["tier"])
	if err := tierID.Validate(); err != nil {
		return goerr.Wrap(err, "checkout session has invalid tier metadata", goerr.V("event_id", event.ID))
	}

	// provisional period end; the subscription.updated event that follows
	// checkout carries the authoritative value
	periodEnd := time.Unix(event.CreatedAt, 0).UTC().AddDate(0, 1, 0)

	_, err = uc.subscription.ApplyCheckoutCompleted(ctx, accountID, tierID,
		session.CustomerID, session.SubscriptionID, periodEnd)
	return err
}

func (uc *WebhookUseCase) handleSubscriptionUpdated(ctx context.Context, event *payment.Event) error {
	sub, err := event.Subscription()
	if err != nil {
		return err
	}

	status, err := types.ParseSubscriptionStatus(sub.Status)
	if err != nil {
		return goerr.Wrap(err, "subscription update has unknown status",
			goerr.V("event_id", event.ID), goerr.V("status", sub.Status))
	}

	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	_, err = uc.subscription.ApplySubscriptionUpdated(ctx, sub.ID, status, periodEnd)
	return err
}

// ListDeliveries returns all recorded webhook deliveries, newest first
func (uc *WebhookUseCase) ListDeliveries(ctx context.Context) ([]*model.WebhookDelivery, error) {
	return uc.repo.WebhookDelivery().List(ctx)
}

// GetDelivery retrieves a recorded delivery by UUID
func (uc *WebhookUseCase) GetDelivery(ctx context.Context, id string) (*model.WebhookDelivery, error) {
	return uc.repo.WebhookDelivery().Get(ctx, id)
}
