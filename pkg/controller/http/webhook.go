package http

import (
	"io"
	"net/http"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/clearpath-fin/clearpath/pkg/metrics"
	"github.com/clearpath-fin/clearpath/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

// handlePaymentWebhook records and dispatches a verified provider event.
// The provider retries on non-2xx, so processing failures return 500 to
// trigger a retry while parse errors return 400 to stop them.
func (s *Server) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to read webhook body"), http.StatusBadRequest)
		return
	}

	delivery, err := s.uc.Webhook.HandleEvent(r.Context(), body, r.RemoteAddr)
	if err != nil {
		metrics.RecordWebhookFailure()
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}
	metrics.RecordWebhookDelivery(delivery.EventType.String(), delivery.Status.String())

	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"delivery_id": delivery.ID,
		"status":      delivery.Status.String(),
	})
}

type deliveryResponse struct {
	ID          string `json:"id"`
	EventID     string `json:"event_id"`
	EventType   string `json:"event_type"`
	Status      string `json:"status"`
	Note        string `json:"note,omitempty"`
	RemoteAddr  string `json:"remote_addr"`
	ReceivedAt  string `json:"received_at"`
	ProcessedAt string `json:"processed_at,omitempty"`
}

func toDeliveryResponse(d *model.WebhookDelivery) deliveryResponse {
	resp := deliveryResponse{
		ID:         d.ID,
		EventID:    d.EventID,
		EventType:  d.EventType.String(),
		Status:     d.Status.String(),
		Note:       d.Note,
		RemoteAddr: d.RemoteAddr,
		ReceivedAt: d.ReceivedAt.Format(time.RFC3339),
	}
	if d.ProcessedAt != nil {
		resp.ProcessedAt = d.ProcessedAt.Format(time.RFC3339)
	}
	return resp
}
