package payment_test

import (
	"testing"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/service/payment"
	"github.com/m-mizutani/gt"
)

func TestVerifySignature(t *testing.T) {
	const secret = "whsec_test_secret"
	body := []byte(`{"id":"evt_123","type":"checkout.session.completed"}`)
	now := time.Unix(1700000000, 0)

	t.Run("valid signature passes", func(t *testing.T) {
		header := payment.BuildSignatureHeader(secret, now.Unix(), body)
		err := payment.VerifySignature(secret, header, body, now, payment.DefaultTolerance)
		gt.NoError(t, err)
	})

	t.Run("signature within tolerance passes", func(t *testing.T) {
		ts := now.Add(-4 * time.Minute).Unix()
		header := payment.BuildSignatureHeader(secret, ts, body)
		err := payment.VerifySignature(secret, header, body, now, payment.DefaultTolerance)
		gt.NoError(t, err)
	})

	t.Run("stale timestamp is rejected", func(t *testing.T) {
		ts := now.Add(-10 * time.Minute).Unix()
		header := payment.BuildSignatureHeader(secret, ts, body)
		err := payment.VerifySignature(secret, header, body, now, payment.DefaultTolerance)
		gt.Value(t, err).NotNil()
	})

	t.Run("future timestamp outside tolerance is rejected", func(t *testing.T) {
		ts := now.Add(10 * time.Minute).Unix()
		header := payment.BuildSignatureHeader(secret, ts, body)
		err := payment.VerifySignature(secret, header, body, now, payment.DefaultTolerance)
		gt.Value(t, err).NotNil()
	})

	t.Run("tampered body is rejected", func(t *testing.T) {
		header := payment.BuildSignatureHeader(secret, now.Unix(), body)
		tampered := []byte(`{"id":"evt_999","type":"checkout.session.completed"}`)
		err := payment.VerifySignature(secret, header, tampered, now, payment.DefaultTolerance)
		gt.Value(t, err).NotNil()
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		header := payment.BuildSignatureHeader("whsec_other", now.Unix(), body)
		err := payment.VerifySignature(secret, header, body, now, payment.DefaultTolerance)
		gt.Value(t, err).NotNil()
	})

	t.Run("empty header is rejected", func(t *testing.T) {
		err := payment.VerifySignature(secret, "", body, now, payment.DefaultTolerance)
		gt.Value(t, err).NotNil()
	})

	t.Run("header without timestamp is rejected", func(t *testing.T) {
		sig := payment.Sign(secret, now.Unix(), body)
		err := payment.VerifySignature(secret, "v1="+sig, body, now, payment.DefaultTolerance)
		gt.Value(t, err).NotNil()
	})

	t.Run("header without signature is rejected", func(t *testing.T) {
		err := payment.VerifySignature(secret, "t=1700000000", body, now, payment.DefaultTolerance)
		gt.Value(t, err).NotNil()
	})

	t.Run("malformed header part is rejected", func(t *testing.T) {
		err := payment.VerifySignature(secret, "garbage", body, now, payment.DefaultTolerance)
		gt.Value(t, err).NotNil()
	})

	t.Run("multiple v1 entries pass when one matches", func(t *testing.T) {
		sig := payment.Sign(secret, now.Unix(), body)
		header := "t=1700000000,v1=deadbeef,v1=" + sig
		err := payment.VerifySignature(secret, header, body, now, payment.DefaultTolerance)
		gt.NoError(t, err)
	})

	t.Run("zero tolerance falls back to default", func(t *testing.T) {
		ts := now.Add(-2 * time.Minute).Unix()
		header := payment.BuildSignatureHeader(secret, ts, body)
		err := payment.VerifySignature(secret, header, body, now, 0)
		gt.NoError(t, err)
	})
}

func TestParseEvent(t *testing.T) {
	t.Run("decodes checkout session event", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_abc",
			"type": "checkout.session.completed",
			"created": 1700000000,
			"data": {
				"object": {
					"id": "cs_123",
					"customer": "cus_456",
					"subscription": "sub_789",
					"client_reference_id": "42",
					"metadata": {"tier": "plus"}
				}
			}
		}`)

		event, err := payment.ParseEvent(body)
		gt.NoError(t, err).Required()

		gt.Value(t, event.ID).Equal("evt_abc")
		gt.Value(t, event.Type).Equal(payment.EventCheckoutCompleted)

		session, err := event.CheckoutSession()
		gt.NoError(t, err).Required()
		gt.Value(t, session.CustomerID).Equal("cus_456")
		gt.Value(t, session.SubscriptionID).Equal("sub_789")
		gt.Value(t, session.ClientRef).Equal("42")
		gt.Value(t, session.Metadata["tier"]).Equal("plus")
	})

	t.Run("decodes subscription event", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_sub",
			"type": "customer.subscription.updated",
			"created": 1700000100,
			"data": {
				"object": {
					"id": "sub_789",
					"customer": "cus_456",
					"status": "past_due",
					"current_period_end": 1702600000
				}
			}
		}`)

		event, err := payment.ParseEvent(body)
		gt.NoError(t, err).Required()

		sub, err := event.Subscription()
		gt.NoError(t, err).Required()
		gt.Value(t, sub.Status).Equal("past_due")
		gt.Value(t, sub.CurrentPeriodEnd).Equal(int64(1702600000))
	})

	t.Run("decodes invoice event", func(t *testing.T) {
		body := []byte(`{
			"id": "evt_inv",
			"type": "invoice.payment_failed",
			"created": 1700000200,
			"data": {
				"object": {
					"id": "in_001",
					"customer": "cus_456",
					"subscription": "sub_789",
					"amount_due": 999,
					"attempt_count": 2
				}
			}
		}`)

		event, err := payment.ParseEvent(body)
		gt.NoError(t, err).Required()

		invoice, err := event.Invoice()
		gt.NoError(t, err).Required()
		gt.Value(t, invoice.AmountDueCents).Equal(int64(999))
		gt.Value(t, invoice.AttemptCount).Equal(2)
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		_, err := payment.ParseEvent([]byte("not json"))
		gt.Value(t, err).NotNil()
	})

	t.Run("rejects event without ID", func(t *testing.T) {
		_, err := payment.ParseEvent([]byte(`{"type":"checkout.session.completed"}`))
		gt.Value(t, err).NotNil()
	})

	t.Run("rejects event without type", func(t *testing.T) {
		_, err := payment.ParseEvent([]byte(`{"id":"evt_1"}`))
		gt.Value(t, err).NotNil()
	})
}
