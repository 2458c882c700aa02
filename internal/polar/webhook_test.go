package polar

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_dGVzdC1zZWNyZXQ="

func signedHeaders(t *testing.T, id string, at time.Time, payload []byte) http.Header {
	t.Helper()
	ts := fmt.Sprintf("%d", at.Unix())
	sig, err := Sign(id, ts, payload, testSecret)
	require.NoError(t, err)

	headers := http.Header{}
	headers.Set("webhook-id", id)
	headers.Set("webhook-timestamp", ts)
	headers.Set("webhook-signature", "v1,"+sig)
	return headers
}

func TestVerifySignature_AcceptsValidDelivery(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	payload := []byte(`{"type":"order.paid","data":{"id":"order-1"}}`)

	event, err := VerifySignature(signedHeaders(t, "evt-1", now, payload), payload, testSecret, now)
	require.NoError(t, err)
	require.Equal(t, "evt-1", event.ID)
	require.Equal(t, EventOrderPaid, event.Type)
	require.Equal(t, now.Unix(), event.Timestamp.Unix())
}

func TestVerifySignature_RejectsWrongSecret(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	payload := []byte(`{"type":"order.paid","data":{}}`)

	_, err := VerifySignature(signedHeaders(t, "evt-1", now, payload), payload, "whsec_b3RoZXItc2VjcmV0", now)
	require.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifySignature_RejectsModifiedPayload(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	payload := []byte(`{"type":"order.paid","data":{}}`)
	headers := signedHeaders(t, "evt-1", now, payload)

	_, err := VerifySignature(headers, []byte(`{"type":"subscription.revoked","data":{}}`), testSecret, now)
	require.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifySignature_RejectsMissingHeaders(t *testing.T) {
	_, err := VerifySignature(http.Header{}, []byte(`{}`), testSecret, time.Now())
	require.ErrorIs(t, err, ErrMissingSignature)
}

func TestVerifySignature_RejectsStaleTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	payload := []byte(`{"type":"order.paid","data":{}}`)

	headers := signedHeaders(t, "evt-1", now.Add(-10*time.Minute), payload)
	_, err := VerifySignature(headers, payload, testSecret, now)
	require.ErrorIs(t, err, ErrStaleTimestamp)

	headers = signedHeaders(t, "evt-1", now.Add(10*time.Minute), payload)
	_, err = VerifySignature(headers, payload, testSecret, now)
	require.ErrorIs(t, err, ErrStaleTimestamp)
}

func TestVerifySignature_AcceptsSecondOfSeveralSignatures(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	payload := []byte(`{"type":"order.paid","data":{}}`)

	headers := signedHeaders(t, "evt-1", now, payload)
	headers.Set("webhook-signature", "v1,bm90LXRoZS1yaWdodC1vbmU= "+headers.Get("webhook-signature"))

	_, err := VerifySignature(headers, payload, testSecret, now)
	require.NoError(t, err)
}
