package payments

import (
	"testing"

	"github.com/hamzat06/esk-sub000/internal/apperrors"
	"github.com/hamzat06/esk-sub000/internal/utils/crypto"
)

const testSecret = "whsec_test_Ae91kL"

func signedBody(t *testing.T, body string) ([]byte, string) {
	t.Helper()
	raw := []byte(body)
	return raw, crypto.ComputeSignature(raw, testSecret)
}

func TestParseEventAcceptsSignedPayload(t *testing.T) {
	raw, sig := signedBody(t, `{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {
			"session_id": "cs_test_123",
			"payment_intent": "pi_test_456",
			"metadata": {"order_id": "order-1", "user_id": "user-1"}
		}
	}`)

	event, err := ParseEvent(raw, sig, testSecret)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	if event.Type != EventSessionCompleted {
		t.Fatalf("type = %s", event.Type)
	}
	if event.Data.SessionID != "cs_test_123" {
		t.Fatalf("session id = %s", event.Data.SessionID)
	}
	if event.Data.Metadata["order_id"] != "order-1" {
		t.Fatalf("metadata = %v", event.Data.Metadata)
	}
}

func TestParseEventRejectsTamperedBody(t *testing.T) {
	raw, sig := signedBody(t, `{"id":"evt_1","type":"checkout.session.completed","data":{}}`)

	tampered := append([]byte{}, raw...)
	tampered[len(tampered)-2] = 'x'

	_, err := ParseEvent(tampered, sig, testSecret)
	if apperrors.KindOf(err) != apperrors.KindSignatureInvalid {
		t.Fatalf("expected signature failure, got %v", err)
	}
}

func TestParseEventRejectsWrongSecret(t *testing.T) {
	raw, sig := signedBody(t, `{"id":"evt_1","type":"checkout.session.expired","data":{}}`)

	_, err := ParseEvent(raw, sig, "whsec_other")
	if apperrors.KindOf(err) != apperrors.KindSignatureInvalid {
		t.Fatalf("expected signature failure, got %v", err)
	}
}

func TestParseEventRequiresSignatureHeader(t *testing.T) {
	raw, _ := signedBody(t, `{"id":"evt_1"}`)

	_, err := ParseEvent(raw, "", testSecret)
	if apperrors.KindOf(err) != apperrors.KindSignatureInvalid {
		t.Fatalf("expected signature failure, got %v", err)
	}
}

func TestParseEventRequiresConfiguredSecret(t *testing.T) {
	raw, sig := signedBody(t, `{"id":"evt_1"}`)

	// An empty secret must never verify, even against a matching HMAC.
	_, err := ParseEvent(raw, sig, "")
	if apperrors.KindOf(err) != apperrors.KindSignatureInvalid {
		t.Fatalf("expected signature failure, got %v", err)
	}
}

func TestParseEventMalformedJSONWithValidSignature(t *testing.T) {
	raw, sig := signedBody(t, `{"id": "evt_1",`)

	_, err := ParseEvent(raw, sig, testSecret)
	if apperrors.KindOf(err) != apperrors.KindInvalidInput {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
