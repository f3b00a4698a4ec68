package payments

import (
	"encoding/json"

	"github.com/hamzat06/esk-sub000/internal/apperrors"
	"github.com/hamzat06/esk-sub000/internal/utils/crypto"
)

// Webhook event types the reconciliation flow cares about. Anything else is
// acknowledged and ignored.
const (
	EventSessionCompleted = "checkout.session.completed"
	EventSessionExpired   = "checkout.session.expired"
)

// SignatureHeader carries the provider's HMAC over the raw request body.
const SignatureHeader = "X-Payment-Signature"

// Event is a verified webhook delivery from the payment provider.
type Event struct {
	ID   string      `json:"id"`
	Type string      `json:"type"`
	Data SessionData `json:"data"`
}

// SessionData is the session object embedded in checkout.session.* events.
type SessionData struct {
	SessionID     string            `json:"session_id"`
	PaymentIntent string            `json:"payment_intent"`
	Metadata      map[string]string `json:"metadata"`
}

// ParseEvent verifies the signature over the raw body and decodes the event.
// It fails closed: any verification problem returns SignatureInvalid and the
// caller must not touch any state.
func ParseEvent(rawBody []byte, signature, secret string) (*Event, error) {
	if secret == "" {
		return nil, apperrors.SignatureInvalid("webhook secret not configured")
	}
	if signature == "" {
		return nil, apperrors.SignatureInvalid("missing webhook signature header")
	}
	if !crypto.VerifySignature(rawBody, signature, secret) {
		return nil, apperrors.SignatureInvalid("webhook signature mismatch")
	}

	var event Event
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, apperrors.InvalidInput("malformed webhook payload")
	}
	return &event, nil
}
