package stripe

import (
	"context"
	"errors"
)

var (
	ErrGateway          = errors.New("stripe: request failed")
	ErrInvalidSignature = errors.New("stripe: webhook signature verification failed")
)

// Metadata keys attached to every checkout session. The session is the
// gateway's object; these keys are a redundant verification signal, the
// local Purchase row (joined by MetaPurchaseID) stays the source of
// truth.
const (
	MetaPurchaseID = "purchaseId"
	MetaRenterID   = "renterId"
	MetaCarID      = "carId"
	MetaStartDate  = "startDate"
	MetaEndDate    = "endDate"
	MetaBookingID  = "bookingId"
	MetaOwnerID    = "ownerId"
)

// Webhook event types acted upon; everything else is ignored.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
	EventPaymentFailed     = "checkout.session.async_payment_failed"
)

type CheckoutParams struct {
	// AmountMinor is the line-item total in the currency's minor unit.
	AmountMinor int64
	Currency    string
	ProductName string
	Description string
	ImageURL    string
	Metadata    map[string]string
	SuccessURL  string
	CancelURL   string
}

type Session struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object Session `json:"object"`
	} `json:"data"`
}

// Gateway is the hosted-checkout contract this service expects from the
// payment provider.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*Session, error)
	RetrieveSession(ctx context.Context, sessionID string) (*Session, error)
}
