package payment

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

const transactionIDChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// PaymentMethod identifies how the renter pays.
type PaymentMethod string

const (
	MethodCard         PaymentMethod = "CARD"
	MethodPayPal       PaymentMethod = "PAYPAL"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodMBWay        PaymentMethod = "MBWAY"
)

// IsValid returns true if the payment method is recognized.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCard, MethodPayPal, MethodBankTransfer, MethodMBWay:
		return true
	}
	return false
}

// Payment is the aggregate root for a payment record, tied 1:1 to a booking.
// The amount is snapshotted in integer cents at initiation; no floating-point
// currency arithmetic anywhere in the lifecycle.
type Payment struct {
	id            uuid.UUID
	bookingID     uuid.UUID
	amountCents   int64
	currency      string
	method        PaymentMethod
	status        PaymentStatus
	transactionID string
	failureReason string

	completedAt *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateTransactionID creates a reference in the format "TX-XXXXXXXX".
func generateTransactionID() (string, error) {
	result := make([]byte, 8)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(transactionIDChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate transaction ID: %w", err)
		}
		result[i] = transactionIDChars[n.Int64()]
	}
	return "TX-" + string(result), nil
}

// NewPayment creates a new Payment in status pending.
func NewPayment(bookingID uuid.UUID, amountCents int64, currency string, method PaymentMethod) (*Payment, error) {
	if bookingID == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if amountCents <= 0 {
		return nil, domain.NewValidationError("amount must be positive")
	}
	if !method.IsValid() {
		return nil, domain.NewValidationError("invalid payment method: " + string(method))
	}

	txID, err := generateTransactionID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Payment{
		id:            uuid.New(),
		bookingID:     bookingID,
		amountCents:   amountCents,
		currency:      currency,
		method:        method,
		status:        StatusPending,
		transactionID: txID,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructPayment rebuilds a Payment from persistence data (no validation).
func ReconstructPayment(
	id, bookingID uuid.UUID,
	amountCents int64,
	currency string,
	method PaymentMethod,
	status PaymentStatus,
	transactionID, failureReason string,
	completedAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:            id,
		bookingID:     bookingID,
		amountCents:   amountCents,
		currency:      currency,
		method:        method,
		status:        status,
		transactionID: transactionID,
		failureReason: failureReason,
		completedAt:   completedAt,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

func (p *Payment) ID() uuid.UUID           { return p.id }
func (p *Payment) BookingID() uuid.UUID    { return p.bookingID }
func (p *Payment) AmountCents() int64      { return p.amountCents }
func (p *Payment) Currency() string        { return p.currency }
func (p *Payment) Method() PaymentMethod   { return p.method }
func (p *Payment) Status() PaymentStatus   { return p.status }
func (p *Payment) TransactionID() string   { return p.transactionID }
func (p *Payment) FailureReason() string   { return p.failureReason }
func (p *Payment) CompletedAt() *time.Time { return p.completedAt }
func (p *Payment) Version() int64          { return p.version }
func (p *Payment) CreatedAt() time.Time    { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time    { return p.updatedAt }

// --- Behavior ---

// Complete transitions the payment from pending to completed.
func (p *Payment) Complete() error {
	if !p.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(p.status), string(StatusCompleted))
	}
	now := time.Now().UTC()
	p.status = StatusCompleted
	p.completedAt = &now
	p.updatedAt = now
	return nil
}

// Fail transitions the payment from pending to failed with a reason.
func (p *Payment) Fail(reason string) error {
	if !p.status.CanTransitionTo(StatusFailed) {
		return domain.NewInvalidStateError(string(p.status), string(StatusFailed))
	}
	p.status = StatusFailed
	p.failureReason = reason
	p.updatedAt = time.Now().UTC()
	return nil
}

// Refund transitions the payment from completed to refunded.
func (p *Payment) Refund() error {
	if !p.status.CanTransitionTo(StatusRefunded) {
		return domain.NewInvalidStateError(string(p.status), string(StatusRefunded))
	}
	p.status = StatusRefunded
	p.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the payment to cancelled from pending or failed.
func (p *Payment) Cancel() error {
	if !p.status.CanTransitionTo(StatusCancelled) {
		return domain.NewInvalidStateError(string(p.status), string(StatusCancelled))
	}
	p.status = StatusCancelled
	p.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (p *Payment) IncrementVersion() {
	p.version++
	p.updatedAt = time.Now().UTC()
}
