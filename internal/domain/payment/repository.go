package payment

import (
	"context"

	"github.com/google/uuid"
)

// PaymentRepository defines the persistence contract for payments.
type PaymentRepository interface {
	// FindByID retrieves a payment by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByBookingID retrieves the payment for a booking, or NotFoundError.
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error)

	// SumCompletedAmount returns total revenue over completed payments (admin).
	SumCompletedAmount(ctx context.Context) (int64, error)

	// Save persists a new payment. The bookings unique constraint makes the
	// one-payment-per-booking invariant hold under concurrent initiation;
	// implementations report the violation as a ConflictError.
	Save(ctx context.Context, payment *Payment) error

	// Update persists changes to an existing payment with optimistic locking.
	Update(ctx context.Context, payment *Payment) error
}
