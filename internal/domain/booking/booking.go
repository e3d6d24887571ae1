package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

// Booking is the aggregate root for a rental booking. Its status is mutated
// only through the transition methods below; every illegal transition is
// reported with an InvalidStateError naming both states.
type Booking struct {
	id        uuid.UUID
	listingID uuid.UUID
	renterID  uuid.UUID
	period    DateRange
	status    BookingStatus

	confirmedAt *time.Time
	completedAt *time.Time
	cancelledAt *time.Time
	cancelNote  string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking in status pending.
func NewBooking(listingID, renterID uuid.UUID, period DateRange) (*Booking, error) {
	if listingID == uuid.Nil {
		return nil, domain.NewValidationError("listing ID is required")
	}
	if renterID == uuid.Nil {
		return nil, domain.NewValidationError("renter ID is required")
	}

	now := time.Now().UTC()
	return &Booking{
		id:        uuid.New(),
		listingID: listingID,
		renterID:  renterID,
		period:    period,
		status:    StatusPending,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, listingID, renterID uuid.UUID,
	period DateRange,
	status BookingStatus,
	confirmedAt, completedAt, cancelledAt *time.Time,
	cancelNote string,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:          id,
		listingID:   listingID,
		renterID:    renterID,
		period:      period,
		status:      status,
		confirmedAt: confirmedAt,
		completedAt: completedAt,
		cancelledAt: cancelledAt,
		cancelNote:  cancelNote,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID           { return b.id }
func (b *Booking) ListingID() uuid.UUID    { return b.listingID }
func (b *Booking) RenterID() uuid.UUID     { return b.renterID }
func (b *Booking) Period() DateRange       { return b.period }
func (b *Booking) Status() BookingStatus   { return b.status }
func (b *Booking) ConfirmedAt() *time.Time { return b.confirmedAt }
func (b *Booking) CompletedAt() *time.Time { return b.completedAt }
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }
func (b *Booking) CancelNote() string      { return b.cancelNote }
func (b *Booking) Version() int64          { return b.version }
func (b *Booking) CreatedAt() time.Time    { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time    { return b.updatedAt }

// IsRentedBy checks if the booking belongs to the given renter.
func (b *Booking) IsRentedBy(renterID uuid.UUID) bool {
	return b.renterID == renterID
}

// --- Behavior ---

// Confirm transitions the booking from pending to confirmed. Driven by a
// successful payment.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	now := time.Now().UTC()
	b.status = StatusConfirmed
	b.confirmedAt = &now
	b.updatedAt = now
	return nil
}

// Reject transitions the booking from pending to rejected.
func (b *Booking) Reject(note string) error {
	if !b.status.CanTransitionTo(StatusRejected) {
		return domain.NewInvalidStateError(string(b.status), string(StatusRejected))
	}
	b.status = StatusRejected
	b.cancelNote = note
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to cancelled from pending or confirmed.
func (b *Booking) Cancel(reason string) error {
	if !b.status.CanTransitionTo(StatusCancelled) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelNote = reason
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// Complete transitions the booking from confirmed to completed, making it
// eligible for review.
func (b *Booking) Complete() error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	now := time.Now().UTC()
	b.status = StatusCompleted
	b.completedAt = &now
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
