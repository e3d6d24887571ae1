package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

// UnavailabilityReason explains why an owner blocked a range.
type UnavailabilityReason string

const (
	ReasonMaintenance UnavailabilityReason = "MAINTENANCE"
	ReasonOwnerBlock  UnavailabilityReason = "OWNER_BLOCK"
	ReasonOther       UnavailabilityReason = "OTHER"
)

// IsValid returns true if the reason is recognized.
func (r UnavailabilityReason) IsValid() bool {
	switch r {
	case ReasonMaintenance, ReasonOwnerBlock, ReasonOther:
		return true
	}
	return false
}

// UnavailabilityWindow is an owner-declared block on a listing. Windows always
// reject bookings regardless of booking status, are created and deleted
// explicitly, and never mutated.
type UnavailabilityWindow struct {
	id        uuid.UUID
	listingID uuid.UUID
	period    DateRange
	reason    UnavailabilityReason
	createdAt time.Time
}

// NewUnavailabilityWindow creates a window for the given listing and period.
func NewUnavailabilityWindow(listingID uuid.UUID, period DateRange, reason UnavailabilityReason) (*UnavailabilityWindow, error) {
	if listingID == uuid.Nil {
		return nil, domain.NewValidationError("listing ID is required")
	}
	if !reason.IsValid() {
		return nil, domain.NewValidationError("invalid unavailability reason: " + string(reason))
	}
	return &UnavailabilityWindow{
		id:        uuid.New(),
		listingID: listingID,
		period:    period,
		reason:    reason,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructUnavailabilityWindow rebuilds a window from persistence data.
func ReconstructUnavailabilityWindow(
	id, listingID uuid.UUID,
	period DateRange,
	reason UnavailabilityReason,
	createdAt time.Time,
) *UnavailabilityWindow {
	return &UnavailabilityWindow{
		id:        id,
		listingID: listingID,
		period:    period,
		reason:    reason,
		createdAt: createdAt,
	}
}

func (w *UnavailabilityWindow) ID() uuid.UUID                { return w.id }
func (w *UnavailabilityWindow) ListingID() uuid.UUID         { return w.listingID }
func (w *UnavailabilityWindow) Period() DateRange            { return w.period }
func (w *UnavailabilityWindow) Reason() UnavailabilityReason { return w.reason }
func (w *UnavailabilityWindow) CreatedAt() time.Time         { return w.createdAt }
