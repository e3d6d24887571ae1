package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	bookingDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/booking"
)

// AvailabilityChecker answers overlap queries against a listing's committed
// date ranges: active bookings (pending or confirmed) plus owner-declared
// unavailability windows. It is a pure query; the booking create path is
// responsible for serializing the check with the insert.
type AvailabilityChecker struct {
	bookings bookingDomain.BookingRepository
	windows  bookingDomain.UnavailabilityRepository
}

// NewAvailabilityChecker creates a new AvailabilityChecker.
func NewAvailabilityChecker(
	bookings bookingDomain.BookingRepository,
	windows bookingDomain.UnavailabilityRepository,
) *AvailabilityChecker {
	return &AvailabilityChecker{bookings: bookings, windows: windows}
}

// CanBook returns false if period overlaps any pending/confirmed booking or
// any unavailability window on the listing. Boundaries are inclusive: a range
// ending on the day another starts still overlaps.
func (c *AvailabilityChecker) CanBook(ctx context.Context, listingID uuid.UUID, period bookingDomain.DateRange) (bool, error) {
	overlapping, err := c.bookings.FindOverlapping(ctx, listingID, period, bookingDomain.ActiveStatuses())
	if err != nil {
		return false, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	for _, existing := range overlapping {
		if existing.Period().Overlaps(period) {
			return false, nil
		}
	}

	blocked, err := c.windows.FindOverlapping(ctx, listingID, period)
	if err != nil {
		return false, fmt.Errorf("failed to query unavailability windows: %w", err)
	}
	for _, w := range blocked {
		if w.Period().Overlaps(period) {
			return false, nil
		}
	}

	return true, nil
}
