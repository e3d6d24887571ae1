package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByRenterID retrieves bookings made by a specific renter with pagination.
	FindByRenterID(ctx context.Context, renterID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindByListingID retrieves bookings against a specific listing with pagination.
	FindByListingID(ctx context.Context, listingID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindOverlapping retrieves bookings on the listing whose period overlaps
	// the given range and whose status is one of statuses. Used by the
	// availability check; overlap is inclusive on both boundaries.
	FindOverlapping(ctx context.Context, listingID uuid.UUID, period DateRange, statuses []BookingStatus) ([]*Booking, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}

// UnavailabilityRepository defines the persistence contract for owner-declared
// unavailability windows.
type UnavailabilityRepository interface {
	// FindByID retrieves a window by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*UnavailabilityWindow, error)

	// FindByListingID retrieves all windows for a listing.
	FindByListingID(ctx context.Context, listingID uuid.UUID) ([]*UnavailabilityWindow, error)

	// FindOverlapping retrieves windows on the listing overlapping the range.
	FindOverlapping(ctx context.Context, listingID uuid.UUID, period DateRange) ([]*UnavailabilityWindow, error)

	// Save persists a new window.
	Save(ctx context.Context, window *UnavailabilityWindow) error

	// Delete removes a window.
	Delete(ctx context.Context, id uuid.UUID) error
}
