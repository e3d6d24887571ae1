package review

import (
	"context"

	"github.com/google/uuid"
)

// ReviewRepository defines the persistence contract for reviews.
type ReviewRepository interface {
	// FindByBookingID retrieves the review of the given kind for a booking,
	// or NotFoundError if none exists.
	FindByBookingID(ctx context.Context, bookingID uuid.UUID, kind ReviewKind) (*Review, error)

	// ExistsForBooking reports whether a review of the kind exists for the booking.
	ExistsForBooking(ctx context.Context, bookingID uuid.UUID, kind ReviewKind) (bool, error)

	// FindByListingID retrieves item reviews for a listing with pagination.
	FindByListingID(ctx context.Context, listingID uuid.UUID, page, limit int) ([]*Review, int64, error)

	// AverageScore returns the mean item-review score, 0 when no reviews exist (admin).
	AverageScore(ctx context.Context) (float64, error)

	// Save persists a new review. The (booking_id, kind) unique constraint
	// makes the one-review-per-booking invariant hold under concurrent
	// submission; implementations report the violation as a ConflictError.
	Save(ctx context.Context, review *Review) error
}
