package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

// ReviewKind tags the variant of a review: a renter reviewing the item, or
// the owner reviewing the renter. Only shared-field storage differs between
// the two, so a tag is enough.
type ReviewKind string

const (
	KindItem   ReviewKind = "item"
	KindRenter ReviewKind = "renter"
)

// IsValid returns true if the kind is recognized.
func (k ReviewKind) IsValid() bool {
	return k == KindItem || k == KindRenter
}

// Review is a score and comment left against a completed booking. At most one
// review of each kind exists per booking.
type Review struct {
	id        uuid.UUID
	bookingID uuid.UUID
	authorID  uuid.UUID
	kind      ReviewKind
	score     int
	comment   string
	createdAt time.Time
}

// NewReview creates a review, validating the score range.
func NewReview(bookingID, authorID uuid.UUID, kind ReviewKind, score int, comment string) (*Review, error) {
	if bookingID == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if authorID == uuid.Nil {
		return nil, domain.NewValidationError("author ID is required")
	}
	if !kind.IsValid() {
		return nil, domain.NewValidationError("invalid review kind: " + string(kind))
	}
	if score < 1 || score > 5 {
		return nil, domain.NewValidationError("score must be between 1 and 5")
	}
	return &Review{
		id:        uuid.New(),
		bookingID: bookingID,
		authorID:  authorID,
		kind:      kind,
		score:     score,
		comment:   comment,
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Review from persistence data (no validation).
func Reconstruct(id, bookingID, authorID uuid.UUID, kind ReviewKind, score int, comment string, createdAt time.Time) *Review {
	return &Review{
		id:        id,
		bookingID: bookingID,
		authorID:  authorID,
		kind:      kind,
		score:     score,
		comment:   comment,
		createdAt: createdAt,
	}
}

func (r *Review) ID() uuid.UUID        { return r.id }
func (r *Review) BookingID() uuid.UUID { return r.bookingID }
func (r *Review) AuthorID() uuid.UUID  { return r.authorID }
func (r *Review) Kind() ReviewKind     { return r.kind }
func (r *Review) Score() int           { return r.score }
func (r *Review) Comment() string      { return r.comment }
func (r *Review) CreatedAt() time.Time { return r.createdAt }
