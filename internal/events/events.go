package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics for marketplace domain events.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
	TopicReviewEvents  = "review.events"
)

// Event types carried in the CloudEvent envelope.
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingRejected  = "booking.rejected"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"

	PaymentCompleted = "payment.completed"
	PaymentFailed    = "payment.failed"
	PaymentRefunded  = "payment.refunded"

	ReviewCreated = "review.created"
)

// BookingEvent is the payload for all booking lifecycle events.
type BookingEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ListingID  uuid.UUID `json:"listing_id"`
	RenterID   uuid.UUID `json:"renter_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Status     string    `json:"status"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentEvent is the payload for all payment lifecycle events.
type PaymentEvent struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	BookingID     uuid.UUID `json:"booking_id"`
	AmountCents   int64     `json:"amount_cents"`
	Currency      string    `json:"currency"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id"`
	FailureReason string    `json:"failure_reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// ReviewEvent is the payload for review creation events.
type ReviewEvent struct {
	ReviewID   uuid.UUID `json:"review_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	Kind       string    `json:"kind"`
	Score      int       `json:"score"`
	OccurredAt time.Time `json:"occurred_at"`
}
