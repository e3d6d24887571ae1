package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/booking"
	listingDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/listing"
	reviewDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/review"
	"github.com/TQS-Project-OLS/backend-sub001/internal/events"
	"github.com/TQS-Project-OLS/backend-sub001/internal/metrics"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

// CreateReviewRequest holds the data needed to create a review.
type CreateReviewRequest struct {
	Kind    string `json:"kind"`
	Score   int    `json:"score" binding:"required"`
	Comment string `json:"comment"`
}

// ReviewDTO is the response representation of a review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	BookingID uuid.UUID `json:"booking_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Kind      string    `json:"kind"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewService gates review creation: one review per booking per kind, only
// after the booking is completed, only by the right party.
type ReviewService struct {
	repo     reviewDomain.ReviewRepository
	bookings bookingDomain.BookingRepository
	listings listingDomain.ListingRepository
	producer EventPublisher
	logger   *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	repo reviewDomain.ReviewRepository,
	bookings bookingDomain.BookingRepository,
	listings listingDomain.ListingRepository,
	producer EventPublisher,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		repo:     repo,
		bookings: bookings,
		listings: listings,
		producer: producer,
		logger:   logger,
	}
}

// CanReview reports whether the renter may still review the booking's item:
// the booking exists, belongs to the renter, is completed, and has no item
// review yet.
func (s *ReviewService) CanReview(ctx context.Context, bookingID, renterID uuid.UUID) (bool, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if domain.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if !bk.IsRentedBy(renterID) {
		return false, nil
	}
	if bk.Status() != bookingDomain.StatusCompleted {
		return false, nil
	}

	exists, err := s.repo.ExistsForBooking(ctx, bookingID, reviewDomain.KindItem)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// CreateReview validates the gate predicate and persists the review. The
// repository's unique constraint re-checks uniqueness atomically with the
// insert, so a concurrent duplicate submission fails with ConflictError.
func (s *ReviewService) CreateReview(ctx context.Context, bookingID uuid.UUID, actor Actor, req CreateReviewRequest) (*ReviewDTO, error) {
	kind := reviewDomain.ReviewKind(req.Kind)
	if req.Kind == "" {
		kind = reviewDomain.KindItem
	}
	if !kind.IsValid() {
		return nil, domain.NewValidationError("invalid review kind: " + req.Kind)
	}

	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.Status() != bookingDomain.StatusCompleted {
		return nil, domain.NewInvalidStateError(string(bk.Status()), "reviewed")
	}

	switch kind {
	case reviewDomain.KindItem:
		if !bk.IsRentedBy(actor.ID) {
			return nil, domain.NewForbiddenError("only the renter may review this booking")
		}
	case reviewDomain.KindRenter:
		lst, err := s.listings.FindByID(ctx, bk.ListingID())
		if err != nil {
			return nil, err
		}
		if !lst.IsOwnedBy(actor.ID) {
			return nil, domain.NewForbiddenError("only the listing owner may review the renter")
		}
	}

	exists, err := s.repo.ExistsForBooking(ctx, bookingID, kind)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewConflictError("a review already exists for this booking")
	}

	rv, err := reviewDomain.NewReview(bookingID, actor.ID, kind, req.Score, req.Comment)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, rv); err != nil {
		return nil, err
	}

	metrics.ReviewsCreatedTotal.Inc()
	s.publishReviewEvent(ctx, rv)

	s.logger.Info("review created",
		zap.String("review_id", rv.ID().String()),
		zap.String("booking_id", bookingID.String()),
		zap.Int("score", rv.Score()),
	)

	result := toReviewDTO(rv)
	return &result, nil
}

// GetListingReviews retrieves paginated item reviews for a listing.
func (s *ReviewService) GetListingReviews(ctx context.Context, listingID uuid.UUID, page, limit int) (*domain.PaginatedResult[ReviewDTO], error) {
	reviews, total, err := s.repo.FindByListingID(ctx, listingID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]ReviewDTO, len(reviews))
	for i, rv := range reviews {
		dtos[i] = toReviewDTO(rv)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// --- Helpers ---

func toReviewDTO(r *reviewDomain.Review) ReviewDTO {
	return ReviewDTO{
		ID:        r.ID(),
		BookingID: r.BookingID(),
		AuthorID:  r.AuthorID(),
		Kind:      string(r.Kind()),
		Score:     r.Score(),
		Comment:   r.Comment(),
		CreatedAt: r.CreatedAt(),
	}
}

func (s *ReviewService) publishReviewEvent(ctx context.Context, r *reviewDomain.Review) {
	evt := events.ReviewEvent{
		ReviewID:   r.ID(),
		BookingID:  r.BookingID(),
		AuthorID:   r.AuthorID(),
		Kind:       string(r.Kind()),
		Score:      r.Score(),
		OccurredAt: time.Now().UTC(),
	}
	publishEvent(ctx, s.producer, s.logger, events.TopicReviewEvents, events.ReviewCreated, evt)
}
