package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	reviewDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/review"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

// ReviewModel is the GORM model for the reviews table. The composite unique
// index on (booking_id, kind) enforces one review of each kind per booking.
type ReviewModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_booking_kind"`
	AuthorID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Kind      string    `gorm:"not null;size:10;uniqueIndex:idx_reviews_booking_kind"`
	Score     int       `gorm:"not null"`
	Comment   string    `gorm:"size:2000"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ReviewModel) TableName() string {
	return "reviews"
}

// GormReviewRepository is the GORM-based implementation of ReviewRepository.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository.
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByBookingID retrieves the review of the given kind for a booking.
func (r *GormReviewRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID, kind reviewDomain.ReviewKind) (*reviewDomain.Review, error) {
	var model ReviewModel
	if err := r.db.WithContext(ctx).
		Where("booking_id = ? AND kind = ?", bookingID, string(kind)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Review", "booking "+bookingID.String())
		}
		return nil, fmt.Errorf("failed to find review by booking ID: %w", err)
	}
	return toDomainReview(&model), nil
}

// ExistsForBooking reports whether a review of the kind exists for the booking.
func (r *GormReviewRepository) ExistsForBooking(ctx context.Context, bookingID uuid.UUID, kind reviewDomain.ReviewKind) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("booking_id = ? AND kind = ?", bookingID, string(kind)).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}
	return count > 0, nil
}

// FindByListingID retrieves item reviews for a listing with pagination,
// joining through bookings since reviews do not carry the listing directly.
func (r *GormReviewRepository) FindByListingID(ctx context.Context, listingID uuid.UUID, page, limit int) ([]*reviewDomain.Review, int64, error) {
	base := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Joins("JOIN bookings ON bookings.id = reviews.booking_id").
		Where("bookings.listing_id = ? AND reviews.kind = ?", listingID, string(reviewDomain.KindItem))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listing reviews: %w", err)
	}

	var models []ReviewModel
	offset := (page - 1) * limit
	if err := base.
		Order("reviews.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find listing reviews: %w", err)
	}

	reviews := make([]*reviewDomain.Review, len(models))
	for i, m := range models {
		reviews[i] = toDomainReview(&m)
	}
	return reviews, total, nil
}

// AverageScore returns the mean item-review score, 0 when no reviews exist.
func (r *GormReviewRepository) AverageScore(ctx context.Context) (float64, error) {
	var avg float64
	if err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("kind = ?", string(reviewDomain.KindItem)).
		Select("COALESCE(AVG(score), 0)").
		Scan(&avg).Error; err != nil {
		return 0, fmt.Errorf("failed to average review scores: %w", err)
	}
	return avg, nil
}

// Save persists a new review. A unique constraint violation on
// (booking_id, kind) is reported as a ConflictError.
func (r *GormReviewRepository) Save(ctx context.Context, rev *reviewDomain.Review) error {
	model := &ReviewModel{
		ID:        rev.ID(),
		BookingID: rev.BookingID(),
		AuthorID:  rev.AuthorID(),
		Kind:      string(rev.Kind()),
		Score:     rev.Score(),
		Comment:   rev.Comment(),
		CreatedAt: rev.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("a review of this kind already exists for this booking")
		}
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

func toDomainReview(m *ReviewModel) *reviewDomain.Review {
	return reviewDomain.Reconstruct(
		m.ID,
		m.BookingID,
		m.AuthorID,
		reviewDomain.ReviewKind(m.Kind),
		m.Score,
		m.Comment,
		m.CreatedAt,
	)
}
