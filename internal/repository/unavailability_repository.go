package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/booking"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

// UnavailabilityModel is the GORM model for the unavailability_windows table.
type UnavailabilityModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ListingID uuid.UUID `gorm:"type:uuid;index;not null"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	Reason    string    `gorm:"not null;size:30"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (UnavailabilityModel) TableName() string {
	return "unavailability_windows"
}

// GormUnavailabilityRepository is the GORM-based implementation of UnavailabilityRepository.
type GormUnavailabilityRepository struct {
	db *gorm.DB
}

// NewGormUnavailabilityRepository creates a new GormUnavailabilityRepository.
func NewGormUnavailabilityRepository(db *gorm.DB) *GormUnavailabilityRepository {
	return &GormUnavailabilityRepository{db: db}
}

// FindByID retrieves a window by its unique identifier.
func (r *GormUnavailabilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.UnavailabilityWindow, error) {
	var model UnavailabilityModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("UnavailabilityWindow", id.String())
		}
		return nil, fmt.Errorf("failed to find unavailability window by ID: %w", err)
	}
	return toDomainWindow(&model)
}

// FindByListingID retrieves all windows for a listing.
func (r *GormUnavailabilityRepository) FindByListingID(ctx context.Context, listingID uuid.UUID) ([]*bookingDomain.UnavailabilityWindow, error) {
	var models []UnavailabilityModel
	if err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("start_date ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find unavailability windows: %w", err)
	}
	return toDomainWindows(models)
}

// FindOverlapping retrieves windows on the listing overlapping the inclusive range.
func (r *GormUnavailabilityRepository) FindOverlapping(ctx context.Context, listingID uuid.UUID, period bookingDomain.DateRange) ([]*bookingDomain.UnavailabilityWindow, error) {
	var models []UnavailabilityModel
	if err := r.db.WithContext(ctx).
		Where("listing_id = ? AND start_date <= ? AND end_date >= ?",
			listingID, period.End, period.Start).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find overlapping windows: %w", err)
	}
	return toDomainWindows(models)
}

// Save persists a new window.
func (r *GormUnavailabilityRepository) Save(ctx context.Context, w *bookingDomain.UnavailabilityWindow) error {
	model := &UnavailabilityModel{
		ID:        w.ID(),
		ListingID: w.ListingID(),
		StartDate: w.Period().Start,
		EndDate:   w.Period().End,
		Reason:    string(w.Reason()),
		CreatedAt: w.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save unavailability window: %w", err)
	}
	return nil
}

// Delete removes a window.
func (r *GormUnavailabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UnavailabilityModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete unavailability window: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("UnavailabilityWindow", id.String())
	}
	return nil
}

func toDomainWindow(m *UnavailabilityModel) (*bookingDomain.UnavailabilityWindow, error) {
	period, err := bookingDomain.NewDateRange(m.StartDate, m.EndDate)
	if err != nil {
		return nil, err
	}
	return bookingDomain.ReconstructUnavailabilityWindow(
		m.ID,
		m.ListingID,
		period,
		bookingDomain.UnavailabilityReason(m.Reason),
		m.CreatedAt,
	), nil
}

func toDomainWindows(models []UnavailabilityModel) ([]*bookingDomain.UnavailabilityWindow, error) {
	windows := make([]*bookingDomain.UnavailabilityWindow, len(models))
	for i, m := range models {
		w, err := toDomainWindow(&m)
		if err != nil {
			return nil, err
		}
		windows[i] = w
	}
	return windows, nil
}
