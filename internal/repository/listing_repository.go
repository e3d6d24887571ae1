package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	listingDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/listing"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

// ListingModel is the GORM model for the listings table. Kind-specific fields
// are stored as a jsonb details column selected by the kind tag.
type ListingModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	Kind            string          `gorm:"not null;size:20;index"`
	Title           string          `gorm:"not null;size:200"`
	Description     string          `gorm:"size:2000"`
	Details         json.RawMessage `gorm:"type:jsonb"`
	DailyPriceCents int64           `gorm:"not null"`
	Currency        string          `gorm:"not null;size:3;default:'EUR'"`
	Status          string          `gorm:"not null;size:20;index"`
	Version         int64           `gorm:"not null;default:1"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ListingModel) TableName() string {
	return "listings"
}

// GormListingRepository is the GORM-based implementation of ListingRepository.
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository.
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByID retrieves a listing by its unique identifier.
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listingDomain.Listing, error) {
	var model ListingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Listing", id.String())
		}
		return nil, fmt.Errorf("failed to find listing by ID: %w", err)
	}
	return toDomainListing(&model)
}

// FindByOwnerID retrieves all listings of an owner, newest first.
func (r *GormListingRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*listingDomain.Listing, error) {
	var models []ListingModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find owner listings: %w", err)
	}

	listings := make([]*listingDomain.Listing, len(models))
	for i, m := range models {
		l, err := toDomainListing(&m)
		if err != nil {
			return nil, err
		}
		listings[i] = l
	}
	return listings, nil
}

// ListActive retrieves active listings with pagination, optionally filtered by kind.
func (r *GormListingRepository) ListActive(ctx context.Context, kind listingDomain.ListingKind, page, limit int) ([]*listingDomain.Listing, int64, error) {
	query := r.db.WithContext(ctx).Model(&ListingModel{}).Where("status = ?", string(listingDomain.ListingStatusActive))
	if kind != "" {
		query = query.Where("kind = ?", string(kind))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count active listings: %w", err)
	}

	var models []ListingModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list active listings: %w", err)
	}

	listings := make([]*listingDomain.Listing, len(models))
	for i, m := range models {
		l, err := toDomainListing(&m)
		if err != nil {
			return nil, 0, err
		}
		listings[i] = l
	}
	return listings, total, nil
}

// Save persists a new listing.
func (r *GormListingRepository) Save(ctx context.Context, l *listingDomain.Listing) error {
	model, err := toListingModel(l)
	if err != nil {
		return fmt.Errorf("failed to convert listing to model: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}
	return nil
}

// Update persists changes to an existing listing with optimistic locking.
func (r *GormListingRepository) Update(ctx context.Context, l *listingDomain.Listing) error {
	model, err := toListingModel(l)
	if err != nil {
		return fmt.Errorf("failed to convert listing to model: %w", err)
	}

	expectedVersion := l.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&ListingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"title":             model.Title,
			"description":       model.Description,
			"details":           model.Details,
			"daily_price_cents": model.DailyPriceCents,
			"currency":          model.Currency,
			"status":            model.Status,
			"version":           model.Version,
			"updated_at":        model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update listing: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("listing was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toListingModel(l *listingDomain.Listing) (*ListingModel, error) {
	var details json.RawMessage
	switch l.Kind() {
	case listingDomain.KindInstrument:
		data, err := json.Marshal(l.Instrument())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal instrument details: %w", err)
		}
		details = data
	case listingDomain.KindMusicSheet:
		data, err := json.Marshal(l.MusicSheet())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal music sheet details: %w", err)
		}
		details = data
	}

	return &ListingModel{
		ID:              l.ID(),
		OwnerID:         l.OwnerID(),
		Kind:            string(l.Kind()),
		Title:           l.Title(),
		Description:     l.Description(),
		Details:         details,
		DailyPriceCents: l.DailyPriceCents(),
		Currency:        l.Currency(),
		Status:          string(l.Status()),
		Version:         l.Version(),
		CreatedAt:       l.CreatedAt(),
		UpdatedAt:       l.UpdatedAt(),
	}, nil
}

func toDomainListing(m *ListingModel) (*listingDomain.Listing, error) {
	var instrument *listingDomain.InstrumentDetails
	var musicSheet *listingDomain.MusicSheetDetails

	switch listingDomain.ListingKind(m.Kind) {
	case listingDomain.KindInstrument:
		var d listingDomain.InstrumentDetails
		if err := json.Unmarshal(m.Details, &d); err != nil {
			return nil, fmt.Errorf("failed to unmarshal instrument details: %w", err)
		}
		instrument = &d
	case listingDomain.KindMusicSheet:
		var d listingDomain.MusicSheetDetails
		if err := json.Unmarshal(m.Details, &d); err != nil {
			return nil, fmt.Errorf("failed to unmarshal music sheet details: %w", err)
		}
		musicSheet = &d
	default:
		return nil, fmt.Errorf("unknown listing kind: %s", m.Kind)
	}

	return listingDomain.Reconstruct(
		m.ID,
		m.OwnerID,
		listingDomain.ListingKind(m.Kind),
		m.Title,
		m.Description,
		instrument,
		musicSheet,
		m.DailyPriceCents,
		m.Currency,
		listingDomain.ListingStatus(m.Status),
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
