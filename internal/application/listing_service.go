package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/booking"
	listingDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/listing"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

// CreateListingRequest is the request DTO for creating a listing.
type CreateListingRequest struct {
	Kind            string                           `json:"kind" binding:"required"`
	Title           string                           `json:"title" binding:"required"`
	Description     string                           `json:"description"`
	DailyPriceCents int64                            `json:"daily_price_cents" binding:"required"`
	Currency        string                           `json:"currency"`
	Instrument      *listingDomain.InstrumentDetails `json:"instrument,omitempty"`
	MusicSheet      *listingDomain.MusicSheetDetails `json:"music_sheet,omitempty"`
}

// UpdateListingRequest is the request DTO for updating a listing.
type UpdateListingRequest struct {
	Title           string                           `json:"title"`
	Description     string                           `json:"description"`
	DailyPriceCents int64                            `json:"daily_price_cents"`
	Instrument      *listingDomain.InstrumentDetails `json:"instrument,omitempty"`
	MusicSheet      *listingDomain.MusicSheetDetails `json:"music_sheet,omitempty"`
}

// AddUnavailabilityRequest is the request DTO for blocking a date range.
type AddUnavailabilityRequest struct {
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
}

// ListingDTO is the API response representation of a listing.
type ListingDTO struct {
	ID              uuid.UUID                        `json:"id"`
	OwnerID         uuid.UUID                        `json:"owner_id"`
	Kind            string                           `json:"kind"`
	Title           string                           `json:"title"`
	Description     string                           `json:"description,omitempty"`
	Instrument      *listingDomain.InstrumentDetails `json:"instrument,omitempty"`
	MusicSheet      *listingDomain.MusicSheetDetails `json:"music_sheet,omitempty"`
	DailyPriceCents int64                            `json:"daily_price_cents"`
	Currency        string                           `json:"currency"`
	Status          string                           `json:"status"`
	CreatedAt       time.Time                        `json:"created_at"`
	UpdatedAt       time.Time                        `json:"updated_at"`
}

// UnavailabilityDTO is the API representation of an unavailability window.
type UnavailabilityDTO struct {
	ID        uuid.UUID `json:"id"`
	ListingID uuid.UUID `json:"listing_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// ListingService implements use cases for listing management, including the
// owner's unavailability windows.
type ListingService struct {
	repo    listingDomain.ListingRepository
	windows bookingDomain.UnavailabilityRepository
	logger  *zap.Logger
}

// NewListingService creates a new ListingService.
func NewListingService(
	repo listingDomain.ListingRepository,
	windows bookingDomain.UnavailabilityRepository,
	logger *zap.Logger,
) *ListingService {
	return &ListingService{repo: repo, windows: windows, logger: logger}
}

// CreateListing creates a new listing for the given owner.
func (s *ListingService) CreateListing(ctx context.Context, ownerID uuid.UUID, req CreateListingRequest) (*ListingDTO, error) {
	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}

	lst, err := listingDomain.NewListing(
		ownerID,
		listingDomain.ListingKind(req.Kind),
		req.Title, req.Description,
		req.Instrument, req.MusicSheet,
		req.DailyPriceCents, currency,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, lst); err != nil {
		s.logger.Error("failed to create listing", zap.Error(err))
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	s.logger.Info("listing created",
		zap.String("listing_id", lst.ID().String()),
		zap.String("owner_id", ownerID.String()),
		zap.String("kind", string(lst.Kind())),
	)
	result := toListingDTO(lst)
	return &result, nil
}

// GetListing returns a single listing by ID.
func (s *ListingService) GetListing(ctx context.Context, listingID uuid.UUID) (*ListingDTO, error) {
	lst, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	result := toListingDTO(lst)
	return &result, nil
}

// BrowseListings returns paginated active listings, optionally filtered by kind.
func (s *ListingService) BrowseListings(ctx context.Context, kind string, page, limit int) (*domain.PaginatedResult[ListingDTO], error) {
	if kind != "" && !listingDomain.ListingKind(kind).IsValid() {
		return nil, domain.NewValidationError("invalid listing kind: " + kind)
	}

	listings, total, err := s.repo.ListActive(ctx, listingDomain.ListingKind(kind), page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to browse listings: %w", err)
	}

	dtos := make([]ListingDTO, len(listings))
	for i, l := range listings {
		dtos[i] = toListingDTO(l)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetMyListings returns all listings owned by the given user.
func (s *ListingService) GetMyListings(ctx context.Context, ownerID uuid.UUID) ([]ListingDTO, error) {
	listings, err := s.repo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get listings: %w", err)
	}
	dtos := make([]ListingDTO, len(listings))
	for i, l := range listings {
		dtos[i] = toListingDTO(l)
	}
	return dtos, nil
}

// UpdateListing updates a listing, verifying ownership.
func (s *ListingService) UpdateListing(ctx context.Context, ownerID, listingID uuid.UUID, req UpdateListingRequest) (*ListingDTO, error) {
	lst, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !lst.IsOwnedBy(ownerID) {
		return nil, domain.NewForbiddenError("you do not own this listing")
	}

	lst.Update(req.Title, req.Description, req.DailyPriceCents, req.Instrument, req.MusicSheet)

	if err := s.repo.Update(ctx, lst); err != nil {
		s.logger.Error("failed to update listing", zap.Error(err))
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	result := toListingDTO(lst)
	return &result, nil
}

// ArchiveListing archives a listing so it no longer accepts bookings.
func (s *ListingService) ArchiveListing(ctx context.Context, ownerID, listingID uuid.UUID) error {
	lst, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		return err
	}
	if !lst.IsOwnedBy(ownerID) {
		return domain.NewForbiddenError("you do not own this listing")
	}

	lst.Archive()
	if err := s.repo.Update(ctx, lst); err != nil {
		s.logger.Error("failed to archive listing", zap.Error(err))
		return fmt.Errorf("failed to archive listing: %w", err)
	}

	s.logger.Info("listing archived", zap.String("listing_id", listingID.String()))
	return nil
}

// AddUnavailability blocks a date range on a listing, verifying ownership.
func (s *ListingService) AddUnavailability(ctx context.Context, ownerID, listingID uuid.UUID, req AddUnavailabilityRequest) (*UnavailabilityDTO, error) {
	lst, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !lst.IsOwnedBy(ownerID) {
		return nil, domain.NewForbiddenError("you do not own this listing")
	}

	period, err := bookingDomain.NewDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	window, err := bookingDomain.NewUnavailabilityWindow(listingID, period, bookingDomain.UnavailabilityReason(req.Reason))
	if err != nil {
		return nil, err
	}

	if err := s.windows.Save(ctx, window); err != nil {
		return nil, fmt.Errorf("failed to save unavailability window: %w", err)
	}

	s.logger.Info("unavailability window added",
		zap.String("listing_id", listingID.String()),
		zap.String("period", period.String()),
		zap.String("reason", string(window.Reason())),
	)
	result := toUnavailabilityDTO(window)
	return &result, nil
}

// GetUnavailability returns all unavailability windows for a listing.
func (s *ListingService) GetUnavailability(ctx context.Context, listingID uuid.UUID) ([]UnavailabilityDTO, error) {
	windows, err := s.windows.FindByListingID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unavailability windows: %w", err)
	}
	dtos := make([]UnavailabilityDTO, len(windows))
	for i, w := range windows {
		dtos[i] = toUnavailabilityDTO(w)
	}
	return dtos, nil
}

// RemoveUnavailability deletes a window, verifying listing ownership.
func (s *ListingService) RemoveUnavailability(ctx context.Context, ownerID, listingID, windowID uuid.UUID) error {
	lst, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		return err
	}
	if !lst.IsOwnedBy(ownerID) {
		return domain.NewForbiddenError("you do not own this listing")
	}

	window, err := s.windows.FindByID(ctx, windowID)
	if err != nil {
		return err
	}
	if window.ListingID() != listingID {
		return domain.NewValidationError("window does not belong to this listing")
	}

	return s.windows.Delete(ctx, windowID)
}

// --- Helpers ---

func toListingDTO(l *listingDomain.Listing) ListingDTO {
	return ListingDTO{
		ID:              l.ID(),
		OwnerID:         l.OwnerID(),
		Kind:            string(l.Kind()),
		Title:           l.Title(),
		Description:     l.Description(),
		Instrument:      l.Instrument(),
		MusicSheet:      l.MusicSheet(),
		DailyPriceCents: l.DailyPriceCents(),
		Currency:        l.Currency(),
		Status:          string(l.Status()),
		CreatedAt:       l.CreatedAt(),
		UpdatedAt:       l.UpdatedAt(),
	}
}

func toUnavailabilityDTO(w *bookingDomain.UnavailabilityWindow) UnavailabilityDTO {
	return UnavailabilityDTO{
		ID:        w.ID(),
		ListingID: w.ListingID(),
		StartDate: w.Period().Start,
		EndDate:   w.Period().End,
		Reason:    string(w.Reason()),
		CreatedAt: w.CreatedAt(),
	}
}
