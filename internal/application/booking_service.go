package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/booking"
	listingDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/listing"
	"github.com/TQS-Project-OLS/backend-sub001/internal/events"
	"github.com/TQS-Project-OLS/backend-sub001/internal/metrics"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/auth"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/lock"
)

// bookingLockTTL bounds how long a listing's booking lock can be held if the
// process dies between check and insert.
const bookingLockTTL = 5 * time.Second

// Actor identifies the authenticated caller of a use case.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool { return a.Role == auth.RoleAdmin }

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID          uuid.UUID  `json:"id"`
	ListingID   uuid.UUID  `json:"listing_id"`
	RenterID    uuid.UUID  `json:"renter_id"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	Status      string     `json:"status"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CancelNote  string     `json:"cancel_note,omitempty"`
	Version     int64      `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo         bookingDomain.BookingRepository
	listings     listingDomain.ListingRepository
	availability *AvailabilityChecker
	locker       lock.Locker
	producer     EventPublisher
	logger       *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	listings listingDomain.ListingRepository,
	availability *AvailabilityChecker,
	locker lock.Locker,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:         repo,
		listings:     listings,
		availability: availability,
		locker:       locker,
		producer:     producer,
		logger:       logger,
	}
}

// CreateBooking creates a new booking for the given renter. The availability
// check and the insert run under a per-listing lock so two concurrent
// requests for overlapping ranges cannot both pass the check.
func (s *BookingService) CreateBooking(ctx context.Context, renterID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	period, err := bookingDomain.NewDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	lst, err := s.listings.FindByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if !lst.IsActive() {
		return nil, domain.NewValidationError("listing is not available for booking")
	}
	if lst.IsOwnedBy(renterID) {
		return nil, domain.NewForbiddenError("cannot book your own listing")
	}

	release, err := s.locker.Acquire(ctx, "booking:listing:"+lst.ID().String(), bookingLockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	available, err := s.availability.CanBook(ctx, lst.ID(), period)
	if err != nil {
		return nil, err
	}
	if !available {
		metrics.BookingsRejectedTotal.WithLabelValues("overlap").Inc()
		return nil, domain.NewConflictError(
			fmt.Sprintf("listing is not available for %s", period))
	}

	bk, err := bookingDomain.NewBooking(lst.ID(), renterID, period)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	metrics.BookingsCreatedTotal.Inc()
	s.publishBookingEvent(ctx, events.BookingCreated, bk, "")

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("listing_id", lst.ID().String()),
		zap.String("period", period.String()),
	)

	result := toBookingDTO(bk)
	return &result, nil
}

// ConfirmOnPayment transitions a booking from pending to confirmed. Invoked
// by the payment lifecycle when a payment completes.
func (s *BookingService) ConfirmOnPayment(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Confirm(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingConfirmed, bk, "")

	result := toBookingDTO(bk)
	return &result, nil
}

// RejectBooking lets the listing owner reject a pending booking.
func (s *BookingService) RejectBooking(ctx context.Context, bookingID uuid.UUID, actor Actor, note string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		lst, err := s.listings.FindByID(ctx, bk.ListingID())
		if err != nil {
			return nil, err
		}
		if !lst.IsOwnedBy(actor.ID) {
			return nil, domain.NewForbiddenError("only the listing owner may reject a booking")
		}
	}

	if err := bk.Reject(note); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingRejected, bk, note)

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a booking that is not yet in a terminal state. The
// renter and the listing owner may cancel their own booking; an admin may
// cancel any booking.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID, actor Actor, reason string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && !bk.IsRentedBy(actor.ID) {
		lst, err := s.listings.FindByID(ctx, bk.ListingID())
		if err != nil {
			return nil, err
		}
		if !lst.IsOwnedBy(actor.ID) {
			return nil, domain.NewForbiddenError("booking does not belong to this user")
		}
	}

	if err := bk.Cancel(reason); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	metrics.BookingsCancelledTotal.Inc()
	s.publishBookingEvent(ctx, events.BookingCancelled, bk, reason)

	s.logger.Info("booking cancelled",
		zap.String("booking_id", bk.ID().String()),
		zap.String("cancelled_by", actor.ID.String()),
	)

	result := toBookingDTO(bk)
	return &result, nil
}

// CompleteBooking marks a confirmed booking completed after the item is
// returned, unlocking reviews. Allowed for the listing owner or an admin.
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID uuid.UUID, actor Actor) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		lst, err := s.listings.FindByID(ctx, bk.ListingID())
		if err != nil {
			return nil, err
		}
		if !lst.IsOwnedBy(actor.ID) {
			return nil, domain.NewForbiddenError("only the listing owner may complete a booking")
		}
	}

	if err := bk.Complete(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingCompleted, bk, "")

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetRenterBookings retrieves paginated bookings made by a renter.
func (s *BookingService) GetRenterBookings(ctx context.Context, renterID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindByRenterID(ctx, renterID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// GetListingBookings retrieves paginated bookings against a listing, for its owner.
func (s *BookingService) GetListingBookings(ctx context.Context, listingID, ownerID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	lst, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !lst.IsOwnedBy(ownerID) {
		return nil, domain.NewForbiddenError("listing does not belong to this user")
	}

	bookings, total, err := s.repo.FindByListingID(ctx, listingID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings), total, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:          bk.ID(),
		ListingID:   bk.ListingID(),
		RenterID:    bk.RenterID(),
		StartDate:   bk.Period().Start,
		EndDate:     bk.Period().End,
		Status:      string(bk.Status()),
		ConfirmedAt: bk.ConfirmedAt(),
		CompletedAt: bk.CompletedAt(),
		CancelledAt: bk.CancelledAt(),
		CancelNote:  bk.CancelNote(),
		Version:     bk.Version(),
		CreatedAt:   bk.CreatedAt(),
		UpdatedAt:   bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func (s *BookingService) publishBookingEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking, note string) {
	evt := events.BookingEvent{
		BookingID:  bk.ID(),
		ListingID:  bk.ListingID(),
		RenterID:   bk.RenterID(),
		StartDate:  bk.Period().Start,
		EndDate:    bk.Period().End,
		Status:     string(bk.Status()),
		Note:       note,
		OccurredAt: time.Now().UTC(),
	}
	publishEvent(ctx, s.producer, s.logger, events.TopicBookingEvents, eventType, evt)
}
