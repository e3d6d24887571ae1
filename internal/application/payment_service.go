package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/booking"
	listingDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/listing"
	paymentDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/payment"
	"github.com/TQS-Project-OLS/backend-sub001/internal/events"
	"github.com/TQS-Project-OLS/backend-sub001/internal/metrics"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

// InitiatePaymentRequest holds the data needed to initiate a payment.
type InitiatePaymentRequest struct {
	BookingID uuid.UUID `json:"booking_id" binding:"required"`
	Method    string    `json:"method" binding:"required"`
}

// PaymentDTO is the response representation of a payment.
type PaymentDTO struct {
	ID            uuid.UUID  `json:"id"`
	BookingID     uuid.UUID  `json:"booking_id"`
	AmountCents   int64      `json:"amount_cents"`
	Currency      string     `json:"currency"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transaction_id"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// PaymentService implements the payment lifecycle. A payment is created in
// pending, processed synchronously against the (simulated) gateway, and on
// completion confirms the underlying booking.
type PaymentService struct {
	repo     paymentDomain.PaymentRepository
	bookings bookingDomain.BookingRepository
	listings listingDomain.ListingRepository
	booking  *BookingService
	producer EventPublisher
	logger   *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	repo paymentDomain.PaymentRepository,
	bookings bookingDomain.BookingRepository,
	listings listingDomain.ListingRepository,
	bookingService *BookingService,
	producer EventPublisher,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		repo:     repo,
		bookings: bookings,
		listings: listings,
		booking:  bookingService,
		producer: producer,
		logger:   logger,
	}
}

// InitiatePayment creates and processes the payment for a booking. At most
// one payment exists per booking: a second initiation fails with
// ConflictError. The amount is snapshotted from the listing's current daily
// price multiplied by the inclusive rental days.
func (s *PaymentService) InitiatePayment(ctx context.Context, renterID uuid.UUID, req InitiatePaymentRequest) (*PaymentDTO, error) {
	bk, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if !bk.IsRentedBy(renterID) {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	if bk.Status() != bookingDomain.StatusPending {
		return nil, domain.NewInvalidStateError(string(bk.Status()), string(bookingDomain.StatusConfirmed))
	}

	if _, err := s.repo.FindByBookingID(ctx, req.BookingID); err == nil {
		return nil, domain.NewConflictError("a payment already exists for this booking")
	} else if !domain.IsNotFound(err) {
		return nil, err
	}

	lst, err := s.listings.FindByID(ctx, bk.ListingID())
	if err != nil {
		return nil, err
	}
	amountCents := lst.DailyPriceCents() * int64(bk.Period().Days())

	pay, err := paymentDomain.NewPayment(bk.ID(), amountCents, lst.Currency(), paymentDomain.PaymentMethod(req.Method))
	if err != nil {
		return nil, err
	}

	// The unique constraint on booking_id backs the duplicate check above
	// under concurrent initiation.
	if err := s.repo.Save(ctx, pay); err != nil {
		return nil, err
	}

	if err := s.processPending(ctx, pay); err != nil {
		return nil, err
	}

	result := toPaymentDTO(pay)
	return &result, nil
}

// processPending drives a pending payment to completed or failed. The
// reference gateway is simulated: a payment with a recognized method always
// succeeds (method validity was already checked at creation).
func (s *PaymentService) processPending(ctx context.Context, pay *paymentDomain.Payment) error {
	if err := pay.Complete(); err != nil {
		return err
	}

	pay.IncrementVersion()
	if err := s.repo.Update(ctx, pay); err != nil {
		return err
	}

	metrics.PaymentsCompletedTotal.Inc()
	s.publishPaymentEvent(ctx, events.PaymentCompleted, pay)

	if _, err := s.booking.ConfirmOnPayment(ctx, pay.BookingID()); err != nil {
		// The payment stands; the booking left pending concurrently.
		s.logger.Error("failed to confirm booking after payment",
			zap.String("payment_id", pay.ID().String()),
			zap.String("booking_id", pay.BookingID().String()),
			zap.Error(err),
		)
	}

	s.logger.Info("payment completed",
		zap.String("payment_id", pay.ID().String()),
		zap.String("booking_id", pay.BookingID().String()),
		zap.Int64("amount_cents", pay.AmountCents()),
	)
	return nil
}

// RefundPayment refunds a completed payment (admin).
func (s *PaymentService) RefundPayment(ctx context.Context, paymentID uuid.UUID) (*PaymentDTO, error) {
	pay, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if err := pay.Refund(); err != nil {
		return nil, err
	}

	pay.IncrementVersion()
	if err := s.repo.Update(ctx, pay); err != nil {
		return nil, err
	}

	metrics.PaymentsRefundedTotal.Inc()
	s.publishPaymentEvent(ctx, events.PaymentRefunded, pay)

	result := toPaymentDTO(pay)
	return &result, nil
}

// CancelPayment cancels a pending or failed payment.
func (s *PaymentService) CancelPayment(ctx context.Context, paymentID uuid.UUID, actor Actor) (*PaymentDTO, error) {
	pay, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		bk, err := s.bookings.FindByID(ctx, pay.BookingID())
		if err != nil {
			return nil, err
		}
		if !bk.IsRentedBy(actor.ID) {
			return nil, domain.NewForbiddenError("payment does not belong to this user")
		}
	}

	if err := pay.Cancel(); err != nil {
		return nil, err
	}

	pay.IncrementVersion()
	if err := s.repo.Update(ctx, pay); err != nil {
		return nil, err
	}

	result := toPaymentDTO(pay)
	return &result, nil
}

// GetPayment retrieves a single payment by ID.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID uuid.UUID) (*PaymentDTO, error) {
	pay, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	result := toPaymentDTO(pay)
	return &result, nil
}

// GetBookingPayment retrieves the payment attached to a booking.
func (s *PaymentService) GetBookingPayment(ctx context.Context, bookingID uuid.UUID) (*PaymentDTO, error) {
	pay, err := s.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toPaymentDTO(pay)
	return &result, nil
}

// --- Helpers ---

func toPaymentDTO(p *paymentDomain.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            p.ID(),
		BookingID:     p.BookingID(),
		AmountCents:   p.AmountCents(),
		Currency:      p.Currency(),
		Method:        string(p.Method()),
		Status:        string(p.Status()),
		TransactionID: p.TransactionID(),
		FailureReason: p.FailureReason(),
		CompletedAt:   p.CompletedAt(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

func (s *PaymentService) publishPaymentEvent(ctx context.Context, eventType string, p *paymentDomain.Payment) {
	evt := events.PaymentEvent{
		PaymentID:     p.ID(),
		BookingID:     p.BookingID(),
		AmountCents:   p.AmountCents(),
		Currency:      p.Currency(),
		Method:        string(p.Method()),
		Status:        string(p.Status()),
		TransactionID: p.TransactionID(),
		FailureReason: p.FailureReason(),
		OccurredAt:    time.Now().UTC(),
	}
	publishEvent(ctx, s.producer, s.logger, events.TopicPaymentEvents, eventType, evt)
}
