package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	paymentDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/payment"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

// PaymentModel is the GORM model for the payments table. The unique index on
// booking_id enforces one payment per booking at the database level.
type PaymentModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BookingID     uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	AmountCents   int64      `gorm:"not null"`
	Currency      string     `gorm:"not null;size:3;default:'EUR'"`
	Method        string     `gorm:"not null;size:20"`
	Status        string     `gorm:"not null;size:20;index"`
	TransactionID string     `gorm:"not null;size:20;uniqueIndex"`
	FailureReason string     `gorm:"size:500"`
	CompletedAt   *time.Time `gorm:""`
	Version       int64      `gorm:"not null;default:1"`
	CreatedAt     time.Time  `gorm:"not null"`
	UpdatedAt     time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PaymentModel) TableName() string {
	return "payments"
}

// GormPaymentRepository is the GORM-based implementation of PaymentRepository.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository.
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID retrieves a payment by its unique identifier.
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*paymentDomain.Payment, error) {
	var model PaymentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Payment", id.String())
		}
		return nil, fmt.Errorf("failed to find payment by ID: %w", err)
	}
	return toDomainPayment(&model), nil
}

// FindByBookingID retrieves the payment tied to a booking.
func (r *GormPaymentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*paymentDomain.Payment, error) {
	var model PaymentModel
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Payment", "booking "+bookingID.String())
		}
		return nil, fmt.Errorf("failed to find payment by booking ID: %w", err)
	}
	return toDomainPayment(&model), nil
}

// SumCompletedAmount returns total revenue over completed payments (admin).
func (r *GormPaymentRepository) SumCompletedAmount(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&PaymentModel{}).
		Where("status = ?", string(paymentDomain.StatusCompleted)).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum completed payments: %w", err)
	}
	return total, nil
}

// Save persists a new payment. A unique constraint violation on booking_id is
// reported as a ConflictError.
func (r *GormPaymentRepository) Save(ctx context.Context, p *paymentDomain.Payment) error {
	if err := r.db.WithContext(ctx).Create(toPaymentModel(p)).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("a payment already exists for this booking")
		}
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

// Update persists changes to an existing payment with optimistic locking.
func (r *GormPaymentRepository) Update(ctx context.Context, p *paymentDomain.Payment) error {
	model := toPaymentModel(p)

	expectedVersion := p.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&PaymentModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":         model.Status,
			"failure_reason": model.FailureReason,
			"completed_at":   model.CompletedAt,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("payment was modified by another transaction")
	}

	return nil
}

// isUniqueViolation detects unique constraint errors from both postgres
// (SQLSTATE 23505) and gorm's translated error.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key")
}

// --- Conversion Helpers ---

func toPaymentModel(p *paymentDomain.Payment) *PaymentModel {
	return &PaymentModel{
		ID:            p.ID(),
		BookingID:     p.BookingID(),
		AmountCents:   p.AmountCents(),
		Currency:      p.Currency(),
		Method:        string(p.Method()),
		Status:        string(p.Status()),
		TransactionID: p.TransactionID(),
		FailureReason: p.FailureReason(),
		CompletedAt:   p.CompletedAt(),
		Version:       p.Version(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

func toDomainPayment(m *PaymentModel) *paymentDomain.Payment {
	return paymentDomain.ReconstructPayment(
		m.ID,
		m.BookingID,
		m.AmountCents,
		m.Currency,
		paymentDomain.PaymentMethod(m.Method),
		paymentDomain.PaymentStatus(m.Status),
		m.TransactionID,
		m.FailureReason,
		m.CompletedAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
