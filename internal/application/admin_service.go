package application

import (
	"context"

	"go.uber.org/zap"

	bookingDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/booking"
	paymentDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/payment"
	reviewDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/review"
)

// PlatformStats is the aggregate view returned to admins.
type PlatformStats struct {
	TotalBookings      int64            `json:"total_bookings"`
	BookingsByStatus   map[string]int64 `json:"bookings_by_status"`
	TotalRevenueCents  int64            `json:"total_revenue_cents"`
	AverageReviewScore float64          `json:"average_review_score"`
}

// AdminService provides platform-wide oversight queries.
type AdminService struct {
	bookings bookingDomain.BookingRepository
	payments paymentDomain.PaymentRepository
	reviews  reviewDomain.ReviewRepository
	logger   *zap.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	bookings bookingDomain.BookingRepository,
	payments paymentDomain.PaymentRepository,
	reviews reviewDomain.ReviewRepository,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{bookings: bookings, payments: payments, reviews: reviews, logger: logger}
}

// GetPlatformStats aggregates booking counts, completed payment revenue and
// the platform-wide average review score.
func (s *AdminService) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	byStatus, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, status := range bookingDomain.AllBookingStatuses() {
		if _, ok := byStatus[status.String()]; !ok {
			byStatus[status.String()] = 0
		}
	}
	var total int64
	for _, count := range byStatus {
		total += count
	}

	revenue, err := s.payments.SumCompletedAmount(ctx)
	if err != nil {
		return nil, err
	}

	avgScore, err := s.reviews.AverageScore(ctx)
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		TotalBookings:      total,
		BookingsByStatus:   byStatus,
		TotalRevenueCents:  revenue,
		AverageReviewScore: avgScore,
	}, nil
}
