package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TQS-Project-OLS/backend-sub001/pkg/auth"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

func TestInitiatePayment_CompletesAndConfirmsBooking(t *testing.T) {
	f := newServiceFixture()
	owner, renter := uuid.New(), uuid.New()
	lst := f.seedListing(owner, 2500)
	bk := f.seedBooking(lst.ID(), renter, mustPeriod(t, day(2026, 9, 10), day(2026, 9, 13)))

	dto, err := f.paymentSvc.InitiatePayment(context.Background(), renter, InitiatePaymentRequest{
		BookingID: bk.ID(),
		Method:    "CARD",
	})
	require.NoError(t, err)

	assert.Equal(t, "completed", dto.Status)
	// 4 inclusive days at 2500 cents/day.
	assert.Equal(t, int64(10000), dto.AmountCents)
	assert.Equal(t, "EUR", dto.Currency)
	assert.NotEmpty(t, dto.TransactionID)

	confirmed, err := f.bookings.FindByID(context.Background(), bk.ID())
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status().String())

	types := f.events.eventTypes()
	assert.Contains(t, types, "payment.completed")
	assert.Contains(t, types, "booking.confirmed")
}

func TestInitiatePayment_DuplicateRejected(t *testing.T) {
	f := newServiceFixture()
	owner, renter := uuid.New(), uuid.New()
	lst := f.seedListing(owner, 2500)
	bk := f.seedBooking(lst.ID(), renter, mustPeriod(t, day(2026, 9, 10), day(2026, 9, 12)))

	_, err := f.paymentSvc.InitiatePayment(context.Background(), renter, InitiatePaymentRequest{
		BookingID: bk.ID(), Method: "CARD",
	})
	require.NoError(t, err)

	_, err = f.paymentSvc.InitiatePayment(context.Background(), renter, InitiatePaymentRequest{
		BookingID: bk.ID(), Method: "MBWAY",
	})
	assert.True(t, domain.IsConflict(err))
}

func TestInitiatePayment_WrongRenterForbidden(t *testing.T) {
	f := newServiceFixture()
	lst := f.seedListing(uuid.New(), 2500)
	bk := f.seedBooking(lst.ID(), uuid.New(), mustPeriod(t, day(2026, 9, 10), day(2026, 9, 12)))

	_, err := f.paymentSvc.InitiatePayment(context.Background(), uuid.New(), InitiatePaymentRequest{
		BookingID: bk.ID(), Method: "CARD",
	})
	assert.True(t, domain.IsForbidden(err))
}

func TestInitiatePayment_NonPendingBookingRejected(t *testing.T) {
	f := newServiceFixture()
	owner, renter := uuid.New(), uuid.New()
	lst := f.seedListing(owner, 2500)
	bk := f.seedBooking(lst.ID(), renter, mustPeriod(t, day(2026, 9, 10), day(2026, 9, 12)))
	require.NoError(t, bk.Cancel("changed plans"))

	_, err := f.paymentSvc.InitiatePayment(context.Background(), renter, InitiatePaymentRequest{
		BookingID: bk.ID(), Method: "CARD",
	})
	assert.True(t, domain.IsInvalidState(err))
}

func TestInitiatePayment_UnknownMethodRejected(t *testing.T) {
	f := newServiceFixture()
	owner, renter := uuid.New(), uuid.New()
	lst := f.seedListing(owner, 2500)
	bk := f.seedBooking(lst.ID(), renter, mustPeriod(t, day(2026, 9, 10), day(2026, 9, 12)))

	_, err := f.paymentSvc.InitiatePayment(context.Background(), renter, InitiatePaymentRequest{
		BookingID: bk.ID(), Method: "CRYPTO",
	})
	assert.True(t, domain.IsValidation(err))
}

func TestRefundPayment(t *testing.T) {
	f := newServiceFixture()
	owner, renter := uuid.New(), uuid.New()
	lst := f.seedListing(owner, 2500)
	bk := f.seedBooking(lst.ID(), renter, mustPeriod(t, day(2026, 9, 10), day(2026, 9, 12)))

	pay, err := f.paymentSvc.InitiatePayment(context.Background(), renter, InitiatePaymentRequest{
		BookingID: bk.ID(), Method: "CARD",
	})
	require.NoError(t, err)

	refunded, err := f.paymentSvc.RefundPayment(context.Background(), pay.ID)
	require.NoError(t, err)
	assert.Equal(t, "refunded", refunded.Status)
	assert.Contains(t, f.events.eventTypes(), "payment.refunded")

	// Refunded is terminal.
	_, err = f.paymentSvc.RefundPayment(context.Background(), pay.ID)
	assert.True(t, domain.IsInvalidState(err))
}

func TestCancelPayment_CompletedRejected(t *testing.T) {
	f := newServiceFixture()
	owner, renter := uuid.New(), uuid.New()
	lst := f.seedListing(owner, 2500)
	bk := f.seedBooking(lst.ID(), renter, mustPeriod(t, day(2026, 9, 10), day(2026, 9, 12)))

	pay, err := f.paymentSvc.InitiatePayment(context.Background(), renter, InitiatePaymentRequest{
		BookingID: bk.ID(), Method: "CARD",
	})
	require.NoError(t, err)

	_, err = f.paymentSvc.CancelPayment(context.Background(), pay.ID,
		Actor{ID: renter, Role: auth.RoleRenter})
	assert.True(t, domain.IsInvalidState(err))

	_, err = f.paymentSvc.CancelPayment(context.Background(), pay.ID,
		Actor{ID: uuid.New(), Role: auth.RoleRenter})
	assert.True(t, domain.IsForbidden(err), "stranger is rejected before state is checked")
}

func TestGetBookingPayment_NotFound(t *testing.T) {
	f := newServiceFixture()

	_, err := f.paymentSvc.GetBookingPayment(context.Background(), uuid.New())
	assert.True(t, domain.IsNotFound(err))
}
