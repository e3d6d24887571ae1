package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/booking"
	listingDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/listing"
	paymentDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/payment"
	reviewDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/review"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/kafka"
)

// --- booking repository fake ---

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepo) FindByRenterID(_ context.Context, renterID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.RenterID() == renterID {
			out = append(out, bk)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) FindByListingID(_ context.Context, listingID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.ListingID() == listingID {
			out = append(out, bk)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) FindOverlapping(_ context.Context, listingID uuid.UUID, period bookingDomain.DateRange, statuses []bookingDomain.BookingStatus) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.ListingID() != listingID || !bk.Period().Overlaps(period) {
			continue
		}
		for _, s := range statuses {
			if bk.Status() == s {
				out = append(out, bk)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*bookingDomain.Booking, 0, len(r.bookings))
	for _, bk := range r.bookings {
		out = append(out, bk)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[bk.Status().String()]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[bk.ID()]; !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	r.bookings[bk.ID()] = bk
	return nil
}

// --- unavailability repository fake ---

type fakeUnavailabilityRepo struct {
	mu      sync.Mutex
	windows map[uuid.UUID]*bookingDomain.UnavailabilityWindow
}

func newFakeUnavailabilityRepo() *fakeUnavailabilityRepo {
	return &fakeUnavailabilityRepo{windows: make(map[uuid.UUID]*bookingDomain.UnavailabilityWindow)}
}

func (r *fakeUnavailabilityRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.UnavailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	if !ok {
		return nil, domain.NewNotFoundError("UnavailabilityWindow", id.String())
	}
	return w, nil
}

func (r *fakeUnavailabilityRepo) FindByListingID(_ context.Context, listingID uuid.UUID) ([]*bookingDomain.UnavailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.UnavailabilityWindow
	for _, w := range r.windows {
		if w.ListingID() == listingID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeUnavailabilityRepo) FindOverlapping(_ context.Context, listingID uuid.UUID, period bookingDomain.DateRange) ([]*bookingDomain.UnavailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.UnavailabilityWindow
	for _, w := range r.windows {
		if w.ListingID() == listingID && w.Period().Overlaps(period) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeUnavailabilityRepo) Save(_ context.Context, w *bookingDomain.UnavailabilityWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.windows[w.ID()] = w
	return nil
}

func (r *fakeUnavailabilityRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.windows[id]; !ok {
		return domain.NewNotFoundError("UnavailabilityWindow", id.String())
	}
	delete(r.windows, id)
	return nil
}

// --- listing repository fake ---

type fakeListingRepo struct {
	mu       sync.Mutex
	listings map[uuid.UUID]*listingDomain.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[uuid.UUID]*listingDomain.Listing)}
}

func (r *fakeListingRepo) FindByID(_ context.Context, id uuid.UUID) (*listingDomain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Listing", id.String())
	}
	return l, nil
}

func (r *fakeListingRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID) ([]*listingDomain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*listingDomain.Listing
	for _, l := range r.listings {
		if l.OwnerID() == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) ListActive(_ context.Context, kind listingDomain.ListingKind, page, limit int) ([]*listingDomain.Listing, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*listingDomain.Listing
	for _, l := range r.listings {
		if !l.IsActive() {
			continue
		}
		if kind != "" && l.Kind() != kind {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (r *fakeListingRepo) Save(_ context.Context, l *listingDomain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings[l.ID()] = l
	return nil
}

func (r *fakeListingRepo) Update(_ context.Context, l *listingDomain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[l.ID()]; !ok {
		return domain.NewNotFoundError("Listing", l.ID().String())
	}
	r.listings[l.ID()] = l
	return nil
}

// --- payment repository fake ---

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*paymentDomain.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*paymentDomain.Payment)}
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*paymentDomain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, domain.NewNotFoundError("Payment", id.String())
	}
	return p, nil
}

func (r *fakePaymentRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*paymentDomain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.BookingID() == bookingID {
			return p, nil
		}
	}
	return nil, domain.NewNotFoundError("Payment", "booking "+bookingID.String())
}

func (r *fakePaymentRepo) SumCompletedAmount(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, p := range r.payments {
		if p.Status() == paymentDomain.StatusCompleted {
			total += p.AmountCents()
		}
	}
	return total, nil
}

func (r *fakePaymentRepo) Save(_ context.Context, p *paymentDomain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.payments {
		if existing.BookingID() == p.BookingID() {
			return domain.NewConflictError("a payment already exists for this booking")
		}
	}
	r.payments[p.ID()] = p
	return nil
}

func (r *fakePaymentRepo) Update(_ context.Context, p *paymentDomain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[p.ID()]; !ok {
		return domain.NewNotFoundError("Payment", p.ID().String())
	}
	r.payments[p.ID()] = p
	return nil
}

// --- review repository fake ---

type reviewKey struct {
	bookingID uuid.UUID
	kind      reviewDomain.ReviewKind
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[reviewKey]*reviewDomain.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[reviewKey]*reviewDomain.Review)}
}

func (r *fakeReviewRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID, kind reviewDomain.ReviewKind) (*reviewDomain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[reviewKey{bookingID, kind}]
	if !ok {
		return nil, domain.NewNotFoundError("Review", "booking "+bookingID.String())
	}
	return rv, nil
}

func (r *fakeReviewRepo) ExistsForBooking(_ context.Context, bookingID uuid.UUID, kind reviewDomain.ReviewKind) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.reviews[reviewKey{bookingID, kind}]
	return ok, nil
}

func (r *fakeReviewRepo) FindByListingID(_ context.Context, listingID uuid.UUID, page, limit int) ([]*reviewDomain.Review, int64, error) {
	return nil, 0, nil
}

func (r *fakeReviewRepo) AverageScore(_ context.Context) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum, n int
	for key, rv := range r.reviews {
		if key.kind == reviewDomain.KindItem {
			sum += rv.Score()
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

func (r *fakeReviewRepo) Save(_ context.Context, rv *reviewDomain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := reviewKey{rv.BookingID(), rv.Kind()}
	if _, ok := r.reviews[key]; ok {
		return domain.NewConflictError("a review of this kind already exists for this booking")
	}
	r.reviews[key] = rv
	return nil
}

// --- locker fake ---

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	acquired []string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (l *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, domain.NewConflictError("resource is locked, try again")
	}
	l.held[key] = true
	l.acquired = append(l.acquired, key)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
	}, nil
}

// --- event publisher fake ---

type recordedEvent struct {
	Topic string
	Type  string
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Topic: topic, Type: event.Type})
	return nil
}

func (p *fakePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// --- wiring helper ---

type serviceFixture struct {
	bookings *fakeBookingRepo
	windows  *fakeUnavailabilityRepo
	listings *fakeListingRepo
	payments *fakePaymentRepo
	reviews  *fakeReviewRepo
	locker   *fakeLocker
	events   *fakePublisher

	listingSvc *ListingService
	bookingSvc *BookingService
	paymentSvc *PaymentService
	reviewSvc  *ReviewService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		bookings: newFakeBookingRepo(),
		windows:  newFakeUnavailabilityRepo(),
		listings: newFakeListingRepo(),
		payments: newFakePaymentRepo(),
		reviews:  newFakeReviewRepo(),
		locker:   newFakeLocker(),
		events:   &fakePublisher{},
	}

	logger := zap.NewNop()
	availability := NewAvailabilityChecker(f.bookings, f.windows)
	f.listingSvc = NewListingService(f.listings, f.windows, logger)
	f.bookingSvc = NewBookingService(f.bookings, f.listings, availability, f.locker, f.events, logger)
	f.paymentSvc = NewPaymentService(f.payments, f.bookings, f.listings, f.bookingSvc, f.events, logger)
	f.reviewSvc = NewReviewService(f.reviews, f.bookings, f.listings, f.events, logger)
	return f
}

// seedListing stores an active instrument listing owned by ownerID.
func (f *serviceFixture) seedListing(ownerID uuid.UUID, dailyPriceCents int64) *listingDomain.Listing {
	l, err := listingDomain.NewListing(ownerID, listingDomain.KindInstrument, "Test Guitar", "",
		&listingDomain.InstrumentDetails{Category: "guitar"}, nil, dailyPriceCents, "EUR")
	if err != nil {
		panic(err)
	}
	f.listings.listings[l.ID()] = l
	return l
}

// seedBooking stores a booking directly in the fake repository.
func (f *serviceFixture) seedBooking(listingID, renterID uuid.UUID, period bookingDomain.DateRange) *bookingDomain.Booking {
	bk, err := bookingDomain.NewBooking(listingID, renterID, period)
	if err != nil {
		panic(err)
	}
	f.bookings.bookings[bk.ID()] = bk
	return bk
}
