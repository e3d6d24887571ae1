package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	listingDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/listing"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

func TestCreateListing(t *testing.T) {
	f := newServiceFixture()
	owner := uuid.New()

	dto, err := f.listingSvc.CreateListing(context.Background(), owner, CreateListingRequest{
		Kind:            "instrument",
		Title:           "Fender Stratocaster",
		DailyPriceCents: 4500,
		Instrument:      &listingDomain.InstrumentDetails{Category: "guitar", Brand: "Fender"},
	})
	require.NoError(t, err)
	assert.Equal(t, "active", dto.Status)
	assert.Equal(t, "EUR", dto.Currency, "currency defaults to EUR")

	_, err = f.listingSvc.CreateListing(context.Background(), owner, CreateListingRequest{
		Kind: "music_sheet", Title: "Moonlight Sonata", DailyPriceCents: 300,
	})
	assert.True(t, domain.IsValidation(err), "music sheet listing needs sheet details")
}

func TestBrowseListings_FiltersArchivedAndKind(t *testing.T) {
	f := newServiceFixture()
	owner := uuid.New()
	f.seedListing(owner, 2500)
	archived := f.seedListing(owner, 3000)
	archived.Archive()

	sheet, err := listingDomain.NewListing(owner, listingDomain.KindMusicSheet, "Etudes Op. 10", "",
		nil, &listingDomain.MusicSheetDetails{Composer: "Chopin"}, 300, "EUR")
	require.NoError(t, err)
	require.NoError(t, f.listings.Save(context.Background(), sheet))

	all, err := f.listingSvc.BrowseListings(context.Background(), "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	sheets, err := f.listingSvc.BrowseListings(context.Background(), "music_sheet", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sheets.Total)
	assert.Equal(t, "Etudes Op. 10", sheets.Items[0].Title)
}

func TestUpdateListing_OwnerOnly(t *testing.T) {
	f := newServiceFixture()
	owner := uuid.New()
	lst := f.seedListing(owner, 2500)

	_, err := f.listingSvc.UpdateListing(context.Background(), uuid.New(), lst.ID(), UpdateListingRequest{
		Title: "New Title",
	})
	assert.True(t, domain.IsForbidden(err))

	dto, err := f.listingSvc.UpdateListing(context.Background(), owner, lst.ID(), UpdateListingRequest{
		Title: "New Title", DailyPriceCents: 3000,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Title", dto.Title)
	assert.Equal(t, int64(3000), dto.DailyPriceCents)
}

func TestUnavailabilityLifecycle(t *testing.T) {
	f := newServiceFixture()
	owner := uuid.New()
	lst := f.seedListing(owner, 2500)

	_, err := f.listingSvc.AddUnavailability(context.Background(), uuid.New(), lst.ID(), AddUnavailabilityRequest{
		StartDate: day(2026, 9, 10), EndDate: day(2026, 9, 12), Reason: "MAINTENANCE",
	})
	assert.True(t, domain.IsForbidden(err), "only the owner blocks dates")

	w, err := f.listingSvc.AddUnavailability(context.Background(), owner, lst.ID(), AddUnavailabilityRequest{
		StartDate: day(2026, 9, 10), EndDate: day(2026, 9, 12), Reason: "MAINTENANCE",
	})
	require.NoError(t, err)

	windows, err := f.listingSvc.GetUnavailability(context.Background(), lst.ID())
	require.NoError(t, err)
	assert.Len(t, windows, 1)

	other := f.seedListing(owner, 1000)
	err = f.listingSvc.RemoveUnavailability(context.Background(), owner, other.ID(), w.ID)
	assert.True(t, domain.IsValidation(err), "window must belong to the listing")

	require.NoError(t, f.listingSvc.RemoveUnavailability(context.Background(), owner, lst.ID(), w.ID))
	windows, err = f.listingSvc.GetUnavailability(context.Background(), lst.ID())
	require.NoError(t, err)
	assert.Empty(t, windows)
}
