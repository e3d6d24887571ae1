package listing

import (
	"time"

	"github.com/google/uuid"

	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

// ListingKind tags the variant of a rentable listing.
type ListingKind string

const (
	KindInstrument ListingKind = "instrument"
	KindMusicSheet ListingKind = "music_sheet"
)

// IsValid returns true if the kind is recognized.
func (k ListingKind) IsValid() bool {
	return k == KindInstrument || k == KindMusicSheet
}

// ListingStatus represents the lifecycle state of a listing.
type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusArchived ListingStatus = "archived"
)

// InstrumentDetails holds the instrument-specific fields.
type InstrumentDetails struct {
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
}

// MusicSheetDetails holds the music-sheet-specific fields.
type MusicSheetDetails struct {
	Composer   string `json:"composer"`
	Genre      string `json:"genre"`
	Difficulty string `json:"difficulty"`
}

// Listing is the aggregate root for a rentable item. The kind tag selects
// which detail struct is populated; there is no behavior dispatch on it.
type Listing struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	kind        ListingKind
	title       string
	description string

	instrument *InstrumentDetails
	musicSheet *MusicSheetDetails

	dailyPriceCents int64
	currency        string
	status          ListingStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewListing creates a new active listing with validated fields.
func NewListing(
	ownerID uuid.UUID,
	kind ListingKind,
	title, description string,
	instrument *InstrumentDetails,
	musicSheet *MusicSheetDetails,
	dailyPriceCents int64,
	currency string,
) (*Listing, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if !kind.IsValid() {
		return nil, domain.NewValidationError("invalid listing kind: " + string(kind))
	}
	if title == "" {
		return nil, domain.NewValidationError("title is required")
	}
	if dailyPriceCents <= 0 {
		return nil, domain.NewValidationError("daily price must be positive")
	}
	if kind == KindInstrument && instrument == nil {
		return nil, domain.NewValidationError("instrument details are required")
	}
	if kind == KindMusicSheet && musicSheet == nil {
		return nil, domain.NewValidationError("music sheet details are required")
	}

	now := time.Now().UTC()
	return &Listing{
		id:              uuid.New(),
		ownerID:         ownerID,
		kind:            kind,
		title:           title,
		description:     description,
		instrument:      instrument,
		musicSheet:      musicSheet,
		dailyPriceCents: dailyPriceCents,
		currency:        currency,
		status:          ListingStatusActive,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a Listing from persistence data (no validation).
func Reconstruct(
	id, ownerID uuid.UUID,
	kind ListingKind,
	title, description string,
	instrument *InstrumentDetails,
	musicSheet *MusicSheetDetails,
	dailyPriceCents int64,
	currency string,
	status ListingStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Listing {
	return &Listing{
		id:              id,
		ownerID:         ownerID,
		kind:            kind,
		title:           title,
		description:     description,
		instrument:      instrument,
		musicSheet:      musicSheet,
		dailyPriceCents: dailyPriceCents,
		currency:        currency,
		status:          status,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

func (l *Listing) ID() uuid.UUID                  { return l.id }
func (l *Listing) OwnerID() uuid.UUID             { return l.ownerID }
func (l *Listing) Kind() ListingKind              { return l.kind }
func (l *Listing) Title() string                  { return l.title }
func (l *Listing) Description() string            { return l.description }
func (l *Listing) Instrument() *InstrumentDetails { return l.instrument }
func (l *Listing) MusicSheet() *MusicSheetDetails { return l.musicSheet }
func (l *Listing) DailyPriceCents() int64         { return l.dailyPriceCents }
func (l *Listing) Currency() string               { return l.currency }
func (l *Listing) Status() ListingStatus          { return l.status }
func (l *Listing) Version() int64                 { return l.version }
func (l *Listing) CreatedAt() time.Time           { return l.createdAt }
func (l *Listing) UpdatedAt() time.Time           { return l.updatedAt }

// IsOwnedBy checks if the listing belongs to the given owner.
func (l *Listing) IsOwnedBy(ownerID uuid.UUID) bool {
	return l.ownerID == ownerID
}

// IsActive returns true if the listing can be booked.
func (l *Listing) IsActive() bool {
	return l.status == ListingStatusActive
}

// --- Behavior ---

// Update applies partial updates to the listing.
func (l *Listing) Update(title, description string, dailyPriceCents int64, instrument *InstrumentDetails, musicSheet *MusicSheetDetails) {
	if title != "" {
		l.title = title
	}
	if description != "" {
		l.description = description
	}
	if dailyPriceCents > 0 {
		l.dailyPriceCents = dailyPriceCents
	}
	if instrument != nil && l.kind == KindInstrument {
		l.instrument = instrument
	}
	if musicSheet != nil && l.kind == KindMusicSheet {
		l.musicSheet = musicSheet
	}
	l.version++
	l.updatedAt = time.Now().UTC()
}

// Archive marks the listing as archived so it no longer accepts bookings.
func (l *Listing) Archive() {
	l.status = ListingStatusArchived
	l.version++
	l.updatedAt = time.Now().UTC()
}
