package listing

import (
	"context"

	"github.com/google/uuid"
)

// ListingRepository defines persistence operations for listings.
type ListingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*Listing, error)
	ListActive(ctx context.Context, kind ListingKind, page, limit int) ([]*Listing, int64, error)
	Save(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
}
