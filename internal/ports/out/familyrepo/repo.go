package familyrepo

import (
	"context"

	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
)

// Repository provides access to stored family records.
//
// Result ordering expectations:
// - List returns families ordered by family name (case-insensitive), then ID.
// - Member order inside a profile is preserved exactly as saved.
type Repository interface {
	Create(ctx context.Context, f domain.Family) error
	// Save replaces an existing family. It returns ErrNotFound if the ID is unknown.
	Save(ctx context.Context, f domain.Family) error

	GetByID(ctx context.Context, id domain.FamilyID) (domain.Family, error)
	List(ctx context.Context) ([]domain.Family, error)

	Delete(ctx context.Context, id domain.FamilyID) error
}
