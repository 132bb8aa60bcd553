package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/domain"
)

// CategoryStore defines the interface for category persistence.
// All lookups are scoped to the owner.
type CategoryStore interface {
	// Create saves a new category.
	// Returns ErrCategoryNameExists if the owner already uses the name.
	Create(ctx context.Context, category *domain.Category) error

	// GetOwned returns the category if ownerID owns it, ErrCategoryNotFound otherwise.
	GetOwned(ctx context.Context, ownerID, categoryID uuid.UUID) (*domain.Category, error)

	// ListOwned returns the owner's categories ordered by name.
	ListOwned(ctx context.Context, ownerID uuid.UUID) ([]domain.Category, error)

	// Update writes name and description of an owned category.
	// Returns ErrCategoryNameExists on a name clash.
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes an owned category. Its tasks keep existing without a category.
	Delete(ctx context.Context, ownerID, categoryID uuid.UUID) error
}
