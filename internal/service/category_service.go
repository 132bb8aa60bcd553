package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/domain"
	"github.com/yonatan12121/TMS/internal/store"
)

// CategoryService manages the categories a user groups tasks by.
// Category names are unique per owner.
type CategoryService interface {
	Create(ctx context.Context, ownerID uuid.UUID, name, description string) (*domain.Category, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.Category, error)
	Update(ctx context.Context, ownerID, categoryID uuid.UUID, name, description string) (*domain.Category, error)
	// Delete removes the category; its tasks stay, uncategorized.
	Delete(ctx context.Context, ownerID, categoryID uuid.UUID) error
}

// CategoryServiceImpl implements CategoryService.
type CategoryServiceImpl struct {
	categories store.CategoryStore
	now        func() time.Time
	logger     *slog.Logger
}

var _ CategoryService = (*CategoryServiceImpl)(nil)

// NewCategoryService creates a CategoryServiceImpl.
func NewCategoryService(categories store.CategoryStore, log *slog.Logger) *CategoryServiceImpl {
	if log == nil {
		log = slog.Default()
	}
	return &CategoryServiceImpl{
		categories: categories,
		now:        time.Now,
		logger:     log.With(slog.String("component", "category_service")),
	}
}

// Create implements CategoryService.Create
func (s *CategoryServiceImpl) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	name, description string,
) (*domain.Category, error) {
	c, err := domain.NewCategory(ownerID, name, description)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, s.wrap("create", err)
	}
	return c, nil
}

// List implements CategoryService.List
func (s *CategoryServiceImpl) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Category, error) {
	list, err := s.categories.ListOwned(ctx, ownerID)
	if err != nil {
		return nil, NewServiceError("category", "list", err)
	}
	return list, nil
}

// Update implements CategoryService.Update
func (s *CategoryServiceImpl) Update(
	ctx context.Context,
	ownerID, categoryID uuid.UUID,
	name, description string,
) (*domain.Category, error) {
	c, err := s.categories.GetOwned(ctx, ownerID, categoryID)
	if err != nil {
		return nil, s.wrap("update", err)
	}

	c.Name = strings.TrimSpace(name)
	c.Description = description
	c.UpdatedAt = s.now().UTC()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.categories.Update(ctx, c); err != nil {
		return nil, s.wrap("update", err)
	}
	return c, nil
}

// Delete implements CategoryService.Delete
func (s *CategoryServiceImpl) Delete(ctx context.Context, ownerID, categoryID uuid.UUID) error {
	if err := s.categories.Delete(ctx, ownerID, categoryID); err != nil {
		return s.wrap("delete", err)
	}
	return nil
}

func (s *CategoryServiceImpl) wrap(op string, err error) error {
	if store.IsNotFoundError(err) || store.IsDuplicateError(err) || domain.IsValidationError(err) {
		return err
	}
	return NewServiceError("category", op, err)
}
