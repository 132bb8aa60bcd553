package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/domain"
	"github.com/yonatan12121/TMS/internal/platform/logger"
	"github.com/yonatan12121/TMS/internal/store"
)

// PostgresCategoryStore implements the store.CategoryStore interface.
type PostgresCategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a new PostgreSQL implementation of the CategoryStore interface.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCategoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_store")),
	}
}

var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

// Create implements store.CategoryStore.Create
func (s *PostgresCategoryStore) Create(ctx context.Context, c *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := c.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO categories (id, owner_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.OwnerID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		mapped := MapError(err)
		if !errors.Is(mapped, store.ErrCategoryNameExists) {
			log.Error("failed to create category",
				slog.String("error", err.Error()),
				slog.String("category_id", c.ID.String()))
		}
		return mapped
	}

	log.Info("category created", slog.String("category_id", c.ID.String()))
	return nil
}

// GetOwned implements store.CategoryStore.GetOwned
func (s *PostgresCategoryStore) GetOwned(
	ctx context.Context,
	ownerID, categoryID uuid.UUID,
) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM categories
		WHERE id = $1 AND owner_id = $2
	`
	var c domain.Category
	err := s.db.QueryRowContext(ctx, query, categoryID, ownerID).Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCategoryNotFound
		}
		log.Error("failed to get category",
			slog.String("error", err.Error()),
			slog.String("category_id", categoryID.String()))
		return nil, MapError(err)
	}
	return &c, nil
}

// ListOwned implements store.CategoryStore.ListOwned
func (s *PostgresCategoryStore) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM categories
		WHERE owner_id = $1
		ORDER BY name ASC
	`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to list categories", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

// Update implements store.CategoryStore.Update
func (s *PostgresCategoryStore) Update(ctx context.Context, c *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := c.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE categories
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4 AND owner_id = $5
	`
	result, err := s.db.ExecContext(ctx, query, c.Name, c.Description, c.UpdatedAt, c.ID, c.OwnerID)
	if err != nil {
		mapped := MapError(err)
		if !errors.Is(mapped, store.ErrCategoryNameExists) {
			log.Error("failed to update category",
				slog.String("error", err.Error()),
				slog.String("category_id", c.ID.String()))
		}
		return mapped
	}

	return CheckRowsAffected(result, store.ErrCategoryNotFound)
}

// Delete implements store.CategoryStore.Delete
func (s *PostgresCategoryStore) Delete(ctx context.Context, ownerID, categoryID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = $1 AND owner_id = $2`, categoryID, ownerID)
	if err != nil {
		log.Error("failed to delete category",
			slog.String("error", err.Error()),
			slog.String("category_id", categoryID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCategoryNotFound); err != nil {
		return err
	}

	log.Info("category deleted", slog.String("category_id", categoryID.String()))
	return nil
}
