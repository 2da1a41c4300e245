package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/civicgrid/grievance-api/internal/model"
	"github.com/civicgrid/grievance-api/internal/repository"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT * FROM users
		WHERE id = $1
	`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) ListAdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM users
		WHERE role = $1 AND status = $2
		ORDER BY created_at
	`

	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, model.RoleAdmin, model.UserStatusActive); err != nil {
		return nil, fmt.Errorf("failed to list admin ids: %w", err)
	}

	return ids, nil
}
