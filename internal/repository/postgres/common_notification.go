package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/civicgrid/grievance-api/internal/model"
	"github.com/civicgrid/grievance-api/internal/repository"
)

type commonNotificationRepository struct {
	BaseRepository
}

func NewCommonNotificationRepository(base BaseRepository) repository.CommonNotificationRepository {
	return &commonNotificationRepository{base}
}

func (r *commonNotificationRepository) Create(ctx context.Context, notification *model.CommonNotification) error {
	query := `
		INSERT INTO common_notifications (
			id, user_id, event_type, context_type, entity_type, entity_id,
			title, body, payload, marked_read_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		notification.ID,
		notification.UserID,
		notification.EventType,
		notification.ContextType,
		notification.EntityType,
		notification.EntityID,
		notification.Title,
		notification.Body,
		notification.Payload,
		notification.MarkedReadAt,
		notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create common notification: %w", err)
	}

	return nil
}

func (r *commonNotificationRepository) List(ctx context.Context, filters *model.CommonNotificationFilters) ([]*model.CommonNotification, error) {
	query := `
		SELECT * FROM common_notifications
		WHERE 1 = 1
	`
	args := []interface{}{}
	query, args = appendCommonFilters(query, args, filters)
	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, filters.Limit)
	}
	if filters.Skip > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, filters.Skip)
	}

	var notifications []*model.CommonNotification
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list common notifications: %w", err)
	}

	return notifications, nil
}

func (r *commonNotificationRepository) Count(ctx context.Context, filters *model.CommonNotificationFilters) (int64, error) {
	query := `
		SELECT COUNT(*) FROM common_notifications
		WHERE 1 = 1
	`
	args := []interface{}{}
	query, args = appendCommonFilters(query, args, filters)

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count common notifications: %w", err)
	}

	return count, nil
}

func (r *commonNotificationRepository) CountUnread(ctx context.Context) (int64, error) {
	query := `
		SELECT COUNT(*) FROM common_notifications
		WHERE marked_read_at IS NULL
	`

	var count int64
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count unread common notifications: %w", err)
	}

	return count, nil
}

func (r *commonNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE common_notifications
		SET marked_read_at = NOW()
		WHERE id = $1 AND marked_read_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark common notification read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	var exists bool
	existsQuery := `SELECT EXISTS (SELECT 1 FROM common_notifications WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, existsQuery, id); err != nil {
		return fmt.Errorf("failed to check common notification: %w", err)
	}
	if !exists {
		return repository.ErrNotFound
	}

	return nil
}

func (r *commonNotificationRepository) MarkAllRead(ctx context.Context) (int64, error) {
	query := `
		UPDATE common_notifications
		SET marked_read_at = NOW()
		WHERE marked_read_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to mark common notifications read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

func (r *commonNotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM common_notifications
		WHERE marked_read_at IS NOT NULL AND created_at < $1
	`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete read common notifications: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

func appendCommonFilters(query string, args []interface{}, filters *model.CommonNotificationFilters) (string, []interface{}) {
	if filters.EventType != "" {
		query += fmt.Sprintf(" AND event_type = $%d", len(args)+1)
		args = append(args, filters.EventType)
	}
	if filters.UnreadOnly {
		query += " AND marked_read_at IS NULL"
	}
	return query, args
}
