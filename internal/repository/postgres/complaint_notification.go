package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/civicgrid/grievance-api/internal/model"
	"github.com/civicgrid/grievance-api/internal/repository"
)

type complaintNotificationRepository struct {
	BaseRepository
}

func NewComplaintNotificationRepository(base BaseRepository) repository.ComplaintNotificationRepository {
	return &complaintNotificationRepository{base}
}

func (r *complaintNotificationRepository) Create(ctx context.Context, notification *model.ComplaintNotification) error {
	query := `
		INSERT INTO complaint_notifications (
			id, user_id, event_type, complaint_id, title, body,
			payload, timeline_event_id, read_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		notification.ID,
		notification.UserID,
		notification.EventType,
		notification.ComplaintID,
		notification.Title,
		notification.Body,
		notification.Payload,
		notification.TimelineEventID,
		notification.ReadAt,
		notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create complaint notification: %w", err)
	}

	return nil
}

func (r *complaintNotificationRepository) List(ctx context.Context, filters *model.ComplaintNotificationFilters) ([]*model.ComplaintNotification, error) {
	query := `
		SELECT * FROM complaint_notifications
		WHERE user_id = $1
	`
	args := []interface{}{filters.UserID}

	query, args = appendComplaintFilters(query, args, filters)
	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, filters.Limit)
	}
	if filters.Skip > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, filters.Skip)
	}

	var notifications []*model.ComplaintNotification
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list complaint notifications: %w", err)
	}

	return notifications, nil
}

func (r *complaintNotificationRepository) Count(ctx context.Context, filters *model.ComplaintNotificationFilters) (int64, error) {
	query := `
		SELECT COUNT(*) FROM complaint_notifications
		WHERE user_id = $1
	`
	args := []interface{}{filters.UserID}
	query, args = appendComplaintFilters(query, args, filters)

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count complaint notifications: %w", err)
	}

	return count, nil
}

func (r *complaintNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*) FROM complaint_notifications
		WHERE user_id = $1 AND read_at IS NULL
	`

	var count int64
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count unread complaint notifications: %w", err)
	}

	return count, nil
}

func (r *complaintNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		UPDATE complaint_notifications
		SET read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark complaint notification read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	// Either the row is already read (fine, read_at stays as it was) or
	// it does not belong to this user.
	var exists bool
	existsQuery := `
		SELECT EXISTS (
			SELECT 1 FROM complaint_notifications
			WHERE id = $1 AND user_id = $2
		)
	`
	if err := r.db.GetContext(ctx, &exists, existsQuery, id, userID); err != nil {
		return fmt.Errorf("failed to check complaint notification: %w", err)
	}
	if !exists {
		return repository.ErrNotFound
	}

	return nil
}

func (r *complaintNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `
		UPDATE complaint_notifications
		SET read_at = NOW()
		WHERE user_id = $1 AND read_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark complaint notifications read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

func (r *complaintNotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM complaint_notifications
		WHERE read_at IS NOT NULL AND created_at < $1
	`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete read complaint notifications: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

func appendComplaintFilters(query string, args []interface{}, filters *model.ComplaintNotificationFilters) (string, []interface{}) {
	if filters.ComplaintID != nil {
		query += fmt.Sprintf(" AND complaint_id = $%d", len(args)+1)
		args = append(args, *filters.ComplaintID)
	}
	if filters.EventType != "" {
		query += fmt.Sprintf(" AND event_type = $%d", len(args)+1)
		args = append(args, filters.EventType)
	}
	if filters.UnreadOnly {
		query += " AND read_at IS NULL"
	}
	return query, args
}
