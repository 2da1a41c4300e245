package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/civicgrid/grievance-api/internal/model"
	"github.com/civicgrid/grievance-api/internal/repository"
)

type notificationSettingRepository struct {
	BaseRepository
}

func NewNotificationSettingRepository(base BaseRepository) repository.NotificationSettingRepository {
	return &notificationSettingRepository{base}
}

func (r *notificationSettingRepository) Get(ctx context.Context, eventType model.EventType) (*model.NotificationSetting, error) {
	query := `
		SELECT event_type, enabled, updated_at
		FROM notification_settings
		WHERE event_type = $1
	`

	var setting model.NotificationSetting
	if err := r.db.GetContext(ctx, &setting, query, eventType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification setting: %w", err)
	}

	return &setting, nil
}

func (r *notificationSettingRepository) List(ctx context.Context) ([]*model.NotificationSetting, error) {
	query := `
		SELECT event_type, enabled, updated_at
		FROM notification_settings
	`

	var settings []*model.NotificationSetting
	if err := r.db.SelectContext(ctx, &settings, query); err != nil {
		return nil, fmt.Errorf("failed to list notification settings: %w", err)
	}

	return settings, nil
}

func (r *notificationSettingRepository) Upsert(ctx context.Context, setting *model.NotificationSetting) error {
	query := `
		INSERT INTO notification_settings (event_type, enabled, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_type) DO UPDATE
		SET enabled = EXCLUDED.enabled, updated_at = EXCLUDED.updated_at
	`

	setting.UpdatedAt = time.Now()

	if _, err := r.db.ExecContext(ctx, query, setting.EventType, setting.Enabled, setting.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert notification setting: %w", err)
	}

	return nil
}
