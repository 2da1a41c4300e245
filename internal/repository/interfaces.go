package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/civicgrid/grievance-api/internal/model"
)

// ErrNotFound is returned when a row does not exist or is not accessible
// to the caller.
var ErrNotFound = errors.New("not found")

// All repository interfaces in one file
type (
	// NotificationSettingRepository stores the per-event-type delivery
	// toggles, keyed uniquely by event type.
	NotificationSettingRepository interface {
		Get(ctx context.Context, eventType model.EventType) (*model.NotificationSetting, error)
		List(ctx context.Context) ([]*model.NotificationSetting, error)
		Upsert(ctx context.Context, setting *model.NotificationSetting) error
	}

	// ComplaintNotificationRepository is the per-recipient store.
	ComplaintNotificationRepository interface {
		Create(ctx context.Context, notification *model.ComplaintNotification) error
		List(ctx context.Context, filters *model.ComplaintNotificationFilters) ([]*model.ComplaintNotification, error)
		Count(ctx context.Context, filters *model.ComplaintNotificationFilters) (int64, error)
		CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
		// MarkRead sets read_at once; marking an already-read row is a
		// no-op success. Returns ErrNotFound when no row matches the
		// (id, user) pair.
		MarkRead(ctx context.Context, id, userID uuid.UUID) error
		MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
		DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
	}

	// CommonNotificationRepository is the broadcast store.
	CommonNotificationRepository interface {
		Create(ctx context.Context, notification *model.CommonNotification) error
		List(ctx context.Context, filters *model.CommonNotificationFilters) ([]*model.CommonNotification, error)
		Count(ctx context.Context, filters *model.CommonNotificationFilters) (int64, error)
		CountUnread(ctx context.Context) (int64, error)
		MarkRead(ctx context.Context, id uuid.UUID) error
		MarkAllRead(ctx context.Context) (int64, error)
		DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
	}

	// UserRepository is the read-only directory capability the receiver
	// resolver depends on.
	UserRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		ListAdminIDs(ctx context.Context) ([]uuid.UUID, error)
	}
)
