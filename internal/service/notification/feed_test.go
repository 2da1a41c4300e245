package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicgrid/grievance-api/internal/model"
	apperrors "github.com/civicgrid/grievance-api/pkg/errors"
)

func seedComplaintRow(env *testEnv, userID uuid.UUID, createdAt time.Time, title string) uuid.UUID {
	id := uuid.New()
	env.complaint.rows = append(env.complaint.rows, &model.ComplaintNotification{
		ID:          id,
		UserID:      userID,
		EventType:   model.EventComplaintCreated,
		ComplaintID: uuid.New(),
		Title:       title,
		CreatedAt:   createdAt,
	})
	return id
}

func seedCommonRow(env *testEnv, createdAt time.Time, title string) uuid.UUID {
	id := uuid.New()
	env.common.rows = append(env.common.rows, &model.CommonNotification{
		ID:        id,
		EventType: model.EventMeetingRequested,
		Title:     title,
		CreatedAt: createdAt,
	})
	return id
}

func TestListNotificationsMergesStoresNewestFirst(t *testing.T) {
	admin := uuid.New()
	env := newTestEnv(admin)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	seedComplaintRow(env, admin, base.Add(10*time.Minute), "c10")
	seedComplaintRow(env, admin, base.Add(8*time.Minute), "c8")
	seedComplaintRow(env, admin, base.Add(5*time.Minute), "c5")
	seedCommonRow(env, base.Add(9*time.Minute), "m9")
	seedCommonRow(env, base.Add(7*time.Minute), "m7")

	feed, err := env.svc.ListNotifications(context.Background(), &model.FeedFilters{
		UserID: admin,
		Role:   model.RoleAdmin,
		Limit:  3,
	})
	require.NoError(t, err)

	require.Len(t, feed.Notifications, 3)
	assert.Equal(t, "c10", feed.Notifications[0].Title)
	assert.Equal(t, "m9", feed.Notifications[1].Title)
	assert.Equal(t, "c8", feed.Notifications[2].Title)
	assert.Equal(t, int64(5), feed.Total)

	assert.Equal(t, model.FeedSourceComplaint, feed.Notifications[0].Source)
	assert.Equal(t, model.FeedSourceCommon, feed.Notifications[1].Source)
}

func TestListNotificationsPaginatesAcrossTheMerge(t *testing.T) {
	admin := uuid.New()
	env := newTestEnv(admin)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	seedComplaintRow(env, admin, base.Add(10*time.Minute), "c10")
	seedComplaintRow(env, admin, base.Add(8*time.Minute), "c8")
	seedComplaintRow(env, admin, base.Add(5*time.Minute), "c5")
	seedCommonRow(env, base.Add(9*time.Minute), "m9")
	seedCommonRow(env, base.Add(7*time.Minute), "m7")

	feed, err := env.svc.ListNotifications(context.Background(), &model.FeedFilters{
		UserID: admin,
		Role:   model.RoleAdmin,
		Limit:  2,
		Skip:   2,
	})
	require.NoError(t, err)

	require.Len(t, feed.Notifications, 2)
	assert.Equal(t, "c8", feed.Notifications[0].Title)
	assert.Equal(t, "m7", feed.Notifications[1].Title)
	assert.Equal(t, int64(5), feed.Total)
}

func TestListNotificationsOfficerSeesOnlyOwnComplaintRows(t *testing.T) {
	officer := uuid.New()
	other := uuid.New()
	env := newTestEnv()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	seedComplaintRow(env, officer, base.Add(time.Minute), "mine")
	seedComplaintRow(env, other, base.Add(2*time.Minute), "theirs")
	seedCommonRow(env, base.Add(3*time.Minute), "broadcast")

	feed, err := env.svc.ListNotifications(context.Background(), &model.FeedFilters{
		UserID: officer,
		Role:   model.RoleOfficer,
	})
	require.NoError(t, err)

	require.Len(t, feed.Notifications, 1)
	assert.Equal(t, "mine", feed.Notifications[0].Title)
	assert.Equal(t, int64(1), feed.Total)
}

func TestListNotificationsComplaintFilterExcludesBroadcasts(t *testing.T) {
	admin := uuid.New()
	env := newTestEnv(admin)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	complaintID := uuid.New()

	env.complaint.rows = append(env.complaint.rows, &model.ComplaintNotification{
		ID:          uuid.New(),
		UserID:      admin,
		EventType:   model.EventNoteAdded,
		ComplaintID: complaintID,
		Title:       "scoped",
		CreatedAt:   base,
	})
	seedComplaintRow(env, admin, base.Add(time.Minute), "other complaint")
	seedCommonRow(env, base.Add(2*time.Minute), "broadcast")

	feed, err := env.svc.ListNotifications(context.Background(), &model.FeedFilters{
		UserID:      admin,
		Role:        model.RoleAdmin,
		ComplaintID: &complaintID,
	})
	require.NoError(t, err)

	require.Len(t, feed.Notifications, 1)
	assert.Equal(t, "scoped", feed.Notifications[0].Title)
	assert.Equal(t, int64(1), feed.Total)
}

func TestListNotificationsUnreadOnly(t *testing.T) {
	admin := uuid.New()
	env := newTestEnv(admin)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	readAt := base.Add(time.Hour)
	env.complaint.rows = append(env.complaint.rows, &model.ComplaintNotification{
		ID:          uuid.New(),
		UserID:      admin,
		EventType:   model.EventNoteAdded,
		ComplaintID: uuid.New(),
		Title:       "already read",
		ReadAt:      &readAt,
		CreatedAt:   base,
	})
	seedComplaintRow(env, admin, base.Add(time.Minute), "fresh")

	feed, err := env.svc.ListNotifications(context.Background(), &model.FeedFilters{
		UserID:     admin,
		Role:       model.RoleAdmin,
		UnreadOnly: true,
	})
	require.NoError(t, err)

	require.Len(t, feed.Notifications, 1)
	assert.Equal(t, "fresh", feed.Notifications[0].Title)
}

func TestListNotificationsCapsLimit(t *testing.T) {
	admin := uuid.New()
	env := newTestEnv(admin)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < maxFeedLimit+20; i++ {
		seedComplaintRow(env, admin, base.Add(time.Duration(i)*time.Second), "row")
	}

	feed, err := env.svc.ListNotifications(context.Background(), &model.FeedFilters{
		UserID: admin,
		Role:   model.RoleAdmin,
		Limit:  10_000,
	})
	require.NoError(t, err)
	assert.Len(t, feed.Notifications, maxFeedLimit)
}

func TestGetUnreadCountComposesStoresByRole(t *testing.T) {
	admin := uuid.New()
	env := newTestEnv(admin)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	seedComplaintRow(env, admin, base, "a")
	seedComplaintRow(env, admin, base.Add(time.Minute), "b")
	seedComplaintRow(env, admin, base.Add(2*time.Minute), "c")
	seedCommonRow(env, base.Add(3*time.Minute), "m1")
	seedCommonRow(env, base.Add(4*time.Minute), "m2")

	adminCount, err := env.svc.GetUnreadCount(context.Background(), admin, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(5), adminCount)

	officerCount, err := env.svc.GetUnreadCount(context.Background(), admin, model.RoleOfficer)
	require.NoError(t, err)
	assert.Equal(t, int64(3), officerCount)
}

func TestMarkAsReadScopedToOwner(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	env := newTestEnv(owner)
	id := seedComplaintRow(env, owner, time.Now(), "row")

	err := env.svc.MarkAsRead(context.Background(), id, stranger, model.RoleOfficer)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, env.svc.MarkAsRead(context.Background(), id, owner, model.RoleOfficer))
	require.NotNil(t, env.complaint.rows[0].ReadAt)
}

func TestMarkAsReadIsMonotonic(t *testing.T) {
	owner := uuid.New()
	env := newTestEnv(owner)
	id := seedComplaintRow(env, owner, time.Now(), "row")

	require.NoError(t, env.svc.MarkAsRead(context.Background(), id, owner, model.RoleOfficer))
	first := *env.complaint.rows[0].ReadAt

	require.NoError(t, env.svc.MarkAsRead(context.Background(), id, owner, model.RoleOfficer))
	assert.Equal(t, first, *env.complaint.rows[0].ReadAt)
}

func TestMarkAsReadAdminFallsBackToBroadcastStore(t *testing.T) {
	admin := uuid.New()
	env := newTestEnv(admin)
	id := seedCommonRow(env, time.Now(), "broadcast")

	err := env.svc.MarkAsRead(context.Background(), id, admin, model.RoleOfficer)
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, env.svc.MarkAsRead(context.Background(), id, admin, model.RoleAdmin))
	require.NotNil(t, env.common.rows[0].MarkedReadAt)
}

func TestMarkAllAsReadSumsBothStoresForAdmins(t *testing.T) {
	admin := uuid.New()
	env := newTestEnv(admin)
	base := time.Now()

	seedComplaintRow(env, admin, base, "a")
	seedComplaintRow(env, admin, base.Add(time.Minute), "b")
	seedCommonRow(env, base.Add(2*time.Minute), "m")

	count, err := env.svc.MarkAllAsRead(context.Background(), admin, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	unread, err := env.svc.GetUnreadCount(context.Background(), admin, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}
