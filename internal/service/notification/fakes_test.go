package notification

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/civicgrid/grievance-api/internal/model"
	"github.com/civicgrid/grievance-api/internal/repository"
)

// In-memory stand-ins for the postgres repositories. They mirror the
// storage contracts closely enough to exercise the service layer:
// created_at desc ordering, skip/limit windows, and monotonic reads.

type fakeComplaintRepo struct {
	mu        sync.Mutex
	rows      []*model.ComplaintNotification
	createErr error
	failFor   map[uuid.UUID]error
}

func (f *fakeComplaintRepo) Create(_ context.Context, n *model.ComplaintNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if err, ok := f.failFor[n.UserID]; ok {
		return err
	}
	clone := *n
	f.rows = append(f.rows, &clone)
	return nil
}

func (f *fakeComplaintRepo) matches(n *model.ComplaintNotification, filters *model.ComplaintNotificationFilters) bool {
	if n.UserID != filters.UserID {
		return false
	}
	if filters.ComplaintID != nil && n.ComplaintID != *filters.ComplaintID {
		return false
	}
	if filters.EventType != "" && n.EventType != filters.EventType {
		return false
	}
	if filters.UnreadOnly && n.ReadAt != nil {
		return false
	}
	return true
}

func (f *fakeComplaintRepo) List(_ context.Context, filters *model.ComplaintNotificationFilters) ([]*model.ComplaintNotification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.ComplaintNotification
	for _, n := range f.rows {
		if f.matches(n, filters) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filters.Skip >= len(out) {
		return nil, nil
	}
	out = out[filters.Skip:]
	if filters.Limit > 0 && filters.Limit < len(out) {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (f *fakeComplaintRepo) Count(_ context.Context, filters *model.ComplaintNotificationFilters) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.rows {
		if f.matches(n, filters) {
			count++
		}
	}
	return count, nil
}

func (f *fakeComplaintRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.rows {
		if n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeComplaintRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.rows {
		if n.ID == id && n.UserID == userID {
			if n.ReadAt == nil {
				now := time.Now()
				n.ReadAt = &now
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeComplaintRepo) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	now := time.Now()
	for _, n := range f.rows {
		if n.UserID == userID && n.ReadAt == nil {
			n.ReadAt = &now
			count++
		}
	}
	return count, nil
}

func (f *fakeComplaintRepo) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*model.ComplaintNotification
	var deleted int64
	for _, n := range f.rows {
		if n.ReadAt != nil && n.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	f.rows = kept
	return deleted, nil
}

type fakeCommonRepo struct {
	mu        sync.Mutex
	rows      []*model.CommonNotification
	createErr error
}

func (f *fakeCommonRepo) Create(_ context.Context, n *model.CommonNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	clone := *n
	f.rows = append(f.rows, &clone)
	return nil
}

func (f *fakeCommonRepo) matches(n *model.CommonNotification, filters *model.CommonNotificationFilters) bool {
	if filters.EventType != "" && n.EventType != filters.EventType {
		return false
	}
	if filters.UnreadOnly && n.MarkedReadAt != nil {
		return false
	}
	return true
}

func (f *fakeCommonRepo) List(_ context.Context, filters *model.CommonNotificationFilters) ([]*model.CommonNotification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.CommonNotification
	for _, n := range f.rows {
		if f.matches(n, filters) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filters.Skip >= len(out) {
		return nil, nil
	}
	out = out[filters.Skip:]
	if filters.Limit > 0 && filters.Limit < len(out) {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (f *fakeCommonRepo) Count(_ context.Context, filters *model.CommonNotificationFilters) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.rows {
		if f.matches(n, filters) {
			count++
		}
	}
	return count, nil
}

func (f *fakeCommonRepo) CountUnread(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.rows {
		if n.MarkedReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeCommonRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.rows {
		if n.ID == id {
			if n.MarkedReadAt == nil {
				now := time.Now()
				n.MarkedReadAt = &now
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeCommonRepo) MarkAllRead(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	now := time.Now()
	for _, n := range f.rows {
		if n.MarkedReadAt == nil {
			n.MarkedReadAt = &now
			count++
		}
	}
	return count, nil
}

func (f *fakeCommonRepo) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*model.CommonNotification
	var deleted int64
	for _, n := range f.rows {
		if n.MarkedReadAt != nil && n.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	f.rows = kept
	return deleted, nil
}

type fakeSettingsRepo struct {
	mu        sync.Mutex
	settings  map[model.EventType]*model.NotificationSetting
	getErr    error
	upsertErr error
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[model.EventType]*model.NotificationSetting)}
}

func (f *fakeSettingsRepo) Get(_ context.Context, eventType model.EventType) (*model.NotificationSetting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	setting, ok := f.settings[eventType]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *setting
	return &clone, nil
}

func (f *fakeSettingsRepo) List(_ context.Context) ([]*model.NotificationSetting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.NotificationSetting, 0, len(f.settings))
	for _, setting := range f.settings {
		clone := *setting
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeSettingsRepo) Upsert(_ context.Context, setting *model.NotificationSetting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	clone := *setting
	f.settings[setting.EventType] = &clone
	return nil
}

type fakeUserRepo struct {
	adminIDs []uuid.UUID
	listErr  error
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) ListAdminIDs(_ context.Context) ([]uuid.UUID, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.adminIDs, nil
}
