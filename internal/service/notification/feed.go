package notification

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/civicgrid/grievance-api/internal/model"
	"github.com/civicgrid/grievance-api/internal/repository"
	apperrors "github.com/civicgrid/grievance-api/pkg/errors"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 100
)

// ListNotifications returns a page of the caller's feed. Officers see
// only their complaint-scoped rows; admins see their complaint-scoped
// rows merged with the broadcast store into one chronological sequence.
func (s *service) ListNotifications(ctx context.Context, filters *model.FeedFilters) (*model.Feed, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	skip := filters.Skip
	if skip < 0 {
		skip = 0
	}

	if s.metrics != nil {
		s.metrics.FeedQueries.WithLabelValues(string(filters.Role)).Inc()
	}

	complaintFilters := &model.ComplaintNotificationFilters{
		UserID:      filters.UserID,
		ComplaintID: filters.ComplaintID,
		EventType:   filters.EventType,
		UnreadOnly:  filters.UnreadOnly,
	}

	if filters.Role != model.RoleAdmin {
		complaintFilters.Limit = limit
		complaintFilters.Skip = skip

		rows, err := s.complaintRepo.List(ctx, complaintFilters)
		if err != nil {
			return nil, fmt.Errorf("failed to list notifications: %w", err)
		}
		total, err := s.complaintRepo.Count(ctx, complaintFilters)
		if err != nil {
			return nil, fmt.Errorf("failed to count notifications: %w", err)
		}

		items := make([]*model.FeedItem, 0, len(rows))
		for _, n := range rows {
			items = append(items, model.FeedItemFromComplaint(n))
		}
		return &model.Feed{Notifications: items, Total: total}, nil
	}

	// Each store is fetched to depth skip+limit before the merge.
	// Fetching only limit per side would drop items whenever one store
	// dominates the most recent entries; the depth has to follow the
	// requested offset.
	depth := skip + limit
	complaintFilters.Limit = depth

	merged := make([]*model.FeedItem, 0, 2*depth)

	complaintRows, err := s.complaintRepo.List(ctx, complaintFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaint notifications: %w", err)
	}
	for _, n := range complaintRows {
		merged = append(merged, model.FeedItemFromComplaint(n))
	}

	total, err := s.complaintRepo.Count(ctx, complaintFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to count complaint notifications: %w", err)
	}

	// Broadcast rows never carry a complaint id, so a complaint filter
	// excludes the common store entirely.
	if filters.ComplaintID == nil {
		commonFilters := &model.CommonNotificationFilters{
			EventType:  filters.EventType,
			UnreadOnly: filters.UnreadOnly,
			Limit:      depth,
		}

		commonRows, err := s.commonRepo.List(ctx, commonFilters)
		if err != nil {
			return nil, fmt.Errorf("failed to list common notifications: %w", err)
		}
		for _, n := range commonRows {
			merged = append(merged, model.FeedItemFromCommon(n))
		}

		commonTotal, err := s.commonRepo.Count(ctx, commonFilters)
		if err != nil {
			return nil, fmt.Errorf("failed to count common notifications: %w", err)
		}
		total += commonTotal
	}

	// Re-establish total order across both stores before paging.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	if skip >= len(merged) {
		return &model.Feed{Notifications: []*model.FeedItem{}, Total: total}, nil
	}
	end := skip + limit
	if end > len(merged) {
		end = len(merged)
	}

	return &model.Feed{Notifications: merged[skip:end], Total: total}, nil
}

// GetUnreadCount returns the user's unread complaint-scoped count plus,
// for admins, the global unread broadcast count.
func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID, role model.Role) (int64, error) {
	count, err := s.complaintRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	if role == model.RoleAdmin {
		commonCount, err := s.commonRepo.CountUnread(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count unread common notifications: %w", err)
		}
		count += commonCount
	}

	return count, nil
}

// MarkAsRead tries the caller's own complaint-scoped row first; admins
// fall back to the broadcast store, which has no owning user.
func (s *service) MarkAsRead(ctx context.Context, id, userID uuid.UUID, role model.Role) error {
	err := s.complaintRepo.MarkRead(ctx, id, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	if role == model.RoleAdmin {
		err = s.commonRepo.MarkRead(ctx, id)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to mark common notification read: %w", err)
		}
	}

	return apperrors.NotFound("notification", err)
}

// MarkAllAsRead bulk-reads the user's complaint rows and, for admins,
// every unread broadcast row. Returns the total rows mutated.
func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID, role model.Role) (int64, error) {
	count, err := s.complaintRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	if role == model.RoleAdmin {
		commonCount, err := s.commonRepo.MarkAllRead(ctx)
		if err != nil {
			return count, fmt.Errorf("failed to mark common notifications read: %w", err)
		}
		count += commonCount
	}

	return count, nil
}
