package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/civicgrid/grievance-api/internal/model"
)

// receivers holds the resolved audience for one complaint event.
type receivers struct {
	adminUserIDs   []uuid.UUID
	officerUserIDs []uuid.UUID
}

// resolveReceivers computes who should see a complaint event: every
// admin, plus the assigned officer when the event type concerns them.
// A directory failure degrades to an empty admin set instead of failing
// the event.
func (s *service) resolveReceivers(ctx context.Context, event *model.ComplaintEvent) receivers {
	adminIDs, err := s.users.ListAdminIDs(ctx)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("event_type", string(event.EventType)).
			Msg("failed to resolve admin directory")
		adminIDs = nil
	}

	r := receivers{adminUserIDs: adminIDs}

	if model.IsOfficerRelevantEventType(event.EventType) && event.AssignedOfficerID != nil {
		r.officerUserIDs = []uuid.UUID{*event.AssignedOfficerID}
	}

	return r
}

// distinct returns the union of admin and officer ids, de-duplicated so
// an admin who is also the assigned officer gets a single row.
func (r receivers) distinct() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(r.adminUserIDs)+len(r.officerUserIDs))
	out := make([]uuid.UUID, 0, len(r.adminUserIDs)+len(r.officerUserIDs))

	for _, id := range r.adminUserIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range r.officerUserIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
