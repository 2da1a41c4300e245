package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/patrickmn/go-cache"

	"github.com/civicgrid/grievance-api/internal/model"
	"github.com/civicgrid/grievance-api/internal/repository"
)

// GetSettings returns one entry per complaint-scoped event type, in
// taxonomy declaration order. Types never toggled are synthesized as
// enabled.
func (s *service) GetSettings(ctx context.Context) ([]*model.NotificationSetting, error) {
	stored, err := s.settingsRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notification settings: %w", err)
	}

	byType := make(map[model.EventType]*model.NotificationSetting, len(stored))
	for _, setting := range stored {
		byType[setting.EventType] = setting
	}

	types := model.NotifiableEventTypes()
	out := make([]*model.NotificationSetting, 0, len(types))
	for _, t := range types {
		if setting, ok := byType[t]; ok {
			out = append(out, setting)
			continue
		}
		out = append(out, &model.NotificationSetting{EventType: t, Enabled: true})
	}

	return out, nil
}

// UpdateSettings upserts each entry independently; one failing entry
// never rolls back the others. Returns the post-write state of the
// applied entries in input order, with failures joined into the error.
func (s *service) UpdateSettings(ctx context.Context, updates []*model.NotificationSetting) ([]*model.NotificationSetting, error) {
	results := make([]*model.NotificationSetting, 0, len(updates))
	var errs []error

	for _, update := range updates {
		if update == nil {
			continue
		}
		if !model.IsNotifiableEventType(update.EventType) && !model.IsCommonNotifiableEventType(update.EventType) {
			errs = append(errs, fmt.Errorf("unknown event type %q", update.EventType))
			continue
		}

		setting := &model.NotificationSetting{
			EventType: update.EventType,
			Enabled:   update.Enabled,
		}
		if err := s.settingsRepo.Upsert(ctx, setting); err != nil {
			errs = append(errs, fmt.Errorf("failed to update setting for %q: %w", update.EventType, err))
			continue
		}

		s.settingsCache.Set(string(setting.EventType), setting.Enabled, cache.DefaultExpiration)
		results = append(results, setting)
	}

	return results, errors.Join(errs...)
}

// eventTypeEnabled is the delivery gate. A missing row means enabled
// (fail open), and so does a failed lookup: delivery is best-effort and
// should not be silenced by a settings read error.
func (s *service) eventTypeEnabled(ctx context.Context, eventType model.EventType) bool {
	if v, ok := s.settingsCache.Get(string(eventType)); ok {
		if enabled, ok := v.(bool); ok {
			return enabled
		}
	}

	setting, err := s.settingsRepo.Get(ctx, eventType)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn().Err(err).
				Str("event_type", string(eventType)).
				Msg("settings lookup failed, delivering anyway")
			return true
		}
		s.settingsCache.Set(string(eventType), true, cache.DefaultExpiration)
		return true
	}

	s.settingsCache.Set(string(eventType), setting.Enabled, cache.DefaultExpiration)
	return setting.Enabled
}
