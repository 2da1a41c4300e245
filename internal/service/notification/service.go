package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/civicgrid/grievance-api/internal/model"
	"github.com/civicgrid/grievance-api/internal/repository"
	"github.com/civicgrid/grievance-api/pkg/messaging"
	"github.com/civicgrid/grievance-api/pkg/metrics"
)

const notificationChannel = "notifications"

// Service is the notification engine: the producer-facing delivery
// orchestrator and the consumer-facing feed and settings surface.
// Notify and NotifyCommon are fire-and-forget; every failure inside them
// is logged and swallowed so a producer's state transition never fails
// because of notification delivery.
type Service interface {
	Notify(ctx context.Context, event *model.ComplaintEvent)
	NotifyCommon(ctx context.Context, event *model.CommonEvent)

	ListNotifications(ctx context.Context, filters *model.FeedFilters) (*model.Feed, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID, role model.Role) (int64, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID, role model.Role) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID, role model.Role) (int64, error)

	GetSettings(ctx context.Context) ([]*model.NotificationSetting, error)
	UpdateSettings(ctx context.Context, updates []*model.NotificationSetting) ([]*model.NotificationSetting, error)
}

type service struct {
	complaintRepo repository.ComplaintNotificationRepository
	commonRepo    repository.CommonNotificationRepository
	settingsRepo  repository.NotificationSettingRepository
	users         repository.UserRepository
	broker        messaging.Broker
	settingsCache *cache.Cache
	logger        zerolog.Logger
	metrics       *metrics.Metrics
}

func NewService(
	complaintRepo repository.ComplaintNotificationRepository,
	commonRepo repository.CommonNotificationRepository,
	settingsRepo repository.NotificationSettingRepository,
	users repository.UserRepository,
	broker messaging.Broker,
	logger zerolog.Logger,
	m *metrics.Metrics,
	settingsCacheTTL time.Duration,
) Service {
	if settingsCacheTTL <= 0 {
		settingsCacheTTL = time.Minute
	}
	return &service{
		complaintRepo: complaintRepo,
		commonRepo:    commonRepo,
		settingsRepo:  settingsRepo,
		users:         users,
		broker:        broker,
		settingsCache: cache.New(settingsCacheTTL, 2*settingsCacheTTL),
		logger:        logger,
		metrics:       m,
	}
}

func (s *service) Notify(ctx context.Context, event *model.ComplaintEvent) {
	if event == nil {
		return
	}
	if !model.IsNotifiableEventType(event.EventType) {
		s.logger.Warn().
			Str("event_type", string(event.EventType)).
			Str("complaint_id", event.ComplaintID.String()).
			Msg("dropping unknown complaint event type")
		s.suppressed("unknown_type")
		return
	}
	if !s.eventTypeEnabled(ctx, event.EventType) {
		s.suppressed("disabled")
		return
	}

	start := time.Now()

	recipients := s.resolveReceivers(ctx, event).distinct()
	if len(recipients) == 0 {
		s.logger.Warn().
			Str("event_type", string(event.EventType)).
			Msg("no recipients resolved for complaint event")
		s.suppressed("no_recipients")
		return
	}

	now := time.Now()
	delivered := 0
	for _, userID := range recipients {
		n := &model.ComplaintNotification{
			ID:              uuid.New(),
			UserID:          userID,
			EventType:       event.EventType,
			ComplaintID:     event.ComplaintID,
			Title:           event.Title,
			Body:            event.Body,
			Payload:         event.Payload,
			TimelineEventID: event.TimelineEventID,
			CreatedAt:       now,
		}
		// Writes are independent per recipient; one failure must not
		// starve the rest of the fan-out.
		if err := s.complaintRepo.Create(ctx, n); err != nil {
			s.logger.Error().Err(err).
				Str("event_type", string(event.EventType)).
				Str("user_id", userID.String()).
				Msg("failed to persist complaint notification")
			s.failed("complaint")
			continue
		}
		delivered++
	}

	if delivered > 0 {
		if s.metrics != nil {
			s.metrics.NotificationsDelivered.WithLabelValues("complaint").Add(float64(delivered))
		}
		s.publish(ctx, "complaint_notification", event)
	}
	if s.metrics != nil {
		s.metrics.DeliveryLatency.WithLabelValues("complaint").Observe(time.Since(start).Seconds())
	}
}

func (s *service) NotifyCommon(ctx context.Context, event *model.CommonEvent) {
	if event == nil {
		return
	}
	if !model.IsCommonNotifiableEventType(event.EventType) {
		s.logger.Warn().
			Str("event_type", string(event.EventType)).
			Msg("dropping unknown common event type")
		s.suppressed("unknown_type")
		return
	}
	if !s.eventTypeEnabled(ctx, event.EventType) {
		s.suppressed("disabled")
		return
	}

	start := time.Now()

	n := &model.CommonNotification{
		ID:          uuid.New(),
		EventType:   event.EventType,
		ContextType: event.ContextType,
		EntityType:  event.EntityType,
		EntityID:    event.EntityID,
		Title:       event.Title,
		Body:        event.Body,
		Payload:     event.Payload,
		CreatedAt:   time.Now(),
	}

	if err := s.commonRepo.Create(ctx, n); err != nil {
		s.logger.Error().Err(err).
			Str("event_type", string(event.EventType)).
			Msg("failed to persist common notification")
		s.failed("common")
		return
	}

	if s.metrics != nil {
		s.metrics.NotificationsDelivered.WithLabelValues("common").Inc()
		s.metrics.DeliveryLatency.WithLabelValues("common").Observe(time.Since(start).Seconds())
	}
	s.publish(ctx, "common_notification", event)
}

// publish pushes a best-effort in-app event for connected frontends.
func (s *service) publish(ctx context.Context, msgType string, payload interface{}) {
	if s.broker == nil {
		return
	}
	msg := messaging.Message{Type: msgType, Payload: payload}
	if err := s.broker.Publish(ctx, notificationChannel, msg); err != nil {
		s.logger.Warn().Err(err).Str("type", msgType).Msg("failed to publish notification event")
	}
}

func (s *service) suppressed(reason string) {
	if s.metrics != nil {
		s.metrics.NotificationsSuppressed.WithLabelValues(reason).Inc()
	}
}

func (s *service) failed(family string) {
	if s.metrics != nil {
		s.metrics.DeliveryFailures.WithLabelValues(family).Inc()
	}
}
