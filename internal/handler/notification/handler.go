package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/civicgrid/grievance-api/internal/middleware"
	"github.com/civicgrid/grievance-api/internal/model"
	notificationService "github.com/civicgrid/grievance-api/internal/service/notification"
	apperrors "github.com/civicgrid/grievance-api/pkg/errors"
	"github.com/civicgrid/grievance-api/pkg/httputil"
	"github.com/civicgrid/grievance-api/pkg/validator"
)

type Handler struct {
	service  notificationService.Service
	validate *validator.Validator
}

func NewHandler(service notificationService.Service, v *validator.Validator) *Handler {
	return &Handler{service: service, validate: v}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.ListNotifications)
		notifications.GET("/unread-count", h.GetUnreadCount)
		notifications.POST("/:id/read", h.MarkAsRead)
		notifications.POST("/read-all", h.MarkAllAsRead)
		notifications.GET("/settings", h.GetSettings)
		notifications.PUT("/settings", h.UpdateSettings)
	}

	events := r.Group("/events")
	{
		events.POST("", h.PublishComplaintEvent)
		events.POST("/common", h.PublishCommonEvent)
	}
}

// currentUser reads the identity the auth middleware stored.
func currentUser(c *gin.Context) (uuid.UUID, model.Role, bool) {
	rawID, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return uuid.Nil, "", false
	}
	userID, ok := rawID.(uuid.UUID)
	if !ok {
		return uuid.Nil, "", false
	}

	rawRole, ok := c.Get(middleware.ContextUserRole)
	if !ok {
		return uuid.Nil, "", false
	}
	role, ok := rawRole.(model.Role)
	if !ok {
		return uuid.Nil, "", false
	}

	return userID, role, true
}

func (h *Handler) ListNotifications(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	filters := &model.FeedFilters{
		UserID:     userID,
		Role:       role,
		EventType:  model.EventType(c.Query("event_type")),
		UnreadOnly: c.Query("unread_only") == "true",
	}
	filters.Limit, _ = strconv.Atoi(c.Query("limit"))
	filters.Skip, _ = strconv.Atoi(c.Query("skip"))

	if raw := c.Query("complaint_id"); raw != "" {
		complaintID, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid complaint ID", err))
			return
		}
		filters.ComplaintID = &complaintID
	}

	feed, err := h.service.ListNotifications(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, feed)
}

func (h *Handler) GetUnreadCount(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	count, err := h.service.GetUnreadCount(c.Request.Context(), userID, role)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"count": count})
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid notification ID", err))
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), id, userID, role); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"read": true})
}

func (h *Handler) MarkAllAsRead(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	count, err := h.service.MarkAllAsRead(c.Request.Context(), userID, role)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"updated": count})
}

func (h *Handler) GetSettings(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	settings, err := h.service.GetSettings(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"settings": settings})
}

type settingUpdateRequest struct {
	EventType string `json:"event_type" validate:"required"`
	Enabled   *bool  `json:"enabled" validate:"required"`
}

type updateSettingsRequest struct {
	Settings []settingUpdateRequest `json:"settings" validate:"required,min=1,dive"`
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}
	if err := h.validate.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	updates := make([]*model.NotificationSetting, 0, len(req.Settings))
	for _, entry := range req.Settings {
		updates = append(updates, &model.NotificationSetting{
			EventType: model.EventType(entry.EventType),
			Enabled:   *entry.Enabled,
		})
	}

	results, err := h.service.UpdateSettings(c.Request.Context(), updates)
	if err != nil {
		// Entries apply independently; report what went through along
		// with the failures.
		c.JSON(http.StatusBadRequest, httputil.Response{
			Success: false,
			Data:    gin.H{"settings": results},
			Error:   &httputil.Error{Code: http.StatusBadRequest, Message: err.Error()},
		})
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"settings": results})
}

type complaintEventRequest struct {
	EventType         string        `json:"event_type" validate:"required"`
	ComplaintID       uuid.UUID     `json:"complaint_id" validate:"required"`
	AssignedOfficerID *uuid.UUID    `json:"assigned_officer_id"`
	TimelineEventID   *uuid.UUID    `json:"timeline_event_id"`
	Title             string        `json:"title" validate:"required"`
	Body              string        `json:"body"`
	Payload           model.JSONMap `json:"payload"`
}

// PublishComplaintEvent accepts a complaint state-change event from a
// producer subsystem. Delivery is asynchronous from the producer's point
// of view, so acceptance says nothing about fan-out.
func (h *Handler) PublishComplaintEvent(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	var req complaintEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}
	if err := h.validate.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}
	if !model.IsNotifiableEventType(model.EventType(req.EventType)) {
		httputil.RespondWithError(c, apperrors.BadRequest("unknown event type", nil))
		return
	}

	h.service.Notify(c.Request.Context(), &model.ComplaintEvent{
		EventType:         model.EventType(req.EventType),
		ComplaintID:       req.ComplaintID,
		AssignedOfficerID: req.AssignedOfficerID,
		TimelineEventID:   req.TimelineEventID,
		Title:             req.Title,
		Body:              req.Body,
		Payload:           req.Payload,
	})

	c.JSON(http.StatusAccepted, httputil.Response{
		Success: true,
		Data:    gin.H{"accepted": true},
	})
}

type commonEventRequest struct {
	EventType   string        `json:"event_type" validate:"required"`
	ContextType string        `json:"context_type"`
	EntityType  string        `json:"entity_type"`
	EntityID    string        `json:"entity_id"`
	Title       string        `json:"title" validate:"required"`
	Body        string        `json:"body"`
	Payload     model.JSONMap `json:"payload"`
}

func (h *Handler) PublishCommonEvent(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	var req commonEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}
	if err := h.validate.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}
	if !model.IsCommonNotifiableEventType(model.EventType(req.EventType)) {
		httputil.RespondWithError(c, apperrors.BadRequest("unknown event type", nil))
		return
	}

	h.service.NotifyCommon(c.Request.Context(), &model.CommonEvent{
		EventType:   model.EventType(req.EventType),
		ContextType: req.ContextType,
		EntityType:  req.EntityType,
		EntityID:    req.EntityID,
		Title:       req.Title,
		Body:        req.Body,
		Payload:     req.Payload,
	})

	c.JSON(http.StatusAccepted, httputil.Response{
		Success: true,
		Data:    gin.H{"accepted": true},
	})
}

func (h *Handler) requireAdmin(c *gin.Context) bool {
	_, role, ok := currentUser(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return false
	}
	if role != model.RoleAdmin {
		httputil.RespondWithError(c, apperrors.Forbidden(nil))
		return false
	}
	return true
}
