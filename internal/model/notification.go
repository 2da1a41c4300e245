package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationSetting is the per-event-type delivery toggle. A type with
// no stored row is treated as enabled.
type NotificationSetting struct {
	EventType EventType `json:"event_type" db:"event_type"`
	Enabled   bool      `json:"enabled" db:"enabled"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ComplaintNotification is one row per (recipient, event) pair, tied to a
// specific complaint. ReadAt transitions once, from nil to a timestamp.
type ComplaintNotification struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	EventType       EventType  `json:"event_type" db:"event_type"`
	ComplaintID     uuid.UUID  `json:"complaint_id" db:"complaint_id"`
	Title           string     `json:"title" db:"title"`
	Body            string     `json:"body,omitempty" db:"body"`
	Payload         JSONMap    `json:"payload,omitempty" db:"payload"`
	TimelineEventID *uuid.UUID `json:"timeline_event_id,omitempty" db:"timeline_event_id"`
	ReadAt          *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// CommonNotification is a single broadcast row per event. A nil UserID
// means the row is visible to the entire admin role.
type CommonNotification struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	EventType    EventType  `json:"event_type,omitempty" db:"event_type"`
	ContextType  string     `json:"context_type,omitempty" db:"context_type"`
	EntityType   string     `json:"entity_type,omitempty" db:"entity_type"`
	EntityID     string     `json:"entity_id,omitempty" db:"entity_id"`
	Title        string     `json:"title,omitempty" db:"title"`
	Body         string     `json:"body,omitempty" db:"body"`
	Payload      JSONMap    `json:"payload,omitempty" db:"payload"`
	MarkedReadAt *time.Time `json:"marked_read_at,omitempty" db:"marked_read_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

type FeedSource string

const (
	FeedSourceComplaint FeedSource = "complaint"
	FeedSourceCommon    FeedSource = "common"
)

// FeedItem is the normalized read model both stores are projected into
// before the merge. Source tags provenance so broadcast rows can be told
// apart without a complaint id.
type FeedItem struct {
	Source      FeedSource `json:"source"`
	ID          uuid.UUID  `json:"id"`
	EventType   EventType  `json:"event_type,omitempty"`
	ComplaintID *uuid.UUID `json:"complaint_id,omitempty"`
	EntityType  string     `json:"entity_type,omitempty"`
	EntityID    string     `json:"entity_id,omitempty"`
	Title       string     `json:"title,omitempty"`
	Body        string     `json:"body,omitempty"`
	Payload     JSONMap    `json:"payload,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Feed is a page of the notification feed. Total is the full matching
// count across the queried stores, not the page size.
type Feed struct {
	Notifications []*FeedItem `json:"notifications"`
	Total         int64       `json:"total"`
}

// FeedFilters carries the caller identity and the optional list filters.
type FeedFilters struct {
	UserID      uuid.UUID
	Role        Role
	ComplaintID *uuid.UUID
	EventType   EventType
	UnreadOnly  bool
	Limit       int
	Skip        int
}

// ComplaintNotificationFilters is the storage-level filter set for the
// complaint-scoped store.
type ComplaintNotificationFilters struct {
	UserID      uuid.UUID
	ComplaintID *uuid.UUID
	EventType   EventType
	UnreadOnly  bool
	Limit       int
	Skip        int
}

// CommonNotificationFilters is the storage-level filter set for the
// broadcast store.
type CommonNotificationFilters struct {
	EventType  EventType
	UnreadOnly bool
	Limit      int
	Skip       int
}

// FeedItemFromComplaint projects a complaint-scoped row into the merged
// read model.
func FeedItemFromComplaint(n *ComplaintNotification) *FeedItem {
	complaintID := n.ComplaintID
	return &FeedItem{
		Source:      FeedSourceComplaint,
		ID:          n.ID,
		EventType:   n.EventType,
		ComplaintID: &complaintID,
		Title:       n.Title,
		Body:        n.Body,
		Payload:     n.Payload,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}

// FeedItemFromCommon projects a broadcast row into the merged read model.
func FeedItemFromCommon(n *CommonNotification) *FeedItem {
	return &FeedItem{
		Source:     FeedSourceCommon,
		ID:         n.ID,
		EventType:  n.EventType,
		EntityType: n.EntityType,
		EntityID:   n.EntityID,
		Title:      n.Title,
		Body:       n.Body,
		Payload:    n.Payload,
		ReadAt:     n.MarkedReadAt,
		CreatedAt:  n.CreatedAt,
	}
}
