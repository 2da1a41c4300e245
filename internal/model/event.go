package model

import (
	"github.com/google/uuid"
)

type EventType string

// Complaint-scoped event types. Declaration order here is the order the
// settings listing is returned in, so append new types at the end.
const (
	EventComplaintCreated     EventType = "complaint_created"
	EventOfficerAssigned      EventType = "officer_assigned"
	EventOfficerReassigned    EventType = "officer_reassigned"
	EventOfficerUnassigned    EventType = "officer_unassigned"
	EventExtensionRequested   EventType = "extension_requested"
	EventExtensionApproved    EventType = "extension_approved"
	EventExtensionRejected    EventType = "extension_rejected"
	EventComplaintClosed      EventType = "complaint_closed"
	EventNoteAdded            EventType = "note_added"
	EventDocumentAdded        EventType = "document_added"
	EventOfficerNoteAdded     EventType = "officer_note_added"
	EventOfficerDocumentAdded EventType = "officer_document_added"
)

// Common (broadcast) event types, visible to the whole admin role.
const (
	EventMeetingRequested EventType = "meeting_requested"
)

var notifiableEventTypes = []EventType{
	EventComplaintCreated,
	EventOfficerAssigned,
	EventOfficerReassigned,
	EventOfficerUnassigned,
	EventExtensionRequested,
	EventExtensionApproved,
	EventExtensionRejected,
	EventComplaintClosed,
	EventNoteAdded,
	EventDocumentAdded,
	EventOfficerNoteAdded,
	EventOfficerDocumentAdded,
}

var commonNotifiableEventTypes = []EventType{
	EventMeetingRequested,
}

// Events that concern the assigned officer directly. Note and document
// additions stay admin-only.
var officerRelevantEventTypes = map[EventType]struct{}{
	EventOfficerAssigned:    {},
	EventOfficerReassigned:  {},
	EventOfficerUnassigned:  {},
	EventExtensionRequested: {},
	EventExtensionApproved:  {},
	EventExtensionRejected:  {},
}

// IsNotifiableEventType reports whether t is a known complaint-scoped
// event type.
func IsNotifiableEventType(t EventType) bool {
	for _, known := range notifiableEventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsCommonNotifiableEventType reports whether t is a known broadcast
// event type.
func IsCommonNotifiableEventType(t EventType) bool {
	for _, known := range commonNotifiableEventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsOfficerRelevantEventType reports whether the assigned officer should
// receive a notification for t.
func IsOfficerRelevantEventType(t EventType) bool {
	_, ok := officerRelevantEventTypes[t]
	return ok
}

// NotifiableEventTypes returns the complaint-scoped taxonomy in
// declaration order. The returned slice is a copy.
func NotifiableEventTypes() []EventType {
	out := make([]EventType, len(notifiableEventTypes))
	copy(out, notifiableEventTypes)
	return out
}

// CommonNotifiableEventTypes returns the broadcast taxonomy in
// declaration order. The returned slice is a copy.
func CommonNotifiableEventTypes() []EventType {
	out := make([]EventType, len(commonNotifiableEventTypes))
	copy(out, commonNotifiableEventTypes)
	return out
}

// ComplaintEvent is the descriptor a producer (the complaint subsystem)
// hands to the orchestrator after a state change. Title and Body arrive
// pre-rendered.
type ComplaintEvent struct {
	EventType         EventType  `json:"event_type"`
	ComplaintID       uuid.UUID  `json:"complaint_id"`
	AssignedOfficerID *uuid.UUID `json:"assigned_officer_id,omitempty"`
	TimelineEventID   *uuid.UUID `json:"timeline_event_id,omitempty"`
	Title             string     `json:"title"`
	Body              string     `json:"body,omitempty"`
	Payload           JSONMap    `json:"payload,omitempty"`
}

// CommonEvent is the descriptor for a broadcast event such as a meeting
// request. It carries no per-user addressing.
type CommonEvent struct {
	EventType   EventType `json:"event_type"`
	ContextType string    `json:"context_type,omitempty"`
	EntityType  string    `json:"entity_type,omitempty"`
	EntityID    string    `json:"entity_id,omitempty"`
	Title       string    `json:"title,omitempty"`
	Body        string    `json:"body,omitempty"`
	Payload     JSONMap   `json:"payload,omitempty"`
}
