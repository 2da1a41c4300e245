package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotifiableEventType(t *testing.T) {
	tests := []struct {
		name      string
		eventType EventType
		want      bool
	}{
		{"complaint created", EventComplaintCreated, true},
		{"officer assigned", EventOfficerAssigned, true},
		{"complaint closed", EventComplaintClosed, true},
		{"officer document added", EventOfficerDocumentAdded, true},
		{"common type is not complaint-scoped", EventMeetingRequested, false},
		{"unknown type", EventType("complaint_escalated"), false},
		{"empty type", EventType(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotifiableEventType(tt.eventType))
		})
	}
}

func TestIsCommonNotifiableEventType(t *testing.T) {
	assert.True(t, IsCommonNotifiableEventType(EventMeetingRequested))
	assert.False(t, IsCommonNotifiableEventType(EventComplaintCreated))
	assert.False(t, IsCommonNotifiableEventType(EventType("town_hall")))
}

func TestIsOfficerRelevantEventType(t *testing.T) {
	relevant := []EventType{
		EventOfficerAssigned,
		EventOfficerReassigned,
		EventOfficerUnassigned,
		EventExtensionRequested,
		EventExtensionApproved,
		EventExtensionRejected,
	}
	for _, et := range relevant {
		assert.True(t, IsOfficerRelevantEventType(et), string(et))
	}

	adminOnly := []EventType{
		EventComplaintCreated,
		EventComplaintClosed,
		EventNoteAdded,
		EventDocumentAdded,
		EventOfficerNoteAdded,
		EventOfficerDocumentAdded,
	}
	for _, et := range adminOnly {
		assert.False(t, IsOfficerRelevantEventType(et), string(et))
	}
}

func TestNotifiableEventTypesOrder(t *testing.T) {
	types := NotifiableEventTypes()

	assert.Len(t, types, 12)
	assert.Equal(t, EventComplaintCreated, types[0])
	assert.Equal(t, EventOfficerDocumentAdded, types[len(types)-1])

	// Mutating the returned slice must not affect the taxonomy.
	types[0] = EventType("tampered")
	assert.Equal(t, EventComplaintCreated, NotifiableEventTypes()[0])
}
