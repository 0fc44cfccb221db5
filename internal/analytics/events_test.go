package analytics

import (
	"testing"
)

func TestMemoryLogger_LogEvent(t *testing.T) {
	l := NewMemoryLogger()

	err := l.LogEvent(Event{
		SessionID: "demo-abc12345",
		Type:      EventChatMessage,
		Data:      map[string]any{"message_len": 42},
	})
	if err != nil {
		t.Fatalf("LogEvent() error = %v", err)
	}

	events := l.Events()
	if len(events) != 1 {
		t.Fatalf("len(Events()) = %d, want 1", len(events))
	}
	got := events[0]
	if got.ID == "" {
		t.Error("event ID was not generated")
	}
	if got.CreatedAt.IsZero() {
		t.Error("event CreatedAt was not stamped")
	}
	if got.Type != EventChatMessage {
		t.Errorf("Type = %q", got.Type)
	}
}

func TestMemoryLogger_RequiredFields(t *testing.T) {
	l := NewMemoryLogger()

	if err := l.LogEvent(Event{SessionID: "demo-x"}); err == nil {
		t.Error("LogEvent() without type should fail")
	}
	if err := l.LogEvent(Event{Type: EventChatMessage}); err == nil {
		t.Error("LogEvent() without session_id should fail")
	}
	if len(l.Events()) != 0 {
		t.Errorf("invalid events were stored: %v", l.Events())
	}
}

func TestMemoryLogger_EventsReturnsCopy(t *testing.T) {
	l := NewMemoryLogger()
	_ = l.LogEvent(Event{SessionID: "demo-x", Type: EventNodeCompleted})

	events := l.Events()
	events[0].Type = "mutated"

	if l.Events()[0].Type != EventNodeCompleted {
		t.Error("Events() exposed internal slice")
	}
}

func TestNopLogger(t *testing.T) {
	var l NopLogger
	if err := l.LogEvent(Event{}); err != nil {
		t.Errorf("NopLogger.LogEvent() error = %v", err)
	}
}
