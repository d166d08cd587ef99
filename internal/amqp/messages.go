package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType names what happened to an expense
type EventType string

const (
	EventCreated EventType = "expense.created"
	EventDeleted EventType = "expense.deleted"
)

// ExpenseEvent is the lightweight change notification sent after a write.
// It carries only the id; consumers read the record back from the database.
type ExpenseEvent struct {
	Type      EventType `json:"type"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseEvent creates an event stamped with the current time
func NewExpenseEvent(eventType EventType, id int64) *ExpenseEvent {
	return &ExpenseEvent{
		Type:      eventType,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseEventFromJSON decodes and checks an event body
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var event ExpenseEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	switch event.Type {
	case EventCreated, EventDeleted:
	default:
		return nil, fmt.Errorf("unknown event type %q", event.Type)
	}
	if event.ID <= 0 {
		return nil, fmt.Errorf("invalid expense id %d", event.ID)
	}
	return &event, nil
}
