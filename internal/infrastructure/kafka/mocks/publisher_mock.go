package mocks

import (
	"context"
	"sync"
)

// MockPublisher records published activity events for testing
type MockPublisher struct {
	mu sync.Mutex

	PublishCalls []PublishCall
	PublishErr   error
}

// PublishCall records parameters passed to PublishEvent
type PublishCall struct {
	AggregateID   string
	AggregateType string
	EventType     string
	Data          any
}

// NewMockPublisher creates a new MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		PublishCalls: make([]PublishCall, 0),
	}
}

// PublishEvent records the call and returns PublishErr
func (m *MockPublisher) PublishEvent(_ context.Context, aggregateID, aggregateType, eventType string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCalls = append(m.PublishCalls, PublishCall{
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          data,
	})
	return m.PublishErr
}

// Calls returns a copy of the recorded calls
func (m *MockPublisher) Calls() []PublishCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishCall(nil), m.PublishCalls...)
}

// CallsOfType returns recorded calls with the given event type
func (m *MockPublisher) CallsOfType(eventType string) []PublishCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var calls []PublishCall
	for _, c := range m.PublishCalls {
		if c.EventType == eventType {
			calls = append(calls, c)
		}
	}
	return calls
}
