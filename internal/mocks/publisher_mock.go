package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

// MockComplaintEventPublisher captures events handed to it by the outbox relay.
type MockComplaintEventPublisher struct {
	mu sync.RWMutex

	PublishedEvents  []ports.ComplaintStatusChanged
	PublishError     error
	PublishCallCount int
}

var _ ports.ComplaintEventPublisher = (*MockComplaintEventPublisher)(nil)

func NewMockComplaintEventPublisher() *MockComplaintEventPublisher {
	return &MockComplaintEventPublisher{}
}

func (m *MockComplaintEventPublisher) PublishComplaintEvent(ctx context.Context, evt ports.ComplaintStatusChanged) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns a copy of the captured events.
func (m *MockComplaintEventPublisher) GetPublishedEvents() []ports.ComplaintStatusChanged {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := make([]ports.ComplaintStatusChanged, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}
