package mocks

import (
	"sync"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

type MockMetrics struct {
	mu sync.Mutex

	Issued        map[domain.Channel]int
	Verifications map[string]int
	Created       int
	StatusUpdates map[domain.ComplaintStatus]int
}

var _ ports.Metrics = (*MockMetrics)(nil)

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Issued:        map[domain.Channel]int{},
		Verifications: map[string]int{},
		StatusUpdates: map[domain.ComplaintStatus]int{},
	}
}

func (m *MockMetrics) OtpIssued(channel domain.Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Issued[channel]++
}

// OtpVerified keys results as "<channel>/<result>".
func (m *MockMetrics) OtpVerified(channel domain.Channel, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Verifications[string(channel)+"/"+result]++
}

func (m *MockMetrics) ComplaintCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created++
}

func (m *MockMetrics) ComplaintStatusUpdated(status domain.ComplaintStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusUpdates[status]++
}
