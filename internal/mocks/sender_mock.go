package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

type SentOtp struct {
	Identifier string
	Code       string
}

// MockOtpSender records delivered codes instead of sending them.
type MockOtpSender struct {
	mu sync.RWMutex

	Sent      []SentOtp
	SendError error
}

var _ ports.OtpSender = (*MockOtpSender)(nil)

func NewMockOtpSender() *MockOtpSender {
	return &MockOtpSender{}
}

func (m *MockOtpSender) SendOtp(ctx context.Context, identifier, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendError != nil {
		return m.SendError
	}
	m.Sent = append(m.Sent, SentOtp{Identifier: identifier, Code: code})
	return nil
}

// LastCode returns the most recent code sent to identifier.
func (m *MockOtpSender) LastCode(identifier string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.Sent) - 1; i >= 0; i-- {
		if m.Sent[i].Identifier == identifier {
			return m.Sent[i].Code, true
		}
	}
	return "", false
}

func (m *MockOtpSender) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Sent)
}
