package mocks

import (
	"errors"
	"strings"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

// PlainHasher stores passwords with a visible prefix. Tests use it to avoid bcrypt cost.
type PlainHasher struct{}

var _ ports.PasswordHasher = PlainHasher{}

func (PlainHasher) Hash(plaintext string) (string, error) {
	return "plain:" + plaintext, nil
}

func (PlainHasher) Verify(plaintext, hash string) bool {
	return hash == "plain:"+plaintext
}

// FailingHasher always fails to hash.
type FailingHasher struct{ PlainHasher }

func (FailingHasher) Hash(string) (string, error) {
	return "", errors.New("hasher unavailable")
}

// MockReportRenderer returns a fixed payload and records its last input.
type MockReportRenderer struct {
	Stats      *domain.ComplaintStats
	Complaints []domain.ComplaintView
	Err        error
}

var _ ports.ReportRenderer = (*MockReportRenderer)(nil)

func (m *MockReportRenderer) RenderComplaints(stats *domain.ComplaintStats, complaints []domain.ComplaintView) ([]byte, error) {
	m.Stats = stats
	m.Complaints = complaints
	if m.Err != nil {
		return nil, m.Err
	}
	return []byte("xlsx"), nil
}

func Citizen(id int64) domain.Identity {
	return domain.Identity{UserID: id, Role: domain.RoleCitizen}
}

func DeptAdmin(id, dept int64) domain.Identity {
	return domain.Identity{UserID: id, Role: domain.RoleDeptAdmin, DepartmentID: &dept}
}

func SuperAdmin(id int64) domain.Identity {
	return domain.Identity{UserID: id, Role: domain.RoleSuperAdmin}
}

// NewUser builds a user row with a PlainHasher password of "secret1".
func NewUser(name string, role domain.Role, dept *int64) domain.User {
	return domain.User{
		Name:         name,
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		PasswordHash: "plain:secret1",
		Role:         role,
		DepartmentID: dept,
	}
}

func Int64(v int64) *int64 { return &v }

func String(v string) *string { return &v }
