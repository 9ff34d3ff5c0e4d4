// Package mocks provides in-memory implementations of the port interfaces for
// tests. They track calls and accept injected errors.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

// MockStore implements ports.Store in memory. It enforces the same unique,
// foreign key and cascade rules as the SQL schema so that services and
// handlers can be tested against realistic behavior.
type MockStore struct {
	mu sync.RWMutex

	nextID       int64
	users        map[int64]domain.User
	departments  map[int64]domain.Department
	complaints   map[int64]domain.Complaint
	alerts       map[int64]domain.Alert
	jobs         map[int64]domain.Job
	applications map[int64]domain.JobApplication
	otps         map[otpKey]domain.OtpEntry
	locations    map[int64]domain.ExploreLocation

	// Outbox holds the status-changed events recorded by UpdateComplaintStatus.
	Outbox []domain.ComplaintUpdate

	// Call tracking
	FindUserByIDCalls []int64
	ReplaceOtpCalls   []domain.OtpEntry
	DeleteOtpCalls    []string

	// Error injection
	CreateUserError      error
	FindUserError        error
	CreateComplaintError error
	UpdateComplaintError error
	ListComplaintsError  error
	ReplaceOtpError      error
	PingError            error
}

type otpKey struct {
	identifier string
	channel    domain.Channel
}

var _ ports.Store = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{
		users:        make(map[int64]domain.User),
		departments:  make(map[int64]domain.Department),
		complaints:   make(map[int64]domain.Complaint),
		alerts:       make(map[int64]domain.Alert),
		jobs:         make(map[int64]domain.Job),
		applications: make(map[int64]domain.JobApplication),
		otps:         make(map[otpKey]domain.OtpEntry),
		locations:    make(map[int64]domain.ExploreLocation),
	}
}

// NewSeededMockStore returns a store holding the default departments with ids 1..4.
func NewSeededMockStore() *MockStore {
	m := NewMockStore()
	for _, d := range domain.DefaultDepartments {
		_, _ = m.CreateDepartment(context.Background(), d)
	}
	return m
}

func (m *MockStore) id() int64 {
	m.nextID++
	return m.nextID
}

// SeedUser stores user as is and returns its id. A zero ID gets a fresh one.
func (m *MockStore) SeedUser(user domain.User) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == 0 {
		user.ID = m.id()
	} else if user.ID > m.nextID {
		m.nextID = user.ID
	}
	m.users[user.ID] = user
	return user.ID
}

// SeedOtp stores entry as is, bypassing ReplaceOtp tracking.
func (m *MockStore) SeedOtp(entry domain.OtpEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.otps[otpKey{entry.Identifier, entry.Type}] = entry
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.PingError
}

// Users

func (m *MockStore) CreateUser(ctx context.Context, user domain.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateUserError != nil {
		return 0, m.CreateUserError
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return 0, domain.ErrConflict
		}
	}
	if user.DepartmentID != nil {
		if _, ok := m.departments[*user.DepartmentID]; !ok {
			return 0, domain.ErrInvalidReference
		}
	}
	user.ID = m.id()
	m.users[user.ID] = user
	return user.ID, nil
}

func (m *MockStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindUserError != nil {
		return nil, m.FindUserError
	}
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockStore) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindUserByIDCalls = append(m.FindUserByIDCalls, id)
	if m.FindUserError != nil {
		return nil, m.FindUserError
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (m *MockStore) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.UserSummary, 0, len(m.users))
	for _, u := range m.users {
		s := domain.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, DepartmentID: u.DepartmentID}
		if u.DepartmentID != nil {
			if d, ok := m.departments[*u.DepartmentID]; ok {
				name := d.Name
				s.DeptName = &name
			}
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockStore) UpdateUserRole(ctx context.Context, id int64, role domain.Role, departmentID *int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	if departmentID != nil {
		if _, ok := m.departments[*departmentID]; !ok {
			return domain.ErrInvalidReference
		}
	}
	u.Role = role
	u.DepartmentID = departmentID
	m.users[id] = u
	return nil
}

func (m *MockStore) DeleteUser(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrNotFound
	}
	for cid, c := range m.complaints {
		if c.CitizenID == id {
			delete(m.complaints, cid)
		}
	}
	for aid, a := range m.applications {
		if a.CitizenID == id {
			delete(m.applications, aid)
		}
	}
	delete(m.users, id)
	return nil
}

// Departments

func (m *MockStore) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Department, 0, len(m.departments))
	for _, d := range m.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockStore) FindDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.departments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (m *MockStore) CreateDepartment(ctx context.Context, dept domain.Department) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.departments {
		if d.Name == dept.Name {
			return 0, domain.ErrConflict
		}
	}
	dept.ID = m.id()
	m.departments[dept.ID] = dept
	return dept.ID, nil
}

// Complaints

func (m *MockStore) CreateComplaint(ctx context.Context, c domain.Complaint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateComplaintError != nil {
		return 0, m.CreateComplaintError
	}
	if _, ok := m.users[c.CitizenID]; !ok {
		return 0, domain.ErrInvalidReference
	}
	if _, ok := m.departments[c.DepartmentID]; !ok {
		return 0, domain.ErrInvalidReference
	}
	c.ID = m.id()
	m.complaints[c.ID] = c
	return c.ID, nil
}

func (m *MockStore) view(c domain.Complaint) domain.ComplaintView {
	return domain.ComplaintView{
		Complaint:   c,
		CitizenName: m.users[c.CitizenID].Name,
		DeptName:    m.departments[c.DepartmentID].Name,
	}
}

func (m *MockStore) FindComplaint(ctx context.Context, id int64) (*domain.ComplaintView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.complaints[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	v := m.view(c)
	return &v, nil
}

func (m *MockStore) ListComplaints(ctx context.Context, filter domain.ComplaintFilter) ([]domain.ComplaintView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListComplaintsError != nil {
		return nil, m.ListComplaintsError
	}
	out := make([]domain.ComplaintView, 0)
	for _, c := range m.complaints {
		if filter.CitizenID != nil && c.CitizenID != *filter.CitizenID {
			continue
		}
		if filter.DepartmentID != nil && c.DepartmentID != *filter.DepartmentID {
			continue
		}
		out = append(out, m.view(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockStore) ListPublicComplaints(ctx context.Context) ([]domain.PublicComplaint, error) {
	all, err := m.ListComplaints(ctx, domain.ComplaintFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]domain.PublicComplaint, 0, len(all))
	for _, c := range all {
		out = append(out, domain.PublicComplaint{
			ID:          c.ID,
			Category:    c.Category,
			Description: c.Description,
			Status:      c.Status,
			Latitude:    c.Latitude,
			Longitude:   c.Longitude,
			ImageURL:    c.ImageURL,
			CreatedAt:   c.CreatedAt,
			DeptName:    c.DeptName,
		})
	}
	return out, nil
}

func (m *MockStore) UpdateComplaintStatus(ctx context.Context, update domain.ComplaintUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateComplaintError != nil {
		return m.UpdateComplaintError
	}
	c, ok := m.complaints[update.ComplaintID]
	if !ok {
		return domain.ErrNotFound
	}
	c.Status = update.Status
	c.ResolutionNotes = update.ResolutionNotes
	m.complaints[c.ID] = c
	m.Outbox = append(m.Outbox, update)
	return nil
}

func (m *MockStore) ComplaintStats(ctx context.Context) (*domain.ComplaintStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &domain.ComplaintStats{
		ByStatus:     []domain.StatusCount{},
		ByDepartment: []domain.DepartmentCount{},
	}
	byStatus := map[domain.ComplaintStatus]int64{}
	byDept := map[string]int64{}
	for _, d := range m.departments {
		byDept[d.Name] = 0
	}
	for _, c := range m.complaints {
		stats.Total++
		byStatus[c.Status]++
		byDept[m.departments[c.DepartmentID].Name]++
	}
	for s, n := range byStatus {
		stats.ByStatus = append(stats.ByStatus, domain.StatusCount{Status: s, Count: n})
	}
	for name, n := range byDept {
		stats.ByDepartment = append(stats.ByDepartment, domain.DepartmentCount{Name: name, Count: n})
	}
	sort.Slice(stats.ByStatus, func(i, j int) bool { return stats.ByStatus[i].Status < stats.ByStatus[j].Status })
	sort.Slice(stats.ByDepartment, func(i, j int) bool { return stats.ByDepartment[i].Name < stats.ByDepartment[j].Name })
	return stats, nil
}

// Alerts

func (m *MockStore) CreateAlert(ctx context.Context, alert domain.Alert) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	alert.ID = m.id()
	m.alerts[alert.ID] = alert
	return alert.ID, nil
}

func (m *MockStore) ListRecentAlerts(ctx context.Context, limit int) ([]domain.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Alert, 0, len(m.alerts))
	for _, a := range m.alerts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Jobs

func (m *MockStore) CreateJob(ctx context.Context, job domain.Job) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job.ID = m.id()
	m.jobs[job.ID] = job
	return job.ID, nil
}

func (m *MockStore) ListJobs(ctx context.Context) ([]domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockStore) FindJob(ctx context.Context, id int64) (*domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &j, nil
}

func (m *MockStore) CreateApplication(ctx context.Context, app domain.JobApplication) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[app.JobID]; !ok {
		return 0, domain.ErrInvalidReference
	}
	for _, a := range m.applications {
		if a.JobID == app.JobID && a.CitizenID == app.CitizenID {
			return 0, domain.ErrConflict
		}
	}
	app.ID = m.id()
	m.applications[app.ID] = app
	return app.ID, nil
}

func (m *MockStore) FindApplication(ctx context.Context, jobID, citizenID int64) (*domain.JobApplication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.applications {
		if a.JobID == jobID && a.CitizenID == citizenID {
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockStore) applicationViews(keep func(domain.JobApplication) bool) []domain.JobApplicationView {
	out := make([]domain.JobApplicationView, 0)
	for _, a := range m.applications {
		if !keep(a) {
			continue
		}
		u := m.users[a.CitizenID]
		out = append(out, domain.JobApplicationView{
			JobApplication: a,
			JobTitle:       m.jobs[a.JobID].Title,
			CitizenName:    u.Name,
			CitizenEmail:   u.Email,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *MockStore) ListApplicationsByCitizen(ctx context.Context, citizenID int64) ([]domain.JobApplicationView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.applicationViews(func(a domain.JobApplication) bool { return a.CitizenID == citizenID }), nil
}

func (m *MockStore) ListApplicationsByJob(ctx context.Context, jobID int64) ([]domain.JobApplicationView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.applicationViews(func(a domain.JobApplication) bool { return a.JobID == jobID }), nil
}

func (m *MockStore) UpdateApplicationStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	m.applications[id] = a
	return nil
}

// OTP

func (m *MockStore) ReplaceOtp(ctx context.Context, entry domain.OtpEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceOtpCalls = append(m.ReplaceOtpCalls, entry)
	if m.ReplaceOtpError != nil {
		return m.ReplaceOtpError
	}
	m.otps[otpKey{entry.Identifier, entry.Type}] = entry
	return nil
}

func (m *MockStore) FindOtp(ctx context.Context, identifier string, channel domain.Channel, code string) (*domain.OtpEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.otps[otpKey{identifier, channel}]
	if !ok || e.Code != code {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (m *MockStore) DeleteOtp(ctx context.Context, identifier string, channel domain.Channel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteOtpCalls = append(m.DeleteOtpCalls, identifier)
	delete(m.otps, otpKey{identifier, channel})
	return nil
}

// OtpFor returns the live entry for identifier, if any.
func (m *MockStore) OtpFor(identifier string, channel domain.Channel) (domain.OtpEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.otps[otpKey{identifier, channel}]
	return e, ok
}

// Explore locations

func (m *MockStore) ListLocations(ctx context.Context) ([]domain.ExploreLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.ExploreLocation, 0, len(m.locations))
	for _, l := range m.locations {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockStore) CreateLocation(ctx context.Context, loc domain.ExploreLocation) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loc.ID = m.id()
	if loc.CreatedAt.IsZero() {
		loc.CreatedAt = time.Now().UTC()
	}
	m.locations[loc.ID] = loc
	return loc.ID, nil
}

func (m *MockStore) DeleteLocation(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.locations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.locations, id)
	return nil
}

// ComplaintCount reports how many complaints citizenID currently owns.
func (m *MockStore) ComplaintCount(citizenID int64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, c := range m.complaints {
		if c.CitizenID == citizenID {
			n++
		}
	}
	return n
}
