package ports

import (
	"context"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
)

// Lookups return domain.ErrNotFound for missing rows. Writes return
// domain.ErrConflict on unique violations and domain.ErrInvalidReference on
// foreign key violations.

type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) (int64, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.UserSummary, error)
	UpdateUserRole(ctx context.Context, id int64, role domain.Role, departmentID *int64) error
	// DeleteUser removes the user and every complaint they filed.
	DeleteUser(ctx context.Context, id int64) error
}

type DepartmentRepository interface {
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	FindDepartment(ctx context.Context, id int64) (*domain.Department, error)
	CreateDepartment(ctx context.Context, dept domain.Department) (int64, error)
}

type ComplaintRepository interface {
	CreateComplaint(ctx context.Context, complaint domain.Complaint) (int64, error)
	FindComplaint(ctx context.Context, id int64) (*domain.ComplaintView, error)
	ListComplaints(ctx context.Context, filter domain.ComplaintFilter) ([]domain.ComplaintView, error)
	ListPublicComplaints(ctx context.Context) ([]domain.PublicComplaint, error)
	// UpdateComplaintStatus changes status and resolution notes only, and
	// records a status-changed event in the outbox within the same transaction.
	UpdateComplaintStatus(ctx context.Context, update domain.ComplaintUpdate) error
	ComplaintStats(ctx context.Context) (*domain.ComplaintStats, error)
}

type AlertRepository interface {
	CreateAlert(ctx context.Context, alert domain.Alert) (int64, error)
	ListRecentAlerts(ctx context.Context, limit int) ([]domain.Alert, error)
}

type JobRepository interface {
	CreateJob(ctx context.Context, job domain.Job) (int64, error)
	ListJobs(ctx context.Context) ([]domain.Job, error)
	FindJob(ctx context.Context, id int64) (*domain.Job, error)
	CreateApplication(ctx context.Context, app domain.JobApplication) (int64, error)
	FindApplication(ctx context.Context, jobID, citizenID int64) (*domain.JobApplication, error)
	ListApplicationsByCitizen(ctx context.Context, citizenID int64) ([]domain.JobApplicationView, error)
	ListApplicationsByJob(ctx context.Context, jobID int64) ([]domain.JobApplicationView, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error
}

type OtpRepository interface {
	// ReplaceOtp deletes every entry for (identifier, type) and inserts entry.
	ReplaceOtp(ctx context.Context, entry domain.OtpEntry) error
	FindOtp(ctx context.Context, identifier string, channel domain.Channel, code string) (*domain.OtpEntry, error)
	DeleteOtp(ctx context.Context, identifier string, channel domain.Channel) error
}

type LocationRepository interface {
	ListLocations(ctx context.Context) ([]domain.ExploreLocation, error)
	CreateLocation(ctx context.Context, loc domain.ExploreLocation) (int64, error)
	DeleteLocation(ctx context.Context, id int64) error
}

// Store is the whole relational backend. Postgres and SQLite both implement it.
type Store interface {
	UserRepository
	DepartmentRepository
	ComplaintRepository
	AlertRepository
	JobRepository
	OtpRepository
	LocationRepository
	Ping(ctx context.Context) error
}
