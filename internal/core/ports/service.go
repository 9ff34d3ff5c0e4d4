package ports

import (
	"context"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
)

type RegisterInput struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Mobile   *string `json:"mobile" validate:"omitempty,max=20"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type NewComplaint struct {
	DepartmentID int64    `json:"department_id" validate:"required,gt=0"`
	Category     string   `json:"category" validate:"required,max=100"`
	Description  string   `json:"description" validate:"required,max=2000"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,longitude"`
	ImageURL     *string  `json:"image_url" validate:"omitempty,max=500"`
}

type StatusUpdate struct {
	Status          domain.ComplaintStatus `json:"status" validate:"required"`
	ResolutionNotes *string                `json:"resolution_notes" validate:"omitempty,max=2000"`
}

type NewUser struct {
	Name         string      `json:"name" validate:"required,max=100"`
	Email        string      `json:"email" validate:"required,email"`
	Password     string      `json:"password" validate:"required,min=6"`
	Role         domain.Role `json:"role" validate:"required"`
	DepartmentID *int64      `json:"department_id"`
}

type RoleAssignment struct {
	Role         domain.Role `json:"role" validate:"required"`
	DepartmentID *int64      `json:"department_id"`
}

type NewDepartment struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type NewAlert struct {
	Title   string           `json:"title" validate:"required,max=200"`
	Message string           `json:"message" validate:"required,max=2000"`
	Type    domain.AlertType `json:"type" validate:"required"`
}

type NewJob struct {
	Title       string      `json:"title" validate:"required,max=200"`
	Department  string      `json:"department" validate:"required,max=100"`
	Description string      `json:"description" validate:"required"`
	Deadline    domain.Date `json:"deadline"`
}

type NewLocation struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Address      string  `json:"address" validate:"required,max=300"`
	CategorySlug string  `json:"category_slug" validate:"required,max=100"`
	Rating       float64 `json:"rating" validate:"gte=0,lte=5"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (int64, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	CurrentUser(ctx context.Context, actor domain.Identity) (*domain.User, error)
}

type OtpService interface {
	Issue(ctx context.Context, channel domain.Channel, identifier string) error
	Verify(ctx context.Context, channel domain.Channel, identifier, code string) error
}

type ComplaintService interface {
	Create(ctx context.Context, actor domain.Identity, in NewComplaint) (int64, error)
	List(ctx context.Context, actor domain.Identity) ([]domain.ComplaintView, error)
	Get(ctx context.Context, actor domain.Identity, id int64) (*domain.ComplaintView, error)
	UpdateStatus(ctx context.Context, actor domain.Identity, id int64, in StatusUpdate) error
	PublicFeed(ctx context.Context) ([]domain.PublicComplaint, error)
}

type UserService interface {
	List(ctx context.Context, actor domain.Identity) ([]domain.UserSummary, error)
	Create(ctx context.Context, actor domain.Identity, in NewUser) (int64, error)
	AssignRole(ctx context.Context, actor domain.Identity, id int64, in RoleAssignment) error
	Delete(ctx context.Context, actor domain.Identity, id int64) error
}

type DepartmentService interface {
	List(ctx context.Context) ([]domain.Department, error)
	Create(ctx context.Context, actor domain.Identity, in NewDepartment) (int64, error)
}

type AlertService interface {
	Recent(ctx context.Context) ([]domain.Alert, error)
	Create(ctx context.Context, actor domain.Identity, in NewAlert) (int64, error)
}

type JobService interface {
	List(ctx context.Context) ([]domain.Job, error)
	Create(ctx context.Context, actor domain.Identity, in NewJob) (int64, error)
	Apply(ctx context.Context, actor domain.Identity, jobID int64, resumeURL string) (int64, error)
	Application(ctx context.Context, actor domain.Identity, jobID int64) (*domain.JobApplication, error)
	MyApplications(ctx context.Context, actor domain.Identity) ([]domain.JobApplicationView, error)
	Applicants(ctx context.Context, actor domain.Identity, jobID int64) ([]domain.JobApplicationView, error)
	ReviewApplication(ctx context.Context, actor domain.Identity, id int64, status domain.ApplicationStatus) error
}

type LocationService interface {
	List(ctx context.Context) ([]domain.ExploreLocation, error)
	Create(ctx context.Context, actor domain.Identity, in NewLocation) (int64, error)
	Delete(ctx context.Context, actor domain.Identity, id int64) error
}

type AnalyticsService interface {
	Stats(ctx context.Context, actor domain.Identity) (*domain.ComplaintStats, error)
	Export(ctx context.Context, actor domain.Identity) ([]byte, error)
}

// ReportRenderer turns analytics into a downloadable workbook.
type ReportRenderer interface {
	RenderComplaints(stats *domain.ComplaintStats, complaints []domain.ComplaintView) ([]byte, error)
}

// Metrics receives domain counters. The Prometheus adapter implements it.
type Metrics interface {
	OtpIssued(channel domain.Channel)
	OtpVerified(channel domain.Channel, result string)
	ComplaintCreated()
	ComplaintStatusUpdated(status domain.ComplaintStatus)
}
