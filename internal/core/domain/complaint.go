package domain

import "time"

type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "PENDING"
	StatusInProgress ComplaintStatus = "IN_PROGRESS"
	StatusResolved   ComplaintStatus = "RESOLVED"
)

func (s ComplaintStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

type Complaint struct {
	ID              int64           `db:"id" json:"id"`
	CitizenID       int64           `db:"citizen_id" json:"citizen_id"`
	DepartmentID    int64           `db:"department_id" json:"department_id"`
	Category        string          `db:"category" json:"category"`
	Description     string          `db:"description" json:"description"`
	Status          ComplaintStatus `db:"status" json:"status"`
	Latitude        *float64        `db:"latitude" json:"latitude"`
	Longitude       *float64        `db:"longitude" json:"longitude"`
	ImageURL        *string         `db:"image_url" json:"image_url"`
	ResolutionNotes *string         `db:"resolution_notes" json:"resolution_notes"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// ComplaintView is a complaint enriched with display names looked up at read time.
type ComplaintView struct {
	Complaint
	CitizenName string `db:"citizen_name" json:"citizen_name"`
	DeptName    string `db:"dept_name" json:"dept_name"`
}

// PublicComplaint is the map feed row. It never carries citizen identity.
type PublicComplaint struct {
	ID          int64           `db:"id" json:"id"`
	Category    string          `db:"category" json:"category"`
	Description string          `db:"description" json:"description"`
	Status      ComplaintStatus `db:"status" json:"status"`
	Latitude    *float64        `db:"latitude" json:"latitude"`
	Longitude   *float64        `db:"longitude" json:"longitude"`
	ImageURL    *string         `db:"image_url" json:"image_url"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	DeptName    string          `db:"dept_name" json:"dept_name"`
}

// ComplaintFilter narrows a listing. Nil fields do not filter.
type ComplaintFilter struct {
	CitizenID    *int64
	DepartmentID *int64
}

type ComplaintUpdate struct {
	ComplaintID     int64
	Status          ComplaintStatus
	ResolutionNotes *string
	ChangedBy       int64
	ChangedAt       time.Time
}

type StatusCount struct {
	Status ComplaintStatus `db:"status" json:"status"`
	Count  int64           `db:"count" json:"count"`
}

type DepartmentCount struct {
	Name  string `db:"name" json:"name"`
	Count int64  `db:"count" json:"count"`
}

type ComplaintStats struct {
	Total        int64             `json:"total_complaints"`
	ByStatus     []StatusCount     `json:"by_status"`
	ByDepartment []DepartmentCount `json:"by_dept"`
}
