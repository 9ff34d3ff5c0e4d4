package ports

import (
	"context"
	"time"
)

const ComplaintStatusChangedEvent = "complaint.status_changed"

type ComplaintStatusChanged struct {
	EventID         string    `json:"event_id"`
	ComplaintID     int64     `json:"complaint_id"`
	CitizenID       int64     `json:"citizen_id"`
	DepartmentID    int64     `json:"department_id"`
	Status          string    `json:"status"`
	ResolutionNotes *string   `json:"resolution_notes,omitempty"`
	ChangedBy       int64     `json:"changed_by"`
	ChangedAt       time.Time `json:"changed_at"`
}

type ComplaintEventPublisher interface {
	PublishComplaintEvent(ctx context.Context, evt ComplaintStatusChanged) error
}

// OtpSender delivers a code to an email address or a phone number.
type OtpSender interface {
	SendOtp(ctx context.Context, identifier, code string) error
}
