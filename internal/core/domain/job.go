package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day. It is stored as DATE on Postgres and as TEXT on SQLite,
// so Scan accepts both representations.
type Date struct {
	time.Time
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	case nil:
		d.Time = time.Time{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

func (d *Date) parse(s string) error {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	return d.parse(strings.Trim(string(b), `"`))
}

type Job struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Department  string    `db:"department" json:"department"`
	Description string    `db:"description" json:"description"`
	Deadline    Date      `db:"deadline" json:"deadline"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationAccepted ApplicationStatus = "ACCEPTED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}

type JobApplication struct {
	ID        int64             `db:"id" json:"id"`
	JobID     int64             `db:"job_id" json:"job_id"`
	CitizenID int64             `db:"citizen_id" json:"citizen_id"`
	ResumeURL string            `db:"resume_url" json:"resume_url"`
	Status    ApplicationStatus `db:"status" json:"status"`
	AppliedAt time.Time         `db:"applied_at" json:"applied_at"`
}

// JobApplicationView joins an application with its job and applicant.
type JobApplicationView struct {
	JobApplication
	JobTitle     string `db:"job_title" json:"job_title"`
	CitizenName  string `db:"citizen_name" json:"citizen_name"`
	CitizenEmail string `db:"citizen_email" json:"citizen_email"`
}
