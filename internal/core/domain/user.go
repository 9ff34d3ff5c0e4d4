package domain

import "time"

type Role string

const (
	RoleCitizen    Role = "CITIZEN"
	RoleDeptAdmin  Role = "DEPT_ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleDeptAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Mobile       *string   `db:"mobile" json:"mobile,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	DepartmentID *int64    `db:"department_id" json:"department_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserSummary is the admin listing row: a user joined with its department name.
type UserSummary struct {
	ID           int64   `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Email        string  `db:"email" json:"email"`
	Role         Role    `db:"role" json:"role"`
	DepartmentID *int64  `db:"department_id" json:"department_id"`
	DeptName     *string `db:"dept_name" json:"dept_name"`
}

// Identity is the authenticated caller, hydrated from the current users row
// on every request.
type Identity struct {
	UserID       int64
	Role         Role
	DepartmentID *int64
}

// InDepartment reports whether the identity belongs to department id.
func (i Identity) InDepartment(id int64) bool {
	return i.DepartmentID != nil && *i.DepartmentID == id
}

func (i Identity) Is(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
