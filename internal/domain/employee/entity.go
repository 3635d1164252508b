package employee

import "time"

// Role determines which portal surface an employee may use.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleHR       Role = "hr"
)

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleHR
}

type Employee struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
