package domain

import "time"

// Role is the user type that drives access decisions
type Role int

const (
	RoleAdmin    Role = 1
	RoleEmployee Role = 2
	RoleClient   Role = 3
)

var roleNames = map[Role]string{
	RoleAdmin:    "ADMIN",
	RoleEmployee: "EMPLOYEE",
	RoleClient:   "CLIENT",
}

// IsValid returns true for one of the three known roles
func (r Role) IsValid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsStaff returns true for administrators and employees
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// User represents an account; Email is the login identifier
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
	Phone        *string
	Photo        *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserFilter фильтр для списка пользователей
type UserFilter struct {
	Search          string
	Role            *Role
	IncludeInactive bool
}

// RoleStats counts users of a role
type RoleStats struct {
	Role     Role
	Total    int
	Active   int
	Inactive int
}
