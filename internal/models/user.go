package models

import "time"

// UserRole represents the available roles.
type UserRole string

const (
	RoleStudent  UserRole = "student"
	RoleEmployee UserRole = "employee"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleEmployee
}

// User represents an account stored in the users table.
type User struct {
	ID           int64     `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"fullName"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// UserInfo is the public projection of a user.
type UserInfo struct {
	ID       int64    `json:"id"`
	FullName string   `json:"fullName"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
}

// Info returns the public projection of u.
func (u *User) Info() UserInfo {
	return UserInfo{ID: u.ID, FullName: u.FullName, Username: u.Username, Email: u.Email, Role: u.Role}
}
