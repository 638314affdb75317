package models

// Principal is the identity resolved from a bearer token for the duration of
// one request.
type Principal struct {
	UserID   int64
	Role     UserRole
	FullName string
}
