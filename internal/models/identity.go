package models

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Identity is the authenticated caller, extracted from the bearer token
// by the auth middleware. The auth flow itself lives in another service.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
