package user

import "time"

// Role constants
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
)

// User is the API's view of an account.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsInstructor returns true if the user can author courses.
// INVARIANT: User fields are not mutated
func (u User) IsInstructor() bool {
	return u.Role == RoleInstructor
}

// IsStudent returns true if the user can enroll in courses.
// INVARIANT: User fields are not mutated
func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}
