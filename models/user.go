package models

// Role names understood by the role predicates
const (
	RoleAdmin   = "admin"
	RoleUser    = "user"
	RoleManager = "manager"
)

// User is the profile snapshot held by a session
type User struct {
	ID    string `json:"_id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
	// Admin is the legacy boolean flag some accounts still carry instead of Role.
	Admin bool `json:"admin,omitempty"`
}

// SessionState is the auth state of one browser session
type SessionState struct {
	User            *User  `json:"user"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	Loading         bool   `json:"loading"`
	Error           string `json:"error,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is what the backend returns from /auth/login
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}
