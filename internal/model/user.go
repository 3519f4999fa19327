package model

import "time"

// User is an account that owns saved generator settings.
type User struct {
	ID        int64
	Email     string
	AuthHash  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Credentials is the body of both register and login requests.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries a JWT token and the authenticated user.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the public view of a User.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Response converts u to its public view.
func (u User) Response() UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}
