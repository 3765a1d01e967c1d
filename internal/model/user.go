package model

import "time"

type UserRole string

const (
	UserRoleDefault UserRole = "default"
	UserRoleAdmin   UserRole = "admin"
)

type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	FullName      string    `json:"fullName"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Role          UserRole  `json:"role"`
	RefreshTokens []string  `json:"-"`
	IsDeleted     bool      `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UserBrief is the subset of a user exposed when another entity references it.
type UserBrief struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

func (u *User) Brief() UserBrief {
	return UserBrief{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
	}
}
