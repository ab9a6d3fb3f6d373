package models

import "time"

type User struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	IsAdmin      bool          `json:"is_admin"`
	About        string        `json:"about,omitempty"`
	History      []interface{} `json:"history"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"required,max=32"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// AdminUpdateUserRequest leaves fields that are absent from the body unchanged.
type AdminUpdateUserRequest struct {
	Name    string `json:"name" validate:"omitempty,max=32"`
	Email   string `json:"email" validate:"omitempty,email"`
	IsAdmin *bool  `json:"is_admin"`
}
