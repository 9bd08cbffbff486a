package api

import (
	"encoding/json"
	"time"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID int64 `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	// RefreshToken is the JWT refresh token to be used to obtain a new token pair
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	// AccessToken is the new JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the new JWT token used to obtain future access tokens
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// UpdateUserRequest defines the payload for updating a user's profile.
// Password is optional; when present it replaces the stored hash.
type UpdateUserRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Password  string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}

// UserResponse defines the representation of a user returned by the API.
// The password hash is never part of it.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse maps a domain user to its API representation.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// StatusRequest defines the payload for creating or updating a task status.
type StatusRequest struct {
	Name string `json:"name" validate:"required"`
}

// LabelRequest defines the payload for creating or updating a label.
type LabelRequest struct {
	Name string `json:"name" validate:"required"`
}

// TaskRequest defines the payload for creating or updating a task.
// Labels is kept raw because a label reference is either a numeric id or an
// inline object with a name; parsing happens in domain.ParseLabelRefs.
type TaskRequest struct {
	Name        string          `json:"name"        validate:"required"`
	Description string          `json:"description"`
	StatusID    int64           `json:"status_id"   validate:"required,gt=0"`
	ExecutorID  *int64          `json:"executor_id" validate:"omitempty,gt=0"`
	Labels      json.RawMessage `json:"labels"`
}

// TaskResponse defines the representation of a task with its resolved
// relations returned by the API.
type TaskResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Status      *domain.TaskStatus `json:"status,omitempty"`
	Creator     *UserResponse      `json:"creator,omitempty"`
	Executor    *UserResponse      `json:"executor,omitempty"`
	Labels      []domain.Label     `json:"labels"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// NewTaskResponse maps a task with relations to its API representation.
func NewTaskResponse(t *domain.TaskWithRelations) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Status:      t.Status,
		Labels:      t.Labels,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if resp.Labels == nil {
		resp.Labels = []domain.Label{}
	}
	if t.Creator != nil {
		creator := NewUserResponse(t.Creator)
		resp.Creator = &creator
	}
	if t.Executor != nil {
		executor := NewUserResponse(t.Executor)
		resp.Executor = &executor
	}
	return resp
}
