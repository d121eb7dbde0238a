package handler

import (
	"time"

	"github.com/resumeforge/resume-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type signInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signUpRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=20"`
	Email    string   `json:"email"    validate:"required,email,max=50"`
	Password string   `json:"password" validate:"required,min=6,max=40"`
	Role     []string `json:"role"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	Type      string    `json:"type"`
	ExpiresAt time.Time `json:"expiresAt"`
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
}

type signUpResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

// --- Users ---

type userResponse struct {
	ID           int64    `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Roles        []string `json:"roles"`
	ProfilePhoto string   `json:"profilePhoto,omitempty"`
}

type updateUserRequest struct {
	Username     string   `json:"username"     validate:"required,min=3,max=20"`
	Email        string   `json:"email"        validate:"required,email,max=50"`
	ProfilePhoto string   `json:"profilePhoto"`
	Roles        []string `json:"roles"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6,max=40"`
}

// --- Resumes ---

type resumeRequest struct {
	UserID       int64               `json:"userId"`
	Title        string              `json:"title"        validate:"required,max=200"`
	PersonalInfo string              `json:"personalInfo"`
	Summary      string              `json:"summary"`
	Educations   []domain.Education  `json:"educations"`
	Experiences  []domain.Experience `json:"experiences"`
	Skills       []domain.Skill      `json:"skills"`
	TemplateName string              `json:"templateName" validate:"max=50"`
	IsPublic     *bool               `json:"isPublic"`
}

// --- Debug ---

type authStatusResponse struct {
	Authenticated bool     `json:"authenticated"`
	ID            int64    `json:"id,omitempty"`
	Username      string   `json:"username,omitempty"`
	Roles         []string `json:"roles,omitempty"`
	IsAdmin       bool     `json:"isAdmin"`
}

type permissionResponse struct {
	ResumeID int64  `json:"resumeId"`
	OwnerID  int64  `json:"ownerId"`
	IsPublic bool   `json:"isPublic"`
	CanRead  bool   `json:"canRead"`
	CanWrite bool   `json:"canWrite"`
	Reason   string `json:"reason,omitempty"`
}
