package models

import "time"

// AddURLRequest represents the request body for creating a short link
type AddURLRequest struct {
	URL       string     `json:"url" binding:"required,shorturl"`
	ExpiresAt *time.Time `json:"expiresAt"` // RFC 3339; omitted or null never expires
	IsPublic  bool       `json:"isPublic"`
}

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required,notblank"`
	Email    string `json:"email" binding:"required,notblank"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,notblank"`
	Password string `json:"password" binding:"required"`
}
