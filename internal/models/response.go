package models

import "short-link/internal/entities"

// Response is the envelope every JSON endpoint answers with. Code carries
// the outcome; the HTTP status is 200 unless noted on the route.
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// AddURLResponse adds the relative short path to the envelope
type AddURLResponse struct {
	Response
	URL string `json:"url"`
}

// UserInfo is the public part of an account
type UserInfo struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
}

// NewUserInfo copies the public fields of u
func NewUserInfo(u *entities.User) UserInfo {
	return UserInfo{ID: u.ID, Username: u.Username, Email: u.Email}
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Response
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// UserResponse is returned by the current-user endpoint
type UserResponse struct {
	Response
	User UserInfo `json:"user"`
}

// AuthorizeResponse carries where to send the browser for a provider login
type AuthorizeResponse struct {
	Response
	URL   string `json:"url"`
	State string `json:"state"`
}
