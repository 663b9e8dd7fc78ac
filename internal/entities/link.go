package entities

import "time"

// Link is a short code mapped to its target URL
type Link struct {
	ID          int64      `json:"id"`
	Link        string     `json:"link"`  // Original URL
	Short       string     `json:"short"` // Short code, unique
	UserID      *int64     `json:"user_id"`
	ExpiresAt   *time.Time `json:"expires_at"`
	IsPublic    bool       `json:"is_public"`
	AccessCount int64      `json:"access_count"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Expired reports whether the link has an expiry that lies before now.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

// AccessLog records one redirect through a link. Rows are append-only.
type AccessLog struct {
	ID         int64     `json:"id"`
	LinkID     int64     `json:"link_id"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	Referrer   string    `json:"referrer"`
	AccessedAt time.Time `json:"accessed_at"`
}

// ExpirationOption is a reference row offered by the frontend's expiry selector.
// Seconds is nil for "never expires".
type ExpirationOption struct {
	ID      int64  `json:"id"`
	Label   string `json:"label"`
	Seconds *int64 `json:"seconds"`
}
