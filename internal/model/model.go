// Package model defines domain entities used by services and repositories.
package model

import (
	"strconv"
	"time"
)

// Categories a credential may belong to. The set is fixed; repositories and
// services reject anything else.
var Categories = []string{"Personal", "Work", "Banking", "Social", "Shopping", "Other"}

// ValidCategory reports whether c is one of the fixed credential categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// NewID returns a creation-timestamp identifier (milliseconds since epoch,
// stringified). Two events inside the same millisecond collide; the original
// data format allows that and consumers never deduplicate.
func NewID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// Credential is a single stored site/username/password entry.
type Credential struct {
	ID        string    `json:"id"`
	SiteName  string    `json:"siteName"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Category  string    `json:"category"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Activity is one logged user-facing event (login, credential mutation, generation).
// The collection is kept newest-first and capped at the most recent 100 entries.
type Activity struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
}

// User is a registry account. The password is stored as an argon2id hash with a
// per-user salt; nothing recoverable is kept.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PwdHash          []byte    `json:"passwordHash"`
	Salt             []byte    `json:"passwordSalt"`
	Name             string    `json:"name"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	CreatedAt        time.Time `json:"createdAt"`
}

// SessionUser is the active identity: a registry entry minus its secrets.
type SessionUser struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	CreatedAt        time.Time `json:"createdAt"`
}

// SessionFromUser builds the reduced session view of a registry entry.
func SessionFromUser(u *User) SessionUser {
	return SessionUser{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		TwoFactorEnabled: u.TwoFactorEnabled,
		CreatedAt:        u.CreatedAt,
	}
}

// Settings is the flat security settings record. Saved values are merged over
// defaults on load, so adding a field keeps old files readable.
type Settings struct {
	AutoLockEnabled       bool `json:"autoLockEnabled"`
	SessionTimeout        int  `json:"sessionTimeout"` // minutes
	PasswordHistory       bool `json:"passwordHistory"`
	BreachMonitoring      bool `json:"breachMonitoring"`
	SecurityNotifications bool `json:"securityNotifications"`
}

// DefaultSettings returns the settings used until the user changes anything.
func DefaultSettings() Settings {
	return Settings{
		AutoLockEnabled:       true,
		SessionTimeout:        30,
		PasswordHistory:       true,
		BreachMonitoring:      true,
		SecurityNotifications: true,
	}
}

// GeneratorOptions selects character classes and exclusions for password generation.
type GeneratorOptions struct {
	Uppercase        bool `json:"uppercase"`
	Lowercase        bool `json:"lowercase"`
	Numbers          bool `json:"numbers"`
	Symbols          bool `json:"symbols"`
	ExcludeSimilar   bool `json:"excludeSimilar"`
	ExcludeAmbiguous bool `json:"excludeAmbiguous"`
}

// Preset is a named generator configuration applied atomically.
type Preset struct {
	Name        string
	Description string
	Length      int
	Options     GeneratorOptions
}
