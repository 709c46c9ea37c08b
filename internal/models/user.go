package models

import (
	"time"

	"github.com/bitemebuddy/admin-api/internal/location"
)

// DisplayTimeLayout is the human-readable timestamp format used across
// listings, exports and PDF reports, e.g. "05 Mar 2026, 09:41 PM".
const DisplayTimeLayout = "02 Jan 2006, 03:04 PM"

// User statuses
const (
	StatusActive  = "active"
	StatusBlocked = "blocked"
)

// ValidStatus reports whether s is a recognized account status.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusBlocked
}

type User struct {
	ID         int64
	FullName   string
	Phone      string // unique
	Email      string // unique
	Password   string // bcrypt hash, never serialized
	Location   string // raw encoded location string, see internal/location
	ProfilePic *string
	Status     string // "active" or "blocked"
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// LastUpdated returns UpdatedAt when set, falling back to CreatedAt.
func (u *User) LastUpdated() time.Time {
	if u.UpdatedAt != nil {
		return *u.UpdatedAt
	}
	return u.CreatedAt
}

// EnrichedUser is a User decorated with the decoded location and display
// timestamps. Every row returned by a listing, detail lookup or export is
// enriched before it leaves the service layer.
type EnrichedUser struct {
	User
	ParsedLocation   location.Location
	FormattedCreated string
	FormattedUpdated string
}

// UserUpdate carries the optional field-level changes of an update request.
// Nil pointers mean "leave unchanged". Password, when set, is the plaintext
// to be hashed by the service before it reaches storage.
type UserUpdate struct {
	FullName *string
	Email    *string
	Phone    *string
	Location *string
	Status   *string
	Password *string
}

// Empty reports whether the update carries no changes at all.
func (u UserUpdate) Empty() bool {
	return u.FullName == nil && u.Email == nil && u.Phone == nil &&
		u.Location == nil && u.Status == nil && u.Password == nil
}

// UserStats aggregates the dashboard counters.
type UserStats struct {
	TotalUsers   int `json:"total_users"`
	AutoUsers    int `json:"auto_users"`
	TodayUsers   int `json:"today_users"`
	WeekUsers    int `json:"week_users"`
	ActiveUsers  int `json:"active_users"`
	BlockedUsers int `json:"blocked_users"`
}
