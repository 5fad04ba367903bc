// Package domain contains the core business entities for FAZAN.CLOUD.
// These are pure Go structs with no external dependencies, representing
// the fundamental concepts of the storefront.
package domain

import (
	"time"
)

// Role identifies the privilege level of a user account.
type Role string

const (
	// RoleUser is a regular storefront customer.
	RoleUser Role = "user"

	// RoleAdmin is a store administrator (catalog and comment moderation).
	RoleAdmin Role = "admin"

	// RoleOwner is the store owner (full console, lockdown, user management).
	RoleOwner Role = "owner"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleOwner:
		return true
	}
	return false
}

// Privileged reports whether the role grants access to the admin console.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleOwner
}

// Fixed display usernames for the two privileged roles. A privileged
// login refreshes or creates these records instead of looking up an
// arbitrary username.
const (
	OwnerUsername = "Vladeles"
	AdminUsername = "Administrator"
)

// BehaviorAction is a tracked user interaction kind.
type BehaviorAction string

const (
	ActionViewProduct BehaviorAction = "view_product"
	ActionSearch      BehaviorAction = "search"
	ActionFilter      BehaviorAction = "filter"
	ActionAddCart     BehaviorAction = "add_cart"
	ActionLogin       BehaviorAction = "login"
	ActionClick       BehaviorAction = "click"
)

// BehaviorEntry is a single tracked interaction in a user's behavior log.
type BehaviorEntry struct {
	// Action is the interaction kind.
	Action BehaviorAction `json:"action"`

	// Target is the optional subject of the action (product name, search term).
	Target string `json:"target,omitempty"`

	// Timestamp is the interaction time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// MaxBehaviorEntries bounds the per-user behavior log. Older entries are
// dropped once the log exceeds this size.
const MaxBehaviorEntries = 200

// Notification is a system message delivered to a single user.
type Notification struct {
	// ID is the unique identifier of the notification.
	ID string `json:"id"`

	// Text is the message body.
	Text string `json:"text"`

	// IsRead indicates whether the user has seen the notification.
	IsRead bool `json:"isRead"`

	// Timestamp is the delivery time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// User represents a registered storefront account.
// Usernames are unique under case-insensitive comparison.
type User struct {
	// Username is the unique account name and primary key.
	Username string `json:"username"`

	// Role is the privilege level of the account.
	Role Role `json:"role"`

	// PasswordHash is the SHA-256 hex digest of the password.
	// This should never be exposed in API responses.
	PasswordHash string `json:"-"`

	// LastLogin is the last successful login time in Unix milliseconds.
	LastLogin int64 `json:"lastLogin"`

	// Avatar is an optional avatar image URL.
	Avatar string `json:"avatar,omitempty"`

	// IP, Location, Device, OS and Browser describe the client seen at
	// the last successful login.
	IP       string `json:"ip,omitempty"`
	Location string `json:"location,omitempty"`
	Device   string `json:"device,omitempty"`
	OS       string `json:"os,omitempty"`
	Browser  string `json:"browser,omitempty"`

	// Favorites is the set of favorited product IDs, stored as a list.
	Favorites []string `json:"favorites"`

	// BehaviorLog is the bounded list of tracked interactions,
	// capped at MaxBehaviorEntries most recent entries.
	BehaviorLog []BehaviorEntry `json:"behaviorLog,omitempty"`

	// Notifications is the list of system messages for this user.
	Notifications []Notification `json:"notifications,omitempty"`

	// IsBanned blocks all logins for the account.
	IsBanned bool `json:"isBanned,omitempty"`

	// IsShadowBanned marks the account as silently ignored. Only the
	// flag is stored; enforcement is left to callers.
	IsShadowBanned bool `json:"isShadowBanned,omitempty"`

	// IsVip marks the account as a VIP customer.
	IsVip bool `json:"isVip,omitempty"`

	// Balance is the store credit / loyalty points of the account.
	Balance float64 `json:"balance"`

	// BannedDevice blocks logins from a specific device string.
	BannedDevice string `json:"bannedDevice,omitempty"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the account was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a regular customer account with default values.
func NewUser(username, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		Username:     username,
		Role:         RoleUser,
		PasswordHash: passwordHash,
		LastLogin:    now.UnixMilli(),
		Favorites:    []string{},
		BehaviorLog:  []BehaviorEntry{},
		Balance:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CanAuthenticate returns true if the account is allowed to log in.
func (u *User) CanAuthenticate() bool {
	return !u.IsBanned
}

// HasFavorite reports whether the product is in the user's favorites.
func (u *User) HasFavorite(productID string) bool {
	for _, id := range u.Favorites {
		if id == productID {
			return true
		}
	}
	return false
}

// ClientInfo describes the client used to reach the storefront.
// It is recorded on the user record at registration and every login.
type ClientInfo struct {
	// IP is the caller's public IP address.
	IP string

	// Location is a coarse "city, region, country" string.
	Location string

	// Device is the raw user agent string.
	Device string

	// OS is the operating system name parsed from the user agent.
	OS string

	// Browser is the browser name parsed from the user agent.
	Browser string
}
