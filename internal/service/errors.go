// Package service provides business logic services for FAZAN.CLOUD.
package service

import "errors"

// Common service errors.
var (
	// Auth errors
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("username already taken")
	ErrUserBanned           = errors.New("account is banned")
	ErrDeviceBanned         = errors.New("device is banned")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrPrivilegedNameNeeded = errors.New("wrong username for privileged password")
	ErrPrivilegedMismatch   = errors.New("wrong admin or owner password")
	ErrInvalidUsername      = errors.New("invalid username")

	// Catalog errors
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")

	// Comment errors
	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyComment    = errors.New("comment text is empty")

	// Site state errors
	ErrLockdownActive = errors.New("site is in lockdown mode")

	// General errors
	ErrInternalError = errors.New("internal server error")
)
