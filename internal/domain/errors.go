// Package domain contains the core business entities for FAZAN.CLOUD.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ===========================================
	// User Errors
	// ===========================================

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates a user with the same username exists
	// (case-insensitive comparison).
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrUserBanned indicates the account is blocked from logging in.
	ErrUserBanned = errors.New("user account is banned")

	// ErrDeviceBanned indicates the login device is on the account's ban list.
	ErrDeviceBanned = errors.New("device is banned")

	// ErrInvalidCredentials indicates authentication failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPrivilegedMismatch indicates a privileged password was supplied
	// with a username that is not the fixed display name for the role.
	ErrPrivilegedMismatch = errors.New("wrong username for privileged role")

	// ===========================================
	// Product Errors
	// ===========================================

	// ErrProductNotFound indicates the requested product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrProductAlreadyExists indicates a product with the same ID exists.
	ErrProductAlreadyExists = errors.New("product already exists")

	// ErrInvalidProduct indicates the product record is missing required fields.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrInvalidCategory indicates the category is not one of the fixed values.
	ErrInvalidCategory = errors.New("invalid product category")

	// ErrNegativeStock indicates a negative stock counter was supplied.
	ErrNegativeStock = errors.New("stock must not be negative")

	// ===========================================
	// Comment Errors
	// ===========================================

	// ErrCommentNotFound indicates the requested comment does not exist.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrEmptyComment indicates the sanitized comment body is empty.
	ErrEmptyComment = errors.New("comment text is empty")
)

// DomainError wraps a domain error with additional context.
type DomainError struct {
	// Err is the underlying domain error.
	Err error

	// Message provides additional context.
	Message string

	// Resource identifies the affected resource (username, product ID).
	Resource string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Message, e.Resource)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError with context.
func NewDomainError(err error, message, resource string) *DomainError {
	return &DomainError{
		Err:      err,
		Message:  message,
		Resource: resource,
	}
}
