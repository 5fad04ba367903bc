// Package crypto provides password digest utilities for FAZAN.CLOUD.
package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword computes the unsalted SHA-256 hex digest of a password.
//
// The digest is deliberately deterministic: the two privileged role
// digests below are fixed values and the same function covers regular
// accounts.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Reference digests for the two privileged role passwords.
const (
	// AdminDigest is the SHA-256 digest of the administrator password.
	AdminDigest = "f0e4c2f76c58916ec258f246851bea091d14d4247a2fc3e18694461b1816e13b"

	// OwnerDigest is the SHA-256 digest of the owner password.
	OwnerDigest = "a665a45920422f9d417e4867efdc4fb8a04a1f3fff1fa07e998e86f7f7a27ae3"
)

// PrivilegedRole is the outcome of classifying a supplied password
// against the reference digests.
type PrivilegedRole string

const (
	// PrivilegedNone means the password matched neither reference digest.
	PrivilegedNone PrivilegedRole = ""

	// PrivilegedAdmin means the password matched the administrator digest.
	PrivilegedAdmin PrivilegedRole = "admin"

	// PrivilegedOwner means the password matched the owner digest.
	PrivilegedOwner PrivilegedRole = "owner"
)

// ClassifyPassword compares the digest of the supplied password against
// the two reference digests and reports which privileged role, if any,
// it unlocks. The owner digest is checked first.
func ClassifyPassword(password string) PrivilegedRole {
	digest := HashPassword(password)
	if DigestEqual(digest, OwnerDigest) {
		return PrivilegedOwner
	}
	if DigestEqual(digest, AdminDigest) {
		return PrivilegedAdmin
	}
	return PrivilegedNone
}

// DigestEqual compares two hex digests in constant time.
func DigestEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// ValidDigest reports whether a string is a well-formed SHA-256 hex digest.
func ValidDigest(digest string) bool {
	if len(digest) != 64 {
		return false
	}
	for _, c := range digest {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
