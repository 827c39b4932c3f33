// Copyright (c) 2026 Byte. All rights reserved.

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Handlers validate transport input with it before calling into services, and
// services reuse the same rules for data that arrives from collaborators (for
// example, claims asserted by an identity provider). Storage never validates.
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bytefood/byte/internal/platform/apperr"
)

var (
	// nameRegex restricts display names to letters, spaces, hyphens, and apostrophes.
	nameRegex = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	// uuidRegex matches a UUIDv4 or UUIDv7 string.
	uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// # Input Limits

const (
	// MaxEmailLength follows RFC 5321's 254-octet path limit.
	MaxEmailLength = 254

	// MinPasswordLength is the minimum password length at registration.
	MinPasswordLength = 8

	// MaxPasswordLength caps passwords to bound bcrypt input size.
	MaxPasswordLength = 128

	// MaxNameLength caps display names.
	MaxNameLength = 100
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// Email fails if the value is not a valid RFC 5322 email address or is
// longer than [MaxEmailLength].
//
// Callers are expected to pass an already-normalized value (trimmed,
// lowercased).
func (v *Validator) Email(field, value string) *Validator {
	if utf8.RuneCountInString(value) > MaxEmailLength {
		v.add(field, fmt.Sprintf("Email is too long (maximum %d characters)", MaxEmailLength))
		return v
	}
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, "Invalid email format")
	}
	return v
}

// Password enforces the registration-time password policy:
// 8–128 characters with at least one lowercase letter, one uppercase
// letter, and one digit.
//
// # Scope
//
// Login only checks that the password is non-empty (Required); strength
// is a registration-time policy, and rejecting a weak-but-correct password
// at login would lock out existing accounts.
func (v *Validator) Password(field, value string) *Validator {
	length := utf8.RuneCountInString(value)
	switch {
	case length < MinPasswordLength:
		v.add(field, fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
		return v
	case length > MaxPasswordLength:
		v.add(field, fmt.Sprintf("Password is too long (maximum %d characters)", MaxPasswordLength))
		return v
	}

	var hasLower, hasUpper, hasDigit bool
	for _, r := range value {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	switch {
	case !hasLower:
		v.add(field, "Password must contain at least one lowercase letter")
	case !hasUpper:
		v.add(field, "Password must contain at least one uppercase letter")
	case !hasDigit:
		v.add(field, "Password must contain at least one number")
	}
	return v
}

// Name fails if the value exceeds [MaxNameLength] or contains characters
// other than letters, spaces, hyphens, and apostrophes.
//
// Empty values pass; display names are optional and defaulted upstream.
func (v *Validator) Name(field, value string) *Validator {
	if value == "" {
		return v
	}
	if utf8.RuneCountInString(value) > MaxNameLength {
		v.add(field, fmt.Sprintf("Name is too long (maximum %d characters)", MaxNameLength))
		return v
	}
	if !nameRegex.MatchString(value) {
		v.add(field, "Name can only contain letters, spaces, hyphens, and apostrophes")
	}
	return v
}

// UUID fails if the value is not a valid UUID string (case-insensitive).
func (v *Validator) UUID(field, value string) *Validator {
	lower := strings.ToLower(value)
	if !uuidRegex.MatchString(lower) {
		v.add(field, "Must be a valid UUID")
	}
	return v
}

// Positive fails if the numeric value is not strictly greater than zero.
func (v *Validator) Positive(field string, value float64) *Validator {
	if value <= 0 {
		v.add(field, "Must be greater than zero")
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("weight_g", weight > 5000, "Implausible weight")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// The error message names the FIRST failing rule, matching the behavior
// clients already depend on; the full list rides along in Details.
//
// This is the only output method; call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError(v.errs[0].Message, v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError(message, apperr.FieldError{
		Field:   field,
		Message: message,
	})
}

// NormalizeEmail canonicalizes an email address: trimmed and lowercased.
//
// Normalization happens BEFORE validation so "  A@B.COM " and "a@b.com"
// resolve to the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
