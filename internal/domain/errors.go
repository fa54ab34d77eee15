package domain

import (
	"errors"
	"fmt"
)

// ErrProfileNotFound means the store answered and no profile document exists
// for the user. It is NOT returned on transport failure.
var ErrProfileNotFound = errors.New("profile not found")

// ============================================================================
// StoreError
// ============================================================================

// StoreError wraps a transport or backend failure of the profile store.
// Reads failing with StoreError are treated as transient by the reconciler.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("profile store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// ============================================================================
// AuthError
// ============================================================================

// AuthErrorCode identifies the failure class of an identity provider call.
type AuthErrorCode string

const (
	AuthEmailInUse          AuthErrorCode = "email-in-use"
	AuthWeakPassword        AuthErrorCode = "weak-password"
	AuthInvalidCredential   AuthErrorCode = "invalid-credential"
	AuthInvalidToken        AuthErrorCode = "invalid-token"
	AuthProviderUnreachable AuthErrorCode = "provider-unreachable"
)

// AuthError is a failure reported by the hosted identity provider. These are
// recovered locally: shown inline on the form, never a forced navigation.
type AuthError struct {
	Code    AuthErrorCode
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("auth: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("auth: %s", e.Code)
}

func (e *AuthError) Unwrap() error { return e.Err }

func NewAuthError(code AuthErrorCode, message string, err error) *AuthError {
	return &AuthError{Code: code, Message: message, Err: err}
}

// AuthCode extracts the AuthErrorCode from err, or "" if err is not an AuthError.
func AuthCode(err error) AuthErrorCode {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
