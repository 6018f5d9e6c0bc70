package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the application.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrUnauthorized  = errors.New("unauthorized access")
	ErrConflict      = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyMessage  = errors.New("message must carry text or media")
	ErrMissingMedia  = errors.New("media message must carry a resolved url")
	ErrSelfChat      = errors.New("sender and receiver must be distinct")
	ErrCancelled     = errors.New("cancelled by user")
	ErrCaptureBusy   = errors.New("an audio session is already active")
	ErrNotRecording  = errors.New("no recording in progress")
	ErrNotPlaying    = errors.New("no playback in progress")
)

// AuthErrorKind names an identity failure the user can correct and retry.
type AuthErrorKind string

const (
	AuthMissingFields     AuthErrorKind = "missing_fields"
	AuthInvalidEmail      AuthErrorKind = "invalid_email"
	AuthInvalidCredential AuthErrorKind = "invalid_credential"
	AuthEmailInUse        AuthErrorKind = "email_in_use"
	AuthWeakPassword      AuthErrorKind = "weak_password"
	AuthPasswordMismatch  AuthErrorKind = "password_mismatch"
)

// AuthError is an identity-provider rejection. Every kind maps to a
// human-readable message surfaced directly to the user.
type AuthError struct {
	Kind AuthErrorKind
}

func (e *AuthError) Error() string {
	switch e.Kind {
	case AuthMissingFields:
		return "please enter your email and password first"
	case AuthInvalidEmail:
		return "that email address is invalid"
	case AuthInvalidCredential:
		return "wrong email or password"
	case AuthEmailInUse:
		return "that email address is already in use"
	case AuthWeakPassword:
		return "password must have at least six characters"
	case AuthPasswordMismatch:
		return "password does not match"
	}
	return "authentication failed"
}

// NewAuthError returns an AuthError of the given kind.
func NewAuthError(kind AuthErrorKind) *AuthError {
	return &AuthError{Kind: kind}
}

// UploadError is a transport or backend rejection during a media upload.
// The pipeline guarantees no message ever references a failed upload; the
// user recovers by re-initiating the upload from the start.
type UploadError struct {
	Cause error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed: %v", e.Cause)
}

func (e *UploadError) Unwrap() error { return e.Cause }

// SubmitError is a backend rejection of a message insert. The pending input
// buffer is owned by the caller and must not be cleared on this path.
type SubmitError struct {
	Cause error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit failed: %v", e.Cause)
}

func (e *SubmitError) Unwrap() error { return e.Cause }
