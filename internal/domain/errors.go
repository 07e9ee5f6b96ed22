// Package domain defines domain-specific errors.
// Nothing in the ambience core is fatal: services log these and degrade to
// defaults, adapters return them wrapped.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services and adapters can return.
var (
	// ErrNoColors is returned when an image yields no usable pixels.
	ErrNoColors = errors.New("no colors extracted")

	// ErrArtworkUnavailable is returned when an artwork reference cannot be resolved.
	ErrArtworkUnavailable = errors.New("artwork unavailable")

	// ErrUnsupportedArtwork is returned for references whose scheme or format is not handled.
	ErrUnsupportedArtwork = errors.New("unsupported artwork reference")

	// ErrNothingPlaying is returned by playback sources when no item is active.
	ErrNothingPlaying = errors.New("nothing playing")

	// ErrUnauthorized is returned when the playback source rejects our credentials.
	ErrUnauthorized = errors.New("playback source unauthorized")

	// ErrUnknownRenderer is returned when parsing an unknown renderer tag.
	ErrUnknownRenderer = errors.New("unknown renderer")

	// ErrNotInitialized is returned when an operation is attempted on an uninitialized component.
	ErrNotInitialized = errors.New("component not initialized")

	// ErrServiceClosed is returned by services after Shutdown.
	ErrServiceClosed = errors.New("service closed")
)

// ArtworkError wraps a failure to load or decode artwork.
type ArtworkError struct {
	Op  string // "fetch", "open", "decode", "tag"
	Ref string
	Err error
}

// Error implements the error interface.
func (e *ArtworkError) Error() string {
	return fmt.Sprintf("artwork %s failed for '%s': %v", e.Op, e.Ref, e.Err)
}

// Unwrap returns the underlying error.
func (e *ArtworkError) Unwrap() error {
	return e.Err
}

// NewArtworkError creates a new ArtworkError.
func NewArtworkError(op, ref string, err error) *ArtworkError {
	return &ArtworkError{Op: op, Ref: ref, Err: err}
}

// PlaybackSourceError represents an error from an upstream now-playing source.
type PlaybackSourceError struct {
	Source     string // e.g. "spotify", "mock"
	Op         string // e.g. "now_playing", "audio_features", "token"
	StatusCode int    // HTTP status when applicable
	Err        error
}

// Error implements the error interface.
func (e *PlaybackSourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s failed: status %d: %v", e.Source, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Source, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *PlaybackSourceError) Unwrap() error {
	return e.Err
}

// NewPlaybackSourceError creates a new PlaybackSourceError.
func NewPlaybackSourceError(source, op string, status int, err error) *PlaybackSourceError {
	return &PlaybackSourceError{Source: source, Op: op, StatusCode: status, Err: err}
}

// RepositoryError represents an error from the settings repository.
type RepositoryError struct {
	Op      string // "save", "load"
	Key     string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s %s failed: %s", e.Op, e.Key, e.Message)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(op, key, message string, err error) *RepositoryError {
	return &RepositoryError{Op: op, Key: key, Message: message, Err: err}
}

// ValidationError represents a rejected setting or parameter value.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}
