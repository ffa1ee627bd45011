package orrery

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks a precondition violation in geometry, math or
	// configuration input. Values are never clamped silently.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrResourceUnavailable marks a shader, pipeline or image that could not
	// be loaded. The concrete error is a *ResourceError.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrPlatformInit marks a window, context or GPU adapter failure at startup.
	ErrPlatformInit = errors.New("platform init failed")
)

type ResourceKind string

const (
	ResourceShader   ResourceKind = "shader"
	ResourcePipeline ResourceKind = "pipeline"
	ResourceImage    ResourceKind = "image"
	ResourceTexture  ResourceKind = "texture"
	ResourceConfig   ResourceKind = "config"
)

// ResourceError carries the diagnostic text of the failing loader or compiler.
type ResourceError struct {
	Kind       ResourceKind
	Name       string
	Diagnostic string
	Err        error
}

func (e *ResourceError) Error() string {
	msg := fmt.Sprintf("%s %q unavailable", e.Kind, e.Name)
	if e.Diagnostic != "" {
		msg += ": " + e.Diagnostic
	}
	return msg
}

func (e *ResourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrResourceUnavailable}
	}
	return []error{ErrResourceUnavailable, e.Err}
}

// NewResourceError wraps err, using its text as the diagnostic.
func NewResourceError(kind ResourceKind, name string, err error) *ResourceError {
	re := &ResourceError{Kind: kind, Name: name, Err: err}
	if err != nil {
		re.Diagnostic = err.Error()
	}
	return re
}

// InvalidArgumentf formats a message wrapping ErrInvalidArgument.
func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// PlatformInitf formats a message wrapping ErrPlatformInit and the cause.
func PlatformInitf(cause error, format string, args ...any) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrPlatformInit, fmt.Sprintf(format, args...))
	}
	return fmt.Errorf("%w: %s: %w", ErrPlatformInit, fmt.Sprintf(format, args...), cause)
}
