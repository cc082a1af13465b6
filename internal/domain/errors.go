package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type NotFoundError struct {
	Resource string
	ID       any
	Err      error
}

func (e NotFoundError) Error() string {
	resource := e.Resource
	if resource == "" {
		resource = "resource"
	}
	if e.ID == nil {
		return fmt.Sprintf("%s not found", resource)
	}
	return fmt.Sprintf("%s not found with id: %v", resource, e.ID)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError carries every field violation found in one request.
type ValidationError struct {
	Fields map[string]string
	Err    error
}

func (e ValidationError) Error() string {
	fields := e.Fields
	if len(fields) == 0 {
		return "validation error"
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fields[k]))
	}
	return strings.Join(parts, "; ")
}

func (e ValidationError) Unwrap() error { return e.Err }

// NewValidationError returns nil when fields is empty.
func NewValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return ValidationError{Fields: fields}
}

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

// AsValidation extracts the ValidationError from err's chain.
func AsValidation(err error) (ValidationError, bool) {
	var target ValidationError
	ok := errors.As(err, &target)
	return target, ok
}
