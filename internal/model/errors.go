// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a validation failure.
type ErrorKind int

const (
	// MissingField is a required value that is absent.
	MissingField ErrorKind = iota
	// TypeMismatch is a default value incompatible with the declared type.
	TypeMismatch
	// StructuralViolation is a well-typed value used where the argument's
	// shape does not allow it, such as a flag that is not a long option.
	StructuralViolation
)

var (
	ErrMissingField        = errors.New("missing field")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrStructuralViolation = errors.New("structural violation")
)

func (k ErrorKind) String() string {
	switch k {
	case MissingField:
		return "MissingField"
	case TypeMismatch:
		return "TypeMismatch"
	case StructuralViolation:
		return "StructuralViolation"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) sentinel() error {
	switch k {
	case MissingField:
		return ErrMissingField
	case TypeMismatch:
		return ErrTypeMismatch
	default:
		return ErrStructuralViolation
	}
}

// ProgramIndex is the FieldError.Index used for program metadata fields.
const ProgramIndex = -1

// FieldError points at a single offending field of a document.
type FieldError struct {
	// Index is the position of the argument in Document.Arguments, or
	// ProgramIndex for program metadata.
	Index   int
	Field   string
	Kind    ErrorKind
	Message string
}

func (e *FieldError) Error() string {
	where := "program"
	if e.Index != ProgramIndex {
		where = fmt.Sprintf("argument %d", e.Index+1)
	}
	return fmt.Sprintf("%s: %s: %s", where, e.Field, e.Message)
}

// Unwrap lets callers test the error class with errors.Is.
func (e *FieldError) Unwrap() error {
	return e.Kind.sentinel()
}

// ValidationErrors is the accumulated result of validating a document.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d validation error(s): %s", len(v), strings.Join(msgs, "; "))
}

// Unwrap exposes every field error to errors.Is and errors.As.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}

// ForIndex returns the errors reported for the argument at index i.
func (v ValidationErrors) ForIndex(i int) []*FieldError {
	var out []*FieldError
	for _, e := range v {
		if e.Index == i {
			out = append(out, e)
		}
	}
	return out
}
