// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file implements document validation. Every argument is checked and
// every problem is collected; the caller decides whether a non-empty result
// aborts the operation (serializers abort, editors only highlight).

package model

import (
	"fmt"
	"strings"

	"github.com/apparentlymart/go-textseg/v15/textseg"
)

// Validate checks the document and returns ValidationErrors, or nil when the
// document is valid.
func (d Document) Validate() error {
	var errs ValidationErrors
	errs = append(errs, d.Program.validate()...)
	for i, a := range d.Arguments {
		errs = append(errs, a.validate(i)...)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate checks a single argument as if it were the only one in a document.
func (a ArgumentSpec) Validate() error {
	if errs := a.validate(0); len(errs) > 0 {
		return ValidationErrors(errs)
	}
	return nil
}

func (a ArgumentSpec) validate(index int) []*FieldError {
	var errs []*FieldError
	add := func(field string, kind ErrorKind, format string, args ...any) {
		errs = append(errs, &FieldError{Index: index, Field: field, Kind: kind, Message: fmt.Sprintf(format, args...)})
	}

	for _, f := range []struct{ name, value string }{
		{"name", a.Name}, {"short", a.Short}, {"type", string(a.Type)}, {"default", a.Default},
		{"metavar", a.Metavar}, {"dest", a.Dest}, {"choices", strings.Join(a.Choices, ",")}, {"help", a.Help},
	} {
		if strings.ContainsAny(f.value, lineBreaks) {
			add(f.name, TypeMismatch, "%s cannot contain line breaks", f.name)
		}
	}
	if a.Name == "" {
		add("name", MissingField, "name is required")
	}
	if a.Type == "" {
		add("type", MissingField, "type is required")
	}
	if a.Help == "" {
		add("help", MissingField, "help is required")
	}
	// Without the essentials the remaining checks only produce noise.
	if len(errs) > 0 {
		return errs
	}

	if !a.Type.Valid() {
		add("type", TypeMismatch, "unknown type %q, expected one of %s", a.Type, typeList())
		return errs
	}

	switch a.Type {
	case TypeFlag:
		if a.Default != "true" && a.Default != "false" {
			add("default", TypeMismatch, "flag default must be \"true\" or \"false\", got %q", a.Default)
		}
		if !a.IsLong() {
			add("name", StructuralViolation, "flag %q must be a long option (--name)", a.Name)
		}
		if a.Required {
			add("required", StructuralViolation, "flag %q cannot be required", a.Name)
		}
	case TypeInt, TypeFloat:
		if a.Default != "" {
			if _, err := ParseDefault(a.Type, a.Default, a.Multiple); err != nil {
				add("default", TypeMismatch, "%v", err)
			}
		}
	}

	if a.IsPositional() && a.Type != TypeFlag {
		if a.Default != "" {
			add("default", StructuralViolation, "positional argument %q cannot have a default", a.Name)
		}
		if a.Short != "" {
			add("short", StructuralViolation, "positional argument %q cannot have a short alias", a.Name)
		}
	} else if a.Short != "" && !IsSingleCharacter(strings.TrimLeft(a.Short, "-")) {
		add("short", StructuralViolation, "short alias %q must be a single character", a.Short)
	}

	for _, c := range a.Choices {
		if c == "" || c != strings.TrimSpace(c) || strings.Contains(c, ",") {
			add("choices", StructuralViolation, "choice %q must be non-blank, without surrounding spaces or commas", c)
			break
		}
	}

	if a.Required && a.Default != "" && a.Type != TypeFlag {
		add("default", StructuralViolation, "required argument %q cannot have a default", a.Name)
	}

	return errs
}

// lineBreaks cannot appear in any value: the flat format is line based.
const lineBreaks = "\r\n"

func (p ProgramMetadata) validate() []*FieldError {
	var errs []*FieldError
	for _, f := range []struct{ name, value string }{
		{"name", p.Name}, {"description", p.Description}, {"epilog", p.Epilog},
	} {
		if strings.ContainsAny(f.value, lineBreaks) {
			errs = append(errs, &FieldError{
				Index:   ProgramIndex,
				Field:   f.name,
				Kind:    TypeMismatch,
				Message: f.name + " cannot contain line breaks",
			})
		}
	}
	return errs
}

// IsSingleCharacter reports whether s is exactly one user-perceived
// character (grapheme cluster).
func IsSingleCharacter(s string) bool {
	n, err := textseg.TokenCount([]byte(s), textseg.ScanGraphemeClusters)
	return err == nil && n == 1
}

func typeList() string {
	names := make([]string, len(ArgTypes))
	for i, t := range ArgTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
