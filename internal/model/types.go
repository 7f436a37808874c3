// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// ArgType is the value type of a declared argument.
type ArgType string

const (
	TypeString ArgType = "string"
	TypeFlag   ArgType = "flag"
	TypeInt    ArgType = "int"
	TypeFloat  ArgType = "float"
)

// ArgTypes lists the supported types in the order editors present them.
var ArgTypes = []ArgType{TypeString, TypeFlag, TypeInt, TypeFloat}

// Valid reports whether t is one of the supported argument types.
func (t ArgType) Valid() bool {
	switch t {
	case TypeString, TypeFlag, TypeInt, TypeFloat:
		return true
	}
	return false
}

// CtyType returns the cty type used to hold a single value of t.
func (t ArgType) CtyType() cty.Type {
	switch t {
	case TypeFlag:
		return cty.Bool
	case TypeInt, TypeFloat:
		return cty.Number
	default:
		return cty.String
	}
}

// ParseArgType converts a raw string into an ArgType.
func ParseArgType(s string) (ArgType, error) {
	t := ArgType(strings.TrimSpace(s))
	if !t.Valid() {
		return "", fmt.Errorf("unknown argument type %q", s)
	}
	return t, nil
}

// ProgramMetadata describes the program the arguments belong to.
type ProgramMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Epilog      string `json:"epilog,omitempty"`
}

// ArgumentSpec is one declared command-line argument. Empty strings and false
// booleans mean "not set".
type ArgumentSpec struct {
	// Name is the flag token: "--output" for a long option, "input" for a
	// positional argument.
	Name     string   `json:"name"`
	Short    string   `json:"short,omitempty"`
	Type     ArgType  `json:"type"`
	Default  string   `json:"default,omitempty"`
	Metavar  string   `json:"metavar,omitempty"`
	Dest     string   `json:"dest,omitempty"`
	Multiple bool     `json:"multiple,omitempty"`
	Required bool     `json:"required,omitempty"`
	Choices  []string `json:"choices,omitempty"`
	Help     string   `json:"help"`
}

// IsLong reports whether the argument is a long option ("--name").
func (a ArgumentSpec) IsLong() bool {
	return strings.HasPrefix(a.Name, "--")
}

// IsPositional reports whether the argument is identified by position. Any
// non-empty name that is not a long option is positional.
func (a ArgumentSpec) IsPositional() bool {
	return a.Name != "" && !a.IsLong()
}

// Document is the program metadata plus its ordered argument declarations.
type Document struct {
	Program   ProgramMetadata `json:"program"`
	Arguments []ArgumentSpec  `json:"arguments"`
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{Program: d.Program}
	if d.Arguments != nil {
		out.Arguments = make([]ArgumentSpec, len(d.Arguments))
		for i, a := range d.Arguments {
			out.Arguments[i] = a.Clone()
		}
	}
	return out
}

// Clone returns a copy of the argument that does not share its choices slice.
func (a ArgumentSpec) Clone() ArgumentSpec {
	if a.Choices != nil {
		a.Choices = append([]string(nil), a.Choices...)
	}
	return a
}
