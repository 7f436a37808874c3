// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file derives the typed view of an argument that generators and the
// normalizer work with. Resolution applies the implicit rules of the format:
//
//   - dest falls back to the name without dashes, metavar to its upper case;
//   - positional arguments are always required;
//   - an option without a default is required, except flags, which are false
//     unless stated otherwise;
//   - a flag that defaults to true is inverted: the switch on the command
//     line turns the value off.

package model

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

var spaceRun = regexp.MustCompile(` +`)

// Resolved is the fully-typed view of an ArgumentSpec.
type Resolved struct {
	Spec ArgumentSpec

	CleanName  string
	CleanShort string
	Dest       string
	Metavar    string
	HasMetavar bool

	Positional bool
	Required   bool
	// Inverted is set for flags that default to true.
	Inverted bool

	// Default is cty.NilVal when the argument is required. For multiple
	// arguments it is a list of the element type.
	Default cty.Value
	Choices []string
}

// HasDefault reports whether the argument carries a usable default.
func (r *Resolved) HasDefault() bool {
	return r.Default != cty.NilVal
}

// Resolve validates the document and resolves every argument in order.
func (d Document) Resolve() ([]*Resolved, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	out := make([]*Resolved, 0, len(d.Arguments))
	for i, a := range d.Arguments {
		r, err := a.Resolve()
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i+1, a.Name, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Resolve derives the typed view of a single argument. It assumes the
// argument passed Validate and only reports problems Validate does not cover.
func (a ArgumentSpec) Resolve() (*Resolved, error) {
	name := strings.TrimSpace(a.Name)
	if strings.HasPrefix(name, "-") && !strings.HasPrefix(name, "--") {
		return nil, fmt.Errorf("name cannot start with a single dash, found %q", a.Name)
	}
	if a.Type == TypeFlag && a.Multiple {
		return nil, errors.New("multiple is not supported for flags")
	}

	r := &Resolved{
		Spec:       a.Clone(),
		CleanName:  strings.TrimLeft(name, "-"),
		CleanShort: strings.TrimLeft(a.Short, "-"),
		Positional: a.IsPositional(),
		Choices:    append([]string(nil), a.Choices...),
	}
	r.Dest = a.Dest
	if r.Dest == "" {
		r.Dest = r.CleanName
	}
	r.HasMetavar = a.Metavar != ""
	if r.HasMetavar {
		r.Metavar = strings.ToUpper(a.Metavar)
	} else {
		r.Metavar = strings.ToUpper(r.CleanName)
	}

	defaultKnown := a.Default != "" || a.Type == TypeFlag
	r.Required = r.Positional || a.Required || !defaultKnown
	if r.Required {
		return r, nil
	}

	raw := a.Default
	if a.Type == TypeFlag && raw == "" {
		raw = "false"
	}
	val, err := ParseDefault(a.Type, raw, a.Multiple)
	if err != nil {
		return nil, err
	}
	r.Default = val
	r.Inverted = a.Type == TypeFlag && val.True()
	return r, nil
}

// ParseDefault converts a string-encoded default into a cty value of the
// argument's type. Multiple defaults are separated by runs of spaces.
func ParseDefault(t ArgType, raw string, multiple bool) (cty.Value, error) {
	if !multiple {
		return ParseValue(t, raw)
	}
	items := spaceRun.Split(strings.TrimSpace(raw), -1)
	vals := make([]cty.Value, 0, len(items))
	for _, item := range items {
		v, err := ParseValue(t, item)
		if err != nil {
			return cty.NilVal, err
		}
		vals = append(vals, v)
	}
	return cty.ListVal(vals), nil
}

// ParseValue converts a single command-line or default token into a cty value
// of type t. Integers accept base prefixes such as 0x.
func ParseValue(t ArgType, raw string) (cty.Value, error) {
	switch t {
	case TypeString:
		return cty.StringVal(raw), nil
	case TypeFlag:
		if raw != "true" && raw != "false" {
			return cty.NilVal, fmt.Errorf("%q is not a boolean, expected \"true\" or \"false\"", raw)
		}
		return convert.Convert(cty.StringVal(raw), cty.Bool)
	case TypeInt:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 0, 64)
		if err != nil {
			return cty.NilVal, fmt.Errorf("%q is not an integer", raw)
		}
		return cty.NumberIntVal(n), nil
	case TypeFloat:
		v, err := convert.Convert(cty.StringVal(strings.TrimSpace(raw)), cty.Number)
		if err != nil {
			return cty.NilVal, fmt.Errorf("%q is not a floating-point number", raw)
		}
		return v, nil
	}
	return cty.NilVal, fmt.Errorf("unknown argument type %q", t)
}

// FormatValue renders a value produced by ParseValue or ParseDefault the way
// usage text shows it.
func FormatValue(v cty.Value) string {
	if v == cty.NilVal || v.IsNull() {
		return ""
	}
	ty := v.Type()
	switch {
	case ty.IsListType() || ty.IsTupleType():
		parts := make([]string, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			parts = append(parts, FormatValue(ev))
		}
		return strings.Join(parts, ",")
	case ty == cty.Bool:
		return strconv.FormatBool(v.True())
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); bf.IsInt() && acc == big.Exact {
			return strconv.FormatInt(i, 10)
		}
		f, _ := bf.Float64()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case ty == cty.String:
		return v.AsString()
	}
	return v.GoString()
}
