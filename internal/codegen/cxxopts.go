package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/climeta/internal/model"
)

// cxxoptsGenerator emits a C++ source and header pair built on the cxxopts
// header-only library. The header declares an Options struct plus
// parse_options and dump_options.
type cxxoptsGenerator struct{}

func (cxxoptsGenerator) Language() string { return "cpp-cxxopts" }

func (cxxoptsGenerator) Generate(doc model.Document, base string) ([]File, error) {
	resolved, err := doc.Resolve()
	if err != nil {
		return nil, err
	}
	source, err := cxxoptsSource(doc, resolved, includeName(base, ".hpp"))
	if err != nil {
		return nil, err
	}
	return []File{
		{Name: base + ".cpp", Content: source},
		{Name: base + ".hpp", Content: cxxoptsHeader(resolved)},
	}, nil
}

func cxxoptsSource(doc model.Document, resolved []*model.Resolved, header string) ([]byte, error) {
	var positionals, withChoices []*model.Resolved
	for _, r := range resolved {
		if r.Positional {
			positionals = append(positionals, r)
		}
		if len(r.Choices) > 0 {
			withChoices = append(withChoices, r)
		}
	}

	c := newEmitter("    ")
	c.line("#include %s", strconv.Quote(header))
	c.line("#include <iostream>")
	if len(withChoices) > 0 {
		c.line("#include <set>")
	}
	c.blank()
	c.blank()

	var choiceErr error
	c.block("cxxopts::ParseResult parse_options(int argc, const char **argv, Options* opts) {", "}", func() {
		c.line("cxxopts::Options options(%s, %s);", strconv.Quote(doc.Program.Name), strconv.Quote(doc.Program.Description))
		c.line("// define all options")
		c.line("options.add_options()")
		c.block("", "", func() {
			c.line(`("h,help", "show this help message and exit")`)
			for _, r := range resolved {
				c.line("(%s, %s, cxxopts::value<%s>()%s)",
					strconv.Quote(cxxoptsSpec(r)), strconv.Quote(cxxoptsHelp(r)), cppType(r), cxxoptsDefault(r))
			}
		})
		c.line(";")

		if len(positionals) > 0 {
			c.line("// declare positionals")
			if len(positionals) == 1 {
				c.line("options.parse_positional(%s);", strconv.Quote(positionals[0].CleanName))
			} else {
				names := make([]string, len(positionals))
				for i, p := range positionals {
					names[i] = strconv.Quote(p.CleanName)
				}
				c.line("options.parse_positional({%s});", strings.Join(names, ", "))
			}
		}
		c.blank()

		c.line("cxxopts::ParseResult result = options.parse(argc, argv);")
		c.block(`if (result.count("help")) {`, "}", func() {
			c.line("std::cout << options.help() << std::endl;")
			if len(positionals) > 0 {
				c.line(`std::cout << "positional arguments:\n";`)
				for _, p := range positionals {
					padding := strings.Repeat(" ", max(0, 17-len(p.CleanName)))
					c.line("std::cout << %s << %s;", strconv.Quote("  "+p.CleanName+" "+padding), strconv.Quote(p.Spec.Help+" (required)\n"))
				}
			}
			c.line("std::cout << %s << std::endl;", strconv.Quote("\n"+doc.Program.Epilog))
			c.line("exit(0);")
		})

		c.line("// Fill-up output struct")
		for _, r := range resolved {
			get := fmt.Sprintf("result[%s].as<%s>()", strconv.Quote(r.CleanName), cppType(r))
			if r.Inverted {
				c.line("opts->%s = !%s; // invert back", identifier(r.Dest), get)
				continue
			}
			c.line("opts->%s = %s;", identifier(r.Dest), get)
		}

		if len(withChoices) > 0 {
			c.line("// check choices")
			for _, r := range withChoices {
				if err := cxxoptsCheckChoices(c, r); err != nil {
					choiceErr = err
					return
				}
			}
		}
		c.line("return result;")
	})
	if choiceErr != nil {
		return nil, choiceErr
	}
	c.blank()

	c.block("void dump_options(const Options &opts) {", "}", func() {
		for _, r := range resolved {
			field := "opts." + identifier(r.Dest)
			if r.Spec.Multiple {
				c.line("std::cout << %s;", strconv.Quote(r.Dest+":\n"))
				c.block(fmt.Sprintf("for (const auto& item : %s) {", field), "}", func() {
					c.line(`std::cout << "  " << item << "\n";`)
				})
				continue
			}
			c.line(`std::cout << %s << %s << "\n";`, strconv.Quote(r.Dest+": "), field)
		}
	})
	return c.bytes(), nil
}

func cxxoptsCheckChoices(c *emitter, r *model.Resolved) error {
	name := identifier(r.CleanName)
	set := name + "_valid"
	literals := make([]string, len(r.Choices))
	quoted := make([]string, len(r.Choices))
	for i, ch := range r.Choices {
		lit, err := cppChoice(r.Spec.Type, ch)
		if err != nil {
			return fmt.Errorf("argument %s: %w", r.Spec.Name, err)
		}
		literals[i] = lit
		quoted[i] = "'" + ch + "'"
	}
	c.line("std::set<%s> %s{%s};", cppScalarType(r.Spec.Type), set, strings.Join(literals, ", "))

	check := func(value string) {
		c.block(fmt.Sprintf("if (%s.find(%s) == %s.end()) {", set, value, set), "}", func() {
			msg := fmt.Sprintf("ERROR: '%s' must be one of %s", r.CleanName, strings.Join(quoted, ", "))
			c.line("std::cout << %s << std::endl;", strconv.Quote(msg))
			c.line("exit(1);")
		})
	}
	field := "opts->" + identifier(r.Dest)
	if r.Spec.Multiple {
		c.block(fmt.Sprintf("for (const auto& item : %s) {", field), "}", func() {
			check("item")
		})
		return nil
	}
	check(field)
	return nil
}

// cppChoice renders a choice as a literal of the argument's type.
func cppChoice(t model.ArgType, choice string) (string, error) {
	if t == model.TypeString {
		return strconv.Quote(choice), nil
	}
	v, err := model.ParseValue(t, choice)
	if err != nil {
		return "", fmt.Errorf("choice %q: %w", choice, err)
	}
	return scalarLiteral(v, t, strconv.Quote), nil
}

func cxxoptsHeader(resolved []*model.Resolved) []byte {
	c := newEmitter("    ")
	c.line("#pragma once")
	c.blank()
	c.line(`#include "cxxopts.hpp"`)
	c.block("struct Options {", "};", func() {
		for _, r := range resolved {
			if !r.Positional {
				c.line("%s %s;", cppType(r), identifier(r.Dest))
			}
		}
		c.line("// positionals")
		for _, r := range resolved {
			if r.Positional {
				c.line("%s %s;", cppType(r), identifier(r.Dest))
			}
		}
	})
	c.blank()
	c.line("cxxopts::ParseResult parse_options(int argc, const char** argv, Options* opts);")
	c.line("void dump_options(const Options& opts);")
	return c.bytes()
}

func cppType(r *model.Resolved) string {
	if r.Spec.Multiple {
		return "std::vector<" + cppScalarType(r.Spec.Type) + ">"
	}
	return cppScalarType(r.Spec.Type)
}

func cppScalarType(t model.ArgType) string {
	switch t {
	case model.TypeString:
		return "std::string"
	case model.TypeFlag:
		return "bool"
	}
	return string(t)
}

// cxxoptsSpec is the "s,long" option specification.
func cxxoptsSpec(r *model.Resolved) string {
	if r.CleanShort == "" {
		return r.CleanName
	}
	return r.CleanShort + "," + r.CleanName
}

// cxxoptsHelp adds what the library does not print itself.
func cxxoptsHelp(r *model.Resolved) string {
	switch {
	case !r.HasDefault():
		return r.Spec.Help + " (required)"
	case r.Spec.Type == model.TypeFlag:
		return r.Spec.Help + " (default: false)"
	}
	return r.Spec.Help
}

// cxxoptsDefault renders the default_value call. Flags always default to
// false; an inverted flag is flipped when the struct is filled.
func cxxoptsDefault(r *model.Resolved) string {
	if !r.HasDefault() || r.Spec.Type == model.TypeFlag {
		return ""
	}
	items := elements(r.Default)
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = scalarLiteral(item, r.Spec.Type, func(s string) string { return s })
	}
	return fmt.Sprintf("->default_value(%s)", strconv.Quote(strings.Join(parts, ",")))
}
