package codegen

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/climeta/internal/model"
)

// bashGenerator emits a bash script defining get_cli_args. Option values
// land in shell variables named after each argument's dest.
type bashGenerator struct{}

func (bashGenerator) Language() string { return "bash" }

var shellQuoted = strings.NewReplacer(`'`, `'\''`)

// shellQuote renders s as a single-quoted shell word.
func shellQuote(s string) string {
	return "'" + shellQuoted.Replace(s) + "'"
}

func (bashGenerator) Generate(doc model.Document, base string) ([]File, error) {
	resolved, err := doc.Resolve()
	if err != nil {
		return nil, err
	}

	c := newEmitter("    ")
	c.line("#!/usr/bin/env bash")
	c.blank()
	bashUsage(c, doc, resolved)
	bashCheckValue(c)
	bashParseArgs(c, resolved)
	bashValidate(c, resolved)
	bashDump(c, resolved)

	c.line("# Main entry point, parse CLI")
	c.block("get_cli_args() {", "}", func() {
		c.line("# set defaults")
		for _, r := range resolved {
			if r.HasDefault() {
				c.line("%s=%s", identifier(r.Dest), shellQuote(bashDefault(r)))
			}
		}
		c.line(`parse_args "$@"`)
		c.line("validate_args")
	})
	c.blank()

	c.line("# Example of use:")
	c.line(`# get_cli_args "$@"`)
	c.line("# dump_args")
	return []File{{Name: base + ".sh", Content: c.bytes()}}, nil
}

func bashUsage(c *emitter, doc model.Document, resolved []*model.Resolved) {
	type entry struct{ left, right string }
	var positionals []entry
	options := []entry{{"-h, --help", "show this help message and exit"}}
	width := len(options[0].left)
	for _, r := range resolved {
		e := entry{left: bashOptString(r), right: fmt.Sprintf("%s (%s)", r.Spec.Help, bashHelpDefault(r))}
		width = max(width, len(e.left))
		if r.Positional {
			positionals = append(positionals, e)
		} else {
			options = append(options, e)
		}
	}
	pad := func(e entry) string {
		return "  " + e.left + strings.Repeat(" ", width+1-len(e.left)) + ": " + e.right
	}

	c.line("# Usage function")
	c.block("usage() {", "}", func() {
		c.line(`echo "Usage: $0 [options]"`)
		c.line("echo")
		c.line("echo %s", shellQuote(doc.Program.Description))
		c.line("echo")
		c.line("echo 'positional arguments:'")
		for _, e := range positionals {
			c.line("echo %s", shellQuote(pad(e)))
		}
		c.line("echo")
		c.line("echo 'options:'")
		for _, e := range options {
			c.line("echo %s", shellQuote(pad(e)))
		}
		if doc.Program.Epilog != "" {
			c.line("echo")
			c.line("echo %s", shellQuote(doc.Program.Epilog))
		}
		c.line(`exit "$1"`)
	})
	c.blank()
}

func bashCheckValue(c *emitter) {
	c.line("# check if a valid argument follows")
	c.block("check_valid_arg() {", "}", func() {
		c.block(`case "$2" in`, "esac", func() {
			c.block("-*|'')", "", func() {
				c.line(`echo "ERROR: $1 requires a value." >&2`)
				c.line("usage 1")
				c.line(";;")
			})
		})
	})
	c.blank()
}

func bashParseArgs(c *emitter, resolved []*model.Resolved) {
	var valuedShorts []string
	for _, r := range resolved {
		if !r.Positional && r.Spec.Type != model.TypeFlag && r.CleanShort != "" {
			valuedShorts = append(valuedShorts, shellQuote(r.CleanShort))
		}
	}

	c.line("# Argument parsing function")
	c.block("parse_args() {", "}", func() {
		c.line("# split --a=xx -b=yy -cde into --a xx -b yy -c -d -e")
		c.line("# for more unified processing later on")
		c.line("local _i _ch _arg _rest _done=0")
		c.line("local -a _new_args=()")
		c.block(`for _arg in "$@"; do`, "done", func() {
			c.block(`if [ "$_done" -eq 1 ]; then`, "fi", func() {
				c.line(`_new_args+=("$_arg")`)
				c.line("continue")
			})
			c.block(`case "$_arg" in`, "esac", func() {
				c.block("--)", "", func() {
					c.line("_done=1")
					c.line(`_new_args+=("$_arg")`)
					c.line(";;")
				})
				c.block("--*=*) # convert --aa=xx into --aa xx", "", func() {
					c.line("_rest=${_arg#*=}  # remove up to first =")
					c.line(`_new_args+=("${_arg%%=*}" "$_rest")`)
					c.line(";;")
				})
				c.block("--*|-)", "", func() {
					c.line(`_new_args+=("$_arg")`)
					c.line(";;")
				})
				c.block("-*) # convert -abc=yy into -a -b -c yy", "", func() {
					c.line("_i=1")
					c.block(`while [ "$_i" -lt "${#_arg}" ]; do`, "done", func() {
						c.line("_ch=${_arg:$_i:1}")
						c.line("_rest=${_arg:$((_i+1))}")
						c.block(`case "$_ch" in`, "esac", func() {
							c.line(`=) _new_args+=("$_rest"); break ;;`)
							if len(valuedShorts) > 0 {
								c.block(strings.Join(valuedShorts, "|")+")", "", func() {
									c.line(`_new_args+=("-$_ch")`)
									c.line(`[ -n "$_rest" ] && _new_args+=("${_rest#=}")`)
									c.line("break")
									c.line(";;")
								})
							}
							c.line(`*) _new_args+=("-$_ch") ;;`)
						})
						c.line("_i=$((_i+1))")
					})
					c.line(";;")
				})
				c.block("*)", "", func() {
					c.line(`_new_args+=("$_arg")`)
					c.line(";;")
				})
			})
		})
		c.line(`set -- "${_new_args[@]}"`)
		c.blank()
		c.line(`remaining_args=""`)
		c.line("local _positional_idx=0")
		for _, r := range resolved {
			if r.Spec.Multiple && !r.Positional {
				c.line("local _%s_given=0", identifier(r.Dest))
			}
		}
		c.block(`while [ "$#" -gt 0 ]; do`, "done", func() {
			c.block(`case "$1" in`, "esac", func() {
				for _, r := range resolved {
					if !r.Positional {
						bashOptionCase(c, r)
					}
				}
				c.block("--help|-h)", "", func() {
					c.line("usage 0")
					c.line(";;")
				})
				c.block("--)", "", func() {
					c.line("shift")
					c.line(`remaining_args="$*"`)
					c.line("break")
					c.line(";;")
				})
				c.block("-?*)", "", func() {
					c.line(`echo "ERROR: Unknown option: $1" >&2`)
					c.line("usage 1")
					c.line(";;")
				})
				c.block("*) # handle positional arguments", "", func() {
					bashPositionals(c, resolved)
					c.line(";;")
				})
			})
			c.line("shift")
		})
	})
	c.blank()
}

func bashOptionCase(c *emitter, r *model.Resolved) {
	pattern := shellQuote(r.Spec.Name)
	if r.Spec.Short != "" {
		pattern += "|" + shellQuote("-"+r.CleanShort)
	}
	dest := identifier(r.Dest)
	c.block(pattern+")", "", func() {
		switch {
		case r.Spec.Type == model.TypeFlag:
			value := "1"
			if r.Inverted {
				value = "0"
			}
			c.line(`%s="%s"`, dest, value)
		case r.Spec.Multiple:
			c.line(`check_valid_arg "$1" "$2"`)
			c.block(fmt.Sprintf(`if [ "$_%s_given" -eq 0 ]; then`, dest), "fi", func() {
				c.line(`%s=""`, dest)
				c.line("_%s_given=1", dest)
			})
			c.line(`%s="${%s:+$%s }$2"`, dest, dest, dest)
			c.line("shift")
		default:
			c.line(`check_valid_arg "$1" "$2"`)
			c.line(`%s="$2"`, dest)
			c.line("shift")
		}
		c.line(";;")
	})
}

func bashPositionals(c *emitter, resolved []*model.Resolved) {
	idx := 0
	for _, r := range resolved {
		if !r.Positional {
			continue
		}
		keyword := "elif"
		if idx == 0 {
			keyword = "if"
		}
		c.line(`%s [ "$_positional_idx" -eq %d ]; then`, keyword, idx)
		c.block("", "", func() {
			c.line(`%s="$1"`, identifier(r.Dest))
		})
		idx++
	}
	if idx == 0 {
		c.line(`echo "ERROR: Unexpected positional argument: $1" >&2`)
		c.line("usage 1")
		return
	}
	c.block("else", "fi", func() {
		c.line(`echo "ERROR: Unexpected positional argument: $1" >&2`)
		c.line("usage 1")
	})
	c.line("_positional_idx=$((_positional_idx + 1))")
}

func bashValidate(c *emitter, resolved []*model.Resolved) {
	c.line("# Validate arguments")
	c.block("validate_args() {", "}", func() {
		c.line(":")
		for _, r := range resolved {
			dest := identifier(r.Dest)
			if r.Required {
				c.block(fmt.Sprintf(`if [ -z "${%s:-}" ]; then`, dest), "fi", func() {
					c.line(`echo %s >&2`, shellQuote("ERROR: "+r.Spec.Name+" is required"))
					c.line("usage 1")
				})
			}
			if len(r.Choices) == 0 {
				continue
			}
			patterns := make([]string, len(r.Choices))
			for i, ch := range r.Choices {
				patterns[i] = shellQuote(ch)
			}
			check := func(value string) {
				c.block(fmt.Sprintf(`case "%s" in`, value), "esac", func() {
					c.line("%s) ;;", strings.Join(patterns, "|"))
					c.block("*)", "", func() {
						c.line(`printf 'ERROR: %%s must be one of: %%s (got '\''%%s'\'')\n' %s %s "%s" >&2`,
							shellQuote(r.Spec.Name), shellQuote(strings.Join(r.Choices, ", ")), value)
						c.line("usage 1")
						c.line(";;")
					})
				})
			}
			if r.Spec.Multiple {
				c.block(fmt.Sprintf("for _item in $%s; do", dest), "done", func() {
					check("$_item")
				})
				continue
			}
			check("$" + dest)
		}
	})
	c.blank()
}

func bashDump(c *emitter, resolved []*model.Resolved) {
	c.line("# Dump argument values for debug")
	c.block("dump_args() {", "}", func() {
		c.line("echo 'Parsed arguments:'")
		for _, r := range resolved {
			dest := identifier(r.Dest)
			if r.Spec.Multiple {
				c.line("echo %s", shellQuote(r.Dest+":"))
				c.block(fmt.Sprintf("for _item in $%s; do", dest), "done", func() {
					c.line(`echo "  $_item"`)
				})
				continue
			}
			c.line(`echo %s"$%s"`, shellQuote(r.Dest+": "), dest)
		}
		c.line("echo 'remaining_args:'")
		c.block("for _item in $remaining_args; do", "done", func() {
			c.line(`echo "  $_item"`)
		})
	})
	c.blank()
}

// bashOptString is the left column of the usage text.
func bashOptString(r *model.Resolved) string {
	if r.Positional {
		return r.CleanName
	}
	long := r.Spec.Name
	short := r.Spec.Short
	if short != "" {
		short = "-" + r.CleanShort
	}
	if r.Spec.Type != model.TypeFlag {
		long += " " + r.Metavar
		if short != "" {
			short += " " + r.Metavar
		}
	}
	if short == "" {
		return long
	}
	return short + ", " + long
}

func bashHelpDefault(r *model.Resolved) string {
	if !r.HasDefault() {
		return "required"
	}
	values := bashValues(r)
	for i, v := range values {
		values[i] = `"` + v + `"`
	}
	return "default " + strings.Join(values, " ")
}

func bashDefault(r *model.Resolved) string {
	return strings.Join(bashValues(r), " ")
}

// bashValues renders the default as shell values. Flags become 1 or 0.
func bashValues(r *model.Resolved) []string {
	items := elements(r.Default)
	out := make([]string, len(items))
	for i, item := range items {
		switch {
		case r.Spec.Type != model.TypeFlag:
			out[i] = scalarLiteral(item, r.Spec.Type, func(s string) string { return s })
		case item.True():
			out[i] = "1"
		default:
			out[i] = "0"
		}
	}
	return out
}
