package normalize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/gookit/color"
	"github.com/specialistvlad/climeta/internal/ctxlog"
	"github.com/specialistvlad/climeta/internal/model"
	"github.com/spf13/pflag"
	"github.com/zclconf/go-cty/cty"
)

const (
	// HelpOption is the long name of the implicit help flag.
	HelpOption = "help"
	// HelpAlias is its short alias.
	HelpAlias = "h"
)

// Option declares a named command-line option.
type Option struct {
	// Name is the long option name without leading dashes.
	Name string
	// Alias is an optional one-character short form. A character outside
	// ASCII is accepted on its own but cannot be combined with other aliases
	// in a single token.
	Alias       string
	Type        model.ArgType
	Multiple    bool
	Description string
	// Metavar replaces the type in usage text.
	Metavar string
	// Default is used when the option is not supplied. cty.NilVal marks an
	// option that must be supplied.
	Default cty.Value
	// Dest is the key in the result; Name when empty.
	Dest string
	// Invert stores the negation of the flag value under Dest.
	Invert  bool
	Choices []string
}

func (o Option) dest() string {
	if o.Dest != "" {
		return o.Dest
	}
	return o.Name
}

// Positional declares a positional argument. Positionals are matched in
// declaration order and all of them are required.
type Positional struct {
	Name        string
	Dest        string
	Type        model.ArgType
	Description string
	Choices     []string
}

func (p Positional) dest() string {
	if p.Dest != "" {
		return p.Dest
	}
	return p.Name
}

// Normalizer holds the declarations for one program.
type Normalizer struct {
	Program     string
	Description string
	Epilog      string
	Options     []Option
	Positionals []Positional
	// Width is the usage text width; DefaultWidth when zero.
	Width int
}

// ExitError ends the process with Code after Message (and possibly usage)
// was printed.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Message
}

// Validate checks the declarations themselves. A failure is a programming
// error, not a user error.
func (n *Normalizer) Validate() error {
	seen := map[string]bool{HelpOption: true, HelpAlias: true}
	for _, o := range n.Options {
		if o.Name == "" {
			return errors.New("option with empty name")
		}
		if !o.Type.Valid() {
			return fmt.Errorf("option --%s: unknown type %q", o.Name, o.Type)
		}
		if o.Alias != "" && (o.Alias == "-" || !model.IsSingleCharacter(o.Alias)) {
			return fmt.Errorf("option --%s: alias %q must be a single character", o.Name, o.Alias)
		}
		for _, key := range []string{o.Name, o.Alias} {
			if key == "" {
				continue
			}
			if seen[key] {
				return fmt.Errorf("option --%s: %q is declared twice", o.Name, key)
			}
			seen[key] = true
		}
		if o.Type == model.TypeFlag && o.Multiple {
			return fmt.Errorf("option --%s: multiple is not supported for flags", o.Name)
		}
	}
	for _, p := range n.Positionals {
		if p.Name == "" {
			return errors.New("positional argument with empty name")
		}
	}
	return nil
}

// Normalize parses args. Messages and usage text are written to out. It
// returns either the options record or an error; an *ExitError carries the
// status the process should exit with.
func (n *Normalizer) Normalize(ctx context.Context, args []string, out io.Writer) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	if err := n.Validate(); err != nil {
		return nil, fmt.Errorf("invalid option declarations: %w", err)
	}

	args = n.expandAliases(args)
	if n.wantsHelp(args) {
		return nil, n.help(ctx, out)
	}

	fs := pflag.NewFlagSet(n.Program, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	fs.BoolP(HelpOption, HelpAlias, false, "show this help message and exit")
	supplied := make(map[string]*[]string, len(n.Options))
	for _, o := range n.Options {
		if o.Type == model.TypeFlag {
			fs.BoolP(o.Name, shorthand(o.Alias), false, o.Description)
			continue
		}
		supplied[o.Name] = fs.StringArrayP(o.Name, shorthand(o.Alias), nil, o.Description)
	}

	if err := fs.Parse(args); err != nil {
		return nil, n.fail(out, err.Error(), true)
	}
	if help, _ := fs.GetBool(HelpOption); help {
		return nil, n.help(ctx, out)
	}
	logger.Debug("Arguments tokenized.", "options", fs.NFlag(), "positionals", fs.NArg())

	res := newResult()
	for _, o := range n.Options {
		var val cty.Value
		if o.Type == model.TypeFlag {
			val = o.Default
			if fs.Changed(o.Name) || val == cty.NilVal {
				b, _ := fs.GetBool(o.Name)
				val = cty.BoolVal(b)
			}
		} else {
			var err error
			val, err = overlay(o, *supplied[o.Name])
			if err != nil {
				return nil, n.fail(out, err.Error(), true)
			}
		}
		if val == cty.NilVal || val.IsNull() {
			return nil, n.fail(out, "Invalid or no option passed for --"+o.Name, true)
		}
		if o.Invert {
			val = val.Not()
		}
		res.set(o.dest(), val)
	}

	if got, want := fs.NArg(), len(n.Positionals); got != want {
		return nil, n.fail(out, fmt.Sprintf("Expecting %d positional argument(s), but got %d", want, got), true)
	}
	for i, p := range n.Positionals {
		typ := p.Type
		if typ == "" {
			typ = model.TypeString
		}
		val, err := model.ParseValue(typ, fs.Arg(i))
		if err != nil {
			return nil, n.fail(out, fmt.Sprintf("Invalid value for %s: %v", p.Name, err), true)
		}
		res.set(p.dest(), val)
	}

	for _, o := range n.Options {
		if err := checkChoices(o.Name, o.Choices, res.Get(o.dest())); err != nil {
			return nil, n.fail(out, err.Error(), false)
		}
	}
	for _, p := range n.Positionals {
		if err := checkChoices(p.Name, p.Choices, res.Get(p.dest())); err != nil {
			return nil, n.fail(out, err.Error(), false)
		}
	}

	logger.Debug("Arguments normalized.", "keys", res.Keys())
	return res, nil
}

// overlay returns the value of a valued option: the supplied tokens when
// there are any, otherwise the declared default.
func overlay(o Option, raw []string) (cty.Value, error) {
	if len(raw) == 0 {
		if o.Multiple && o.Default != cty.NilVal && !o.Default.IsNull() && o.Default.Type().IsPrimitiveType() {
			return cty.ListVal([]cty.Value{o.Default}), nil
		}
		return o.Default, nil
	}
	if !o.Multiple {
		raw = raw[len(raw)-1:]
	}
	vals := make([]cty.Value, 0, len(raw))
	for _, r := range raw {
		v, err := model.ParseValue(o.Type, r)
		if err != nil {
			return cty.NilVal, fmt.Errorf("Invalid value for --%s: %v", o.Name, err)
		}
		vals = append(vals, v)
	}
	if !o.Multiple {
		return vals[0], nil
	}
	return cty.ListVal(vals), nil
}

func checkChoices(name string, choices []string, val cty.Value) error {
	if len(choices) == 0 || val == cty.NilVal || val.IsNull() {
		return nil
	}
	var values []string
	if ty := val.Type(); ty.IsListType() || ty.IsTupleType() {
		for it := val.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			values = append(values, model.FormatValue(ev))
		}
	} else {
		values = []string{model.FormatValue(val)}
	}

	for _, v := range values {
		if contains(choices, v) {
			continue
		}
		msg := fmt.Sprintf("'%s' must be one of [%s], got %q", name, strings.Join(choices, " "), v)
		if s := suggest(v, choices); s != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", s)
		}
		return errors.New(msg)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, c := range list {
		if c == s {
			return true
		}
	}
	return false
}

// suggest returns the choice closest to s when it is close enough to be a
// plausible typo.
func suggest(s string, choices []string) string {
	best, bestDist := "", 3
	for _, c := range choices {
		if d := levenshtein.Distance(s, c, nil); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func (n *Normalizer) help(ctx context.Context, out io.Writer) error {
	ctxlog.FromContext(ctx).Debug("Help requested.")
	n.WriteUsage(out)
	return &ExitError{Code: 0}
}

// shorthand returns the alias when the flag set can register it as a
// shorthand. Longer aliases are handled by expandAliases.
func shorthand(alias string) string {
	if len(alias) == 1 {
		return alias
	}
	return ""
}

// wantsHelp reports whether the help flag appears before the "--"
// terminator, either on its own or inside a cluster of short flags such as
// "-vh". Values of valued options are skipped.
func (n *Normalizer) wantsHelp(args []string) bool {
	valued := make(map[string]bool, len(n.Options))
	for _, o := range n.Options {
		valued["--"+o.Name] = o.Type != model.TypeFlag
		if len(o.Alias) == 1 {
			valued[o.Alias] = o.Type != model.TypeFlag
		}
	}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			return false
		case a == "--"+HelpOption, a == "--"+HelpOption+"=true":
			return true
		case strings.HasPrefix(a, "--"):
			if valued[a] {
				i++
			}
		case strings.HasPrefix(a, "-") && len(a) > 1:
			help, skipNext := n.scanCluster(a[1:], valued)
			if help {
				return true
			}
			if skipNext {
				i++
			}
		}
	}
	return false
}

// scanCluster walks the shorthands of a "-abc" token. It stops at the first
// valued option since the rest of the token is its value; skipNext is set
// when that value is the next argument instead.
func (n *Normalizer) scanCluster(cluster string, valued map[string]bool) (help, skipNext bool) {
	for j := 0; j < len(cluster); j++ {
		c := cluster[j : j+1]
		if c == HelpAlias {
			return true, false
		}
		isValued, known := valued[c]
		if !known {
			return false, false
		}
		if isValued {
			return false, j == len(cluster)-1
		}
	}
	return false, false
}

// expandAliases rewrites tokens using an alias the flag set cannot register
// as a shorthand ("-€", "-€=v", "-€v") into their long form. Arguments after
// "--" and values of valued options are left alone.
func (n *Normalizer) expandAliases(args []string) []string {
	long := make(map[string]Option)
	for _, o := range n.Options {
		if len(o.Alias) > 1 {
			long[o.Alias] = o
		}
	}
	if len(long) == 0 {
		return args
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return append(out, args[i:]...)
		}
		rewritten, consumesNext := expandAlias(a, long)
		out = append(out, rewritten)
		if consumesNext && i+1 < len(args) {
			i++
			out = append(out, args[i])
		}
	}
	return out
}

func expandAlias(a string, long map[string]Option) (rewritten string, consumesNext bool) {
	if !strings.HasPrefix(a, "-") || strings.HasPrefix(a, "--") {
		return a, false
	}
	for alias, o := range long {
		rest, ok := strings.CutPrefix(a[1:], alias)
		if !ok {
			continue
		}
		switch {
		case rest == "":
			return "--" + o.Name, o.Type != model.TypeFlag
		case strings.HasPrefix(rest, "="):
			return "--" + o.Name + rest, false
		case o.Type != model.TypeFlag:
			return "--" + o.Name + "=" + rest, false
		}
	}
	return a, false
}

// fail prints msg, optionally followed by usage, and returns the status 1
// exit error.
func (n *Normalizer) fail(out io.Writer, msg string, withUsage bool) error {
	if withUsage {
		fmt.Fprintln(out, msg)
		n.WriteUsage(out)
	} else {
		fmt.Fprintf(out, "%s %s\n", color.Red.Sprint("ERROR:"), msg)
	}
	return &ExitError{Code: 1, Message: msg}
}

// Exit terminates the process according to err, which is typically the
// error returned by Normalize. A nil err returns immediately.
func Exit(err error) {
	if err == nil {
		return
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
