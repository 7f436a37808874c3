// Package codegen renders argument-parsing source code for other languages
// from a CLI metadata document.
package codegen

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/specialistvlad/climeta/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// DefaultBase is the file base used when none is given.
const DefaultBase = "cli_args"

// File is one generated source file.
type File struct {
	// Name is the base passed to Generate plus the file extension.
	Name    string
	Content []byte
}

// Generator produces source code for one target.
type Generator interface {
	// Language is the name the generator is selected by.
	Language() string
	// Generate renders doc into one or more files named after base. Files
	// that refer to each other do so by the last element of base.
	Generate(doc model.Document, base string) ([]File, error)
}

var generators = map[string]Generator{}

func register(g Generator) {
	generators[g.Language()] = g
}

func init() {
	register(pythonGenerator{})
	register(jsCLAGenerator{})
	register(bashGenerator{})
	register(cxxoptsGenerator{})
}

// Languages lists the supported target languages in sorted order.
func Languages() []string {
	out := make([]string, 0, len(generators))
	for l := range generators {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the generator for lang.
func Lookup(lang string) (Generator, error) {
	if g, ok := generators[lang]; ok {
		return g, nil
	}
	langs := Languages()
	msg := fmt.Sprintf("unsupported language %q, supported: %s", lang, strings.Join(langs, ", "))
	best, bestDist := "", 3
	for _, l := range langs {
		if d := levenshtein.Distance(lang, l, nil); d < bestDist {
			best, bestDist = l, d
		}
	}
	if best != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", best)
	}
	return nil, fmt.Errorf("%s", msg)
}

// Generate renders doc as lang source code. The document must validate.
// An empty base means DefaultBase.
func Generate(lang string, doc model.Document, base string) ([]File, error) {
	g, err := Lookup(lang)
	if err != nil {
		return nil, err
	}
	if base == "" {
		base = DefaultBase
	}
	return g.Generate(doc, base)
}

// includeName is how a generated file refers to a sibling.
func includeName(base, ext string) string {
	return filepath.Base(base) + ext
}

// identifier turns s into a name valid in C-like languages and shells.
func identifier(s string) string {
	var sb strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}

// floatLiteral renders a number so that both python and javascript read it
// back as a float: integral values keep a ".0" suffix.
func floatLiteral(v cty.Value) string {
	f, _ := v.AsBigFloat().Float64()
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func intLiteral(v cty.Value) string {
	i, _ := v.AsBigFloat().Int64()
	return strconv.FormatInt(i, 10)
}

// elements returns the values of a list, or v itself for a primitive.
func elements(v cty.Value) []cty.Value {
	if !v.Type().IsListType() {
		return []cty.Value{v}
	}
	var out []cty.Value
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		out = append(out, ev)
	}
	return out
}

// scalarLiteral renders a single typed value; strings go through quote.
func scalarLiteral(v cty.Value, t model.ArgType, quote func(string) string) string {
	switch t {
	case model.TypeInt:
		return intLiteral(v)
	case model.TypeFloat:
		return floatLiteral(v)
	case model.TypeFlag:
		return strconv.FormatBool(v.True())
	}
	return quote(v.AsString())
}

var singleQuoted = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// singleQuote renders s as a single-quoted literal valid in both python and
// javascript.
func singleQuote(s string) string {
	return "'" + singleQuoted.Replace(s) + "'"
}
