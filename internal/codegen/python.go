package codegen

import (
	"strconv"
	"strings"

	"github.com/specialistvlad/climeta/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// pythonGenerator emits a module built on the argparse standard library.
type pythonGenerator struct{}

func (pythonGenerator) Language() string { return "python" }

func (pythonGenerator) Generate(doc model.Document, base string) ([]File, error) {
	resolved, err := doc.Resolve()
	if err != nil {
		return nil, err
	}

	c := newEmitter("    ")
	c.line(`"""CLI argument parsing"""`)
	c.blank()
	c.line("import argparse")
	c.blank()
	c.blank()
	c.block("def parse_args() -> tuple:", "", func() {
		c.line(`"""CLI argument parsing entry point"""`)
		c.block("parser = argparse.ArgumentParser(", ")", func() {
			c.line("description=%s,", strconv.Quote(doc.Program.Description))
			c.line("formatter_class=argparse.ArgumentDefaultsHelpFormatter,")
			c.line("epilog=%s,", strconv.Quote(doc.Program.Epilog))
		})
		for _, r := range resolved {
			c.block("parser.add_argument(", ")", func() {
				for _, opt := range pythonArgument(r) {
					c.line("%s,", opt)
				}
			})
		}
		c.blank()
		c.line("return parser.parse_known_args()  # args, unknown")
	})
	c.blank()
	c.blank()
	c.block(`if __name__ == "__main__":`, "", func() {
		c.line("args, unknown = parse_args()")
		c.line(`print(f"Parsed arguments: {args}")`)
		c.block("if unknown:", "", func() {
			c.line(`print(f"Unknown arguments: {unknown}")`)
		})
	})
	return []File{{Name: base + ".py", Content: c.bytes()}}, nil
}

func pythonArgument(r *model.Resolved) []string {
	var opts []string
	if r.Spec.Short != "" {
		opts = append(opts, strconv.Quote(r.Spec.Short))
	}
	opts = append(opts, strconv.Quote(r.Spec.Name))

	if r.Spec.Type == model.TypeFlag {
		action := "store_true"
		if r.Inverted {
			action = "store_false"
		}
		opts = append(opts, `action="`+action+`"`)
	} else {
		opts = append(opts, "type="+pythonType(r.Spec.Type))
	}
	if r.Dest != r.CleanName {
		opts = append(opts, "dest="+strconv.Quote(r.Dest))
	}
	switch {
	case r.HasDefault() && r.Spec.Type != model.TypeFlag:
		opts = append(opts, "default="+pythonValue(r.Default, r.Spec.Type, r.Spec.Multiple))
	case !r.HasDefault() && !r.Positional:
		opts = append(opts, "required=True")
	}
	if r.HasMetavar {
		opts = append(opts, "metavar="+strconv.Quote(r.Metavar))
	}
	if r.Spec.Multiple {
		opts = append(opts, `nargs="+"`)
	}
	if len(r.Choices) > 0 {
		quoted := make([]string, len(r.Choices))
		for i, ch := range r.Choices {
			quoted[i] = singleQuote(ch)
		}
		opts = append(opts, "choices=["+strings.Join(quoted, ", ")+"]")
	}
	return append(opts, "help="+strconv.Quote(r.Spec.Help))
}

func pythonType(t model.ArgType) string {
	if t == model.TypeString {
		return "str"
	}
	return string(t)
}

func pythonValue(v cty.Value, t model.ArgType, multiple bool) string {
	items := elements(v)
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = scalarLiteral(item, t, strconv.Quote)
	}
	if !multiple {
		return parts[0]
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
