package codegen

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/specialistvlad/climeta/internal/model"
)

// jsCLAGenerator emits a node ES module exporting parseArgs, built on the
// command-line-args and command-line-usage packages.
type jsCLAGenerator struct{}

func (jsCLAGenerator) Language() string { return "js-cla" }

var jsIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// jsProp renders a property access on obj.
func jsProp(obj, key string) string {
	if jsIdentifier.MatchString(key) {
		return obj + "." + key
	}
	return obj + "[" + singleQuote(key) + "]"
}

func jsKey(key string) string {
	if jsIdentifier.MatchString(key) {
		return key
	}
	return singleQuote(key)
}

func (jsCLAGenerator) Generate(doc model.Document, base string) ([]File, error) {
	resolved, err := doc.Resolve()
	if err != nil {
		return nil, err
	}
	var options, positionals []*model.Resolved
	for _, r := range resolved {
		if r.Positional {
			positionals = append(positionals, r)
		} else {
			options = append(options, r)
		}
	}

	c := newEmitter("  ")
	c.line("// https://github.com/75lb/command-line-args")
	c.line("import commandLineArgs from 'command-line-args';")
	c.line("// https://github.com/75lb/command-line-usage")
	c.line("import commandLineUsage from 'command-line-usage';")
	c.blank()

	c.block("export function parseArgs() {", "};", func() {
		c.block("function usage(optionDefinitions, rc = 0) {", "};", func() {
			c.line("const usageText = commandLineUsage([{")
			c.line("  header: %s,", singleQuote(doc.Program.Name))
			c.line("  content: %s,", singleQuote(doc.Program.Description))
			c.line("}, {")
			c.line("  header: 'Options',")
			c.line("  optionList: optionDefinitions,")
			c.line("}, {")
			c.line("  content: %s", singleQuote(doc.Program.Epilog))
			c.line("}]);")
			c.line("console.log(usageText);")
			c.line("process.exit(rc);")
		})
		c.blank()

		c.line("// Defaults for each of the options")
		c.block("const defaults = {", "};", func() {
			for _, r := range options {
				c.line("%s", jsDefault(r))
			}
		})

		c.block("const optionDefinitions = [", "];", func() {
			c.block("{", "},", func() {
				c.line("name: 'help',")
				c.line("description: 'show this help message and exit',")
				c.line("alias: 'h',")
				c.line("type: Boolean")
			})
			for _, r := range options {
				c.block("{", "},", func() {
					c.line("name: %s,", singleQuote(r.CleanName))
					c.line("description: %s,", singleQuote(r.Spec.Help))
					if r.CleanShort != "" {
						c.line("alias: %s,", singleQuote(r.CleanShort))
					}
					if r.Spec.Multiple {
						c.line("multiple: true,")
					}
					c.line("type: %s", jsType(r.Spec.Type))
				})
			}
			if len(positionals) > 0 {
				help := "positional arguments (can omit --positionals) Corresponding to:"
				for _, p := range positionals {
					help += "\n>> {bold " + p.CleanName + "} : " + p.Spec.Help
				}
				c.block("{", "},", func() {
					c.line("name: 'positionals',")
					c.line("description: %s,", singleQuote(help))
					c.line("type: String,")
					c.line("multiple: true,")
					c.line("defaultOption: true")
				})
			}
		})

		c.line("// append default to help string")
		c.block("for (const opt of optionDefinitions) {", "}", func() {
			c.line("const default_ = defaults[opt.name];")
			c.block(`if (typeof default_ !== "undefined") {`, "}", func() {
				c.line("opt.description += default_ == null ? \" (required)\" : ` (default ${default_})`;")
			})
		})

		c.line("const rawOptions = commandLineArgs(optionDefinitions);")
		c.line("// fill up with defaults the options not provided")
		c.line("const opts = {...defaults, ...rawOptions };")
		c.block("if (opts.help) {", "}", func() {
			c.line("usage(optionDefinitions, 0);")
		})
		c.block("for (const optName in opts) {", "}", func() {
			c.block("if (opts[optName] == null) {", "}", func() {
				c.line(`console.log("Invalid or no option passed for", "--" + optName);`)
				c.line("usage(optionDefinitions, 1);")
			})
		})

		first := true
		for _, r := range options {
			if r.Dest == r.CleanName && !r.Inverted {
				continue
			}
			if first {
				c.line("// translate from external to internal name")
				first = false
			}
			src, dst := jsProp("opts", r.CleanName), jsProp("opts", r.Dest)
			if r.Inverted {
				c.line("%s = !%s;  // invert", dst, src)
			} else {
				c.line("%s = %s;", dst, src)
			}
			if r.Dest != r.CleanName {
				c.line("delete %s;", src)
			}
		}

		c.line("// Handle positionals")
		c.line("const exp_positionals = %d;", len(positionals))
		c.line(`const num_positionals = (typeof opts.positionals === "undefined") ? 0 : opts.positionals.length;`)
		c.block("if (num_positionals != exp_positionals) {", "}", func() {
			c.line("console.log(`Expecting ${exp_positionals} positional argument(s), but got ${num_positionals}`);")
			c.line("usage(optionDefinitions, 1);")
		})
		for i, p := range positionals {
			c.line("%s = opts.positionals[%d];", jsProp("opts", p.Dest), i)
		}
		c.line("delete opts.positionals;")

		first = true
		for _, r := range resolved {
			if len(r.Choices) == 0 {
				continue
			}
			if first {
				c.line("// check choices")
				first = false
			}
			quoted := make([]string, len(r.Choices))
			for i, ch := range r.Choices {
				quoted[i] = strconv.Quote(ch)
			}
			valid := jsValidName(r.CleanName)
			c.line("const %s = [%s];", valid, strings.Join(quoted, ", "))
			check := "!" + valid + ".includes(" + jsProp("opts", r.Dest) + ")"
			if r.Spec.Multiple {
				check = jsProp("opts", r.Dest) + ".some(v => !" + valid + ".includes(v))"
			}
			c.block("if ("+check+") {", "}", func() {
				c.line(`console.log("ERROR: '%s' must be one of", %s);`, r.CleanName, valid)
				c.line("process.exit(1);")
			})
		}
		c.line("return opts;")
	})
	return []File{{Name: base + ".mjs", Content: c.bytes()}}, nil
}

var nonIdentChars = regexp.MustCompile(`[^A-Za-z0-9_$]`)

func jsValidName(name string) string {
	return nonIdentChars.ReplaceAllString(name, "_") + "_valid"
}

func jsType(t model.ArgType) string {
	switch t {
	case model.TypeFlag:
		return "Boolean"
	case model.TypeInt, model.TypeFloat:
		return "Number"
	}
	return "String"
}

// jsDefault renders one entry of the defaults object. Flags always default to
// false internally; an inverted flag is flipped after parsing.
func jsDefault(r *model.Resolved) string {
	key := jsKey(r.CleanName)
	switch {
	case !r.HasDefault():
		return key + ": null,"
	case r.Spec.Type == model.TypeFlag:
		if r.Inverted {
			return key + ": false, // inverted internal polarity"
		}
		return key + ": false,"
	}
	items := elements(r.Default)
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = scalarLiteral(item, r.Spec.Type, strconv.Quote)
	}
	if r.Spec.Multiple {
		return key + ": [" + strings.Join(parts, ", ") + "],"
	}
	return key + ": " + parts[0] + ","
}
