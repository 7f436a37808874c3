package docfmt

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/climeta/internal/model"
)

// Field is a key/value pair the parser did not recognise.
type Field struct {
	Key   string
	Value string
}

// RawProgram is the [program] section as read from text. Nil means absent.
type RawProgram struct {
	Name        *string
	Description *string
	Epilog      *string
	Extra       []Field
}

// RawArgument is one [[arguments]] block as read from text. Nil means absent.
type RawArgument struct {
	Name     *string
	Short    *string
	Type     *string
	Default  *string
	Metavar  *string
	Dest     *string
	Multiple *string
	Required *string
	Choices  *string
	Help     *string
	Extra    []Field
}

// RawDocument is the unvalidated result of parsing a document.
type RawDocument struct {
	Program   RawProgram
	Arguments []RawArgument
}

// Unmarshal parses data. It never fails: malformed lines become unknown
// keys and missing keys stay nil.
func Unmarshal(data []byte) *RawDocument {
	raw, _ := Decode(bytes.NewReader(data))
	return raw
}

// Decode parses a document from r. Lines may be of any length. The only
// errors are read errors.
func Decode(r io.Reader) (*RawDocument, error) {
	raw := &RawDocument{}
	var current *RawArgument
	flush := func() {
		if current != nil {
			raw.Arguments = append(raw.Arguments, *current)
			current = nil
		}
	}

	br := bufio.NewReader(r)
	for {
		text, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			flush()
			return raw, fmt.Errorf("failed to read document: %w", err)
		}
		line := strings.TrimSpace(text)
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
		case strings.HasPrefix(line, ProgramSection):
			flush()
		case strings.HasPrefix(line, ArgumentSection):
			flush()
			current = &RawArgument{}
		default:
			key, value := splitLine(line)
			if current != nil {
				current.set(key, value)
			} else {
				raw.Program.set(key, value)
			}
		}
		if err == io.EOF {
			break
		}
	}
	flush()
	return raw, nil
}

// splitLine splits on the first '=' and strips one pair of surrounding quotes
// from both halves.
func splitLine(line string) (string, string) {
	key, value, _ := strings.Cut(line, "=")
	return unquote(key), unquote(value)
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}

func (p *RawProgram) set(key, value string) {
	switch key {
	case "name":
		p.Name = &value
	case "description":
		p.Description = &value
	case "epilog":
		p.Epilog = &value
	default:
		p.Extra = append(p.Extra, Field{Key: key, Value: value})
	}
}

func (a *RawArgument) set(key, value string) {
	switch key {
	case "name":
		a.Name = &value
	case "short":
		a.Short = &value
	case "type":
		a.Type = &value
	case "default":
		a.Default = &value
	case "metavar":
		a.Metavar = &value
	case "dest":
		a.Dest = &value
	case "multiple":
		a.Multiple = &value
	case "required":
		a.Required = &value
	case "choices":
		a.Choices = &value
	case "help":
		a.Help = &value
	default:
		a.Extra = append(a.Extra, Field{Key: key, Value: value})
	}
}

// Document converts the raw form into a model.Document without validating
// it. Unknown keys are dropped.
func (r *RawDocument) Document() model.Document {
	doc := model.Document{
		Program: model.ProgramMetadata{
			Name:        deref(r.Program.Name),
			Description: deref(r.Program.Description),
			Epilog:      deref(r.Program.Epilog),
		},
		Arguments: make([]model.ArgumentSpec, 0, len(r.Arguments)),
	}
	for _, a := range r.Arguments {
		doc.Arguments = append(doc.Arguments, a.Spec())
	}
	return doc
}

// Spec converts a raw argument into an unvalidated ArgumentSpec.
func (a RawArgument) Spec() model.ArgumentSpec {
	return model.ArgumentSpec{
		Name:     deref(a.Name),
		Short:    deref(a.Short),
		Type:     model.ArgType(deref(a.Type)),
		Default:  deref(a.Default),
		Metavar:  deref(a.Metavar),
		Dest:     deref(a.Dest),
		Multiple: deref(a.Multiple) == "true",
		Required: deref(a.Required) == "true",
		Choices:  SplitChoices(deref(a.Choices)),
		Help:     deref(a.Help),
	}
}

// SplitChoices splits a comma-joined choices value, dropping blank entries.
func SplitChoices(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
