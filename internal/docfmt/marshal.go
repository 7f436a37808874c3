package docfmt

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/climeta/internal/model"
)

const (
	ProgramSection  = "[program]"
	ArgumentSection = "[[arguments]]"

	// DefaultFilename is the name offered for exported documents.
	DefaultFilename = "cli_config.toml"
)

// Marshal validates doc and returns its text form. On any validation error
// it returns model.ValidationErrors and no output.
func Marshal(doc model.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode validates doc and writes its text form to w. Nothing is written
// when the document is invalid.
func Encode(w io.Writer, doc model.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(ProgramSection + "\n")
	writeField(&b, "name", doc.Program.Name)
	writeField(&b, "description", doc.Program.Description)
	if doc.Program.Epilog != "" {
		writeField(&b, "epilog", doc.Program.Epilog)
	}
	b.WriteString("\n")

	for _, a := range doc.Arguments {
		b.WriteString(ArgumentSection + "\n")
		writeField(&b, "name", a.Name)
		if a.Short != "" {
			writeField(&b, "short", a.Short)
		}
		writeField(&b, "type", string(a.Type))
		if a.Default != "" {
			writeField(&b, "default", a.Default)
		}
		if a.Metavar != "" {
			writeField(&b, "metavar", a.Metavar)
		}
		if a.Dest != "" {
			writeField(&b, "dest", a.Dest)
		}
		if a.Multiple {
			writeField(&b, "multiple", "true")
		}
		if a.Required {
			writeField(&b, "required", "true")
		}
		if len(a.Choices) > 0 {
			writeField(&b, "choices", strings.Join(a.Choices, ","))
		}
		writeField(&b, "help", a.Help)
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

func writeField(b *strings.Builder, key, value string) {
	fmt.Fprintf(b, "%s = \"%s\"\n", key, value)
}
