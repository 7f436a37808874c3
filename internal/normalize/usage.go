package normalize

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mitchellh/go-wordwrap"
	"github.com/specialistvlad/climeta/internal/model"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultWidth is the usage text width when Normalizer.Width is unset.
	DefaultWidth = 80

	indent    = "  "
	columnGap = 2
	minColumn = 24
)

type usageRow struct {
	term string
	text string
}

// Usage renders the usage message.
func (n *Normalizer) Usage() string {
	var sb strings.Builder
	n.WriteUsage(&sb)
	return sb.String()
}

// WriteUsage writes the usage message to w. Every option description is
// suffixed with "(required)" or "(default X)".
func (n *Normalizer) WriteUsage(w io.Writer) {
	width := n.Width
	if width <= 0 {
		width = DefaultWidth
	}

	var sb strings.Builder
	if n.Program != "" {
		sb.WriteString(color.Bold.Sprint(cases.Title(language.English).String(n.Program)))
		sb.WriteString("\n\n")
	}
	if n.Description != "" {
		writeParagraph(&sb, n.Description, width)
	}

	options := []usageRow{{term: "-" + HelpAlias + ", --" + HelpOption, text: "show this help message and exit"}}
	for _, o := range n.Options {
		options = append(options, usageRow{term: optionTerm(o), text: optionText(o)})
	}
	var positionals []usageRow
	for _, p := range n.Positionals {
		text := p.Description
		if len(p.Choices) > 0 {
			text += " {" + strings.Join(p.Choices, ",") + "}"
		}
		positionals = append(positionals, usageRow{term: p.Name, text: text})
	}

	column := minColumn
	for _, r := range append(append([]usageRow(nil), options...), positionals...) {
		if l := len(indent) + len(r.term) + columnGap; l > column && l <= width/2 {
			column = l
		}
	}

	writeSection(&sb, "Options", options, column, width)
	if len(positionals) > 0 {
		writeSection(&sb, "Arguments", positionals, column, width)
	}
	if n.Epilog != "" {
		writeParagraph(&sb, n.Epilog, width)
	}
	io.WriteString(w, sb.String())
}

func optionTerm(o Option) string {
	term := "--" + o.Name
	if o.Alias != "" {
		term = "-" + o.Alias + ", " + term
	}
	if o.Type == model.TypeFlag {
		return term
	}
	label := o.Metavar
	if label == "" {
		label = string(o.Type)
	}
	if o.Multiple {
		label += "[]"
	}
	return term + " " + label
}

func optionText(o Option) string {
	text := o.Description
	if len(o.Choices) > 0 {
		text = strings.TrimSpace(text + " {" + strings.Join(o.Choices, ",") + "}")
	}
	var suffix string
	switch {
	case o.Type == model.TypeFlag && o.Default == cty.NilVal:
		suffix = "(default false)"
	case o.Default == cty.NilVal || o.Default.IsNull():
		suffix = "(required)"
	default:
		suffix = fmt.Sprintf("(default %s)", model.FormatValue(o.Default))
	}
	return strings.TrimSpace(text + " " + suffix)
}

func writeSection(sb *strings.Builder, title string, rows []usageRow, column, width int) {
	sb.WriteString(color.Bold.Sprint(title))
	sb.WriteString("\n\n")
	textWidth := width - column
	if textWidth < 20 {
		textWidth = 20
	}
	for _, r := range rows {
		term := indent + r.term
		lines := strings.Split(wordwrap.WrapString(r.text, uint(textWidth)), "\n")
		if len(term)+columnGap > column {
			sb.WriteString(term)
			sb.WriteString("\n")
			term = ""
		}
		for i, line := range lines {
			if i == 0 {
				sb.WriteString(term)
				sb.WriteString(strings.Repeat(" ", column-len(term)))
			} else {
				sb.WriteString(strings.Repeat(" ", column))
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
}

func writeParagraph(sb *strings.Builder, text string, width int) {
	for _, line := range strings.Split(wordwrap.WrapString(text, uint(width-len(indent))), "\n") {
		sb.WriteString(indent)
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}
