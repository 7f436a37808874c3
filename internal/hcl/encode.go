package hcl

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/climeta/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// Encode validates doc and renders it as formatted HCL.
func Encode(doc model.Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	f := hclwrite.NewEmptyFile()
	root := f.Body()

	prog := root.AppendNewBlock("program", nil).Body()
	prog.SetAttributeValue("name", cty.StringVal(doc.Program.Name))
	prog.SetAttributeValue("description", cty.StringVal(doc.Program.Description))
	if doc.Program.Epilog != "" {
		prog.SetAttributeValue("epilog", cty.StringVal(doc.Program.Epilog))
	}

	for _, a := range doc.Arguments {
		root.AppendNewline()
		b := root.AppendNewBlock("argument", []string{a.Name}).Body()
		setString(b, "short", a.Short)
		b.SetAttributeValue("type", cty.StringVal(string(a.Type)))
		setString(b, "default", a.Default)
		setString(b, "metavar", a.Metavar)
		setString(b, "dest", a.Dest)
		if a.Multiple {
			b.SetAttributeValue("multiple", cty.True)
		}
		if a.Required {
			b.SetAttributeValue("required", cty.True)
		}
		if len(a.Choices) > 0 {
			vals := make([]cty.Value, len(a.Choices))
			for i, c := range a.Choices {
				vals[i] = cty.StringVal(c)
			}
			b.SetAttributeValue("choices", cty.ListVal(vals))
		}
		b.SetAttributeValue("help", cty.StringVal(a.Help))
	}

	return hclwrite.Format(f.Bytes()), nil
}

func setString(b *hclwrite.Body, name, value string) {
	if value != "" {
		b.SetAttributeValue(name, cty.StringVal(value))
	}
}
