package normalize

import (
	"fmt"

	"github.com/specialistvlad/climeta/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// FromDocument derives a Normalizer from a CLI metadata document. The
// document must validate.
func FromDocument(doc model.Document) (*Normalizer, error) {
	resolved, err := doc.Resolve()
	if err != nil {
		return nil, err
	}

	n := &Normalizer{
		Program:     doc.Program.Name,
		Description: doc.Program.Description,
		Epilog:      doc.Program.Epilog,
	}
	for _, r := range resolved {
		if r.Positional {
			n.Positionals = append(n.Positionals, Positional{
				Name:        r.CleanName,
				Dest:        r.Dest,
				Type:        r.Spec.Type,
				Description: r.Spec.Help,
				Choices:     r.Choices,
			})
			continue
		}
		o := Option{
			Name:        r.CleanName,
			Alias:       r.CleanShort,
			Type:        r.Spec.Type,
			Multiple:    r.Spec.Multiple,
			Description: r.Spec.Help,
			Dest:        r.Dest,
			Choices:     r.Choices,
		}
		if r.HasMetavar {
			o.Metavar = r.Metavar
		}
		switch {
		case r.Inverted:
			o.Default = cty.False
			o.Invert = true
		case !r.Required:
			o.Default = r.Default
		}
		n.Options = append(n.Options, o)
	}

	if err := n.Validate(); err != nil {
		return nil, fmt.Errorf("document %q: %w", doc.Program.Name, err)
	}
	return n, nil
}
