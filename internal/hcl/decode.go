// This file contains the logic for parsing HCL source and translating the
// decoded schema structs into the format-agnostic model.

package hcl

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/climeta/internal/ctxlog"
	"github.com/specialistvlad/climeta/internal/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// sourceName is the filename reported in diagnostics for in-memory input.
const sourceName = "document.hcl"

// Decode parses HCL source into a document.
func Decode(ctx context.Context, data []byte) (*model.Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL decoding started.", "bytes", len(data))

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, sourceName)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL document: %w", diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL document: %w", diags)
	}
	logUnknown(ctx, "document", root.Remain)

	doc := &model.Document{Arguments: make([]model.ArgumentSpec, 0, len(root.Arguments))}
	if root.Program != nil {
		doc.Program = model.ProgramMetadata{
			Name:        root.Program.Name,
			Description: root.Program.Description,
			Epilog:      root.Program.Epilog,
		}
		logUnknown(ctx, "program", root.Program.Remain)
	}

	for _, b := range root.Arguments {
		spec, err := translateArgument(b)
		if err != nil {
			return nil, err
		}
		logUnknown(ctx, "argument "+b.Name, b.Remain)
		doc.Arguments = append(doc.Arguments, spec)
	}

	logger.Debug("HCL decoding complete.", "arguments", len(doc.Arguments))
	return doc, nil
}

// translateArgument converts an argument block into the agnostic model.
func translateArgument(b *argumentBlock) (model.ArgumentSpec, error) {
	spec := model.ArgumentSpec{
		Name:     b.Name,
		Short:    b.Short,
		Type:     model.ArgType(b.Type),
		Metavar:  b.Metavar,
		Dest:     b.Dest,
		Multiple: b.Multiple,
		Required: b.Required,
		Choices:  b.Choices,
		Help:     b.Help,
	}
	if b.Default != nil {
		def, err := defaultString(*b.Default)
		if err != nil {
			return spec, fmt.Errorf("argument %q: invalid default: %w", b.Name, err)
		}
		spec.Default = def
	}
	return spec, nil
}

// defaultString renders a default of any primitive type, or a collection of
// them, as the space-separated string form of the model.
func defaultString(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	if !v.IsWhollyKnown() {
		return "", fmt.Errorf("value must be known")
	}
	ty := v.Type()
	if ty.IsListType() || ty.IsTupleType() || ty.IsSetType() {
		var parts []string
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			s, err := defaultString(ev)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, " "), nil
	}
	if !ty.IsPrimitiveType() {
		return "", fmt.Errorf("unsupported %s value", ty.FriendlyName())
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", err
	}
	return s.AsString(), nil
}

func logUnknown(ctx context.Context, where string, body hcl.Body) {
	if body == nil {
		return
	}
	attrs, _ := body.JustAttributes()
	for name := range attrs {
		ctxlog.FromContext(ctx).Debug("Ignoring unknown attribute.", "in", where, "attribute", name)
	}
}
