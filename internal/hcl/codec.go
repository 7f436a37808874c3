package hcl

import (
	"context"

	"github.com/specialistvlad/climeta/internal/config"
	"github.com/specialistvlad/climeta/internal/ctxlog"
	"github.com/specialistvlad/climeta/internal/model"
)

// Codec is the HCL implementation of config.Codec.
type Codec struct{}

// NewCodec creates a new HCL codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Format implements config.Codec.
func (c *Codec) Format() config.Format {
	return config.FormatHCL
}

// Decode implements config.Codec.
func (c *Codec) Decode(ctx context.Context, data []byte) (*model.Document, error) {
	return Decode(ctx, data)
}

// Encode implements config.Codec.
func (c *Codec) Encode(ctx context.Context, doc model.Document) ([]byte, error) {
	ctxlog.FromContext(ctx).Debug("Encoding HCL document.", "arguments", len(doc.Arguments))
	return Encode(doc)
}
