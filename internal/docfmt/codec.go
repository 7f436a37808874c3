package docfmt

import (
	"context"

	"github.com/specialistvlad/climeta/internal/config"
	"github.com/specialistvlad/climeta/internal/ctxlog"
	"github.com/specialistvlad/climeta/internal/model"
)

// Codec is the flat-format implementation of config.Codec.
type Codec struct{}

// NewCodec creates a flat-format codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Format implements config.Codec.
func (c *Codec) Format() config.Format {
	return config.FormatFlat
}

// Decode implements config.Codec. It never returns an error for malformed
// content; see Unmarshal.
func (c *Codec) Decode(ctx context.Context, data []byte) (*model.Document, error) {
	logger := ctxlog.FromContext(ctx)
	raw := Unmarshal(data)
	for i, a := range raw.Arguments {
		for _, f := range a.Extra {
			logger.Debug("Keeping unknown argument key.", "argument", i+1, "key", f.Key)
		}
	}
	doc := raw.Document()
	logger.Debug("Flat document decoded.", "arguments", len(doc.Arguments))
	return &doc, nil
}

// Encode implements config.Codec.
func (c *Codec) Encode(ctx context.Context, doc model.Document) ([]byte, error) {
	ctxlog.FromContext(ctx).Debug("Encoding flat document.", "arguments", len(doc.Arguments))
	return Marshal(doc)
}
