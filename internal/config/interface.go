package config

import (
	"context"

	"github.com/specialistvlad/climeta/internal/model"
)

// Codec is the interface for a format-specific document encoding.
type Codec interface {
	// Format names the encoding.
	Format() Format

	// Decode reads a document. Implementations are forgiving: they report
	// syntax errors of the underlying format but never validate the
	// document itself.
	Decode(ctx context.Context, data []byte) (*model.Document, error)

	// Encode validates the document and renders it. Invalid documents
	// produce model.ValidationErrors and no output.
	Encode(ctx context.Context, doc model.Document) ([]byte, error)
}
