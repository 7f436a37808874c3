package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/specialistvlad/climeta/internal/ctxlog"
	"github.com/specialistvlad/climeta/internal/fsutil"
	"github.com/specialistvlad/climeta/internal/model"
)

// Format names a document encoding.
type Format string

const (
	FormatFlat Format = "toml"
	FormatHCL  Format = "hcl"
)

// extensions maps file extensions to the format stored in such files.
var extensions = map[string]Format{
	".toml": FormatFlat,
	".hcl":  FormatHCL,
}

// FormatForPath detects the format of a file from its extension.
func FormatForPath(path string) (Format, bool) {
	f, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Extension returns the conventional file extension for f.
func (f Format) Extension() string {
	return "." + string(f)
}

// Registry holds the available codecs by format.
type Registry struct {
	codecs map[Format]Codec
}

// NewRegistry creates a registry from the given codecs.
func NewRegistry(codecs ...Codec) *Registry {
	r := &Registry{codecs: make(map[Format]Codec, len(codecs))}
	for _, c := range codecs {
		r.codecs[c.Format()] = c
	}
	return r
}

// Formats lists the registered formats in sorted order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.codecs))
	for f := range r.codecs {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}

// Codec returns the codec for f. Unknown formats produce an error that
// suggests the closest registered one.
func (r *Registry) Codec(f Format) (Codec, error) {
	if c, ok := r.codecs[f]; ok {
		return c, nil
	}
	msg := fmt.Sprintf("unsupported document format %q (supported: %s)", f, strings.Join(r.Formats(), ", "))
	if s := closest(string(f), r.Formats()); s != "" {
		msg += fmt.Sprintf("; did you mean %q?", s)
	}
	return nil, fmt.Errorf("%s", msg)
}

// CodecForPath returns the codec matching the file extension of path.
func (r *Registry) CodecForPath(path string) (Codec, error) {
	f, ok := FormatForPath(path)
	if !ok {
		return nil, fmt.Errorf("cannot detect document format of %s", path)
	}
	return r.Codec(f)
}

// LoadFile reads and decodes the document stored at path. The format is
// detected from the extension.
func (r *Registry) LoadFile(ctx context.Context, path string) (*model.Document, error) {
	logger := ctxlog.FromContext(ctx)
	codec, err := r.CodecForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	logger.Debug("Decoding document.", "path", path, "format", codec.Format())
	doc, err := codec.Decode(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return doc, nil
}

// Discover expands the given paths into the list of document files they
// denote. Directories are searched recursively for every known extension.
func Discover(paths ...string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		exts := make([]string, 0, len(extensions))
		for ext := range extensions {
			exts = append(exts, ext)
		}
		found, err := fsutil.FindFilesByExtension(path, exts...)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			add(p)
		}
	}
	return files, nil
}

func closest(s string, options []string) string {
	best, bestDist := "", 3
	for _, o := range options {
		if d := levenshtein.Distance(strings.ToLower(s), o, nil); d < bestDist {
			best, bestDist = o, d
		}
	}
	return best
}
