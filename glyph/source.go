package glyph

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrFontNotFound reports a font id no source knows about.
var ErrFontNotFound = errors.New("glyph: font not found")

// Source fetches raw font assets by id.
type Source interface {
	ReadFont(ctx context.Context, id string) ([]byte, error)
}

// FontMeta describes one selectable font.
type FontMeta struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	OriginalURL string `json:"originalURL,omitempty"`
}

// Catalog lists the fonts a user can pick, keyed by id.
type Catalog map[string]FontMeta

// IDs returns the font ids in sorted order.
func (c Catalog) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Merge returns a catalog holding the entries of c and other; other wins on
// conflicts.
func (c Catalog) Merge(other Catalog) Catalog {
	out := make(Catalog, len(c)+len(other))
	for id, meta := range c {
		out[id] = meta
	}
	for id, meta := range other {
		out[id] = meta
	}
	return out
}

// DirSource reads <Dir>/<filename>.svg, using Catalog to map ids to file names.
type DirSource struct {
	Dir     string
	Catalog Catalog
}

// ReadFont implements Source.
func (s DirSource) ReadFont(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Dir == "" {
		return nil, fmt.Errorf("%w: %s", ErrFontNotFound, id)
	}
	name := id
	if meta, ok := s.Catalog[id]; ok && meta.Filename != "" {
		name = meta.Filename
	}
	if !strings.HasSuffix(strings.ToLower(name), ".svg") {
		name += ".svg"
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFontNotFound, id)
	}
	return data, err
}

// MultiSource tries each source in order and returns the first asset found.
type MultiSource []Source

// ReadFont implements Source.
func (m MultiSource) ReadFont(ctx context.Context, id string) ([]byte, error) {
	var errs []error
	for _, src := range m {
		if src == nil {
			continue
		}
		data, err := src.ReadFont(ctx, id)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrFontNotFound) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, fmt.Errorf("%w: %s", ErrFontNotFound, id)
}
