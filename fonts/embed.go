package fonts

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/ByLCY/linetext/glyph"
)

//go:embed strokes/*.svg
var fontFS embed.FS

// DefaultID is the built-in font new layers start with.
const DefaultID = "plotter-block"

// Catalog lists the built-in stroke fonts.
func Catalog() glyph.Catalog {
	return glyph.Catalog{
		DefaultID: {ID: DefaultID, Filename: "PlotterBlock"},
	}
}

// Load 返回内置字体的字节数据，path 可写为 "embed:strokes/PlotterBlock.svg"、"strokes/PlotterBlock.svg" 或 "PlotterBlock".
func Load(path string) ([]byte, error) {
	path = strings.TrimPrefix(path, "embed:")
	clean := strings.TrimSuffix(strings.TrimPrefix(path, "strokes/"), ".svg")
	target := "strokes/" + clean + ".svg"
	data, err := fontFS.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("读取内置字体 %s 失败: %w", target, err)
	}
	return data, nil
}

// Names lists the embedded font files without extension.
func Names() []string {
	entries, _ := fs.ReadDir(fontFS, "strokes")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".svg"))
	}
	return names
}

// Source serves the built-in fonts by catalog id.
type Source struct{}

// ReadFont implements glyph.Source.
func (Source) ReadFont(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	meta, ok := Catalog()[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", glyph.ErrFontNotFound, id)
	}
	return Load(meta.Filename)
}
