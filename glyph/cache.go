package glyph

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNoSource is returned by Cache.Load when a miss cannot be fetched.
var ErrNoSource = errors.New("glyph: no font source configured")

// Stats counts cache traffic.
type Stats struct {
	Hits   int
	Misses int
	Parses int
}

// Cache holds parsed fonts by exact (font, size) pair. Outlines are never
// rescaled at runtime: a new size means a full reparse of the asset so strokes
// are produced at the requested size.
type Cache struct {
	source Source

	mu    sync.Mutex
	fonts map[Key]*FontData
	stats Stats
}

// NewCache creates a cache that fetches misses from src. src may be nil when
// fonts are only ever added with Put.
func NewCache(src Source) *Cache {
	return &Cache{source: src, fonts: map[Key]*FontData{}}
}

// Get returns cached font data without fetching.
func (c *Cache) Get(fontID string, sizePx float64) (*FontData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.fonts[Key{FontID: fontID, SizePx: sizePx}]
	return data, ok
}

// Put stores data under its own key, replacing any previous entry wholesale.
func (c *Cache) Put(data *FontData) {
	if data == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fonts[data.Key()] = data
}

// Load returns the cached entry or reads, parses and stores the asset. A failed
// fetch leaves the entry absent so a later call retries.
func (c *Cache) Load(ctx context.Context, fontID string, sizePx float64) (*FontData, error) {
	c.mu.Lock()
	if data, ok := c.fonts[Key{FontID: fontID, SizePx: sizePx}]; ok {
		c.stats.Hits++
		c.mu.Unlock()
		return data, nil
	}
	c.stats.Misses++
	c.mu.Unlock()

	if c.source == nil {
		return nil, ErrNoSource
	}
	raw, err := c.source.ReadFont(ctx, fontID)
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", fontID, err)
	}
	data, err := ParseFontBytes(raw, fontID, sizePx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.stats.Parses++
	c.fonts[data.Key()] = data
	c.mu.Unlock()
	return data, nil
}

// Stats returns a copy of the traffic counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
