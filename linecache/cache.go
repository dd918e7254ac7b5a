// Package linecache is the collaborator-facing line lookup cache.
// Debugging front ends read it to display source context for rebuilt
// chains without the original files being present; snapshot rebuild
// populates it from the captured file texts.
package linecache

import (
	"strings"
	"sync"
	"time"
)

// Entry holds one cached file. ModTime is nil for entries that came
// from a snapshot rather than the filesystem.
type Entry struct {
	Size     int
	ModTime  *time.Time
	Lines    []string
	Filename string
}

// Cache maps filenames to their cached text.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Default is the process-wide cache rebuilt snapshots register into.
var Default = New()

// Put stores the full text of a file. Each cached line keeps its
// trailing newline, matching what a file reader would have produced.
func (c *Cache) Put(filename, text string) {
	lines := splitLines(text)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[filename] = Entry{
		Size:     len(text),
		ModTime:  nil,
		Lines:    lines,
		Filename: filename,
	}
}

// Get returns the entry for filename.
func (c *Cache) Get(filename string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[filename]
	return e, ok
}

// Line returns the 1-based line n of filename, without its trailing
// newline. Missing files and out-of-range lines yield "".
func (c *Cache) Line(filename string, n int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[filename]
	if !ok || n < 1 || n > len(e.Lines) {
		return ""
	}
	return strings.TrimSuffix(e.Lines[n-1], "\n")
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops every entry. Intended for test isolation.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
}

func splitLines(text string) []string {
	raw := strings.SplitAfter(text, "\n")
	// SplitAfter leaves a trailing "" when the text ends in a newline.
	if len(raw) > 0 && raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	lines := make([]string, len(raw))
	for i, line := range raw {
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}
		lines[i] = line
	}
	return lines
}
