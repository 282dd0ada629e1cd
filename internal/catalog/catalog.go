// Package catalog maintains the sorted list of GIF files in one directory.
package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SortKey selects the catalog ordering.
type SortKey int

const (
	SortNameAsc SortKey = iota
	SortNameDesc
	SortTimeAsc
	SortTimeDesc
)

// SortKeys lists every ordering in UI presentation order.
var SortKeys = []SortKey{SortNameAsc, SortNameDesc, SortTimeAsc, SortTimeDesc}

// ParseSortKey maps a config string to a SortKey, defaulting to name A-Z.
func ParseSortKey(s string) SortKey {
	switch s {
	case "name_desc":
		return SortNameDesc
	case "time_asc":
		return SortTimeAsc
	case "time_desc":
		return SortTimeDesc
	default:
		return SortNameAsc
	}
}

// String returns the config-file form of the key.
func (k SortKey) String() string {
	switch k {
	case SortNameDesc:
		return "name_desc"
	case SortTimeAsc:
		return "time_asc"
	case SortTimeDesc:
		return "time_desc"
	default:
		return "name_asc"
	}
}

// Label returns the human-readable form used in the sort selector.
func (k SortKey) Label() string {
	switch k {
	case SortNameDesc:
		return "Name (Z-A)"
	case SortTimeAsc:
		return "Time (Old-New)"
	case SortTimeDesc:
		return "Time (New-Old)"
	default:
		return "Name (A-Z)"
	}
}

// Entry describes one GIF file in the scanned directory.
type Entry struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// Catalog is the sorted listing of sibling GIF files. It is rebuilt in full
// on every refresh and never partially updated.
type Catalog struct {
	dir     string
	key     SortKey
	entries []Entry
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Refresh rescans dir for GIF files (one level, case-insensitive extension)
// and sorts them by key. The previous listing is replaced wholesale.
func (c *Catalog) Refresh(dir string, key SortKey) error {
	items, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if item.IsDir() || !strings.EqualFold(filepath.Ext(item.Name()), ".gif") {
			continue
		}
		info, err := item.Info()
		if err != nil {
			// Entry vanished between ReadDir and Stat; skip it.
			continue
		}
		entries = append(entries, Entry{
			Path:    filepath.Join(dir, item.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sortEntries(entries, key)

	c.dir = dir
	c.key = key
	c.entries = entries
	return nil
}

// sortEntries orders entries by the given key. Name comparisons are
// case-insensitive.
func sortEntries(entries []Entry, key SortKey) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch key {
		case SortNameDesc:
			return lowerBase(a.Path) > lowerBase(b.Path)
		case SortTimeAsc:
			return a.ModTime.Before(b.ModTime)
		case SortTimeDesc:
			return b.ModTime.Before(a.ModTime)
		default:
			return lowerBase(a.Path) < lowerBase(b.Path)
		}
	})
}

func lowerBase(path string) string {
	return strings.ToLower(filepath.Base(path))
}

// Dir returns the last refreshed directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// Key returns the current sort key.
func (c *Catalog) Key() SortKey {
	return c.key
}

// Entries returns the current listing in sort order.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Len returns the number of listed files.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// IndexOf locates path in the current ordering, or -1 when absent.
func (c *Catalog) IndexOf(path string) int {
	for i, e := range c.entries {
		if e.Path == path {
			return i
		}
	}
	return -1
}

// Next returns the entry adjacent to current in the given direction,
// wrapping at both ends. When current is not in the catalog (stale after an
// external rename), it falls back to the first entry. The second return is
// false only for an empty catalog.
func (c *Catalog) Next(current string, direction int) (Entry, bool) {
	if len(c.entries) == 0 {
		return Entry{}, false
	}

	idx := c.IndexOf(current)
	if idx < 0 {
		return c.entries[0], true
	}

	n := len(c.entries)
	next := ((idx+direction)%n + n) % n
	return c.entries[next], true
}
