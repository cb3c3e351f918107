// Package names implements the archive name table.
//
// Names are stored in an append-only list and addressed by their position. A name
// record can reference a previously registered name, in which case the new name is
// the referenced name followed by the record's suffix.
package names

import (
	"fmt"

	"github.com/retroenv/ubrofdecode/internal/cursor"
	"github.com/retroenv/ubrofdecode/internal/decodeerr"
)

// NoReference is the back-reference sentinel meaning that a name has no prefix.
const NoReference = 0xFFFFFFFF

// Entry is a decoded name table record.
type Entry struct {
	Index uint32 // position the name was stored at
	Name  string // full name including the referenced prefix
}

func (e Entry) String() string {
	return fmt.Sprintf("%04X: %s", e.Index, e.Name)
}

// Table is the ordered list of names of one archive.
type Table struct {
	names []string
}

// New creates an empty name table.
func New() *Table {
	return &Table{}
}

// Add appends a name built from the optional back-referenced name and the suffix
// and returns its index. Pass NoReference for names without prefix.
func (t *Table) Add(suffix string, ref uint32) (uint32, error) {
	name := suffix
	if ref != NoReference {
		prefix, ok := t.Get(ref)
		if !ok {
			return 0, fmt.Errorf("name back-reference %d of %d names: %w", ref, len(t.names), decodeerr.ErrLookup)
		}
		name = prefix + suffix
	}

	t.names = append(t.names, name)
	return uint32(len(t.names) - 1), nil
}

// Get returns the name at the given index. The NoReference sentinel and indices
// that are not registered return false.
func (t *Table) Get(index uint32) (string, bool) {
	if index == NoReference || uint64(index) >= uint64(len(t.names)) {
		return "", false
	}
	return t.names[index], true
}

// Len returns the number of registered names.
func (t *Table) Len() int {
	return len(t.names)
}

// Decode reads a name table record and registers the name.
func (t *Table) Decode(c *cursor.Cursor) (Entry, error) {
	start := c.Offset()
	if err := c.Skip(8); err != nil { // record size and a reserved word
		return Entry{}, err
	}
	suffix, err := c.String8()
	if err != nil {
		return Entry{}, err
	}
	ref, err := c.U32()
	if err != nil {
		return Entry{}, err
	}

	index, err := t.Add(suffix, ref)
	if err != nil {
		return Entry{}, decodeerr.Format(start, err, "resolving name prefix")
	}
	name, _ := t.Get(index)
	return Entry{Index: index, Name: name}, nil
}
