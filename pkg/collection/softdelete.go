package collection

import (
	"github.com/skribblez2718/byob/pkg/fieldname"
)

// DeleteMarkers holds the durable hidden delete inputs appended at the form
// root. Markers record the exact index an item held when deletion was
// requested and are never renumbered afterwards: they target the server's
// bound index, not the client's post-removal positions.
type DeleteMarkers struct {
	names []string
	seen  map[string]struct{}
}

// NewDeleteMarkers returns an empty marker set.
func NewDeleteMarkers() *DeleteMarkers {
	return &DeleteMarkers{seen: make(map[string]struct{})}
}

// Ensure records a marker for name. Recording the same name twice keeps a
// single marker. An empty name is silently ignored: the caller's item is
// still detached, but the deletion cannot be persisted.
func (m *DeleteMarkers) Ensure(name string) {
	if name == "" {
		return
	}
	if _, ok := m.seen[name]; ok {
		return
	}
	m.seen[name] = struct{}{}
	m.names = append(m.names, name)
}

// Has reports whether a marker for name was recorded.
func (m *DeleteMarkers) Has(name string) bool {
	_, ok := m.seen[name]
	return ok
}

// Names returns the recorded marker names in insertion order.
func (m *DeleteMarkers) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Len returns the number of recorded markers.
func (m *DeleteMarkers) Len() int { return len(m.names) }

// Remove marks the item deleted and detaches it from the collection. The
// delete marker is recorded under the index the item holds right now; the
// detachment removes every field the item carried, required ones included,
// from the submittable tree. Returns false when the item is not attached.
func (c *Collection) Remove(it *Item, markers *DeleteMarkers) bool {
	pos := c.position(it)
	if pos < 0 {
		return false
	}
	markers.Ensure(c.deleteName(it))
	c.items = append(c.items[:pos], c.items[pos+1:]...)
	if c.policy == PolicyRenumber {
		c.Renumber()
	}
	return true
}

// RemoveAccomplishment marks the nested accomplishment deleted and detaches
// it from its owning work-history item. Accomplishment markers are never
// renumbered either.
func (c *Collection) RemoveAccomplishment(work, acc *Item, markers *DeleteMarkers) bool {
	if c.position(work) < 0 {
		return false
	}
	pos := -1
	for i, candidate := range work.Accomplishments {
		if candidate == acc {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false
	}
	markers.Ensure(c.accomplishmentDeleteName(work, acc))
	work.Accomplishments = append(work.Accomplishments[:pos], work.Accomplishments[pos+1:]...)
	return true
}

// Sweep applies the marker-then-detach procedure to every item and
// accomplishment left in the transitional hidden-but-present state by a
// prior interaction, so no stale hidden required field survives a reload.
// Returns the number of records removed.
func (c *Collection) Sweep(markers *DeleteMarkers) int {
	removed := 0
	for _, it := range append([]*Item(nil), c.items...) {
		for _, acc := range append([]*Item(nil), it.Accomplishments...) {
			if acc.Hidden && c.RemoveAccomplishment(it, acc, markers) {
				removed++
			}
		}
		if it.Hidden && c.Remove(it, markers) {
			removed++
		}
	}
	return removed
}

// deleteName resolves the marker name for an item: the schema's declared
// delete field when present, otherwise derived by swapping the trailing
// segment of any field name the item carries.
func (c *Collection) deleteName(it *Item) string {
	if c.schema.DeleteField != "" {
		return fieldname.Name(c.schema.Prefix, it.index, c.schema.DeleteField)
	}
	for _, f := range it.Fields {
		name := fieldname.Name(c.schema.Prefix, it.index, f.Field)
		if derived := fieldname.ReplaceFieldSegment(name, fieldname.DeleteField); derived != "" {
			return derived
		}
	}
	return ""
}

func (c *Collection) accomplishmentDeleteName(work, acc *Item) string {
	nested, err := SchemaFor(c.schema.Nested)
	if err == nil && nested.DeleteField != "" {
		return fieldname.NestedDeleteName(c.schema.Prefix, work.index, acc.index)
	}
	for _, f := range acc.Fields {
		name := fieldname.Nested(c.schema.Prefix, work.index, acc.index, f.Field)
		if derived := fieldname.ReplaceFieldSegment(name, fieldname.DeleteField); derived != "" {
			return derived
		}
	}
	return ""
}
