package collection

import (
	"fmt"

	"github.com/skribblez2718/byob/pkg/fieldname"
)

// Kind identifies one of the editable sub-record collections.
type Kind string

const (
	KindBlock                   Kind = "block"
	KindProject                 Kind = "project"
	KindEducation               Kind = "education"
	KindSkill                   Kind = "skill"
	KindWork                    Kind = "work"
	KindCertification           Kind = "certification"
	KindProfessionalDevelopment Kind = "professional_development"

	// KindAccomplishment is the nested collection owned by a work-history
	// item; it never appears as a top-level collection.
	KindAccomplishment Kind = "accomplishment"
)

// Input enumerates the control types a field can render as.
type Input string

const (
	InputText     Input = "text"
	InputTextarea Input = "textarea"
	InputSelect   Input = "select"
	InputFile     Input = "file"
	InputHidden   Input = "hidden"
	InputCheckbox Input = "checkbox"
	InputNumber   Input = "number"
)

// Policy selects how a collection keeps its embedded indices aligned with
// the server binder after structural changes.
type Policy int

const (
	// PolicyRenumber keeps indices contiguous 0..n-1 after every
	// structural mutation.
	PolicyRenumber Policy = iota

	// PolicyAppendOnly assigns indices at append time and never rewrites
	// them; removals leave gaps.
	PolicyAppendOnly
)

// Field is one input belonging to an item. Name materialisation is derived
// from the owning item's index; only the field key and value are stored.
type Field struct {
	Field    string
	Input    Input
	Value    string
	Required bool
}

// Item is one structured sub-record inside a collection.
type Item struct {
	Kind   Kind
	Fields []Field

	// Accomplishments is populated only for work-history items.
	Accomplishments []*Item

	// HexID is the server-assigned stable identifier carried by project
	// table rows. Empty for rows the server has not persisted.
	HexID string

	// Hidden marks an item parsed from markup in the transitional
	// hidden-but-present state; the bind-time sweep removes it.
	Hidden bool

	index int
}

// Index returns the positional index currently embedded in the item's
// submitted field names.
func (it *Item) Index() int { return it.index }

// SetIndex rebinds the item to the index its served markup carried. Only
// the markup parser should call this; everything else goes through Append
// and Renumber.
func (it *Item) SetIndex(index int) { it.index = index }

// SetRequired updates the required marker on the named field.
func (it *Item) SetRequired(field string, required bool) {
	for i := range it.Fields {
		if it.Fields[i].Field == field {
			it.Fields[i].Required = required
			return
		}
	}
}

// Value returns the current value of the named field.
func (it *Item) Value(field string) (string, bool) {
	for i := range it.Fields {
		if it.Fields[i].Field == field {
			return it.Fields[i].Value, true
		}
	}
	return "", false
}

// SetValue updates the named field, adding it when the item does not carry
// it yet (parsed markup can omit empty optional inputs).
func (it *Item) SetValue(field, value string) {
	for i := range it.Fields {
		if it.Fields[i].Field == field {
			it.Fields[i].Value = value
			return
		}
	}
	it.Fields = append(it.Fields, Field{Field: field, Input: InputText, Value: value})
}

// Collection is an ordered sequence of items sharing one naming prefix.
// Order is semantically significant: it is the persisted display order.
type Collection struct {
	schema Schema
	policy Policy
	items  []*Item
}

// New builds an empty collection for kind using the kind's default policy
// (PolicyRenumber for content blocks, PolicyAppendOnly otherwise).
func New(kind Kind, opts ...CollectionOption) (*Collection, error) {
	schema, err := SchemaFor(kind)
	if err != nil {
		return nil, err
	}
	c := &Collection{schema: schema, policy: defaultPolicy(kind)}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CollectionOption customises collection construction.
type CollectionOption func(*Collection)

// WithPolicy overrides the kind's default indexing policy.
func WithPolicy(policy Policy) CollectionOption {
	return func(c *Collection) {
		c.policy = policy
	}
}

func defaultPolicy(kind Kind) Policy {
	if kind == KindBlock {
		return PolicyRenumber
	}
	return PolicyAppendOnly
}

// Kind returns the collection's kind tag.
func (c *Collection) Kind() Kind { return c.schema.Kind }

// Prefix returns the naming prefix shared with the server binder.
func (c *Collection) Prefix() string { return c.schema.Prefix }

// Schema returns the per-kind field schema.
func (c *Collection) Schema() Schema { return c.schema }

// Policy returns the collection's indexing policy.
func (c *Collection) Policy() Policy { return c.policy }

// Len returns the number of attached items.
func (c *Collection) Len() int { return len(c.items) }

// Items returns the attached items in display order. The slice is shared;
// callers must not reorder it directly.
func (c *Collection) Items() []*Item { return c.items }

// Item returns the item at display position pos.
func (c *Collection) Item(pos int) (*Item, error) {
	if pos < 0 || pos >= len(c.items) {
		return nil, fmt.Errorf("collection: position %d out of range [0,%d)", pos, len(c.items))
	}
	return c.items[pos], nil
}

// Move detaches the item at display position from and reinserts it at
// position to (interpreted after the removal). It is a pure reorder: no
// index rewriting happens here, so PolicyRenumber collections must call
// Renumber afterwards.
func (c *Collection) Move(from, to int) error {
	if from < 0 || from >= len(c.items) {
		return fmt.Errorf("collection: move source %d out of range [0,%d)", from, len(c.items))
	}
	if to < 0 || to >= len(c.items) {
		return fmt.Errorf("collection: move target %d out of range [0,%d)", to, len(c.items))
	}
	if from == to {
		return nil
	}
	item := c.items[from]
	c.items = append(c.items[:from], c.items[from+1:]...)
	c.items = append(c.items[:to], append([]*Item{item}, c.items[to:]...)...)
	return nil
}

// HexIDs returns the items' stable identifiers in current display order,
// skipping items without one.
func (c *Collection) HexIDs() []string {
	ids := make([]string, 0, len(c.items))
	for _, it := range c.items {
		if it.HexID != "" {
			ids = append(ids, it.HexID)
		}
	}
	return ids
}

// FieldName returns the submission name of one of the item's fields under
// this collection's prefix.
func (c *Collection) FieldName(it *Item, field string) string {
	return fieldname.Name(c.schema.Prefix, it.index, field)
}

// attach appends a parsed or built item, trusting its assigned index.
func (c *Collection) attach(it *Item) {
	c.items = append(c.items, it)
}
