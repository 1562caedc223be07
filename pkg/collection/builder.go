package collection

import (
	"fmt"
	"strconv"
)

// Append synthesizes a new item from the kind's schema, pre-populating
// values where supplied, and attaches it at the end of the collection. The
// new item's index is the current item count; appended indices are never
// recycled into gaps left by removals.
func (c *Collection) Append(values map[string]string) (*Item, error) {
	item := newItem(c.schema, values)
	item.index = len(c.items)
	if order := c.schema.OrderField(); order != "" {
		item.SetValue(order, strconv.Itoa(item.index))
	}
	c.attach(item)
	return item, nil
}

// AppendAccomplishment synthesizes a nested accomplishment inside the given
// work-history item. The accomplishment is indexed independently within its
// parent.
func (c *Collection) AppendAccomplishment(work *Item, values map[string]string) (*Item, error) {
	if c.schema.Nested == "" {
		return nil, fmt.Errorf("collection: kind %q has no nested collection", c.schema.Kind)
	}
	if c.position(work) < 0 {
		return nil, fmt.Errorf("collection: work item is not attached")
	}
	nested, err := SchemaFor(c.schema.Nested)
	if err != nil {
		return nil, err
	}
	acc := newItem(nested, values)
	acc.index = len(work.Accomplishments)
	work.Accomplishments = append(work.Accomplishments, acc)
	return acc, nil
}

func newItem(schema Schema, values map[string]string) *Item {
	fields := make([]Field, 0, len(schema.Fields))
	for _, def := range schema.Fields {
		value := def.Default
		if v, ok := values[def.Field]; ok {
			value = v
		}
		fields = append(fields, Field{
			Field:    def.Field,
			Input:    def.Input,
			Value:    value,
			Required: def.Required,
		})
	}
	return &Item{Kind: schema.Kind, Fields: fields}
}

func (c *Collection) position(it *Item) int {
	for pos, candidate := range c.items {
		if candidate == it {
			return pos
		}
	}
	return -1
}
