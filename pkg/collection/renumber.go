package collection

import "strconv"

// Renumber assigns every item's embedded index to its current display
// position, 0..n-1 with no gaps, and updates the dedicated order field
// where the kind declares one. Field names and ids derive from the index,
// so rewriting the index rewrites them everywhere they materialise.
// Calling Renumber twice in a row produces no further change.
func (c *Collection) Renumber() {
	order := c.schema.OrderField()
	for pos, it := range c.items {
		it.index = pos
		if order != "" {
			it.SetValue(order, strconv.Itoa(pos))
		}
	}
}

// Contiguous reports whether the attached items' indices are exactly
// 0..n-1 in display order.
func (c *Collection) Contiguous() bool {
	for pos, it := range c.items {
		if it.index != pos {
			return false
		}
	}
	return true
}
