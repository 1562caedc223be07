package collection

import "strings"

// Issue is one validation failure found in a collection. Position is the
// display position of the offending item, or -1 for collection-level
// failures. Field is empty for item-level failures.
type Issue struct {
	Position int
	Field    string
	Message  string
}

// ValidateBlocks applies the post editor's content rules to a block
// collection: deleted blocks are skipped, heading text needs at least 3
// characters, paragraph text at least 10, the collection needs at least one
// surviving block and at least one paragraph among them.
func ValidateBlocks(c *Collection) []Issue {
	if c == nil || c.Kind() != KindBlock {
		return nil
	}

	var issues []Issue
	surviving := 0
	paragraphs := 0
	for pos, it := range c.items {
		if deleted, _ := it.Value(c.schema.DeleteField); Truthy(deleted) {
			continue
		}
		surviving++

		discriminant, _ := it.Value(c.schema.Discriminant)
		text, _ := it.Value("text")
		text = strings.TrimSpace(text)

		switch strings.TrimSpace(discriminant) {
		case BlockHeading:
			if len(text) < 3 {
				issues = append(issues, Issue{Position: pos, Field: "text", Message: "Heading text must be at least 3 characters"})
			}
		case BlockParagraph:
			paragraphs++
			if len(text) < 10 {
				issues = append(issues, Issue{Position: pos, Field: "text", Message: "Paragraph must be at least 10 characters"})
			}
		case BlockImage:
			// Image file is optional on edit.
		default:
			issues = append(issues, Issue{Position: pos, Field: c.schema.Discriminant, Message: "Invalid block type"})
		}
	}

	if surviving == 0 {
		issues = append(issues, Issue{Position: -1, Message: "Add at least one content block"})
	}
	if paragraphs == 0 {
		issues = append(issues, Issue{Position: -1, Message: "At least one paragraph block is required"})
	}
	return issues
}

// Truthy mirrors the binder's checkbox semantics: any non-empty value other
// than an explicit false marks the box checked.
func Truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "no", "n", "off":
		return false
	default:
		return true
	}
}
