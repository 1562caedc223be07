package collection

import "strings"

// FieldGroup names a discriminant-controlled group of block fields.
type FieldGroup string

const (
	GroupHeading FieldGroup = "heading"
	GroupText    FieldGroup = "text"
	GroupImage   FieldGroup = "image"
)

// Block discriminant values.
const (
	BlockHeading   = "heading"
	BlockParagraph = "paragraph"
	BlockImage     = "image"
)

// Visibility reports which field groups of a content block are shown.
type Visibility struct {
	Heading bool
	Text    bool
	Image   bool
}

// Shows reports whether the named group is visible. Fields without a group
// are always visible.
func (v Visibility) Shows(group FieldGroup) bool {
	switch group {
	case GroupHeading:
		return v.Heading
	case GroupText:
		return v.Text
	case GroupImage:
		return v.Image
	default:
		return true
	}
}

// VisibleGroups is a pure function of the block discriminant value: heading
// shows the heading-level and text groups, paragraph shows text only, image
// shows the image group only. An absent or empty discriminant defaults to
// paragraph.
func VisibleGroups(discriminant string) Visibility {
	switch strings.TrimSpace(discriminant) {
	case BlockHeading:
		return Visibility{Heading: true, Text: true}
	case BlockImage:
		return Visibility{Image: true}
	default:
		return Visibility{Text: true}
	}
}

// ItemVisibility evaluates the visibility of an item's field groups from
// its discriminant field. Kinds without a discriminant show everything.
func (c *Collection) ItemVisibility(it *Item) Visibility {
	if c.schema.Discriminant == "" {
		return Visibility{Heading: true, Text: true, Image: true}
	}
	value, _ := it.Value(c.schema.Discriminant)
	return VisibleGroups(value)
}
