// Package fieldname implements the positional form-field naming convention
// shared with the server-side form binder: every input belonging to item
// {index} of a collection with naming prefix {prefix} is submitted as
// "{prefix}-{index}-{field}". Accomplishments nested inside a work-history
// item extend the scheme one level:
// "work_history-{workIndex}-accomplishments-{accIndex}-{field}".
package fieldname

import (
	"fmt"
	"strconv"
	"strings"
)

// DeleteField is the reserved field segment whose presence at submit time
// marks the sub-record at that index for deletion.
const DeleteField = "delete"

// AccomplishmentsSegment is the nesting segment between a work-history item
// and its accomplishment fields.
const AccomplishmentsSegment = "accomplishments"

// Name returns the submission name for a field of the item at index.
func Name(prefix string, index int, field string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, index, field)
}

// ID returns the element id for a field. The convention keeps ids identical
// to names so label/for wiring survives renumbering.
func ID(prefix string, index int, field string) string {
	return Name(prefix, index, field)
}

// DeleteName returns the delete-marker name for the item at index.
func DeleteName(prefix string, index int) string {
	return Name(prefix, index, DeleteField)
}

// Nested returns the submission name for a field of the accomplishment at
// accIndex inside the work-history item at workIndex.
func Nested(prefix string, workIndex int, accIndex int, field string) string {
	return fmt.Sprintf("%s-%d-%s-%d-%s", prefix, workIndex, AccomplishmentsSegment, accIndex, field)
}

// NestedDeleteName returns the delete-marker name for a nested
// accomplishment.
func NestedDeleteName(prefix string, workIndex int, accIndex int) string {
	return Nested(prefix, workIndex, accIndex, DeleteField)
}

// Parsed is the decomposition of a submission name back into its positional
// parts. AccIndex is -1 for names that do not address a nested
// accomplishment.
type Parsed struct {
	Prefix   string
	Index    int
	Field    string
	AccIndex int
}

// Nested reports whether the name addressed an accomplishment field.
func (p Parsed) Nested() bool {
	return p.AccIndex >= 0
}

// Parse decomposes a submission name produced by Name or Nested. It scans
// for the first "-{digits}-" boundary so prefixes containing hyphens or
// underscores survive, then checks for the accomplishments nesting segment.
// ok is false when the name does not follow the convention.
func Parse(name string) (Parsed, bool) {
	prefix, index, rest, ok := splitIndexed(name)
	if !ok {
		return Parsed{}, false
	}
	parsed := Parsed{Prefix: prefix, Index: index, Field: rest, AccIndex: -1}

	seg, accIndex, field, ok := splitIndexed(rest)
	if ok && seg == AccomplishmentsSegment {
		parsed.Field = field
		parsed.AccIndex = accIndex
	}
	return parsed, true
}

// ReplaceFieldSegment swaps the trailing field segment of a convention name,
// preserving the positional parts. Used to derive a delete-marker name from
// any sibling field name when no schema is available. Returns "" when the
// name does not follow the convention.
func ReplaceFieldSegment(name, field string) string {
	parsed, ok := Parse(name)
	if !ok {
		return ""
	}
	if parsed.Nested() {
		return Nested(parsed.Prefix, parsed.Index, parsed.AccIndex, field)
	}
	return Name(parsed.Prefix, parsed.Index, field)
}

// splitIndexed splits "head-{digits}-tail" into its parts at the first
// numeric segment.
func splitIndexed(name string) (head string, index int, tail string, ok bool) {
	segments := strings.Split(name, "-")
	for i := 1; i < len(segments)-1; i++ {
		n, err := strconv.Atoi(segments[i])
		if err != nil || n < 0 {
			continue
		}
		return strings.Join(segments[:i], "-"), n, strings.Join(segments[i+1:], "-"), true
	}
	return "", 0, "", false
}
