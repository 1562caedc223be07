// Package bind serialises collection models into the flat field-name space
// the server-side form binder reads on submission, and decodes such a
// submission back into per-index sub-records.
package bind

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/skribblez2718/byob/pkg/collection"
	"github.com/skribblez2718/byob/pkg/fieldname"
)

// HiddenField is a hidden input submitted alongside the collections, such
// as the CSRF token or a record id.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs the csrf_token hidden field the form binder expects.
func CSRFToken(token string) HiddenField {
	return Hidden("csrf_token", token)
}

// Values flattens the collections, the recorded delete markers, and any
// extra hidden fields into submission values. File inputs carry no value in
// a flat submission and are skipped; unchecked checkboxes are omitted the
// way a browser omits them.
func Values(collections map[collection.Kind]*collection.Collection, markers *collection.DeleteMarkers, hidden ...HiddenField) url.Values {
	values := url.Values{}

	kinds := make([]collection.Kind, 0, len(collections))
	for kind := range collections {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, kind := range kinds {
		encodeCollection(values, collections[kind])
	}

	if markers != nil {
		for _, name := range markers.Names() {
			values.Set(name, "y")
		}
	}
	for _, field := range hidden {
		if field.Name == "" {
			continue
		}
		values.Set(field.Name, field.Value)
	}
	return values
}

func encodeCollection(values url.Values, c *collection.Collection) {
	for _, it := range c.Items() {
		for _, f := range it.Fields {
			name := c.FieldName(it, f.Field)
			encodeField(values, name, f)
		}
		for _, acc := range it.Accomplishments {
			for _, f := range acc.Fields {
				name := fieldname.Nested(c.Prefix(), it.Index(), acc.Index(), f.Field)
				encodeField(values, name, f)
			}
		}
	}
}

func encodeField(values url.Values, name string, f collection.Field) {
	switch f.Input {
	case collection.InputFile:
		return
	case collection.InputCheckbox:
		if collection.Truthy(f.Value) {
			values.Set(name, "y")
		}
	default:
		values.Set(name, f.Value)
	}
}

// Record is one reconstructed sub-record of a decoded submission.
type Record struct {
	Index           int
	Fields          map[string]string
	Deleted         bool
	Accomplishments []Record
}

// Decode reconstructs the per-index records submitted under prefix, sorted
// by index. Indices may be sparse; a delete marker with no other fields
// still yields a record so the binder can honor deletions of detached
// items.
func Decode(values url.Values, prefix string) []Record {
	records := make(map[int]*Record)
	nested := make(map[int]map[int]*Record)

	record := func(index int) *Record {
		if r, ok := records[index]; ok {
			return r
		}
		r := &Record{Index: index, Fields: make(map[string]string)}
		records[index] = r
		return r
	}
	nestedRecord := func(workIndex, accIndex int) *Record {
		if nested[workIndex] == nil {
			nested[workIndex] = make(map[int]*Record)
		}
		if r, ok := nested[workIndex][accIndex]; ok {
			return r
		}
		r := &Record{Index: accIndex, Fields: make(map[string]string)}
		nested[workIndex][accIndex] = r
		return r
	}

	for name := range values {
		parsed, ok := fieldname.Parse(name)
		if !ok || parsed.Prefix != prefix {
			continue
		}
		value := values.Get(name)

		var target *Record
		if parsed.Nested() {
			target = nestedRecord(parsed.Index, parsed.AccIndex)
			record(parsed.Index)
		} else {
			target = record(parsed.Index)
		}
		if parsed.Field == fieldname.DeleteField {
			target.Deleted = collection.Truthy(value)
			continue
		}
		target.Fields[parsed.Field] = value
	}

	out := make([]Record, 0, len(records))
	for index, r := range records {
		if accs, ok := nested[index]; ok {
			accIndices := make([]int, 0, len(accs))
			for accIndex := range accs {
				accIndices = append(accIndices, accIndex)
			}
			sort.Ints(accIndices)
			for _, accIndex := range accIndices {
				r.Accomplishments = append(r.Accomplishments, *accs[accIndex])
			}
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
