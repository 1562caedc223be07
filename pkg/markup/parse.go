// Package markup binds server-rendered form markup to the in-memory
// collection models and synthesizes item markup back from them. The models
// are the source of truth: a page is parsed once on bind and re-rendered
// from the models after every mutation.
package markup

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/skribblez2718/byob/pkg/collection"
	"github.com/skribblez2718/byob/pkg/fieldname"
)

// Page is the parsed editable state of one admin form page. Collections
// holds only the collections whose markup was present; a page that renders
// no container for a kind simply has no entry for it.
type Page struct {
	CSRFToken   string
	Collections map[collection.Kind]*collection.Collection
	Markers     *collection.DeleteMarkers
}

// Collection returns the parsed collection for kind, or nil.
func (p *Page) Collection(kind collection.Kind) *collection.Collection {
	return p.Collections[kind]
}

// ParsePage parses a server-rendered page. Kinds whose container markup is
// absent are skipped entirely; that is not an error. Existing form-root
// delete markers and the csrf-token meta tag are collected alongside the
// collections.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("markup: parse page: %w", err)
	}

	page := &Page{
		Collections: make(map[collection.Kind]*collection.Collection),
		Markers:     collection.NewDeleteMarkers(),
	}
	if meta := doc.Find(`meta[name="csrf-token"]`); meta.Length() > 0 {
		page.CSRFToken, _ = meta.First().Attr("content")
	}

	kinds, err := collection.Kinds()
	if err != nil {
		return nil, err
	}
	for _, kind := range kinds {
		c, err := parseCollection(doc, kind)
		if err != nil {
			return nil, err
		}
		if c != nil {
			page.Collections[kind] = c
		}
	}

	collectMarkers(doc, page.Markers)
	return page, nil
}

// parseCollection locates the kind's container and parses its items.
// Returns (nil, nil) when the container is absent from the page.
func parseCollection(doc *goquery.Document, kind collection.Kind) (*collection.Collection, error) {
	schema, err := collection.SchemaFor(kind)
	if err != nil {
		return nil, err
	}

	var container *goquery.Selection
	switch {
	case kind == collection.KindBlock:
		container = doc.Find(fmt.Sprintf(`[data-prefix=%q]`, schema.Prefix)).First()
	case schema.TableBodyID != "":
		if body := doc.Find("#" + schema.TableBodyID); body.Length() > 0 {
			container = body.First()
		} else if list := doc.Find("#" + schema.ListID); list.Length() > 0 {
			container = list.First()
		}
	default:
		container = doc.Find("#" + schema.ListID).First()
	}
	if container == nil || container.Length() == 0 {
		return nil, nil
	}

	c, err := collection.New(kind)
	if err != nil {
		return nil, err
	}

	var parseErr error
	container.ChildrenFiltered("[data-index]").Each(func(_ int, sel *goquery.Selection) {
		if parseErr != nil {
			return
		}
		if err := parseItem(c, sel); err != nil {
			parseErr = err
		}
	})
	if parseErr != nil {
		return nil, parseErr
	}

	if c.Policy() == collection.PolicyRenumber {
		c.Renumber()
	}
	return c, nil
}

func parseItem(c *collection.Collection, sel *goquery.Selection) error {
	schema := c.Schema()

	values := make(map[string]string)
	required := make(map[string]bool)
	index := -1

	sel.Find("[data-field]").Each(func(_ int, fieldSel *goquery.Selection) {
		if fieldSel.Closest("[data-accomplishments]").Length() > 0 {
			return
		}
		field, _ := fieldSel.Attr("data-field")
		if field == "" {
			return
		}
		values[field] = controlValue(fieldSel)
		if _, ok := fieldSel.Attr("required"); ok {
			required[field] = true
		}
		if index < 0 {
			if name, ok := fieldSel.Attr("name"); ok {
				if parsed, ok := fieldname.Parse(name); ok && !parsed.Nested() {
					index = parsed.Index
				}
			}
		}
	})
	if attr, ok := sel.Attr("data-index"); ok {
		if n, err := strconv.Atoi(attr); err == nil {
			index = n
		}
	}
	if index < 0 {
		return fmt.Errorf("markup: %s item carries no resolvable index", c.Kind())
	}

	item, err := attachParsed(c, values, required, index)
	if err != nil {
		return err
	}
	item.Hidden = sel.HasClass("d-none")
	if hexID, ok := sel.Attr("data-project-hex-id"); ok {
		item.HexID = hexID
	}

	if schema.Nested != "" {
		if err := parseAccomplishments(c, item, sel); err != nil {
			return err
		}
	}
	return nil
}

func parseAccomplishments(c *collection.Collection, work *collection.Item, sel *goquery.Selection) error {
	var parseErr error
	sel.Find("[data-accomplishments]").First().ChildrenFiltered("[data-index]").Each(func(_ int, accSel *goquery.Selection) {
		if parseErr != nil {
			return
		}
		values := make(map[string]string)
		accSel.Find("[data-field]").Each(func(_ int, fieldSel *goquery.Selection) {
			field, _ := fieldSel.Attr("data-field")
			if field != "" {
				values[field] = controlValue(fieldSel)
			}
		})
		acc, err := c.AppendAccomplishment(work, values)
		if err != nil {
			parseErr = err
			return
		}
		acc.Hidden = accSel.HasClass("d-none")
		if attr, ok := accSel.Attr("data-index"); ok {
			if n, err := strconv.Atoi(attr); err == nil {
				acc.SetIndex(n)
			}
		}
	})
	return parseErr
}

// attachParsed rebuilds an item from parsed values at its served index,
// bypassing the append-time index assignment.
func attachParsed(c *collection.Collection, values map[string]string, required map[string]bool, index int) (*collection.Item, error) {
	item, err := c.Append(values)
	if err != nil {
		return nil, err
	}
	item.SetIndex(index)
	for field := range required {
		// Server-rendered required markers win over schema defaults.
		item.SetRequired(field, true)
	}
	return item, nil
}

// controlValue extracts the submittable value of a form control selection.
func controlValue(sel *goquery.Selection) string {
	switch goquery.NodeName(sel) {
	case "textarea":
		return sel.Text()
	case "select":
		if selected := sel.Find("option[selected]"); selected.Length() > 0 {
			value, _ := selected.First().Attr("value")
			return value
		}
		value, _ := sel.Find("option").First().Attr("value")
		return value
	default:
		typ, _ := sel.Attr("type")
		if typ == "checkbox" {
			if _, checked := sel.Attr("checked"); checked {
				value, ok := sel.Attr("value")
				if !ok || value == "" {
					value = "y"
				}
				return value
			}
			return ""
		}
		value, _ := sel.Attr("value")
		return value
	}
}

// collectMarkers picks up durable hidden delete inputs already present at
// the form root from a previous interaction.
func collectMarkers(doc *goquery.Document, markers *collection.DeleteMarkers) {
	doc.Find(`form input[type="hidden"]`).Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr("name")
		if !ok {
			return
		}
		if sel.Closest("[data-index]").Length() > 0 {
			return
		}
		parsed, ok := fieldname.Parse(name)
		if !ok || parsed.Field != fieldname.DeleteField {
			return
		}
		if value, _ := sel.Attr("value"); collection.Truthy(strings.TrimSpace(value)) {
			markers.Ensure(name)
		}
	})
}
