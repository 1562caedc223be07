package markup

import (
	"embed"
	"fmt"
	"html"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/skribblez2718/byob/pkg/collection"
	"github.com/skribblez2718/byob/pkg/fieldname"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Renderer synthesizes item and collection markup from the embedded pongo2
// templates. The markup it emits is the same contract ParsePage consumes.
type Renderer struct {
	set *pongo2.TemplateSet

	mu    sync.Mutex
	cache map[string]*pongo2.Template
}

// NewRenderer builds a renderer over the embedded template bundle.
func NewRenderer() (*Renderer, error) {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("markup: open template bundle: %w", err)
	}
	return &Renderer{
		set:   pongo2.NewSet("formedit", pongo2.NewFSLoader(sub)),
		cache: make(map[string]*pongo2.Template),
	}, nil
}

func (r *Renderer) template(name string) (*pongo2.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tmpl, ok := r.cache[name]; ok {
		return tmpl, nil
	}
	tmpl, err := r.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("markup: load template %q: %w", name, err)
	}
	r.cache[name] = tmpl
	return tmpl, nil
}

func templateFor(kind collection.Kind) string {
	switch kind {
	case collection.KindBlock:
		return "block.html"
	case collection.KindWork:
		return "work.html"
	case collection.KindProject:
		return "row.html"
	default:
		return "card.html"
	}
}

// Item renders one item of c.
func (r *Renderer) Item(c *collection.Collection, it *collection.Item) (string, error) {
	tmpl, err := r.template(templateFor(c.Kind()))
	if err != nil {
		return "", err
	}
	out, err := tmpl.Execute(pongo2.Context{"item": itemView(c, it)})
	if err != nil {
		return "", fmt.Errorf("markup: render %s item: %w", c.Kind(), err)
	}
	return out, nil
}

// Collection renders c with its container element: a data-prefix wrapper
// for content blocks, the fixed list element for card collections, and the
// table body for the projects table.
func (r *Renderer) Collection(c *collection.Collection) (string, error) {
	var b strings.Builder
	schema := c.Schema()

	switch c.Kind() {
	case collection.KindBlock:
		fmt.Fprintf(&b, `<div class="content-blocks" data-prefix="%s">`, html.EscapeString(schema.Prefix))
	case collection.KindProject:
		fmt.Fprintf(&b, `<table id="%s"><tbody id="%s">`, html.EscapeString(schema.TableID), html.EscapeString(schema.TableBodyID))
	default:
		fmt.Fprintf(&b, `<div id="%s">`, html.EscapeString(schema.ListID))
	}
	b.WriteString("\n")

	for _, it := range c.Items() {
		rendered, err := r.Item(c, it)
		if err != nil {
			return "", err
		}
		b.WriteString(rendered)
	}

	if c.Kind() == collection.KindProject {
		b.WriteString("</tbody></table>")
	} else {
		b.WriteString("</div>")
	}
	return b.String(), nil
}

// Page renders a complete editable page: csrf meta tag, the form element,
// every collection in kind order, and the durable hidden delete markers at
// the form root. Round-trips through ParsePage.
func (r *Renderer) Page(page *Page) (string, error) {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	if page.CSRFToken != "" {
		fmt.Fprintf(&b, `<meta name="csrf-token" content="%s">`, html.EscapeString(page.CSRFToken))
		b.WriteString("\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(`<form method="post" enctype="multipart/form-data">` + "\n")
	if page.CSRFToken != "" {
		fmt.Fprintf(&b, `<input type="hidden" name="csrf_token" value="%s">`, html.EscapeString(page.CSRFToken))
		b.WriteString("\n")
	}

	for _, kind := range pageKindOrder {
		c, ok := page.Collections[kind]
		if !ok {
			continue
		}
		rendered, err := r.Collection(c)
		if err != nil {
			return "", err
		}
		b.WriteString(rendered)
		b.WriteString("\n")
	}

	if page.Markers != nil {
		for _, name := range page.Markers.Names() {
			fmt.Fprintf(&b, `<input type="hidden" name="%s" value="y">`, html.EscapeString(name))
			b.WriteString("\n")
		}
	}

	b.WriteString("</form>\n</body>\n</html>\n")
	return b.String(), nil
}

var pageKindOrder = []collection.Kind{
	collection.KindBlock,
	collection.KindProject,
	collection.KindSkill,
	collection.KindWork,
	collection.KindCertification,
	collection.KindProfessionalDevelopment,
	collection.KindEducation,
}

func itemView(c *collection.Collection, it *collection.Item) map[string]any {
	vis := c.ItemVisibility(it)
	schema := c.Schema()

	fields := make([]map[string]any, 0, len(it.Fields))
	for _, f := range it.Fields {
		def, _ := schema.FieldDef(f.Field)
		fields = append(fields, fieldView(
			f,
			def,
			c.FieldName(it, f.Field),
			vis.Shows(def.Group),
		))
	}

	view := map[string]any{
		"Index":  it.Index(),
		"Hidden": it.Hidden,
		"HexID":  it.HexID,
		"Fields": fields,
	}

	if len(it.Accomplishments) > 0 || schema.Nested != "" {
		accViews := make([]map[string]any, 0, len(it.Accomplishments))
		for _, acc := range it.Accomplishments {
			accViews = append(accViews, accomplishmentView(schema, it, acc))
		}
		view["Accomplishments"] = accViews
	}
	return view
}

func accomplishmentView(parent collection.Schema, work, acc *collection.Item) map[string]any {
	nested, _ := collection.SchemaFor(parent.Nested)
	fields := make([]map[string]any, 0, len(acc.Fields))
	for _, f := range acc.Fields {
		def, _ := nested.FieldDef(f.Field)
		name := fieldname.Nested(parent.Prefix, work.Index(), acc.Index(), f.Field)
		fields = append(fields, fieldView(f, def, name, true))
	}
	return map[string]any{
		"Index":  acc.Index(),
		"Hidden": acc.Hidden,
		"Fields": fields,
	}
}

func fieldView(f collection.Field, def collection.FieldDef, name string, visible bool) map[string]any {
	options := make([]map[string]string, 0, len(def.Options))
	for _, opt := range def.Options {
		options = append(options, map[string]string{"Value": opt.Value, "Label": opt.Label})
	}
	return map[string]any{
		"Field":    f.Field,
		"Name":     name,
		"ID":       name,
		"Label":    labelFor(f.Field),
		"Value":    f.Value,
		"Input":    string(f.Input),
		"Required": f.Required,
		"Options":  options,
		"Group":    string(def.Group),
		"Visible":  visible,
		"Checked":  f.Input == collection.InputCheckbox && collection.Truthy(f.Value),
	}
}

// labelFor derives a display label from the field key.
func labelFor(field string) string {
	words := strings.Split(field, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
