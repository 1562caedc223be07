package collection

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustCollection(t *testing.T, kind Kind, opts ...CollectionOption) *Collection {
	t.Helper()
	c, err := New(kind, opts...)
	if err != nil {
		t.Fatalf("New(%q): %v", kind, err)
	}
	return c
}

func mustAppend(t *testing.T, c *Collection, values map[string]string) *Item {
	t.Helper()
	it, err := c.Append(values)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	return it
}

func TestSchemaForEveryKind(t *testing.T) {
	kinds, err := Kinds()
	if err != nil {
		t.Fatalf("Kinds: %v", err)
	}
	if len(kinds) != 7 {
		t.Fatalf("expected 7 top-level kinds, got %d: %v", len(kinds), kinds)
	}
	for _, kind := range kinds {
		schema, err := SchemaFor(kind)
		if err != nil {
			t.Fatalf("SchemaFor(%q): %v", kind, err)
		}
		if schema.Prefix == "" || schema.DeleteField == "" {
			t.Fatalf("kind %q missing prefix or delete field: %+v", kind, schema)
		}
	}

	nested, err := SchemaFor(KindAccomplishment)
	if err != nil {
		t.Fatalf("SchemaFor(accomplishment): %v", err)
	}
	if _, ok := nested.FieldDef("accomplishment_text"); !ok {
		t.Fatalf("accomplishment schema missing accomplishment_text: %+v", nested)
	}
}

func TestAppendUsesItemCountAsIndex(t *testing.T) {
	c := mustCollection(t, KindSkill)
	markers := NewDeleteMarkers()

	first := mustAppend(t, c, map[string]string{"skill_title": "Go"})
	second := mustAppend(t, c, map[string]string{"skill_title": "SQL"})
	third := mustAppend(t, c, map[string]string{"skill_title": "Docker"})
	if first.Index() != 0 || second.Index() != 1 || third.Index() != 2 {
		t.Fatalf("unexpected indices: %d %d %d", first.Index(), second.Index(), third.Index())
	}

	// Removing an earlier item must not change what the next append gets:
	// with 2 remaining items the new index is 2, the non-renumbering policy.
	if !c.Remove(second, markers) {
		t.Fatalf("Remove failed")
	}
	fourth := mustAppend(t, c, map[string]string{"skill_title": "K8s"})
	if fourth.Index() != 2 {
		t.Fatalf("expected appended index 2 after removal, got %d", fourth.Index())
	}
	if first.Index() != 0 || third.Index() != 2 {
		t.Fatalf("append-only collection must not renumber, got %d and %d", first.Index(), third.Index())
	}
}

func TestAppendAppliesDefaultsAndValues(t *testing.T) {
	c := mustCollection(t, KindBlock)
	it := mustAppend(t, c, map[string]string{"type": "heading", "text": "Welcome"})

	if v, _ := it.Value("heading_level"); v != "2" {
		t.Fatalf("expected default heading_level 2, got %q", v)
	}
	if v, _ := it.Value("type"); v != "heading" {
		t.Fatalf("expected supplied type, got %q", v)
	}
	if v, _ := it.Value("order"); v != "0" {
		t.Fatalf("expected order to track index 0, got %q", v)
	}

	// Required markers survive synthesis.
	def, ok := c.Schema().FieldDef("type")
	if !ok || !def.Required {
		t.Fatalf("type must be declared required")
	}
	for _, f := range it.Fields {
		if f.Field == "type" && !f.Required {
			t.Fatalf("synthesized required field lost its marker")
		}
	}
}

func TestRenumberContiguity(t *testing.T) {
	c := mustCollection(t, KindBlock)
	for i := 0; i < 4; i++ {
		mustAppend(t, c, map[string]string{"type": "paragraph"})
	}

	if err := c.Move(3, 0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	c.Renumber()

	if !c.Contiguous() {
		t.Fatalf("indices not contiguous after move+renumber")
	}
	for pos, it := range c.Items() {
		if v, _ := it.Value("order"); v != strconv.Itoa(pos) {
			t.Fatalf("order field at pos %d is %q", pos, v)
		}
	}

	// Idempotent: a second pass changes nothing.
	before := make([]int, c.Len())
	for i, it := range c.Items() {
		before[i] = it.Index()
	}
	c.Renumber()
	after := make([]int, c.Len())
	for i, it := range c.Items() {
		after[i] = it.Index()
	}
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("renumber is not idempotent (-first +second):\n%s", diff)
	}
}

func TestRemoveRecordsMarkerAtHeldIndex(t *testing.T) {
	c := mustCollection(t, KindBlock)
	markers := NewDeleteMarkers()
	for i := 0; i < 3; i++ {
		mustAppend(t, c, map[string]string{"type": "paragraph"})
	}

	victim := c.Items()[1]
	if !c.Remove(victim, markers) {
		t.Fatalf("Remove failed")
	}
	if !markers.Has("content_blocks-1-delete") {
		t.Fatalf("expected marker for held index 1, got %v", markers.Names())
	}

	// Blocks renumber after removal; the marker keeps the old index.
	if !c.Contiguous() {
		t.Fatalf("block collection must renumber after removal")
	}
	if markers.Len() != 1 {
		t.Fatalf("expected exactly one marker, got %d", markers.Len())
	}
}

func TestRemoveIsIdempotentPerItem(t *testing.T) {
	c := mustCollection(t, KindProject)
	markers := NewDeleteMarkers()
	it := mustAppend(t, c, map[string]string{"project_title": "Site"})

	if !c.Remove(it, markers) {
		t.Fatalf("first Remove failed")
	}
	if c.Remove(it, markers) {
		t.Fatalf("second Remove should report the item as already detached")
	}
	markers.Ensure("projects-0-delete")
	if markers.Len() != 1 {
		t.Fatalf("expected a single marker, got %v", markers.Names())
	}
	if c.Len() != 0 {
		t.Fatalf("item still attached after Remove")
	}
}

func TestAccomplishmentLifecycle(t *testing.T) {
	c := mustCollection(t, KindWork)
	markers := NewDeleteMarkers()
	work := mustAppend(t, c, map[string]string{"work_history_company_name": "Acme"})

	first, err := c.AppendAccomplishment(work, map[string]string{"accomplishment_text": "Shipped v1"})
	if err != nil {
		t.Fatalf("AppendAccomplishment: %v", err)
	}
	second, err := c.AppendAccomplishment(work, map[string]string{"accomplishment_text": "Shipped v2"})
	if err != nil {
		t.Fatalf("AppendAccomplishment: %v", err)
	}
	if first.Index() != 0 || second.Index() != 1 {
		t.Fatalf("unexpected accomplishment indices: %d %d", first.Index(), second.Index())
	}

	if !c.RemoveAccomplishment(work, first, markers) {
		t.Fatalf("RemoveAccomplishment failed")
	}
	if !markers.Has("work_history-0-accomplishments-0-delete") {
		t.Fatalf("expected nested marker, got %v", markers.Names())
	}
	if len(work.Accomplishments) != 1 || work.Accomplishments[0] != second {
		t.Fatalf("accomplishment not detached")
	}
	// Nested indices are never renumbered.
	if second.Index() != 1 {
		t.Fatalf("nested index was rewritten to %d", second.Index())
	}
}

func TestSweepRemovesHiddenItems(t *testing.T) {
	c := mustCollection(t, KindWork)
	markers := NewDeleteMarkers()
	visible := mustAppend(t, c, map[string]string{"work_history_company_name": "Acme"})
	hidden := mustAppend(t, c, map[string]string{"work_history_company_name": "Gone"})
	hidden.Hidden = true
	acc, err := c.AppendAccomplishment(visible, map[string]string{"accomplishment_text": "Old"})
	if err != nil {
		t.Fatalf("AppendAccomplishment: %v", err)
	}
	acc.Hidden = true

	if removed := c.Sweep(markers); removed != 2 {
		t.Fatalf("expected 2 swept records, got %d", removed)
	}
	if c.Len() != 1 {
		t.Fatalf("hidden item survived the sweep")
	}
	if len(visible.Accomplishments) != 0 {
		t.Fatalf("hidden accomplishment survived the sweep")
	}
	if !markers.Has("work_history-1-delete") || !markers.Has("work_history-0-accomplishments-0-delete") {
		t.Fatalf("sweep did not record markers: %v", markers.Names())
	}

	// Idempotent cleanup pass.
	if removed := c.Sweep(markers); removed != 0 {
		t.Fatalf("second sweep removed %d records", removed)
	}
}

func TestDeleteNameFallbackWithoutSchemaEntry(t *testing.T) {
	// An item parsed from markup predating the schema: no declared delete
	// field, so the name is derived from a sibling field.
	c := &Collection{schema: Schema{Kind: KindSkill, Prefix: "skills"}, policy: PolicyAppendOnly}
	markers := NewDeleteMarkers()
	it := &Item{Kind: KindSkill, Fields: []Field{{Field: "skill_title", Value: "Go"}}, index: 2}
	c.attach(it)

	if !c.Remove(it, markers) {
		t.Fatalf("Remove failed")
	}
	if !markers.Has("skills-2-delete") {
		t.Fatalf("expected derived marker, got %v", markers.Names())
	}
}

func TestDeleteNameUnderivable(t *testing.T) {
	// No schema delete field and no sibling fields: the marker is silently
	// dropped but the item is still detached.
	c := &Collection{schema: Schema{Kind: KindSkill, Prefix: "skills"}, policy: PolicyAppendOnly}
	markers := NewDeleteMarkers()
	it := &Item{Kind: KindSkill}
	c.attach(it)

	if !c.Remove(it, markers) {
		t.Fatalf("Remove failed")
	}
	if markers.Len() != 0 {
		t.Fatalf("expected no markers, got %v", markers.Names())
	}
	if c.Len() != 0 {
		t.Fatalf("item still attached")
	}
}

func TestVisibleGroups(t *testing.T) {
	cases := []struct {
		discriminant string
		want         Visibility
	}{
		{"heading", Visibility{Heading: true, Text: true}},
		{"paragraph", Visibility{Text: true}},
		{"image", Visibility{Image: true}},
		{"", Visibility{Text: true}},
		{"  heading ", Visibility{Heading: true, Text: true}},
	}
	for _, tc := range cases {
		if got := VisibleGroups(tc.discriminant); got != tc.want {
			t.Fatalf("VisibleGroups(%q) = %+v, want %+v", tc.discriminant, got, tc.want)
		}
	}
}

func TestItemVisibilityUsesDiscriminantField(t *testing.T) {
	c := mustCollection(t, KindBlock)
	it := mustAppend(t, c, map[string]string{"type": "image"})
	got := c.ItemVisibility(it)
	if got.Image != true || got.Text || got.Heading {
		t.Fatalf("unexpected visibility %+v", got)
	}

	skills := mustCollection(t, KindSkill)
	skill := mustAppend(t, skills, nil)
	if v := skills.ItemVisibility(skill); !v.Heading || !v.Text || !v.Image {
		t.Fatalf("kinds without discriminant must show everything, got %+v", v)
	}
}

func TestValidateBlocks(t *testing.T) {
	c := mustCollection(t, KindBlock)
	mustAppend(t, c, map[string]string{"type": "heading", "text": "Hi"})
	mustAppend(t, c, map[string]string{"type": "paragraph", "text": "long enough paragraph"})
	deleted := mustAppend(t, c, map[string]string{"type": "paragraph", "text": "x"})
	deleted.SetValue("delete", "y")

	issues := ValidateBlocks(c)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %+v", issues)
	}
	if issues[0].Position != 0 || issues[0].Field != "text" {
		t.Fatalf("unexpected issue: %+v", issues[0])
	}
}

func TestValidateBlocksRequiresParagraph(t *testing.T) {
	c := mustCollection(t, KindBlock)
	mustAppend(t, c, map[string]string{"type": "heading", "text": "Title"})

	issues := ValidateBlocks(c)
	found := false
	for _, issue := range issues {
		if issue.Position == -1 && issue.Message == "At least one paragraph block is required" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing paragraph requirement issue, got %+v", issues)
	}
}

func TestValidateBlocksEmptyCollection(t *testing.T) {
	c := mustCollection(t, KindBlock)
	issues := ValidateBlocks(c)
	if len(issues) != 2 {
		t.Fatalf("expected collection-level issues for empty editor, got %+v", issues)
	}
}
