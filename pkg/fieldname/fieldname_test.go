package fieldname

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestName(t *testing.T) {
	if got := Name("content_blocks", 3, "text"); got != "content_blocks-3-text" {
		t.Fatalf("unexpected name: %s", got)
	}
	if got := DeleteName("projects", 0); got != "projects-0-delete" {
		t.Fatalf("unexpected delete name: %s", got)
	}
}

func TestNested(t *testing.T) {
	got := Nested("work_history", 2, 5, "accomplishment_text")
	if got != "work_history-2-accomplishments-5-accomplishment_text" {
		t.Fatalf("unexpected nested name: %s", got)
	}
	if got := NestedDeleteName("work_history", 0, 1); got != "work_history-0-accomplishments-1-delete" {
		t.Fatalf("unexpected nested delete name: %s", got)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		want Parsed
		ok   bool
	}{
		{
			name: "content_blocks-0-heading_level",
			want: Parsed{Prefix: "content_blocks", Index: 0, Field: "heading_level", AccIndex: -1},
			ok:   true,
		},
		{
			name: "work_history-1-accomplishments-3-accomplishment_text",
			want: Parsed{Prefix: "work_history", Index: 1, Field: "accomplishment_text", AccIndex: 3},
			ok:   true,
		},
		{
			name: "work_history-1-work_history_company_name",
			want: Parsed{Prefix: "work_history", Index: 1, Field: "work_history_company_name", AccIndex: -1},
			ok:   true,
		},
		{name: "csrf_token", ok: false},
		{name: "submit", ok: false},
	}

	for _, tc := range cases {
		got, ok := Parse(tc.name)
		if ok != tc.ok {
			t.Fatalf("Parse(%q) ok = %v, want %v", tc.name, ok, tc.ok)
		}
		if !ok {
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("Parse(%q) mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	name := Nested("work_history", 4, 0, "delete")
	parsed, ok := Parse(name)
	if !ok {
		t.Fatalf("expected %q to parse", name)
	}
	if got := NestedDeleteName(parsed.Prefix, parsed.Index, parsed.AccIndex); got != name {
		t.Fatalf("round trip mismatch: %s != %s", got, name)
	}
}

func TestReplaceFieldSegment(t *testing.T) {
	if got := ReplaceFieldSegment("skills-2-skill_title", "delete"); got != "skills-2-delete" {
		t.Fatalf("unexpected replacement: %s", got)
	}
	got := ReplaceFieldSegment("work_history-0-accomplishments-2-accomplishment_text", "delete")
	if got != "work_history-0-accomplishments-2-delete" {
		t.Fatalf("unexpected nested replacement: %s", got)
	}
	if got := ReplaceFieldSegment("not-a-convention-name", "delete"); got != "" {
		t.Fatalf("expected empty result for malformed name, got %s", got)
	}
}
