package vision

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseAnalysis_FullReply(t *testing.T) {
	reply := `{
		"components": [{"id": "c1", "name": "Nav", "description": "Top nav", "componentType": "Navigation", "tags": ["nav"]}],
		"colorPalette": [{"hex": "#FFFFFF", "usage": "background"}],
		"typography": {"primaryFont": "Inter"},
		"layout": {"grid": "12-column"},
		"designStyle": ["minimalist"],
		"accessibilityNotes": "good contrast",
		"designPatterns": ["hero"],
		"functionalPurpose": ["browse"],
		"userJourneyStage": "awareness",
		"industryRelevance": ["SaaS"],
		"userTasks": ["sign up"],
		"suggestedTags": ["minimal", "clean"]
	}`
	a, err := ParseAnalysis([]byte(reply))
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if len(a.Components) != 1 || a.Components[0].Name != "Nav" {
		t.Errorf("Components = %+v", a.Components)
	}
	if len(a.ColorPalette) != 1 || a.ColorPalette[0] != (PaletteColor{Hex: "#FFFFFF", Usage: "background"}) {
		t.Errorf("ColorPalette = %+v", a.ColorPalette)
	}
	if a.Typography["primaryFont"] != "Inter" {
		t.Errorf("Typography = %v", a.Typography)
	}
	if a.AccessibilityNotes != "good contrast" || a.UserJourneyStage != "awareness" {
		t.Errorf("string fields: %q %q", a.AccessibilityNotes, a.UserJourneyStage)
	}
	if !reflect.DeepEqual(a.SuggestedTags, []string{"minimal", "clean"}) {
		t.Errorf("SuggestedTags = %v", a.SuggestedTags)
	}
}

func TestParseAnalysis_EmptyObject(t *testing.T) {
	// WHAT: A reply with no recognised fields still parses.
	// WHY: Nothing downstream may assume field presence; slices come
	// back empty, never nil.
	a, err := ParseAnalysis([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if a.Components == nil || a.ColorPalette == nil || a.SuggestedTags == nil ||
		a.DesignStyle == nil || a.DesignPatterns == nil || a.FunctionalPurpose == nil ||
		a.IndustryRelevance == nil || a.UserTasks == nil {
		t.Error("slices must be non-nil")
	}
	if a.Typography == nil || a.Layout == nil {
		t.Error("maps must be non-nil")
	}
}

func TestParseAnalysis_NotAnObject(t *testing.T) {
	for _, reply := range []string{`[]`, `"text"`, `not json at all`, ``} {
		if _, err := ParseAnalysis([]byte(reply)); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("ParseAnalysis(%q) error = %v, want ErrMalformedResponse", reply, err)
		}
	}
}

func TestParseAnalysis_TypeMismatchesAreDropped(t *testing.T) {
	reply := `{
		"suggestedTags": 42,
		"typography": "not an object",
		"components": {"not": "an array"},
		"accessibilityNotes": {"not": "a string"},
		"designStyle": ["flat"]
	}`
	a, err := ParseAnalysis([]byte(reply))
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if len(a.SuggestedTags) != 0 || len(a.Components) != 0 || len(a.Typography) != 0 {
		t.Errorf("mismatched fields not dropped: %+v", a)
	}
	if a.AccessibilityNotes != "" {
		t.Errorf("AccessibilityNotes = %q", a.AccessibilityNotes)
	}
	// Well-shaped fields alongside bad ones still decode.
	if !reflect.DeepEqual(a.DesignStyle, []string{"flat"}) {
		t.Errorf("DesignStyle = %v", a.DesignStyle)
	}
}

func TestParseAnalysis_StringListTolerance(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  []string
	}{
		{"bare string", `{"suggestedTags": "minimal"}`, []string{"minimal"}},
		{"nested arrays", `{"suggestedTags": ["a", ["b", "c"], "d"]}`, []string{"a", "b", "c", "d"}},
		{"non-strings dropped", `{"suggestedTags": ["a", 1, null, {"x": 1}, "b"]}`, []string{"a", "b"}},
		{"empties dropped", `{"suggestedTags": ["", "a", ""]}`, []string{"a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := ParseAnalysis([]byte(tc.reply))
			if err != nil {
				t.Fatalf("ParseAnalysis: %v", err)
			}
			if !reflect.DeepEqual(a.SuggestedTags, tc.want) {
				t.Errorf("SuggestedTags = %v, want %v", a.SuggestedTags, tc.want)
			}
		})
	}
}

func TestParseAnalysis_StringFieldToleratesArray(t *testing.T) {
	a, err := ParseAnalysis([]byte(`{"userJourneyStage": ["consideration", "decision"]}`))
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if a.UserJourneyStage != "consideration" {
		t.Errorf("UserJourneyStage = %q, want first element", a.UserJourneyStage)
	}
}

func TestParseAnalysis_PaletteForms(t *testing.T) {
	reply := `{"colorPalette": [
		{"hex": "#112233", "usage": "accent"},
		"#445566",
		{"usage": "no hex"},
		7
	]}`
	a, err := ParseAnalysis([]byte(reply))
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	want := []PaletteColor{{Hex: "#112233", Usage: "accent"}, {Hex: "#445566"}}
	if !reflect.DeepEqual(a.ColorPalette, want) {
		t.Errorf("ColorPalette = %+v, want %+v", a.ColorPalette, want)
	}
}

func TestParseAnalysis_ComponentDefaults(t *testing.T) {
	a, err := ParseAnalysis([]byte(`{"components": [{}, {"name": "Card", "tags": "single"}]}`))
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if len(a.Components) != 2 {
		t.Fatalf("Components = %d, want 2", len(a.Components))
	}
	if a.Components[0].Tags == nil {
		t.Error("empty component must get non-nil tags")
	}
	if !reflect.DeepEqual(a.Components[1].Tags, []string{"single"}) {
		t.Errorf("bare-string tags = %v", a.Components[1].Tags)
	}
}
