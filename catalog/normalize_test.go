package catalog

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sitelens/sitelens/capture"
	"github.com/sitelens/sitelens/vision"
)

func TestNormalize_EmptyAnalysisGetsDefaults(t *testing.T) {
	// WHAT: Every optional analysis field resolves to its empty value.
	// WHY: The persisted record may never carry nulls; the document
	// layout assumes concrete empty slices/maps/strings.
	ex := Normalize(NormalizeInput{ScreenshotID: "shot-1"})

	if ex.Tags == nil || len(ex.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty non-nil slice", ex.Tags)
	}
	if ex.Category == nil || len(ex.Category) != 0 {
		t.Errorf("Category = %#v, want empty non-nil slice", ex.Category)
	}
	ds := ex.DesignSystem
	if ds.Colors == nil || ds.Fonts == nil || ds.DesignStyle == nil ||
		ds.FunctionalPurpose == nil || ds.IndustryRelevance == nil || ds.UserTasks == nil {
		t.Error("design system slices must be non-nil")
	}
	if ds.Typography == nil || ds.Layout == nil || ds.ComponentStyles == nil {
		t.Error("design system maps must be non-nil")
	}
	if ds.AccessibilityNotes != "" || ds.UserJourneyStage != "" {
		t.Error("string fields must default to empty")
	}
	if len(ex.Screenshots) != 1 {
		t.Fatalf("screenshots = %d, want 1", len(ex.Screenshots))
	}
	if ex.Screenshots[0].Components == nil {
		t.Error("components must be non-nil")
	}
}

func TestNormalize_TagUnionAndDedup(t *testing.T) {
	ex := Normalize(NormalizeInput{
		Analysis: vision.Analysis{
			SuggestedTags:     []string{"minimal", "clean", ""},
			DesignPatterns:    []string{"hero", "minimal"},
			FunctionalPurpose: []string{"browse"},
			UserTasks:         []string{"search", "browse"},
			UserJourneyStage:  "onboarding",
		},
		Meta:         Metadata{Tags: []string{"clean", "saas"}},
		ScreenshotID: "shot-1",
	})

	want := []string{"minimal", "clean", "hero", "browse", "search", "onboarding", "saas"}
	if !reflect.DeepEqual(ex.Tags, want) {
		t.Errorf("Tags = %v, want %v", ex.Tags, want)
	}
}

func TestNormalize_TagDedupIsCaseSensitive(t *testing.T) {
	// Case-sensitive on purpose: matches the observed product behavior.
	ex := Normalize(NormalizeInput{
		Analysis:     vision.Analysis{SuggestedTags: []string{"Minimal", "minimal"}},
		ScreenshotID: "shot-1",
	})
	if len(ex.Tags) != 2 {
		t.Errorf("Tags = %v, want both casings kept", ex.Tags)
	}
}

func TestNormalize_NoEmptyOrDuplicateTags(t *testing.T) {
	ex := Normalize(NormalizeInput{
		Analysis: vision.Analysis{
			SuggestedTags:  []string{"", "a", "a", "b"},
			DesignPatterns: []string{"b", "", "c"},
		},
		ScreenshotID: "shot-1",
	})
	seen := map[string]bool{}
	for _, tag := range ex.Tags {
		if tag == "" {
			t.Error("empty tag survived normalization")
		}
		if seen[tag] {
			t.Errorf("duplicate tag %q", tag)
		}
		seen[tag] = true
	}
}

func TestNormalize_CategoryFallbackOrder(t *testing.T) {
	// Caller category wins over everything the model inferred.
	cases := []struct {
		name string
		meta []string
		ind  []string
		sty  []string
		want []string
	}{
		{"caller wins", []string{"Finance"}, []string{"Fintech"}, []string{"flat"}, []string{"Finance"}},
		{"industry next", nil, []string{"Fintech"}, []string{"flat"}, []string{"Fintech"}},
		{"style last", nil, nil, []string{"flat"}, []string{"flat"}},
		{"empty fallback", nil, nil, nil, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ex := Normalize(NormalizeInput{
				Analysis:     vision.Analysis{IndustryRelevance: tc.ind, DesignStyle: tc.sty},
				Meta:         Metadata{Category: tc.meta},
				ScreenshotID: "shot-1",
			})
			if !reflect.DeepEqual(ex.Category, tc.want) {
				t.Errorf("Category = %v, want %v", ex.Category, tc.want)
			}
		})
	}
}

func TestNormalize_TitleFallbacks(t *testing.T) {
	cases := []struct {
		name      string
		meta      string
		pageTitle string
		sourceURL string
		want      string
	}{
		{"meta wins", "My Title", "Page Title", "https://example.com", "My Title"},
		{"page title next", "", "Page Title", "https://example.com", "Page Title"},
		{"host next", "", "", "https://www.example.com/pricing", "example.com"},
		{"last resort", "", "", "", "Untitled design"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ex := Normalize(NormalizeInput{
				Meta:         Metadata{Title: tc.meta},
				PageTitle:    tc.pageTitle,
				SourceURL:    tc.sourceURL,
				ScreenshotID: "shot-1",
			})
			if ex.Title != tc.want {
				t.Errorf("Title = %q, want %q", ex.Title, tc.want)
			}
		})
	}
}

func TestNormalize_TypeDefaultsByInput(t *testing.T) {
	urlEx := Normalize(NormalizeInput{SourceURL: "https://example.com", ScreenshotID: "s"})
	if urlEx.Type != TypeApp {
		t.Errorf("URL input type = %q, want %q", urlEx.Type, TypeApp)
	}
	imgEx := Normalize(NormalizeInput{ScreenshotID: "s"})
	if imgEx.Type != TypeScreen {
		t.Errorf("image input type = %q, want %q", imgEx.Type, TypeScreen)
	}
	forced := Normalize(NormalizeInput{Meta: Metadata{Type: TypeFlow}, ScreenshotID: "s"})
	if forced.Type != TypeFlow {
		t.Errorf("caller type = %q, want %q", forced.Type, TypeFlow)
	}
}

func TestNormalize_ComponentDefaults(t *testing.T) {
	ex := Normalize(NormalizeInput{
		Analysis: vision.Analysis{Components: []vision.Component{
			{Name: "Navigation Bar", ComponentType: "Navigation", Tags: []string{"nav"}},
			{ID: "given", Description: "something"},
		}},
		ScreenshotID: "shot-9",
	})
	comps := ex.Screenshots[0].Components
	if len(comps) != 2 {
		t.Fatalf("components = %d, want 2", len(comps))
	}
	if comps[0].ID == "" || !strings.HasPrefix(comps[0].ID, "shot-9-component-") {
		t.Errorf("generated id = %q, want shot-scoped id", comps[0].ID)
	}
	if comps[1].ID != "given" {
		t.Errorf("kept id = %q, want %q", comps[1].ID, "given")
	}
	if comps[1].Name != "Unknown Component" {
		t.Errorf("Name default = %q", comps[1].Name)
	}
	if comps[1].ComponentType != "Other" {
		t.Errorf("ComponentType default = %q", comps[1].ComponentType)
	}
	if comps[0].ID == comps[1].ID {
		t.Error("component ids must be unique within a screenshot")
	}
}

func TestNormalize_FlattensNestedArrays(t *testing.T) {
	// WHAT: Arrays nested inside arrays are spliced into their parent.
	// WHY: The document layout cannot index arrays-of-arrays; the model
	// produces them occasionally.
	ex := Normalize(NormalizeInput{
		Analysis: vision.Analysis{
			Typography: map[string]any{
				"sizes": []any{"12px", []any{"14px", "16px"}},
				"deep":  map[string]any{"weights": []any{[]any{[]any{"400"}}, "700"}},
			},
		},
		ScreenshotID: "shot-1",
	})

	assertNoNestedArrays(t, ex.DesignSystem.Typography)
	sizes, ok := ex.DesignSystem.Typography["sizes"].([]any)
	if !ok || len(sizes) != 3 {
		t.Fatalf("sizes = %#v, want 3 flat entries", ex.DesignSystem.Typography["sizes"])
	}
}

func assertNoNestedArrays(t *testing.T, v any) {
	t.Helper()
	switch vv := v.(type) {
	case map[string]any:
		for _, inner := range vv {
			assertNoNestedArrays(t, inner)
		}
	case []any:
		for _, inner := range vv {
			if _, isArr := inner.([]any); isArr {
				t.Fatalf("nested array survived flattening: %#v", vv)
			}
			assertNoNestedArrays(t, inner)
		}
	}
}

func TestNormalize_MergesStyleSnapshotColors(t *testing.T) {
	ex := Normalize(NormalizeInput{
		Analysis: vision.Analysis{ColorPalette: []vision.PaletteColor{
			{Hex: "#FFFFFF", Usage: "background"},
			{Hex: "#FFFFFF", Usage: "duplicate"},
		}},
		Styles: &capture.StyleSnapshot{
			Colors: []string{"#FFFFFF", "#112233"},
			Fonts:  []string{"Inter, sans-serif"},
			ComponentStyles: map[string]map[string]string{
				"button": {"background-color": "rgb(0, 0, 0)"},
			},
		},
		ScreenshotID: "shot-1",
	})

	ds := ex.DesignSystem
	if len(ds.Colors) != 2 {
		t.Fatalf("Colors = %#v, want palette + one stylesheet color", ds.Colors)
	}
	if ds.Colors[0].Usage != "background" {
		t.Errorf("palette usage = %q", ds.Colors[0].Usage)
	}
	if ds.Colors[1] != (PaletteColor{Hex: "#112233", Usage: "stylesheet"}) {
		t.Errorf("stylesheet color = %#v", ds.Colors[1])
	}
	if len(ds.Fonts) != 1 || ds.Fonts[0] != "Inter, sans-serif" {
		t.Errorf("Fonts = %#v", ds.Fonts)
	}
	if _, ok := ds.ComponentStyles["button"]; !ok {
		t.Error("button styles missing")
	}
}

func TestNormalize_EndToEndScenario(t *testing.T) {
	// The reference scenario: a URL capture of example.com with a
	// minimal model reply and no caller category.
	now := time.Now()
	ex := Normalize(NormalizeInput{
		Analysis: vision.Analysis{
			SuggestedTags: []string{"minimal"},
			ColorPalette:  []vision.PaletteColor{{Hex: "#FFFFFF", Usage: "background"}},
			DesignStyle:   []string{"minimalist"},
		},
		PageTitle:    "Example Domain",
		SourceURL:    "https://example.com",
		ScreenshotID: "shot-1",
		Now:          now,
	})

	if ex.Title != "Example Domain" {
		t.Errorf("Title = %q", ex.Title)
	}
	if !reflect.DeepEqual(ex.Tags, []string{"minimal"}) {
		t.Errorf("Tags = %v", ex.Tags)
	}
	// No caller category, no industryRelevance: designStyle fallback.
	if !reflect.DeepEqual(ex.Category, []string{"minimalist"}) {
		t.Errorf("Category = %v", ex.Category)
	}
	if ex.URL != "https://example.com" {
		t.Errorf("URL = %q", ex.URL)
	}
	if ex.CreatedAt > ex.UpdatedAt {
		t.Errorf("CreatedAt %d > UpdatedAt %d", ex.CreatedAt, ex.UpdatedAt)
	}
	if ex.CreatedAt != now.UnixMilli() {
		t.Errorf("CreatedAt = %d, want %d", ex.CreatedAt, now.UnixMilli())
	}
}
