// Package catalog defines the canonical website-example record and the
// normalization step that turns untrusted analysis output into it.
//
// The record shape is the persistence contract: every field is concrete,
// every slice and map is non-nil after normalization, and nothing nested
// deeper than one array level survives (the document layout cannot index
// arrays-of-arrays reliably).
package catalog

// ExampleType classifies what kind of design a record captures.
type ExampleType string

const (
	TypeApp           ExampleType = "App"
	TypeScreen        ExampleType = "Screen"
	TypeMarketingPage ExampleType = "Marketing Page"
	TypeUIElement     ExampleType = "UI Element"
	TypeFlow          ExampleType = "Flow"
)

// ComponentAnnotation is a labeled UI element detected within a screenshot.
type ComponentAnnotation struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	ComponentType string   `json:"componentType"`
	Tags          []string `json:"tags"`
}

// Screenshot is one captured image plus its component annotations.
// A screenshot belongs to exactly one WebsiteExample.
type Screenshot struct {
	ID          string                `json:"id"`
	ImageURL    string                `json:"imageUrl"`
	AltText     string                `json:"altText"`
	Description string                `json:"description"`
	Components  []ComponentAnnotation `json:"components"`
}

// PaletteColor is one color with its role in the design.
type PaletteColor struct {
	Hex   string `json:"hex"`
	Usage string `json:"usage"`
}

// DesignSystem aggregates the extracted design metadata of an example.
// Typography and Layout stay loosely typed: their shape is whatever the
// analysis produced, normalized to at most one level of array nesting.
type DesignSystem struct {
	Colors             []PaletteColor             `json:"colors"`
	Fonts              []string                   `json:"fonts"`
	ComponentStyles    map[string]map[string]string `json:"componentStyles"`
	Typography         map[string]any             `json:"typography"`
	Layout             map[string]any             `json:"layout"`
	DesignStyle        []string                   `json:"designStyle"`
	AccessibilityNotes string                     `json:"accessibilityNotes"`
	FunctionalPurpose  []string                   `json:"functionalPurpose"`
	UserJourneyStage   string                     `json:"userJourneyStage"`
	IndustryRelevance  []string                   `json:"industryRelevance"`
	UserTasks          []string                   `json:"userTasks"`
}

// WebsiteExample is the canonical persisted record of one analyzed design.
// Once created it is mutable only through explicit Update calls.
type WebsiteExample struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	URL          string       `json:"url"`
	Category     []string     `json:"category"`
	Type         ExampleType  `json:"type"`
	Tags         []string     `json:"tags"`
	Screenshots  []Screenshot `json:"screenshots"`
	DesignSystem DesignSystem `json:"designSystem"`
	CreatedAt    int64        `json:"createdAt"` // unix milliseconds
	UpdatedAt    int64        `json:"updatedAt"` // unix milliseconds
}

// Metadata is caller-supplied context for one ingested design. Every
// field is optional; the normalizer supplies fallbacks.
type Metadata struct {
	Title                 string      `json:"title"`
	Description           string      `json:"description"`
	URL                   string      `json:"url"`
	Category              []string    `json:"category"`
	Type                  ExampleType `json:"type"`
	Tags                  []string    `json:"tags"`
	AltText               string      `json:"altText"`
	ScreenshotDescription string      `json:"screenshotDescription"`
}
