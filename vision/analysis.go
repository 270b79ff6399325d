package vision

import (
	"encoding/json"
	"fmt"
)

// Component is one annotated UI element from the model reply.
type Component struct {
	ID            string
	Name          string
	Description   string
	ComponentType string
	Tags          []string
}

// PaletteColor is one palette entry. The model sometimes returns bare
// color strings instead of {hex, usage} objects; both decode.
type PaletteColor struct {
	Hex   string
	Usage string
}

// Analysis is the parsed, unvalidated model reply. Every field may be
// absent or empty; consumers must never assume presence. Slices are
// never nil after ParseAnalysis, but may be empty.
type Analysis struct {
	Components         []Component
	ColorPalette       []PaletteColor
	Typography         map[string]any
	Layout             map[string]any
	DesignStyle        []string
	AccessibilityNotes string
	DesignPatterns     []string
	FunctionalPurpose  []string
	UserJourneyStage   string
	IndustryRelevance  []string
	UserTasks          []string
	SuggestedTags      []string
}

// ParseAnalysis decodes a model reply. The only fatal condition is "not
// a JSON object": individual fields with unexpected shapes are dropped,
// matching the contract that nothing downstream trusts field presence.
func ParseAnalysis(data []byte) (*Analysis, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	a := &Analysis{
		Components:         decodeComponents(raw["components"]),
		ColorPalette:       decodePalette(raw["colorPalette"]),
		Typography:         decodeObject(raw["typography"]),
		Layout:             decodeObject(raw["layout"]),
		DesignStyle:        decodeStringList(raw["designStyle"]),
		AccessibilityNotes: decodeString(raw["accessibilityNotes"]),
		DesignPatterns:     decodeStringList(raw["designPatterns"]),
		FunctionalPurpose:  decodeStringList(raw["functionalPurpose"]),
		UserJourneyStage:   decodeString(raw["userJourneyStage"]),
		IndustryRelevance:  decodeStringList(raw["industryRelevance"]),
		UserTasks:          decodeStringList(raw["userTasks"]),
		SuggestedTags:      decodeStringList(raw["suggestedTags"]),
	}
	return a, nil
}

func decodeString(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// Observed failure mode: a one-element array where a string was asked.
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}

// decodeStringList accepts an array of strings, tolerating nested
// arrays (flattened one level) and non-string entries (dropped). A bare
// string becomes a one-element list.
func decodeStringList(raw json.RawMessage) []string {
	out := []string{}
	if raw == nil {
		return out
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s != "" {
			out = append(out, s)
		}
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, item := range items {
		var str string
		if err := json.Unmarshal(item, &str); err == nil {
			if str != "" {
				out = append(out, str)
			}
			continue
		}
		var nested []string
		if err := json.Unmarshal(item, &nested); err == nil {
			for _, n := range nested {
				if n != "" {
					out = append(out, n)
				}
			}
		}
	}
	return out
}

func decodeObject(raw json.RawMessage) map[string]any {
	out := map[string]any{}
	if raw == nil {
		return out
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return out
	}
	return m
}

func decodeComponents(raw json.RawMessage) []Component {
	out := []Component{}
	if raw == nil {
		return out
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, item := range items {
		out = append(out, Component{
			ID:            decodeString(item["id"]),
			Name:          decodeString(item["name"]),
			Description:   decodeString(item["description"]),
			ComponentType: decodeString(item["componentType"]),
			Tags:          decodeStringList(item["tags"]),
		})
	}
	return out
}

func decodePalette(raw json.RawMessage) []PaletteColor {
	out := []PaletteColor{}
	if raw == nil {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, item := range items {
		// Object form first, then the bare-string form.
		var obj struct {
			Hex   string `json:"hex"`
			Usage string `json:"usage"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.Hex != "" {
			out = append(out, PaletteColor{Hex: obj.Hex, Usage: obj.Usage})
			continue
		}
		var s string
		if err := json.Unmarshal(item, &s); err == nil && s != "" {
			out = append(out, PaletteColor{Hex: s})
		}
	}
	return out
}
