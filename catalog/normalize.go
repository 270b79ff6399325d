package catalog

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sitelens/sitelens/capture"
	"github.com/sitelens/sitelens/vision"
)

// NormalizeInput carries everything the normalizer merges into one draft.
// Analysis fields are untrusted (any of them may be absent); Styles is
// optional and only present for URL captures.
type NormalizeInput struct {
	Analysis vision.Analysis
	Styles   *capture.StyleSnapshot
	Meta     Metadata

	// PageTitle is the document title read during capture, if any.
	PageTitle string
	// SourceURL is the navigated URL for URL inputs, "" for images.
	SourceURL string
	// ScreenshotID is the freshly generated id for the single screenshot.
	ScreenshotID string
	// Now stamps createdAt/updatedAt. Zero means time.Now.
	Now time.Time
}

// Normalize merges an analysis result, an optional style snapshot, and
// caller metadata into a WebsiteExample draft. It is a pure transform:
// no I/O, no id generation beyond filling missing component ids, and
// every optional field resolves to its empty value rather than nil.
//
// The draft's screenshot has no ImageURL yet; the pipeline sets it after
// the upload completes, and the store refuses records without it.
func Normalize(in NormalizeInput) WebsiteExample {
	a := in.Analysis
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	ts := now.UnixMilli()

	title := firstNonEmpty(in.Meta.Title, in.PageTitle, hostOf(in.SourceURL), "Untitled design")
	description := in.Meta.Description
	if description == "" {
		description = fmt.Sprintf("Design analysis of %s", title)
	}

	sourceURL := firstNonEmpty(in.Meta.URL, in.SourceURL)

	// Caller intent overrides inferred intent: caller category first,
	// then the model's industry guess, then its style labels.
	category := firstNonEmptyList(in.Meta.Category, a.IndustryRelevance, a.DesignStyle)

	typ := in.Meta.Type
	if typ == "" {
		if in.SourceURL != "" {
			typ = TypeApp
		} else {
			typ = TypeScreen
		}
	}

	tags := dedupTags(
		a.SuggestedTags,
		a.DesignPatterns,
		a.FunctionalPurpose,
		a.UserTasks,
		wrap(a.UserJourneyStage),
		in.Meta.Tags,
	)

	shot := Screenshot{
		ID:          in.ScreenshotID,
		AltText:     firstNonEmpty(in.Meta.AltText, fmt.Sprintf("Screenshot of %s", title)),
		Description: firstNonEmpty(in.Meta.ScreenshotDescription, fmt.Sprintf("Screenshot of %s", title)),
		Components:  normalizeComponents(a.Components, in.ScreenshotID),
	}

	ds := DesignSystem{
		Colors:             mergeColors(a.ColorPalette, in.Styles),
		Fonts:              snapshotFonts(in.Styles),
		ComponentStyles:    snapshotComponentStyles(in.Styles),
		Typography:         flattenMap(a.Typography),
		Layout:             flattenMap(a.Layout),
		DesignStyle:        compact(a.DesignStyle),
		AccessibilityNotes: a.AccessibilityNotes,
		FunctionalPurpose:  compact(a.FunctionalPurpose),
		UserJourneyStage:   a.UserJourneyStage,
		IndustryRelevance:  compact(a.IndustryRelevance),
		UserTasks:          compact(a.UserTasks),
	}

	return WebsiteExample{
		Title:        title,
		Description:  description,
		URL:          sourceURL,
		Category:     category,
		Type:         typ,
		Tags:         tags,
		Screenshots:  []Screenshot{shot},
		DesignSystem: ds,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
}

func normalizeComponents(comps []vision.Component, screenshotID string) []ComponentAnnotation {
	out := make([]ComponentAnnotation, 0, len(comps))
	for i, c := range comps {
		id := c.ID
		if id == "" {
			// Unique within the screenshot; never reused.
			id = fmt.Sprintf("%s-component-%d", screenshotID, i+1)
		}
		out = append(out, ComponentAnnotation{
			ID:            id,
			Name:          firstNonEmpty(c.Name, "Unknown Component"),
			Description:   c.Description,
			ComponentType: firstNonEmpty(c.ComponentType, "Other"),
			Tags:          compact(c.Tags),
		})
	}
	return out
}

// mergeColors unions the model palette with stylesheet colors from the
// live page. Stylesheet colors the model did not mention are appended
// with usage "stylesheet". Dedup is exact-match on the color value.
func mergeColors(palette []vision.PaletteColor, snap *capture.StyleSnapshot) []PaletteColor {
	out := make([]PaletteColor, 0, len(palette))
	seen := make(map[string]struct{}, len(palette))
	for _, p := range palette {
		if p.Hex == "" {
			continue
		}
		if _, ok := seen[p.Hex]; ok {
			continue
		}
		seen[p.Hex] = struct{}{}
		out = append(out, PaletteColor{Hex: p.Hex, Usage: p.Usage})
	}
	if snap != nil {
		for _, c := range snap.Colors {
			if c == "" {
				continue
			}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, PaletteColor{Hex: c, Usage: "stylesheet"})
		}
	}
	return out
}

func snapshotFonts(snap *capture.StyleSnapshot) []string {
	if snap == nil {
		return []string{}
	}
	return compact(snap.Fonts)
}

func snapshotComponentStyles(snap *capture.StyleSnapshot) map[string]map[string]string {
	if snap == nil || snap.ComponentStyles == nil {
		return map[string]map[string]string{}
	}
	out := make(map[string]map[string]string, len(snap.ComponentStyles))
	for role, props := range snap.ComponentStyles {
		cp := make(map[string]string, len(props))
		for k, v := range props {
			cp[k] = v
		}
		out[role] = cp
	}
	return out
}

// dedupTags concatenates tag sources in order, drops empty strings, and
// removes exact duplicates (first occurrence wins). Dedup is
// case-sensitive on purpose; "E-commerce" and "e-commerce" are distinct.
func dedupTags(lists ...[]string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, list := range lists {
		for _, t := range list {
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// flattenMap walks a loosely typed object and flattens any
// array-of-arrays by one level. Values the walk does not recognise pass
// through untouched. Always returns a non-nil map.
func flattenMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = flattenValue(v)
	}
	return out
}

func flattenValue(v any) any {
	switch vv := v.(type) {
	case []any:
		return flattenSlice(vv)
	case map[string]any:
		return flattenMap(vv)
	default:
		return v
	}
}

// flattenSlice splices nested arrays into their parent, one level per
// pass, recursing so no output contains an array directly inside an
// array. Equivalent to repeated Array.flat(1) until stable.
func flattenSlice(s []any) []any {
	out := make([]any, 0, len(s))
	for _, v := range s {
		switch vv := v.(type) {
		case []any:
			for _, inner := range flattenSlice(vv) {
				out = append(out, inner)
			}
		case map[string]any:
			out = append(out, flattenMap(vv))
		default:
			out = append(out, v)
		}
	}
	return out
}

// compact copies a string list dropping empties, never returning nil.
func compact(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func wrap(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

func firstNonEmptyList(candidates ...[]string) []string {
	for _, c := range candidates {
		if len(c) > 0 {
			return append([]string{}, c...)
		}
	}
	return []string{}
}

func hostOf(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}
