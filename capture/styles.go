package capture

import (
	"context"
	"regexp"
	"sort"

	"github.com/go-rod/rod"
)

// colorLiteral accepts hex, rgb() and rgba() literals; everything else
// (var(), named colors, gradients) is ignored.
var colorLiteral = regexp.MustCompile(
	`^(#([0-9a-fA-F]{3}){1,2}|rgb\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}\s*\)|rgba\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d*(?:\.\d+)?\s*\))$`,
)

// extractStyles reads colors, font families, and representative
// component styles from the live page. It never fails: cross-origin
// stylesheets are skipped in-page, and any evaluation error just leaves
// that part of the snapshot empty.
func (c *Capturer) extractStyles(ctx context.Context, page *rod.Page) *StyleSnapshot {
	log := c.cfg.Logger
	snap := &StyleSnapshot{
		Colors:          []string{},
		Fonts:           []string{},
		ComponentStyles: map[string]map[string]string{},
	}

	p := page.Context(ctx)

	if colors, err := evalStringList(p, jsExtractColors); err != nil {
		log.Warn("capture: color extraction failed", "error", err)
	} else {
		snap.Colors = filterColors(colors)
	}

	if fonts, err := evalStringList(p, jsExtractFonts); err != nil {
		log.Warn("capture: font extraction failed", "error", err)
	} else {
		snap.Fonts = dedupSorted(fonts)
	}

	if styles, err := evalComponentStyles(p); err != nil {
		log.Warn("capture: component style extraction failed", "error", err)
	} else {
		snap.ComponentStyles = styles
	}

	return snap
}

func evalStringList(page *rod.Page, js string) ([]string, error) {
	res, err := page.Eval(js)
	if err != nil {
		return nil, err
	}
	arr := res.Value.Arr()
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s := v.Str(); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func evalComponentStyles(page *rod.Page) (map[string]map[string]string, error) {
	res, err := page.Eval(jsExtractComponentStyles)
	if err != nil {
		return nil, err
	}
	out := map[string]map[string]string{}
	for role, props := range res.Value.Map() {
		rp := map[string]string{}
		for k, v := range props.Map() {
			rp[k] = v.Str()
		}
		out[role] = rp
	}
	return out, nil
}

func filterColors(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, c := range in {
		if !colorLiteral.MatchString(c) {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func dedupSorted(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// The in-page collectors. Each wraps stylesheet access in try/catch so a
// cross-origin sheet skips silently instead of aborting the walk.

const jsExtractColors = `() => {
	const out = new Set();
	const props = ['color', 'background-color', 'border-color'];
	for (const sheet of Array.from(document.styleSheets)) {
		let rules;
		try { rules = sheet.cssRules; } catch (e) { continue; }
		for (const rule of Array.from(rules || [])) {
			if (!(rule instanceof CSSStyleRule)) continue;
			for (const prop of props) {
				const v = rule.style.getPropertyValue(prop).trim();
				if (v) out.add(v);
			}
		}
	}
	return Array.from(out);
}`

const jsExtractFonts = `() => {
	const out = new Set();
	for (const sheet of Array.from(document.styleSheets)) {
		let rules;
		try { rules = sheet.cssRules; } catch (e) { continue; }
		for (const rule of Array.from(rules || [])) {
			if (!(rule instanceof CSSStyleRule)) continue;
			const v = rule.style.getPropertyValue('font-family').trim();
			if (v) out.add(v);
		}
	}
	return Array.from(out);
}`

const jsExtractComponentStyles = `() => {
	const pick = (el, props) => {
		const cs = window.getComputedStyle(el);
		const out = {};
		for (const p of props) out[p] = cs.getPropertyValue(p);
		return out;
	};
	const roles = {
		button: {
			selector: 'button, .btn, [class*="button"]',
			props: ['background-color', 'color', 'border-radius', 'padding', 'font-size', 'font-weight'],
		},
		input: {
			selector: 'input[type="text"], input[type="email"], input:not([type])',
			props: ['background-color', 'color', 'border-radius', 'border-color', 'padding', 'font-size'],
		},
		card: {
			selector: '.card, [class*="card"]',
			props: ['background-color', 'border-radius', 'box-shadow', 'padding'],
		},
	};
	const out = {};
	for (const [role, def] of Object.entries(roles)) {
		const el = document.querySelector(def.selector);
		if (el) out[role] = pick(el, def.props);
	}
	return out;
}`
