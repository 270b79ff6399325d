package vision

import (
	"context"
	"encoding/json"
	"fmt"
)

// Site is one discovered website.
type Site struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Discover asks the text model for the top websites in an industry.
// The reply is unwrapped tolerantly: the "websites" key is preferred,
// but any array of {url, description} objects in the reply is accepted.
func (c *Client) Discover(ctx context.Context, industry string, count int) ([]Site, error) {
	if industry == "" {
		return nil, fmt.Errorf("%w: empty industry", ErrRequestFailed)
	}
	if count <= 0 {
		count = 10
	}

	req := chatRequest{
		Model: c.cfg.DiscoverModel,
		Messages: []chatMessage{{
			Role:    "user",
			Content: fmt.Sprintf(discoverPrompt, count, industry),
		}},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	reply, err := c.complete(ctx, req)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(reply), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if sites, ok := decodeSites(raw["websites"]); ok {
		return sites, nil
	}
	for _, v := range raw {
		if sites, ok := decodeSites(v); ok {
			return sites, nil
		}
	}
	return nil, fmt.Errorf("%w: no website list in reply", ErrMalformedResponse)
}

func decodeSites(raw json.RawMessage) ([]Site, bool) {
	if raw == nil {
		return nil, false
	}
	var sites []Site
	if err := json.Unmarshal(raw, &sites); err != nil {
		return nil, false
	}
	out := make([]Site, 0, len(sites))
	for _, s := range sites {
		if s.URL != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
