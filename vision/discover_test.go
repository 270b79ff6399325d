package vision

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"testing"
)

func TestDiscover_WebsitesKey(t *testing.T) {
	var got chatRequest
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &got)
		io.WriteString(w, modelReply(`{"websites": [
			{"url": "https://stripe.com", "description": "Payments"},
			{"url": "https://linear.app", "description": "Issue tracking"}
		]}`))
	})

	sites, err := c.Discover(context.Background(), "SaaS", 2)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []Site{
		{URL: "https://stripe.com", Description: "Payments"},
		{URL: "https://linear.app", Description: "Issue tracking"},
	}
	if !reflect.DeepEqual(sites, want) {
		t.Errorf("sites = %+v, want %+v", sites, want)
	}

	// Discovery is text-only: the message content is a plain string.
	if _, ok := got.Messages[0].Content.(string); !ok {
		t.Errorf("content = %#v, want string prompt", got.Messages[0].Content)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v", got.ResponseFormat)
	}
}

func TestDiscover_UnwrapsAnyListKey(t *testing.T) {
	// Models occasionally pick their own wrapper key; any value that
	// decodes to a non-empty site list is accepted.
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, modelReply(`{"results": [{"url": "https://example.com", "description": "d"}]}`))
	})
	sites, err := c.Discover(context.Background(), "retail", 0)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(sites) != 1 || sites[0].URL != "https://example.com" {
		t.Errorf("sites = %+v", sites)
	}
}

func TestDiscover_DropsSitesWithoutURL(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, modelReply(`{"websites": [
			{"description": "no url"},
			{"url": "https://example.com"}
		]}`))
	})
	sites, err := c.Discover(context.Background(), "retail", 5)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(sites) != 1 {
		t.Errorf("sites = %+v, want the url-less entry dropped", sites)
	}
}

func TestDiscover_NoListInReply(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, modelReply(`{"note": "try again later"}`))
	})
	if _, err := c.Discover(context.Background(), "retail", 5); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestDiscover_EmptyIndustry(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request sent for empty industry")
	})
	if _, err := c.Discover(context.Background(), "", 5); !errors.Is(err, ErrRequestFailed) {
		t.Errorf("error = %v, want ErrRequestFailed", err)
	}
}
