package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPSearch builds a SearchFunc over the engine's generic registry-gateway
// contract: GET <base>?q=<name> returning {"results":[...]}. The actual
// per-registry protocol translation lives in the gateway deployment, outside
// this engine; every source the gateway exposes speaks this one shape.
func HTTPSearch(base string, client *http.Client) SearchFunc {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return func(ctx context.Context, name string) ([]RawHit, error) {
		endpoint := base + "?q=" + url.QueryEscape(name)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("registry gateway returned %d", resp.StatusCode)
		}

		var body struct {
			Results []RawHit `json:"results"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("malformed registry response: %v", err)
		}
		return body.Results, nil
	}
}
