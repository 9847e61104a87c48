package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRegistry_SkipsUnconfiguredSources(t *testing.T) {
	noop := canned(nil, nil)

	if got := Registry(Clients{}); len(got) != 0 {
		t.Fatalf("empty clients should yield an empty registry, got %d", len(got))
	}

	list := Registry(Clients{SanctionsSearch: noop, RegistryUK: noop})
	if len(list) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(list))
	}
	names := map[string]bool{}
	for _, p := range list {
		names[p.Name()] = true
	}
	if !names["consolidated-sanctions"] || !names["corporate-registry-uk"] {
		t.Fatalf("unexpected provider set %v", names)
	}
}

func TestHTTPSearch_GatewayContract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "acme trading ltd" {
			t.Errorf("query = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": []RawHit{{Name: "ACME TRADING LTD", Score: 0.92, Datasets: []string{"sdn"}}},
		})
	}))
	defer srv.Close()

	search := HTTPSearch(srv.URL, srv.Client())
	hits, err := search(context.Background(), "acme trading ltd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].Name != "ACME TRADING LTD" || hits[0].Score != 0.92 {
		t.Fatalf("unexpected hits %+v", hits)
	}
}

func TestHTTPSearch_NonOKStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	search := HTTPSearch(srv.URL, srv.Client())
	if _, err := search(context.Background(), "x"); err == nil {
		t.Fatal("expected an error for a 503 response")
	}
}

func TestHTTPSearch_MalformedBodyIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	search := HTTPSearch(srv.URL, srv.Client())
	if _, err := search(context.Background(), "x"); err == nil {
		t.Fatal("expected an error for a non-JSON response")
	}
}
