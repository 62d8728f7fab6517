package flights

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tripsage/config"
)

func testClient(url string) *Client {
	return NewClient(&config.Config{FlightsAPIURL: url, FlightsAPIKey: "test-key"})
}

func TestSearchDecodesOffers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing bearer key, got %q", got)
		}
		if got := r.URL.Query().Get("origin"); got != "LIS" {
			t.Errorf("expected origin LIS, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"offers":[{"offer_ref":"of_1","origin":"LIS","destination":"NRT","carrier":"TP","flight_number":"TP342","price_cents":84500,"currency":"EUR"}]}`))
	}))
	defer srv.Close()

	offers, err := testClient(srv.URL).Search(context.Background(), SearchQuery{
		Origin: "LIS", Destination: "NRT", Date: "2026-05-01", Passengers: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(offers))
	}
	if offers[0].PriceCents != 84500 {
		t.Fatalf("expected price 84500, got %d", offers[0].PriceCents)
	}
}

func TestSearchProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Search(context.Background(), SearchQuery{
		Origin: "LIS", Destination: "NRT", Date: "2026-05-01", Passengers: 1,
	})
	if err == nil {
		t.Fatal("expected error on provider 500")
	}
}

func TestSearchNotConfigured(t *testing.T) {
	c := NewClient(&config.Config{})
	if c.Enabled() {
		t.Fatal("client without keys should be disabled")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := c.Search(ctx, SearchQuery{}); err == nil {
		t.Fatal("expected error from unconfigured client")
	}
}

func TestCacheKeyIncludesAllFields(t *testing.T) {
	a := SearchQuery{Origin: "LIS", Destination: "NRT", Date: "2026-05-01", Passengers: 1}.CacheKey()
	b := SearchQuery{Origin: "LIS", Destination: "NRT", Date: "2026-05-01", Passengers: 2}.CacheKey()
	if a == b {
		t.Fatal("cache keys must differ by passenger count")
	}
}
