package stays

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tripsage/config"
)

// Offer is one lodging option returned by the provider.
type Offer struct {
	OfferRef         string  `json:"offer_ref"`
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Destination      string  `json:"destination"`
	CheckIn          string  `json:"check_in"`
	CheckOut         string  `json:"check_out"`
	NightlyCents     int64   `json:"nightly_cents"`
	TotalCents       int64   `json:"total_cents"`
	Currency         string  `json:"currency"`
	Rating           float64 `json:"rating"`
	CancellationFree bool    `json:"cancellation_free"`
}

type SearchQuery struct {
	Destination string
	CheckIn     string
	CheckOut    string
	Guests      int
}

func (q SearchQuery) CacheKey() string {
	return fmt.Sprintf("stays:%s:%s:%s:%d", q.Destination, q.CheckIn, q.CheckOut, q.Guests)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.StaysAPIURL,
		apiKey:  cfg.StaysAPIKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Enabled() bool {
	return c.baseURL != "" && c.apiKey != ""
}

func (c *Client) Search(ctx context.Context, q SearchQuery) ([]Offer, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("accommodation provider is not configured")
	}

	params := url.Values{}
	params.Set("destination", q.Destination)
	params.Set("check_in", q.CheckIn)
	params.Set("check_out", q.CheckOut)
	params.Set("guests", strconv.Itoa(q.Guests))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/properties?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("accommodation provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("accommodation provider returned %d", resp.StatusCode)
	}

	var body struct {
		Properties []Offer `json:"properties"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	if body.Properties == nil {
		body.Properties = []Offer{}
	}
	return body.Properties, nil
}
