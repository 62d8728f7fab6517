package flights

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

// Offer is one flight option returned by the provider.
type Offer struct {
	OfferRef      string `json:"offer_ref"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Carrier       string `json:"carrier"`
	FlightNumber  string `json:"flight_number"`
	CabinClass    string `json:"cabin_class"`
	PriceCents    int64  `json:"price_cents"`
	Currency      string `json:"currency"`
}

// SearchQuery is a flight search request.
type SearchQuery struct {
	Origin      string
	Destination string
	Date        string
	Passengers  int
}

func (q SearchQuery) CacheKey() string {
	return fmt.Sprintf("flights:%s:%s:%s:%d", q.Origin, q.Destination, q.Date, q.Passengers)
}

// Client talks to the external flight-data provider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.FlightsAPIURL,
		apiKey:  cfg.FlightsAPIKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether the provider is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// Search queries the provider for offers matching q.
func (c *Client) Search(ctx context.Context, q SearchQuery) ([]Offer, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("flight provider is not configured")
	}

	params := url.Values{}
	params.Set("origin", q.Origin)
	params.Set("destination", q.Destination)
	params.Set("date", q.Date)
	params.Set("passengers", strconv.Itoa(q.Passengers))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/offers?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flight provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flight provider returned %d", resp.StatusCode)
	}

	var body struct {
		Offers []Offer `json:"offers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	if body.Offers == nil {
		body.Offers = []Offer{}
	}
	return body.Offers, nil
}
