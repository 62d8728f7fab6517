package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tripsage/config"
)

// ProviderMessage is one turn in the provider's chat-completion format.
type ProviderMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client talks to the external AI chat-completion provider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.AIAPIURL,
		apiKey:  cfg.AIAPIKey,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Enabled() bool {
	return c.baseURL != "" && c.apiKey != ""
}

const systemPrompt = "You are TripSage, a travel planning assistant. " +
	"Help the user plan trips: destinations, itineraries, flights and accommodation. " +
	"Be concise and concrete."

// Complete sends the conversation history and returns the assistant
// reply text.
func (c *Client) Complete(ctx context.Context, history []ProviderMessage) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("AI provider is not configured")
	}

	payload := struct {
		Messages []ProviderMessage `json:"messages"`
	}{
		Messages: append([]ProviderMessage{{Role: "system", Content: systemPrompt}}, history...),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode provider request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("AI provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI provider returned %d", resp.StatusCode)
	}

	var out struct {
		Choices []struct {
			Message ProviderMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode provider response: %w", err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("AI provider returned no completion")
	}
	return out.Choices[0].Message.Content, nil
}
