package jupiter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://lite-api.jup.ag"

// TokenStats24h holds the 24h trading statistics of a token.
type TokenStats24h struct {
	PriceChange float64 `json:"priceChange"`
	BuyVolume   float64 `json:"buyVolume"`
}

// TokenData is one entry from the Jupiter token search API.
type TokenData struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Symbol       string        `json:"symbol"`
	UsdPrice     float64       `json:"usdPrice"`
	Mcap         float64       `json:"mcap"`
	BondingCurve float64       `json:"bondingCurve"`
	Stats24h     TokenStats24h `json:"stats24h"`
}

// Client queries the Jupiter lite API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Jupiter API client. An empty baseURL uses the
// public lite endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				IdleConnTimeout:       10 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 15 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

// SearchByMints does one batch lookup for up to 100 mint addresses. Mints
// unknown to Jupiter are simply absent from the result; that is not an
// error.
func (c *Client) SearchByMints(ctx context.Context, mints []string) ([]TokenData, error) {
	if len(mints) == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Add("query", strings.Join(mints, ","))
	fullURL := fmt.Sprintf("%s/tokens/v2/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jupiter API returned status %d", resp.StatusCode)
	}

	var tokens []TokenData
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("failed to decode JSON response: %w", err)
	}
	return tokens, nil
}
