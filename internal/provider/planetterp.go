package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// PlanetTerpClient fetches professor quality ratings from the PlanetTerp API.
type PlanetTerpClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	observe    func(provider string, duration time.Duration)
}

// NewPlanetTerp constructs a PlanetTerp client. observe may be nil.
func NewPlanetTerp(baseURL string, timeout time.Duration, logger *zap.Logger, observe func(string, time.Duration)) *PlanetTerpClient {
	if baseURL == "" {
		baseURL = "https://planetterp.com/api/v1"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanetTerpClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		observe:    observe,
	}
}

type planetTerpProfessor struct {
	Name          string   `json:"name"`
	AverageRating *float64 `json:"average_rating"`
	Error         string   `json:"error"`
}

// GetRating returns the professor's average rating. ok is false when the
// professor is unknown or has no reviews; that is a valid answer, never an
// error.
func (c *PlanetTerpClient) GetRating(ctx context.Context, name string) (float64, bool, error) {
	endpoint := fmt.Sprintf("%s/professor?%s", c.baseURL, url.Values{"name": {name}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, false, fmt.Errorf("build rating request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.observe != nil {
		c.observe("planetterp", time.Since(start))
	}
	if err != nil {
		return 0, false, fmt.Errorf("fetch rating for %s: %w", name, err)
	}
	defer resp.Body.Close()

	// Unknown professors come back as an error body, typically with a 400.
	var wire planetTerpProfessor
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return 0, false, fmt.Errorf("decode rating for %s: %w", name, err)
	}
	if wire.Error != "" || resp.StatusCode != http.StatusOK {
		return 0, false, nil
	}
	if wire.AverageRating == nil {
		return 0, false, nil
	}
	return *wire.AverageRating, true, nil
}
