package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client reads the project/area registry. The commerce core only needs the
// list of areas in scope for a project, which seeds rough estimates.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 3 * time.Second,
		},
	}
}

type areasResponse struct {
	Areas []Area `json:"areas"`
}

type Area struct {
	Name     string `json:"name"`
	BaseRate int64  `json:"base_rate"` // paise, per-area design rate
}

func (c *Client) ListAreas(ctx context.Context, projectID uuid.UUID) ([]Area, error) {
	endpoint := fmt.Sprintf("%s/projects/%s/areas", c.baseURL, projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry lookup failed: status %d", resp.StatusCode)
	}

	var out areasResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode areas: %w", err)
	}

	return out.Areas, nil
}
