package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"salesorder-service/internal/domain"
)

type MatchCandidate struct {
	Match string  `json:"match"`
	Score float64 `json:"score"`
}

type batchMatchRequest struct {
	Queries []string `json:"queries"`
}

type batchMatchResponse struct {
	Results map[string][]MatchCandidate `json:"results"`
}

type MatchingClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewMatchingClient(baseURL string, timeout time.Duration) *MatchingClient {
	return &MatchingClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// MatchBatch ranks catalog candidates for every query in one call. Candidates are
// returned best first, keyed by the exact query string.
func (c *MatchingClient) MatchBatch(ctx context.Context, queries []string) (map[string][]MatchCandidate, error) {
	payload, err := json.Marshal(batchMatchRequest{Queries: queries})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMatchingFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/match/batch", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMatchingFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMatchingFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(resp.Body)
		return nil, &domain.UpstreamError{
			Service:    "matching service",
			StatusCode: resp.StatusCode,
			Body:       string(text),
			Err:        domain.ErrMatchingFailed,
		}
	}

	var out batchMatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrMatchingFailed, err)
	}
	if out.Results == nil {
		out.Results = map[string][]MatchCandidate{}
	}
	return out.Results, nil
}
