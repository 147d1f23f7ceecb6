// Package scoring talks to the external scoring service, which loads a
// model bundle, runs it over a test dataset and reports the held-out
// metric. The gate stays agnostic of the concrete learner behind the
// bundle.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"model-gate-service/internal/config"
	ports "model-gate-service/internal/core/ports/output"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.ScorerConfig) *Client {
	return &Client{
		baseURL: cfg.URL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type scoreRequest struct {
	ModelURI       string `json:"model_uri"`
	TestDatasetURI string `json:"test_dataset_uri"`
}

type scoreResponse struct {
	Metric          float64 `json:"metric"`
	DatasetChecksum string  `json:"dataset_checksum"`
}

func (c *Client) Score(ctx context.Context, artifactLocation, testDatasetRef string) (*ports.ScoreResult, error) {
	payload, err := json.Marshal(scoreRequest{
		ModelURI:       artifactLocation,
		TestDatasetURI: testDatasetRef,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal score request: %w", err)
	}

	url := c.baseURL + "/v1/score"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.WithFields(log.Fields{
		"model_uri":    artifactLocation,
		"test_dataset": testDatasetRef,
	}).Debug("scoring model")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("score request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("scorer returned %d: %s", resp.StatusCode, body)
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode score response: %w", err)
	}

	return &ports.ScoreResult{
		Metric:          out.Metric,
		DatasetChecksum: out.DatasetChecksum,
	}, nil
}

var _ ports.ModelScorer = (*Client)(nil)
