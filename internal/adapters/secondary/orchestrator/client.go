// Package orchestrator fires flow runs on the external workflow
// orchestrator that owns the training pipeline. The retraining signal is
// fire-and-forget; the orchestrator coalesces duplicate triggers.
package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	log "github.com/sirupsen/logrus"

	"model-gate-service/internal/config"
	ports "model-gate-service/internal/core/ports/output"
)

type Client struct {
	baseURL    string
	deployment string
	httpClient *http.Client
}

func NewClient(cfg *config.OrchestratorConfig) *Client {
	return &Client{
		baseURL:    cfg.URL,
		deployment: cfg.Deployment,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type flowRunRequest struct {
	Parameters map[string]interface{} `json:"parameters"`
}

func (c *Client) TriggerRetraining(ctx context.Context, req ports.RetrainRequest) error {
	payload, err := json.Marshal(flowRunRequest{
		Parameters: map[string]interface{}{
			"trigger_reason":   req.Reason,
			"drift_date":       req.DriftDate,
			"threshold":        req.Threshold,
			"drifted_features": req.DriftedFeatures,
		},
	})
	if err != nil {
		return fmt.Errorf("marshal flow run request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/deployments/%s/create_flow_run",
		c.baseURL, url.PathEscape(c.deployment))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create flow run request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("flow run request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("orchestrator returned %d: %s", resp.StatusCode, body)
	}

	log.WithFields(log.Fields{
		"deployment": c.deployment,
		"drift_date": req.DriftDate,
	}).Info("retraining flow run created")
	return nil
}

var _ ports.RetrainTrigger = (*Client)(nil)
