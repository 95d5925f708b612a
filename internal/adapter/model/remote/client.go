// Package remote scores trips through an HTTP model server.
//
//	POST {base}/predict  {"columns": [...], "rows": [[...]]}  ->  {"predictions": [x]}
//	GET  {base}/health   ->  {"status": "ok", "name": "...", "version": "..."}
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
)

type Client struct {
	baseURL string
	client  *http.Client
	info    models.ModelInfo
}

type (
	predictRequest struct {
		Columns []string    `json:"columns"`
		Rows    [][]float64 `json:"rows"`
	}

	predictResponse struct {
		Predictions []float64 `json:"predictions"`
	}

	healthResponse struct {
		Status       string   `json:"status"`
		Name         string   `json:"name"`
		Version      string   `json:"version"`
		FeatureNames []string `json:"feature_names"`
	}
)

// Open probes the model server and returns a client bound to it. A server
// that is unreachable or unhealthy is reported as ErrModelUnavailable.
func Open(ctx context.Context, baseURL string, timeout time.Duration) (*Client, error) {
	const op = "remote.Open"

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create health request: %w", op, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, types.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w: health returned status %d", op, types.ErrModelUnavailable, resp.StatusCode)
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("%s: failed to decode health response: %w", op, err)
	}
	if !strings.EqualFold(health.Status, "ok") {
		return nil, fmt.Errorf("%s: %w: model server status %q", op, types.ErrModelUnavailable, health.Status)
	}
	if len(health.FeatureNames) > 0 && !slices.Equal(health.FeatureNames, models.FeatureNames()) {
		return nil, fmt.Errorf("%s: %w: server expects %v", op, types.ErrSchemaMismatch, health.FeatureNames)
	}

	c.info = models.ModelInfo{
		Name:         health.Name,
		Version:      health.Version,
		FeatureNames: models.FeatureNames(),
	}
	return c, nil
}

func (c *Client) Predict(ctx context.Context, row models.FeatureRow) (float64, error) {
	body, err := json.Marshal(predictRequest{
		Columns: row.Names,
		Rows:    [][]float64{row.Values},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewBuffer(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("model server request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("model server returned status: %d", resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode predict response: %w", err)
	}
	if len(out.Predictions) != 1 {
		return 0, fmt.Errorf("model server returned %d predictions for 1 row", len(out.Predictions))
	}

	return out.Predictions[0], nil
}

func (c *Client) Info() models.ModelInfo {
	return c.info
}

func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
