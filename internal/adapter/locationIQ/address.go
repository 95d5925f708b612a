package locationIQ

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
)

var ErrLocationNotFound = errors.New("location not found")

const DefaultBaseURL = "https://us1.locationiq.com"

type LocationIQClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func New(apiKey, baseURL string, timeout time.Duration) *LocationIQClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &LocationIQClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type AddressPayload struct {
	Address string `json:"display_name"`
}

// GetAddress reverse geocodes a point to its display name.
func (c *LocationIQClient) GetAddress(ctx context.Context, longitude, latitude float64) (string, error) {
	const op = "LocationIQClient.GetAddress"

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("lat", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", wrap.Error(ctx, fmt.Errorf("%s: build request: %w", op, err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return "", wrap.Error(ctx, fmt.Errorf("%s: failed to make request to LocationIQ: %w", op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", wrap.Error(ctx, fmt.Errorf("%s: %w", op, ErrLocationNotFound))
	}
	if resp.StatusCode != http.StatusOK {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return "", wrap.Error(ctx, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode))
	}

	var payload AddressPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		ctx = wrap.WithAction(ctx, "decode_address_payload")
		return "", wrap.Error(ctx, fmt.Errorf("%s: failed to decode data from LocationIQ response: %w", op, err))
	}
	if payload.Address == "" {
		return "", wrap.Error(ctx, fmt.Errorf("%s: %w", op, ErrLocationNotFound))
	}

	return payload.Address, nil
}
