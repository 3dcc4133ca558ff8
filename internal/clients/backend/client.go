package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"max.ks1230/fintrack-ml/internal/model/health"
)

type config interface {
	URL() string
}

// Client pulls per-user financial metrics from the main backend service.
type Client struct {
	http *retryablehttp.Client
	url  string
}

func New(cfg config) *Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = nil
	return &Client{
		http: client,
		url:  cfg.URL(),
	}
}

// UserMetrics fetches the metrics used for health scoring.
func (c *Client) UserMetrics(ctx context.Context, userID string) (health.Metrics, error) {
	url := fmt.Sprintf("%s/internal/users/%s/metrics", c.url, userID)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return health.Metrics{}, errors.Wrap(err, "build metrics request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return health.Metrics{}, errors.Wrap(err, "fetch user metrics")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return health.Metrics{}, errors.Errorf("fetch user metrics: status %d", resp.StatusCode)
	}

	var m health.Metrics
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return health.Metrics{}, errors.Wrap(err, "decode user metrics")
	}
	return m, nil
}
