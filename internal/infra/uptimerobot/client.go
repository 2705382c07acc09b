package uptimerobot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/uptime-status/internal/domain/monitor"
)

const (
	maxResponseBytes  = 16 << 20
	maxErrorBodyBytes = 256
)

// Client calls the UptimeRobot getMonitors endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds an API client. baseURL is used as a prefix, e.g. "https://api.uptimerobot.com/v3/".
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: base,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetMonitors returns the raw getMonitors body for the given window.
// The API key travels in a header so it never appears in URLs or access logs.
func (c *Client) GetMonitors(ctx context.Context, q monitor.Query) ([]byte, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("logs", "1")
	params.Set("log_types", "1-2")
	params.Set("logs_start_date", strconv.FormatInt(q.LogsStartDate, 10))
	params.Set("logs_end_date", strconv.FormatInt(q.LogsEndDate, 10))
	params.Set("custom_uptime_ranges", q.CustomRanges)
	endpoint := c.baseURL + "getMonitors?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build getMonitors request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("getMonitors request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("getMonitors request error: status=%d body=%s", resp.StatusCode, errorSnippet(resp.Body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read getMonitors response: %w", err)
	}

	var status statusEnvelope
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("decode getMonitors response: %w", err)
	}
	if status.Stat != "" && status.Stat != statOK {
		return nil, fmt.Errorf("uptimerobot api error: %s", status.Error.describe())
	}
	return body, nil
}

// errorSnippet returns a single-line prefix of an error body for the client-facing message.
func errorSnippet(body io.Reader) string {
	payload, _ := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes+1))
	truncated := len(payload) > maxErrorBodyBytes
	if truncated {
		payload = payload[:maxErrorBodyBytes]
	}
	text := strings.Join(strings.Fields(strings.ToValidUTF8(string(payload), "")), " ")
	if truncated {
		text += "..."
	}
	return text
}

var _ monitor.UpstreamClient = (*Client)(nil)
