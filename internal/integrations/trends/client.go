/**
 * @description
 * Search-trend client. Talks to a self-hosted trends proxy (a thin wrapper
 * over Google Trends) and returns interest-over-time for a company.
 *
 * @dependencies
 * - net/http
 * - encoding/json
 * - backend/internal/config
 */

package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hypetrack/backend/internal/config"
)

const (
	requestTimeout = 15 * time.Second
	defaultWindow  = "today 3-m"
)

// Interest is the proxy's interest-over-time summary for one keyword.
type Interest struct {
	Keyword       string    `json:"keyword"`
	TrendScore    float64   `json:"trend_score"`     // latest interest value, 0-100
	AverageScore  float64   `json:"average_score"`   // mean over the window
	RecentAverage float64   `json:"recent_average"`  // mean over the trailing week
	Series        []float64 `json:"series"`          // raw interest values
	FetchedAt     time.Time `json:"fetched_at"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Sources.TrendsAPIURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// InterestOverTime fetches search interest for a keyword over the default
// three-month window.
func (c *Client) InterestOverTime(ctx context.Context, keyword string) (*Interest, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("keyword is required")
	}
	if c.baseURL == "" {
		return nil, fmt.Errorf("trends api url is not configured")
	}

	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("timeframe", defaultWindow)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/interest?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trends request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("trends api returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var interest Interest
	if err := json.NewDecoder(resp.Body).Decode(&interest); err != nil {
		return nil, fmt.Errorf("failed to decode trends response: %w", err)
	}
	if interest.FetchedAt.IsZero() {
		interest.FetchedAt = time.Now()
	}
	return &interest, nil
}
