/**
 * @description
 * News coverage client. Pulls recent articles about a company from NewsAPI
 * and the GDELT document API, merges the two feeds with URL de-duplication,
 * and scores headline sentiment with a keyword lexicon.
 *
 * The lexicon approach is deliberately simple: sentiment here feeds a
 * percentile-ranked component score, so only the sign and rough magnitude
 * of the aggregate matter, not per-article precision.
 *
 * @dependencies
 * - net/http
 * - encoding/json
 * - backend/internal/config
 */

package newsapi

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
	"github.com/hypetrack/backend/internal/logger"
)

const (
	DefaultNewsAPIURL = "https://newsapi.org/v2/everything"
	DefaultGdeltURL   = "https://api.gdeltproject.org/api/v2/doc/doc"

	requestTimeout  = 15 * time.Second
	newsAPIPageSize = 20
	gdeltMaxRecords = 50
	coverageDays    = 7

	// Aggregate sentiment beyond this magnitude gets a non-neutral label
	sentimentLabelThreshold = 0.1
)

var positiveWords = []string{
	"surge", "soar", "strong", "growth", "record", "beat", "bullish",
	"upgrade", "outperform", "demand", "rally", "gain", "optimism",
	"breakthrough", "profit", "momentum", "popular", "oversubscribed",
}

var negativeWords = []string{
	"plunge", "drop", "weak", "loss", "miss", "bearish", "downgrade",
	"underperform", "lawsuit", "fraud", "risk", "concern", "decline",
	"warning", "layoff", "delay", "overvalued", "selloff",
}

// Article is one news item after feed merging.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// Sentiment aggregates the lexicon scoring over a coverage window.
type Sentiment struct {
	Score         float64 `json:"score"` // [-1, 1]
	Label         string  `json:"label"` // Positive / Neutral / Negative
	TotalArticles int     `json:"total_articles"`
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
}

type Client struct {
	apiKey     string
	newsAPIURL string
	gdeltURL   string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	newsAPIURL := strings.TrimSpace(cfg.Sources.NewsAPIURL)
	if newsAPIURL == "" {
		newsAPIURL = DefaultNewsAPIURL
	}
	gdeltURL := strings.TrimSpace(cfg.Sources.GdeltURL)
	if gdeltURL == "" {
		gdeltURL = DefaultGdeltURL
	}

	return &Client{
		apiKey:     cfg.Sources.NewsAPIKey,
		newsAPIURL: newsAPIURL,
		gdeltURL:   gdeltURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// FetchCoverage pulls recent articles about the company from both feeds.
// A failure in either feed is logged and tolerated as long as the other
// returns; the error is non-nil only when both feeds fail.
func (c *Client) FetchCoverage(ctx context.Context, companyName string) ([]Article, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return nil, fmt.Errorf("company name is required")
	}

	var articles []Article
	var newsErr, gdeltErr error

	if c.apiKey != "" {
		var fromNewsAPI []Article
		fromNewsAPI, newsErr = c.fetchNewsAPI(ctx, companyName)
		if newsErr != nil {
			logger.Error("NewsAPI fetch failed for %s: %v", companyName, newsErr)
		} else {
			articles = append(articles, fromNewsAPI...)
		}
	}

	fromGdelt, gdeltErr := c.fetchGdelt(ctx, companyName)
	if gdeltErr != nil {
		logger.Error("GDELT fetch failed for %s: %v", companyName, gdeltErr)
	} else {
		articles = append(articles, fromGdelt...)
	}

	if len(articles) == 0 && (newsErr != nil || gdeltErr != nil) {
		return nil, fmt.Errorf("all news feeds failed for %s", companyName)
	}
	return dedupeByURL(articles), nil
}

// ScoreSentiment runs the keyword lexicon over article titles and
// descriptions and aggregates into a single score in [-1, 1].
func ScoreSentiment(articles []Article) Sentiment {
	sentiment := Sentiment{Label: "Neutral", TotalArticles: len(articles)}
	if len(articles) == 0 {
		return sentiment
	}

	for _, article := range articles {
		text := strings.ToLower(article.Title + " " + article.Description)
		pos, neg := 0, 0
		for _, word := range positiveWords {
			if strings.Contains(text, word) {
				pos++
			}
		}
		for _, word := range negativeWords {
			if strings.Contains(text, word) {
				neg++
			}
		}
		if pos > neg {
			sentiment.PositiveCount++
		} else if neg > pos {
			sentiment.NegativeCount++
		}
	}

	score := float64(sentiment.PositiveCount-sentiment.NegativeCount) / float64(sentiment.TotalArticles)
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}
	sentiment.Score = score

	if score >= sentimentLabelThreshold {
		sentiment.Label = "Positive"
	} else if score <= -sentimentLabelThreshold {
		sentiment.Label = "Negative"
	}
	return sentiment
}

func (c *Client) fetchNewsAPI(ctx context.Context, companyName string) ([]Article, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%q IPO", companyName))
	params.Set("from", time.Now().AddDate(0, 0, -coverageDays).Format("2006-01-02"))
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", fmt.Sprintf("%d", newsAPIPageSize))
	params.Set("language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.newsAPIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("newsapi returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Status   string `json:"status"`
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			PublishedAt string `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode newsapi response: %w", err)
	}

	articles := make([]Article, 0, len(result.Articles))
	for _, raw := range result.Articles {
		published, _ := time.Parse(time.RFC3339, raw.PublishedAt)
		articles = append(articles, Article{
			Title:       raw.Title,
			Description: raw.Description,
			URL:         raw.URL,
			Source:      raw.Source.Name,
			PublishedAt: published,
		})
	}
	return articles, nil
}

func (c *Client) fetchGdelt(ctx context.Context, companyName string) ([]Article, error) {
	params := url.Values{}
	params.Set("query", fmt.Sprintf("%q IPO", companyName))
	params.Set("mode", "artlist")
	params.Set("format", "json")
	params.Set("maxrecords", fmt.Sprintf("%d", gdeltMaxRecords))
	params.Set("timespan", fmt.Sprintf("%dd", coverageDays))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.gdeltURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gdelt request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gdelt returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Articles []struct {
			Title    string `json:"title"`
			URL      string `json:"url"`
			Domain   string `json:"domain"`
			SeenDate string `json:"seendate"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode gdelt response: %w", err)
	}

	articles := make([]Article, 0, len(result.Articles))
	for _, raw := range result.Articles {
		// GDELT uses a compact timestamp format
		published, _ := time.Parse("20060102T150405Z", raw.SeenDate)
		articles = append(articles, Article{
			Title:       raw.Title,
			URL:         raw.URL,
			Source:      raw.Domain,
			PublishedAt: published,
		})
	}
	return articles, nil
}

// dedupeByURL keeps the first occurrence of each article URL.
func dedupeByURL(articles []Article) []Article {
	seen := make(map[string]bool, len(articles))
	deduped := make([]Article, 0, len(articles))
	for _, article := range articles {
		key := strings.TrimSpace(article.URL)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, article)
	}
	return deduped
}
