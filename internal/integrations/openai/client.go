/**
 * @description
 * Lightweight OpenAI Chat Completions client (OpenRouter-compatible).
 * Used by the hype service to optionally refine the composed score with
 * qualitative context the quantitative pipeline cannot see.
 *
 * The model may only adjust the numeric score; every other field of the
 * result stays exactly as the engine computed it.
 *
 * @dependencies
 * - net/http
 * - encoding/json
 * - backend/internal/config
 */

package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hypetrack/backend/internal/config"
	"github.com/hypetrack/backend/internal/logger"
)

const (
	DefaultBaseURL   = "https://openrouter.ai/api/v1/chat/completions"
	DefaultModel     = "google/gemini-2.5-flash"
	requestTimeout   = 60 * time.Second
	defaultMaxTokens = 1000
	maxRefineTries   = 3
	retryBaseDelay   = 400 * time.Millisecond
)

var (
	errResponseRead   = errors.New("openai response read failed")
	errResponseDecode = errors.New("openai response decode failed")
	errRetryable      = errors.New("openai api retryable error")
)

type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	model      string
}

type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func NewClient(cfg *config.Config) *Client {
	baseURL := strings.TrimSpace(cfg.Services.OpenAIBaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Services.OpenAIModel)
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		apiKey:  cfg.Services.OpenAIAPIKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Enabled reports whether the client has an API key and can make calls.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Model returns the model name being used by this client
func (c *Client) Model() string {
	return c.model
}

const refineSystemPrompt = `You are an IPO analyst reviewing a quantitative hype score.
Given the computed score and recent qualitative context, respond with a JSON object of
the form {"score": <number>} where score is your adjusted value in [0, 100].
Only adjust when the context clearly contradicts the quantitative picture;
otherwise return the score unchanged. Respond with JSON only.`

// RefineScore asks the model whether qualitative context warrants adjusting
// a computed hype score. Returns the (possibly unchanged) score. Any failure
// falls back to the prior score with a nil error so refinement can never
// break the analysis pipeline.
func (c *Client) RefineScore(ctx context.Context, companyName string, priorScore float64, extraContext string) (float64, error) {
	if !c.Enabled() {
		return priorScore, nil
	}

	userPrompt := fmt.Sprintf("Company: %s\nComputed hype score: %.1f\nRecent context:\n%s",
		companyName, priorScore, strings.TrimSpace(extraContext))

	content, err := c.complete(ctx, refineSystemPrompt, userPrompt)
	if err != nil {
		logger.Error("Score refinement failed for %s, keeping computed score: %v", companyName, err)
		return priorScore, nil
	}

	var parsed struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		logger.Error("Score refinement returned unparseable content for %s: %s", companyName, truncateForLog(content, 200))
		return priorScore, nil
	}
	if parsed.Score < 0 || parsed.Score > 100 {
		logger.Error("Score refinement for %s out of range (%.1f), keeping computed score", companyName, parsed.Score)
		return priorScore, nil
	}
	return parsed.Score, nil
}

// complete sends a chat completion request and returns the first choice content.
func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("openai api key is not configured")
	}

	userPrompt = strings.TrimSpace(userPrompt)
	if userPrompt == "" {
		return "", fmt.Errorf("user prompt is required")
	}

	payload := ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: strings.TrimSpace(systemPrompt)},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.1,
		MaxTokens:   defaultMaxTokens,
		ResponseFormat: &ResponseFormat{
			Type: "json_object",
		},
	}

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 1; attempt <= maxRefineTries; attempt++ {
		content, err := c.completeOnce(ctx, bodyBytes)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if attempt >= maxRefineTries || !isRetryableError(err) {
			return "", err
		}
		logger.Info("Retrying OpenAI request after error (attempt %d/%d): %v", attempt, maxRefineTries, err)
		time.Sleep(retryBaseDelay * time.Duration(attempt))
	}

	return "", lastErr
}

func (c *Client) completeOnce(ctx context.Context, bodyBytes []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		logger.Error("Failed to read OpenAI response body: %v", readErr)
		return "", fmt.Errorf("%w: %v", errResponseRead, readErr)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Error("OpenAI API error: %d - %s", resp.StatusCode, truncateForLog(string(respBody), 1000))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return "", fmt.Errorf("%w: status %d", errRetryable, resp.StatusCode)
		}
		return "", fmt.Errorf("openai api returned status %d", resp.StatusCode)
	}

	var result ChatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		logger.Error("Failed to decode OpenAI response: %v | raw: %s", err, truncateForLog(string(respBody), 1000))
		return "", fmt.Errorf("%w: %v", errResponseDecode, err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from openai")
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai response missing content (finish_reason: %s)", result.Choices[0].FinishReason)
	}
	return content, nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errResponseRead) || errors.Is(err, errResponseDecode) || errors.Is(err, errRetryable) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func truncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "...(truncated)"
}
