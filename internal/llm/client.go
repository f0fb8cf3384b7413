package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/util"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/worker"
)

// Config holds LLM client configuration
type Config struct {
	Model          string
	APIKey         string
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RequestsPerSec float64
	Temperature    float32
	HTTPProxy      string
	HTTPSProxy     string
	NoProxy        string
}

// ConfigFromModel converts the pipeline LLM configuration
func ConfigFromModel(cfg model.LLMConfig, httpCfg model.HTTPConfig) Config {
	return Config{
		Model:          cfg.Model,
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RequestsPerSec: cfg.RequestsPerSec,
		Temperature:    cfg.Temperature,
		HTTPProxy:      httpCfg.HTTPProxy,
		HTTPSProxy:     httpCfg.HTTPSProxy,
		NoProxy:        httpCfg.NoProxy,
	}
}

// Client wraps the OpenAI chat API for the extractor and judge. Every call
// requests a JSON object response and unmarshals it into the caller's
// schema struct. Rate-limit and server errors are retried with exponential
// backoff; other errors abandon the unit of work immediately.
type Client struct {
	api     *openai.Client
	limiter *rate.Limiter
	config  Config

	// sleepFunc is injectable for tests
	sleepFunc func(time.Duration)
}

// NewClient creates a client; the API key is required
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required (set OPENAI_API_KEY in the environment or a .env file)")
	}
	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
	}

	var limiter *rate.Limiter
	if config.RequestsPerSec > 0 {
		limiter = worker.NewRequestLimiter(config.RequestsPerSec, 1)
	}

	return &Client{
		api:       openai.NewClientWithConfig(clientConfig),
		limiter:   limiter,
		config:    config,
		sleepFunc: time.Sleep,
	}, nil
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.config.Model
}

// IsAvailable checks that the API accepts the configured key
func (c *Client) IsAvailable(ctx context.Context) bool {
	_, err := c.api.ListModels(ctx)
	return err == nil
}

// CompleteJSON sends a system+user prompt, asks for a JSON object response,
// and unmarshals it into out. Temperature overrides the configured default
// when non-negative.
func (c *Client) CompleteJSON(ctx context.Context, system, user string, temperature float32, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	temp := c.config.Temperature
	if temperature >= 0 {
		temp = temperature
	}

	req := openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temp,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var content string
	err := c.withRetry(ctx, func() error {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty response from model %s", c.config.Model)
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return err
	}

	content = strings.TrimSpace(content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("parse model response: %w", err)
	}

	return nil
}

// withRetry retries fn on transient API errors with exponential backoff
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !IsRetryable(err) || attempt == c.config.MaxRetries-1 {
			return err
		}

		backoff := time.Duration(1<<uint(attempt)) * time.Second
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			c.sleepFunc(backoff)
		}
	}
	return err
}

// IsRetryable classifies API errors by their typed status code rather than
// sniffing error strings: 429 and 5xx are transient, everything else is
// permanent.
func IsRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests ||
			apiErr.HTTPStatusCode >= 500
	}
	return false
}
