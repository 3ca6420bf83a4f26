// Package ai provides the classification-oracle client used by the
// discovery pipeline for relevance filtering, structuring, and outreach
// drafting.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/semaphore"
)

// DefaultModel is the model used when none is configured.
// SCOUT_MODEL overrides it at runtime.
const DefaultModel = "claude-sonnet-4-5-20250929"

// GetModel returns the configured model, checking SCOUT_MODEL first.
func GetModel() string {
	if model := os.Getenv("SCOUT_MODEL"); model != "" {
		return model
	}
	return DefaultModel
}

// Generator is the oracle's one operation: prompt in, unstructured text out.
// Callers must parse the response defensively; nothing about its shape is
// guaranteed. All pipeline consumers depend on this interface so tests can
// substitute deterministic stubs.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// Client is the production Generator backed by the Anthropic Messages API.
// A BaseURL override lets it speak to any Anthropic-compatible endpoint
// (the MiniMax API among them).
type Client struct {
	client         *anthropic.Client
	model          string
	retry          RetryConfig
	circuitBreaker *CircuitBreaker
	concurrencySem *semaphore.Weighted
}

// Compile-time check that Client implements Generator.
var _ Generator = (*Client)(nil)

// Config holds oracle client configuration.
type Config struct {
	APIKey  string // if empty, reads ANTHROPIC_API_KEY
	BaseURL string // optional endpoint override
	Model   string // default: GetModel()
	Retry   RetryConfig
}

// NewClient creates an oracle client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}

	model := cfg.Model
	if model == "" {
		model = GetModel()
	}

	retry := cfg.Retry
	if retry.MaxRetries == 0 {
		retry = DefaultRetryConfig()
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	var circuitBreaker *CircuitBreaker
	if retry.CircuitBreakerEnabled {
		circuitBreaker = NewCircuitBreaker(retry.FailureThreshold, retry.SuccessThreshold, retry.OpenTimeout)
	}

	var concurrencySem *semaphore.Weighted
	if retry.MaxConcurrentCalls > 0 {
		concurrencySem = semaphore.NewWeighted(int64(retry.MaxConcurrentCalls))
	}

	return &Client{
		client:         &client,
		model:          model,
		retry:          retry,
		circuitBreaker: circuitBreaker,
		concurrencySem: concurrencySem,
	}, nil
}

// Generate sends a single-turn prompt and returns the raw response text.
// Retries with backoff on transient failures; every attempt is bounded by
// the configured per-request timeout.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if maxTokens == 0 {
		maxTokens = 4096
	}

	startTime := time.Now()

	var response *anthropic.Message
	err := c.retryWithBackoff(ctx, "generate", func(attemptCtx context.Context) error {
		resp, apiErr := c.client.Messages.New(attemptCtx, anthropic.MessageNewParams{
			Model:       anthropic.Model(c.model),
			MaxTokens:   int64(maxTokens),
			Temperature: anthropic.Float(temperature),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if apiErr != nil {
			return apiErr
		}
		response = resp
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("oracle call failed: %w", err)
	}

	var text string
	for _, block := range response.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	fmt.Printf("Oracle call: input=%d tokens, output=%d tokens, duration=%v\n",
		response.Usage.InputTokens, response.Usage.OutputTokens, time.Since(startTime))

	return text, nil
}

// HealthCheck reports whether the client can accept calls. Used as a
// pre-flight check before a run starts, so credential and availability
// problems surface as phase-setup failures rather than per-item noise.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.circuitBreaker != nil {
		state, failures, _ := c.circuitBreaker.GetMetrics()
		if state == CircuitOpen {
			return fmt.Errorf("oracle unavailable: %w (failures=%d, retry in %v)",
				ErrCircuitOpen, failures, c.retry.OpenTimeout)
		}
	}
	return nil
}
