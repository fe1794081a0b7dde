package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultTimeout   = 120 * time.Second
	defaultAttempts  = 3
	defaultBaseDelay = 2 * time.Second
)

// Config captures the runtime settings required to talk to the model
// endpoint. Any OpenAI-compatible chat completion API works.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
	MaxAttempts    int
}

// Request describes one completion call. Model overrides the client default
// when set, so callers can pick a different model per call.
type Request struct {
	Model  string
	System string
	User   string
}

// Completer is the contract the builder, scene generator, and diagram
// generator depend on.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client wraps an OpenAI-compatible chat completion API with bounded
// retries and exponential backoff.
type Client struct {
	api   openai.Client
	model string

	maxAttempts int
	baseDelay   time.Duration
	sleeper     func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithRetryBackoff overrides the initial retry delay.
func WithRetryBackoff(baseDelay time.Duration) Option {
	return func(c *Client) {
		if baseDelay > 0 {
			c.baseDelay = baseDelay
		}
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		if sleeper != nil {
			c.sleeper = sleeper
		}
	}
}

// NewClient constructs a model client from configuration.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("llm: api key required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("llm: model required")
	}

	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	requestOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(timeout),
		// The SDK retries internally as well; backoff policy lives here.
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(base))
	}

	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}

	client := &Client{
		api:         openai.NewClient(requestOpts...),
		model:       strings.TrimSpace(cfg.Model),
		maxAttempts: attempts,
		baseDelay:   defaultBaseDelay,
		sleeper:     time.Sleep,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Complete issues a chat completion and returns the raw text content of the
// first choice. Failed calls are retried with a doubling delay between
// attempts; after the final attempt the last error is returned.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.User) == "" {
		return "", errors.New("llm complete: user prompt required")
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.model
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system := strings.TrimSpace(req.System); system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(req.User))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}

	var lastErr error
	delay := c.baseDelay
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := c.api.Chat.Completions.New(ctx, params)
		if err == nil {
			if len(resp.Choices) == 0 {
				err = errors.New("llm complete: empty choices")
			} else if content := resp.Choices[0].Message.Content; strings.TrimSpace(content) == "" {
				err = errors.New("llm complete: empty content")
			} else {
				return content, nil
			}
		}
		lastErr = err
		if attempt == c.maxAttempts {
			break
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		c.sleeper(delay)
		delay *= 2
	}
	return "", fmt.Errorf("llm complete: failed after %d attempts: %w", c.maxAttempts, lastErr)
}

var _ Completer = (*Client)(nil)
