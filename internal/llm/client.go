// Package llm is a small OpenRouter chat-completions client used to back
// the Summarization capability with a hosted model.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/textflow/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
)

const defaultBackoff = 200 * time.Millisecond

// ErrEmptyResponse is returned when the model answers without choices.
var ErrEmptyResponse = errors.New("no response from model")

// SummaryPrompt instructs the model how to summarize.
const SummaryPrompt = "Summarize the user's text in at most three sentences. " +
	"Reply with the summary only, in the language of the text."

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("openrouter returned status %d", e.Code)
	}
	return fmt.Sprintf("openrouter returned status %d: %s", e.Code, e.Message)
}

// Client calls the OpenRouter chat completions endpoint.
type Client struct {
	http       *resty.Client
	model      string
	maxRetries uint64
	backoff    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBackoff sets the base delay of the exponential retry backoff.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// NewClient creates a client from cfg.
func NewClient(cfg config.LLMConfig, opts ...Option) *Client {
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetTimeout(cfg.Timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json").
			SetHeader("X-Title", "textflow").
			SetAuthToken(cfg.APIKey),
		model:      cfg.Model,
		maxRetries: uint64(retries),
		backoff:    defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chat sends a system and user message and returns the first choice.
// Network errors, 429 and 5xx answers are retried with exponential backoff.
func (c *Client) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	var content string
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		out, err := c.complete(ctx, body)
		if err != nil {
			if isRetryable(ctx, err) {
				return retry.RetryableError(err)
			}
			return err
		}
		content = out
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return content, nil
}

func (c *Client) complete(ctx context.Context, body chatRequest) (string, error) {
	var result chatResponse
	var apiErr errorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("call openrouter: %w", err)
	}
	if resp.IsError() {
		return "", &StatusError{Code: resp.StatusCode(), Message: apiErr.Error.Message}
	}
	if len(result.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return !errors.Is(err, ErrEmptyResponse)
}

// Summarize asks the model for a short summary of text. It has the
// capability signature so it can be registered directly.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return c.Chat(ctx, SummaryPrompt, text)
}
