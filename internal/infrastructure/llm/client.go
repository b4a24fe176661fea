package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rfpdesk/backend/internal/domain"
	"github.com/rfpdesk/backend/internal/infrastructure/metrics"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// CredentialFunc returns the upstream API key. It is called on every request
// so that rotating the key in the environment takes effect without a restart.
type CredentialFunc func() string

// Config holds the upstream endpoint settings
type Config struct {
	BaseURL           string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int // 0 disables outbound pacing
}

// Client handles communication with the OpenAI-compatible LLM gateway
type Client struct {
	httpClient  *http.Client
	credential  CredentialFunc
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
	debug       bool
}

// NewClient creates a new LLM gateway client
func NewClient(credential CredentialFunc, cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		credential:  credential,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		rateLimiter: limiter,
		logger:      logger.Named("llm"),
	}
}

// SetDebug enables logging of full prompts and completions
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Ready returns domain.ErrConfiguration when no API key is available
func (c *Client) Ready() error {
	if c.apiKey() == "" {
		return domain.ErrConfiguration
	}
	return nil
}

func (c *Client) apiKey() string {
	if c.credential == nil {
		return ""
	}
	return strings.TrimSpace(c.credential())
}

// Complete sends one chat-completion request and returns the first choice's
// message content. It never retries; 429 and 402 are surfaced to the caller.
func (c *Client) Complete(ctx context.Context, req domain.ChatRequest) (string, error) {
	apiKey := c.apiKey()
	if apiKey == "" {
		return "", domain.ErrConfiguration
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: rate limiter: %v", domain.ErrUpstreamFailure, err)
		}
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = c.baseURL
	config.HTTPClient = c.httpClient
	client := openai.NewClientWithConfig(config)

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
		if c.debug {
			c.logger.Debug("prompt message",
				zap.String("operation", req.Operation),
				zap.String("role", m.Role),
				zap.String("content", m.Content))
		}
	}

	c.logger.Info("sending chat completion",
		zap.String("operation", req.Operation),
		zap.String("model", c.model))

	start := time.Now()
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	metrics.UpstreamDuration.WithLabelValues(req.Operation).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", c.classifyError(req.Operation, err)
	}

	if len(resp.Choices) == 0 {
		c.logger.Error("AI gateway returned no choices", zap.String("operation", req.Operation))
		return "", fmt.Errorf("%w: response contained no choices", domain.ErrUpstreamFailure)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		c.logger.Error("AI gateway returned empty content", zap.String("operation", req.Operation))
		return "", fmt.Errorf("%w: empty completion", domain.ErrUpstreamFailure)
	}

	if c.debug {
		c.logger.Debug("completion received",
			zap.String("operation", req.Operation),
			zap.String("content", content))
	}

	return content, nil
}

// classifyError maps provider status codes onto the domain error taxonomy
func (c *Client) classifyError(operation string, err error) error {
	status, detail := upstreamStatus(err)

	c.logger.Error("AI gateway error",
		zap.String("operation", operation),
		zap.Int("status", status),
		zap.String("body", detail),
		zap.Error(err))

	if status != 0 {
		metrics.UpstreamErrors.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	}

	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: upstream status %d", domain.ErrRateLimited, status)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: upstream status %d", domain.ErrQuotaExhausted, status)
	case 0:
		return fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	default:
		return fmt.Errorf("%w: upstream status %d", domain.ErrUpstreamFailure, status)
	}
}

// upstreamStatus extracts the HTTP status and a diagnostic detail from a
// go-openai error. Transport failures report status 0.
func upstreamStatus(err error) (int, string) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, apiErr.Message
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := reqErr.HTTPStatus
		if reqErr.Err != nil {
			detail = reqErr.Err.Error()
		}
		return reqErr.HTTPStatusCode, detail
	}

	return 0, err.Error()
}
