package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"beauty/advisor/internal/config"
	"beauty/advisor/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// ErrCompletionFailed marks a completion call that reached the endpoint but
// did not produce a usable reply
var ErrCompletionFailed = errors.New("completion failed")

// Generation parameters sent with every completion request
const (
	MaxTokens        = 500
	Temperature      = 0.4
	FrequencyPenalty = 0.8
)

type AssistantClient interface {
	Complete(ctx context.Context, messages []domain.Message) (string, error)
}

type completionRequest struct {
	Messages         []domain.Message `json:"messages"`
	MaxTokens        int              `json:"max_tokens"`
	Temperature      float64          `json:"temperature"`
	FrequencyPenalty float64          `json:"frequency_penalty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type assistantClient struct {
	rl         ratelimit.Limiter
	config     config.AssistantConfig
	httpClient *resty.Client
}

func NewAssistantClient(cfg config.AssistantConfig) AssistantClient {
	client := resty.New().
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &assistantClient{
		rl:         rl,
		config:     cfg,
		httpClient: client,
	}
}

func (c *assistantClient) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	c.rl.Take()

	body := completionRequest{
		Messages:         messages,
		MaxTokens:        MaxTokens,
		Temperature:      Temperature,
		FrequencyPenalty: FrequencyPenalty,
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Post(c.config.URL)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("failed to call assistant: %w", err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", fmt.Errorf("%w: API request failed: %d", ErrCompletionFailed, resp.StatusCode())
	}

	var parsed completionResponse
	if err := json.Unmarshal([]byte(resp.String()), &parsed); err != nil {
		return "", fmt.Errorf("%w: invalid response body: %v", ErrCompletionFailed, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == nil {
		return "", fmt.Errorf("%w: response has no choices[0].message.content", ErrCompletionFailed)
	}

	reply := *parsed.Choices[0].Message.Content
	log.Debugf("Assistant replied with %d characters for %d messages", len(reply), len(messages))
	return reply, nil
}
