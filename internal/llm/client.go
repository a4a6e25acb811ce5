// Package llm is the capability boundary around the external model provider.
// Retries and circuit breaking live here; callers never retry on their own.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/legilight/backend/internal/metrics"
	"github.com/legilight/backend/pkg/circuitbreaker"
	"github.com/legilight/backend/pkg/logger"
	"github.com/legilight/backend/pkg/retry"
)

// ErrModelUnavailable covers every provider failure mode the orchestrators
// care about: network errors, timeouts, quota, open circuit.
var ErrModelUnavailable = errors.New("model unavailable")

const systemPrompt = `You are a legal AI assistant specializing in contract analysis.
Your role is to:
1. Analyze legal documents and extract key information
2. Identify risks, obligations, and important clauses
3. Provide plain-language explanations of complex legal terms
4. Answer questions about specific contract provisions

Always provide accurate, helpful analysis while noting that this is not legal advice.
Always respond with a single JSON object.`

type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	cb          *circuitbreaker.Breaker
	retryPolicy retry.Policy
}

func NewClient(apiKey, model string, temperature float32, maxTokens, timeoutSec int) *Client {
	cb := circuitbreaker.New("llm", circuitbreaker.Config{
		MaxRequests:      5,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	policy := retry.DefaultPolicy()
	policy.Logger = logger.GetLogger()

	logger.Info("LLM client initialized",
		zap.String("model", model),
		zap.Int("max_tokens", maxTokens),
	)

	return &Client{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     time.Duration(timeoutSec) * time.Second,
		cb:          cb,
		retryPolicy: policy,
	}
}

// Invoke sends one prompt to the model and returns the raw completion text.
func (c *Client) Invoke(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	var content string

	err := c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryPolicy, func() error {
			resp, err := c.client.CreateChatCompletion(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to create chat completion: %w", err)
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("completion returned no choices")
			}

			logger.Debug("LLM completion generated",
				zap.Int("prompt_tokens", resp.Usage.PromptTokens),
				zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			)
			metrics.LLMTokensUsed.WithLabelValues("prompt").Add(float64(resp.Usage.PromptTokens))
			metrics.LLMTokensUsed.WithLabelValues("completion").Add(float64(resp.Usage.CompletionTokens))

			content = resp.Choices[0].Message.Content
			return nil
		})
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	return content, nil
}

// Healthy reports whether the provider looks reachable without spending a
// completion: the circuit must not be open.
func (c *Client) Healthy() bool {
	return c.cb.State() != circuitbreaker.StateOpen
}
