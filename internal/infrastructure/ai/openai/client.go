// Package openai provides the OpenAI-compatible chat client used for
// supplement consultations. The model is instructed to emit any formula
// proposal inside a ```formula fenced block; the returned text is handed
// to the extraction pipeline untouched and untrusted.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/myones/formulary/internal/domain/formula"
	"github.com/myones/formulary/internal/infrastructure/config"
	"github.com/myones/formulary/internal/ports/outbound"
)

// Client implements outbound.AIService against the OpenAI chat
// completions API (or any compatible endpoint).
type Client struct {
	apiKey  string
	baseURL string
	model   string
	cfg     config.AIConfig
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new chat client from configuration.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.OpenAIModel
	if model == "" {
		model = "gpt-4o-mini"
	}

	logger.Info("AI client initialized",
		zap.String("base_url", baseURL),
		zap.String("model", model))

	return &Client{
		apiKey:  cfg.OpenAIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		logger:  logger.Named("openai-client"),
	}
}

// OpenAI API structures
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// systemPrompt instructs the model on the consultation role and the fence
// convention the extraction pipeline scans for.
func systemPrompt() string {
	counts := formula.ValidCapsuleCounts()
	var countStrs []string
	for _, n := range counts {
		countStrs = append(countStrs, fmt.Sprintf("%d", n))
	}

	return fmt.Sprintf(`You are a supplement consultation assistant. Discuss the user's health goals and, when you are ready to propose a personalized formula, include it in your response inside a fenced block exactly like this:

`+"```formula"+`
{
  "bases": [{"name": "Heart Support", "amount_mg": 1200}],
  "additions": [{"name": "Omega-3", "amount_mg": 500}],
  "target_capsules": 9
}
`+"```"+`

Rules:
- Only recommend ingredients from the approved catalog you have been given.
- Valid capsule counts are %s; each capsule holds %.0fmg.
- Amounts are milligrams. Every proposal is validated before acceptance, so prefer conservative doses.
- Most turns are conversation; only emit a formula block when proposing or revising a formula.`,
		strings.Join(countStrs, ", "), formula.CapsuleCapacityMg)
}

// Converse sends the conversation and returns the assistant's full
// response text.
func (c *Client) Converse(ctx context.Context, messages []outbound.ChatMessage) (string, error) {
	reqMessages := make([]chatMessage, 0, len(messages)+1)
	reqMessages = append(reqMessages, chatMessage{Role: "system", Content: systemPrompt()})
	for _, m := range messages {
		reqMessages = append(reqMessages, chatMessage{Role: m.Role, Content: m.Content})
	}

	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    reqMessages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	c.logger.Debug("chat completion successful",
		zap.String("finish_reason", completion.Choices[0].FinishReason),
		zap.Int("total_tokens", completion.Usage.TotalTokens))

	return completion.Choices[0].Message.Content, nil
}

// HealthCheck verifies the provider is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("AI provider health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("AI provider health check failed with status %d", resp.StatusCode)
	}
	return nil
}
