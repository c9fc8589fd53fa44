package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"wealth-signals/internal/signals/config"
	"wealth-signals/internal/signals/dto"
	"wealth-signals/pkg/common"
	"wealth-signals/pkg/logger"
	"wealth-signals/pkg/trace"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

type groqAIRepository struct {
	client *http.Client
	cfg    *config.Config
	logger *logger.Logger
}

// NewGroqAIRepository creates an AIRepository backed by the Groq chat completions API.
func NewGroqAIRepository(cfg *config.Config, logger *logger.Logger) AIRepository {
	return &groqAIRepository{
		client: &http.Client{
			Timeout: cfg.Groq.Timeout,
		},
		cfg:    cfg,
		logger: logger,
	}
}

func (r *groqAIRepository) Provider() string { return common.AIProviderGroq }

func (r *groqAIRepository) Available() bool { return r.cfg.Groq.APIKey != "" }

// Complete sends a single user message and returns the assistant's raw text.
func (r *groqAIRepository) Complete(ctx context.Context, in dto.CompletionRequest) (string, error) {
	if !r.Available() {
		return "", ErrModelUnavailable
	}

	model := in.Model
	if model == "" {
		model = r.cfg.Groq.Model
	}

	ctx, span := trace.StartSpan(ctx, "groq.complete", attribute.String("model", model))
	defer span.End()

	payload := dto.GroqChatRequest{
		Model: model,
		Messages: []dto.ChatMessage{
			{Role: "user", Content: in.Prompt},
		},
		Temperature: in.Temperature,
		MaxTokens:   in.MaxTokens,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", &ModelCallError{Provider: common.AIProviderGroq, Err: fmt.Errorf("failed to marshal payload: %w", err)}
	}

	url := strings.TrimRight(r.cfg.Groq.BaseURL, "/") + "/chat/completions"
	r.logger.DebugContext(ctx, "Sending request to Groq API", logger.StringField("url", url), logger.StringField("model", model))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", r.fail(span, fmt.Errorf("failed to create new http request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", r.cfg.Groq.APIKey))

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to send request to Groq API", logger.ErrorField(err))
		return "", r.fail(span, fmt.Errorf("failed to send request to Groq API: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.ErrorContext(ctx, "Received non-OK response from Groq API", logger.IntField("status_code", resp.StatusCode), logger.StringField("model", model))
		return "", r.fail(span, fmt.Errorf("received non-OK response from Groq API: %d - %s", resp.StatusCode, string(body)))
	}

	var groqResp dto.GroqChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&groqResp); err != nil {
		return "", r.fail(span, fmt.Errorf("failed to decode response body: %w", err))
	}
	if groqResp.Error != nil {
		return "", r.fail(span, fmt.Errorf("groq error %s: %s", groqResp.Error.Type, groqResp.Error.Message))
	}
	if len(groqResp.Choices) == 0 {
		return "", r.fail(span, fmt.Errorf("no choices found in Groq response"))
	}

	span.SetAttributes(attribute.Int("total_tokens", groqResp.Usage.TotalTokens))
	return groqResp.Choices[0].Message.Content, nil
}

func (r *groqAIRepository) fail(span oteltrace.Span, err error) error {
	trace.RecordError(span, err)
	return &ModelCallError{Provider: common.AIProviderGroq, Err: err}
}
