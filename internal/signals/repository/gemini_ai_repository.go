package repository

import (
	"context"
	"errors"

	"wealth-signals/internal/signals/config"
	"wealth-signals/internal/signals/dto"
	"wealth-signals/pkg/common"
	"wealth-signals/pkg/logger"
	"wealth-signals/pkg/trace"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

// geminiAIRepository is an implementation of AIRepository that uses the Google Gemini API.
type geminiAIRepository struct {
	cfg         *config.Config
	logger      *logger.Logger
	genAiClient *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository. A nil
// client yields a repository that reports itself unavailable.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) AIRepository {
	return &geminiAIRepository{
		cfg:         cfg,
		logger:      log,
		genAiClient: genAiClient,
	}
}

func (r *geminiAIRepository) Provider() string { return common.AIProviderGemini }

func (r *geminiAIRepository) Available() bool {
	return r.genAiClient != nil && r.cfg.Gemini.APIKey != ""
}

// Complete generates content for the prompt and returns the concatenated candidate text.
func (r *geminiAIRepository) Complete(ctx context.Context, in dto.CompletionRequest) (string, error) {
	if !r.Available() {
		return "", ErrModelUnavailable
	}

	model := in.Model
	if model == "" {
		model = r.cfg.Gemini.Model
	}

	ctx, span := trace.StartSpan(ctx, "gemini.complete", attribute.String("model", model))
	defer span.End()

	contents := []*genai.Content{
		genai.NewContentFromText(in.Prompt, "user"),
	}
	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(in.Temperature)),
		MaxOutputTokens: int32(in.MaxTokens),
	}

	r.logger.DebugContext(ctx, "Sending request to Gemini API", logger.StringField("model", model))

	resp, err := r.genAiClient.Models.GenerateContent(ctx, model, contents, genCfg)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to generate content with Gemini", logger.ErrorField(err), logger.StringField("model", model))
		trace.RecordError(span, err)
		return "", &ModelCallError{Provider: common.AIProviderGemini, Err: err}
	}

	text := resp.Text()
	if text == "" {
		err := errors.New("no content found in Gemini response")
		trace.RecordError(span, err)
		return "", &ModelCallError{Provider: common.AIProviderGemini, Err: err}
	}

	return text, nil
}
