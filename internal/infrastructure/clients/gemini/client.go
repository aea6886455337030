// Package gemini adapts Google's Gemini models, through langchaingo, to the
// CompletionProvider interface.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/wecare/hospitalbot/internal/domain/entities"
	"github.com/wecare/hospitalbot/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// DefaultModel is the fixed model identifier for recommendations.
	DefaultModel = "gemini-2.5-flash-preview-04-17"

	// Temperature is the fixed sampling temperature.
	Temperature = 0.7
)

// Client sends prompts to Gemini.
type Client struct {
	llm   llms.Model
	model string
}

// NewClient creates a Gemini client. It fails when the API key is absent.
func NewClient(ctx context.Context, cfg *config.LLMConfig) (*Client, error) {
	if cfg == nil || cfg.GoogleAPIKey == "" {
		return nil, errors.New("GOOGLE_API_KEY tidak ditemukan di environment variables")
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.GoogleAPIKey),
		googleai.WithDefaultModel(DefaultModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create googleai client: %w", err)
	}

	return NewWithModel(llm, DefaultModel), nil
}

// NewWithModel wraps an existing langchaingo model.
func NewWithModel(llm llms.Model, model string) *Client {
	return &Client{llm: llm, model: model}
}

// Model returns the model identifier.
func (c *Client) Model() string {
	return c.model
}

// Complete sends prompt as a single human message and returns the text.
func (c *Client) Complete(ctx context.Context, prompt string) (entities.Completion, error) {
	start := time.Now()
	text, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt,
		llms.WithModel(c.model),
		llms.WithTemperature(Temperature),
	)
	recordRequest(ctx, c.model, time.Since(start), err)
	if err != nil {
		return entities.Completion{}, err
	}
	return entities.Completion{Text: text}, nil
}

var (
	meter           = otel.Meter("github.com/wecare/hospitalbot/gemini")
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
)

func init() {
	requestCount, _ = meter.Int64Counter(
		"ai.gemini.request.count",
		metric.WithDescription("Number of Gemini requests"),
	)
	requestDuration, _ = meter.Float64Histogram(
		"ai.gemini.request.duration",
		metric.WithDescription("Gemini request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	requestErrors, _ = meter.Int64Counter(
		"ai.gemini.request.errors",
		metric.WithDescription("Number of Gemini request errors"),
	)
}

func recordRequest(ctx context.Context, model string, duration time.Duration, err error) {
	if requestCount == nil || requestDuration == nil || requestErrors == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("ai.provider", "googleai"),
		attribute.String("ai.model", model),
	)
	requestCount.Add(ctx, 1, attrs)
	requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		requestErrors.Add(ctx, 1, attrs)
	}
}
