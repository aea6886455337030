package services

import (
	"context"
	"fmt"
	"time"

	"github.com/wecare/hospitalbot/internal/domain/entities"
	"github.com/wecare/hospitalbot/internal/domain/providers"
	"github.com/wecare/hospitalbot/internal/infrastructure/observability"
	apperrors "github.com/wecare/hospitalbot/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// RecommendationRequest is the input of one recommendation turn
type RecommendationRequest struct {
	Complaint    string
	Examinations []string
	Hospitals    []entities.Hospital
	Category     entities.Category
	UserLocation *entities.UserLocation
}

// RecommendationService orders hospitals, prompts the model and normalizes
// its answer.
type RecommendationService struct {
	llm providers.CompletionProvider
}

func NewRecommendationService(llm providers.CompletionProvider) *RecommendationService {
	return &RecommendationService{llm: llm}
}

// GetRecommendations always returns a result; failures are reported as
// error objects.
func (s *RecommendationService) GetRecommendations(ctx context.Context, req RecommendationRequest) *entities.RecommendationResult {
	ctx, span := observability.StartSpan(ctx, "RecommendationService.GetRecommendations")
	defer span.End()
	logger := observability.LoggerFromContext(ctx)

	filtered := FilterHospitals(req.Hospitals, req.Category, req.UserLocation)
	span.SetAttributes(
		attribute.String("hospital.category", string(req.Category)),
		attribute.Int("hospitals.count", len(filtered)),
		attribute.Int("examinations.count", len(req.Examinations)),
	)

	prompt, err := BuildPrompt(req.Complaint, req.Examinations, filtered, req.Category)
	if err != nil {
		observability.RecordError(span, err)
		logger.Error().Err(err).Msg("failed to build prompt")
		return entities.NewRecommendationError(fmt.Sprintf("Gagal membuat prompt: %v", err), "")
	}

	start := time.Now()
	completion, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		appErr := apperrors.NewLLMInvocationError("complete", err)
		observability.RecordError(span, appErr)
		logger.Error().Err(appErr).Str("model", s.llm.Model()).Msg("LLM call failed")
		return entities.NewRecommendationError(fmt.Sprintf("Gagal memanggil LLM: %v", err), "")
	}
	logger.Debug().
		Str("model", s.llm.Model()).
		Dur("latency", time.Since(start)).
		Int("response_chars", len(completion.Text)).
		Msg("LLM call completed")

	result := NormalizeResponse(completion.Text)
	if result.IsError() {
		appErr := apperrors.NewResponseParseError(result.Error, nil)
		observability.RecordError(span, appErr)
		logger.Warn().Err(appErr).Msg("LLM response is not valid JSON")
		return result
	}

	if recs, err := result.Recommendations(); err == nil {
		logger.Info().Int("recommendations", len(recs.Recommendations)).Msg("recommendations received")
	}
	return result
}
