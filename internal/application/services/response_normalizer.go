package services

import (
	"encoding/json"
	"strings"

	"github.com/wecare/hospitalbot/internal/domain/entities"
)

// ResponseParseMessage is the error reported when model output is not JSON.
const ResponseParseMessage = "Response dari LLM tidak dapat diubah menjadi JSON."

// NormalizeResponse strips markdown fences from raw model output and
// decodes the rest as JSON. Undecodable output yields an error result that
// carries the original text.
func NormalizeResponse(raw string) *entities.RecommendationResult {
	cleaned := StripCodeFence(raw)
	if !json.Valid([]byte(cleaned)) {
		return entities.NewRecommendationError(ResponseParseMessage, raw)
	}
	return &entities.RecommendationResult{Payload: json.RawMessage(cleaned)}
}

// StripCodeFence removes a leading "```json" or "```" marker and a trailing
// "```" marker from trimmed text.
func StripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(cleaned, "```json"):
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	case strings.HasPrefix(cleaned, "```"):
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}
