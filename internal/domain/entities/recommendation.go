package entities

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Completion is the text produced by an LLM provider
type Completion struct {
	Text string
}

// RecommendationResult is either a decoded LLM payload or an error object.
type RecommendationResult struct {
	// Payload holds the JSON value returned by the model on success.
	Payload json.RawMessage

	Error       string
	RawResponse string
}

// NewRecommendationError builds a failed result.
func NewRecommendationError(message, raw string) *RecommendationResult {
	return &RecommendationResult{Error: message, RawResponse: raw}
}

// IsError reports whether the result carries an error object.
func (r *RecommendationResult) IsError() bool {
	return r.Error != ""
}

type recommendationErrorBody struct {
	Error       string `json:"error"`
	RawResponse string `json:"raw_response,omitempty"`
}

// MarshalJSON renders the success payload verbatim or the error object.
func (r *RecommendationResult) MarshalJSON() ([]byte, error) {
	if r.IsError() {
		return json.Marshal(recommendationErrorBody{Error: r.Error, RawResponse: r.RawResponse})
	}
	if len(r.Payload) == 0 {
		return []byte("null"), nil
	}
	return r.Payload, nil
}

// Indent renders the result as 2-space indented JSON. HTML characters and
// non-ASCII text are left unescaped.
func (r *RecommendationResult) Indent() ([]byte, error) {
	var raw []byte
	if r.IsError() {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(recommendationErrorBody{Error: r.Error, RawResponse: r.RawResponse}); err != nil {
			return nil, err
		}
		raw = bytes.TrimRight(buf.Bytes(), "\n")
	} else {
		var err error
		if raw, err = r.MarshalJSON(); err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Recommendations decodes the success payload into its typed shape.
func (r *RecommendationResult) Recommendations() (*Recommendations, error) {
	if r.IsError() {
		return nil, errors.New(r.Error)
	}
	var recs Recommendations
	if err := json.Unmarshal(r.Payload, &recs); err != nil {
		return nil, err
	}
	return &recs, nil
}

// Recommendations is the response shape requested from the model
type Recommendations struct {
	Analysis        string               `json:"analysis"`
	Recommendations []HospitalSuggestion `json:"recommendations"`
	HealthTips      []string             `json:"health_tips"`
}

// HospitalSuggestion is a single recommended hospital. The model is free to
// emit ids and costs as either numbers or strings, so both stay raw.
type HospitalSuggestion struct {
	HospitalID      json.RawMessage `json:"hospital_id"`
	HospitalName    string          `json:"hospital_name"`
	Reason          string          `json:"reason"`
	EstimatedCost   json.RawMessage `json:"estimated_cost"`
	ServicesOffered []string        `json:"services_offered"`
}
