package services

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tmc/langchaingo/prompts"
	"github.com/wecare/hospitalbot/internal/domain/entities"
)

const recommendationTemplate = `Based on the following information:

Main Complaint: {{.main_complaint}}
Desired Examinations: {{.examinations}}
Hospital Category: {{.category}}

Analyze these hospitals and recommend the best options:
{{.hospitals}}

Please provide:
1. Analysis of the main complaint and required examinations
2. Top 3 hospital recommendations based on the category
3. Reasoning for each recommendation
4. Additional health tips related to the complaint

Format the response in JSON with the following structure:
{
    "analysis": "string",
    "recommendations": [
        {
            "hospital_id": "number",
            "hospital_name": "string",
            "reason": "string",
            "estimated_cost": "string",
            "services_offered": ["string"]
        }
    ],
    "health_tips": ["string"]
}
`

var recommendationPrompt = prompts.NewPromptTemplate(
	recommendationTemplate,
	[]string{"main_complaint", "examinations", "hospitals", "category"},
)

// BuildPrompt renders the recommendation prompt. Examinations are joined
// with ", " and hospitals are embedded as indented JSON.
func BuildPrompt(complaint string, examinations []string, hospitals []entities.Hospital, category entities.Category) (string, error) {
	hospitalsJSON, err := marshalHospitals(hospitals)
	if err != nil {
		return "", err
	}

	return recommendationPrompt.Format(map[string]any{
		"main_complaint": complaint,
		"examinations":   strings.Join(examinations, ", "),
		"hospitals":      hospitalsJSON,
		"category":       string(category),
	})
}

func marshalHospitals(hospitals []entities.Hospital) (string, error) {
	if hospitals == nil {
		hospitals = []entities.Hospital{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(hospitals); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
