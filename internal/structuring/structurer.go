// Package structuring turns raw resume text into a normalized candidate
// record. The primary path asks the language model for a fixed JSON shape;
// when that call fails the deterministic heuristics in fallback.go take over.
package structuring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hirestack/screening-agent/internal/llm"
	"github.com/hirestack/screening-agent/internal/logger"
	"github.com/hirestack/screening-agent/internal/models"
)

// Structurer extracts structured candidate records from resume text.
type Structurer struct {
	client  llm.Client
	logger  *zap.Logger
	timeout time.Duration
}

// NewStructurer creates a structurer backed by the given model client.
func NewStructurer(client llm.Client, logger *zap.Logger, timeout time.Duration) *Structurer {
	return &Structurer{
		client:  client,
		logger:  logger,
		timeout: timeout,
	}
}

// Structure produces a candidate record for the raw resume text. A failed
// or malformed model response is absorbed by the heuristic extractor; the
// only hard error is text too short to be a resume at all.
func (s *Structurer) Structure(ctx context.Context, rawText, targetRole string) (models.StructuredCandidate, error) {
	if len(strings.TrimSpace(rawText)) == 0 {
		return models.StructuredCandidate{}, errors.New("resume text is empty")
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.client.GenerateContent(callCtx, buildExtractionPrompt(rawText, targetRole))
	if err != nil {
		s.logger.Warn("structured extraction call failed, using heuristic extractor", zap.Error(err))
		return HeuristicStructure(rawText, targetRole), nil
	}

	candidate, err := parseCandidate(response, targetRole)
	if err != nil {
		s.logger.Warn("structured extraction response unparseable, using heuristic extractor",
			zap.String("response", logger.Truncate(response, 200)), zap.Error(err))
		return HeuristicStructure(rawText, targetRole), nil
	}

	return candidate, nil
}

// buildExtractionPrompt asks the model for the fixed candidate JSON shape.
func buildExtractionPrompt(rawText, targetRole string) string {
	var sb strings.Builder

	sb.WriteString("You are a resume parser. Extract structured candidate data from the resume text below.\n\n")
	sb.WriteString(fmt.Sprintf("The candidate is applying for the role: %s\n\n", targetRole))
	sb.WriteString("## RESUME TEXT\n")
	sb.WriteString(rawText)
	sb.WriteString("\n\n")
	sb.WriteString("Return ONLY a JSON object with exactly this shape, no additional text:\n")
	sb.WriteString("{\n")
	sb.WriteString(`  "name": "<full name>",` + "\n")
	sb.WriteString(`  "email": "<email or empty string>",` + "\n")
	sb.WriteString(`  "role": "<most recent or primary job title>",` + "\n")
	sb.WriteString(`  "experience_years": <integer>,` + "\n")
	sb.WriteString(`  "skills": ["<skill>", ...],` + "\n")
	sb.WriteString(`  "education": "<highest education or empty string>",` + "\n")
	sb.WriteString(`  "summary": "<2-3 sentence professional summary>",` + "\n")
	sb.WriteString(`  "previous_companies": [{"name": "...", "role": "...", "duration": "...", "context": "..."}, ...]` + "\n")
	sb.WriteString("}\n")

	return sb.String()
}

// parseCandidate decodes the model response, defaulting every field
// independently. A partially populated response never causes an error;
// only a response with no JSON object at all does.
func parseCandidate(response, targetRole string) (models.StructuredCandidate, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(llm.ExtractJSON(response)), &data); err != nil {
		return models.StructuredCandidate{}, fmt.Errorf("parse extraction response: %w", err)
	}

	years := llm.CoerceInt(firstPresent(data, "experience_years", "experienceYears"), 0)

	return models.StructuredCandidate{
		Name:              llm.CoerceString(data["name"], PlaceholderName),
		Email:             llm.CoerceString(data["email"], ""),
		Role:              llm.CoerceString(data["role"], targetRole),
		ExperienceYears:   years,
		Skills:            llm.CoerceStringList(data["skills"]),
		Education:         llm.CoerceString(data["education"], ""),
		Summary:           llm.CoerceString(data["summary"], ""),
		PreviousCompanies: parseCompanies(firstPresent(data, "previous_companies", "previousCompanies")),
	}, nil
}

func parseCompanies(v any) []models.CompanyStint {
	out := []models.CompanyStint{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		stint := models.CompanyStint{
			Name:     llm.CoerceString(entry["name"], ""),
			Role:     llm.CoerceString(entry["role"], ""),
			Duration: llm.CoerceString(entry["duration"], ""),
			Context:  llm.CoerceString(entry["context"], ""),
		}
		if stint.Name == "" && stint.Role == "" {
			continue
		}
		out = append(out, stint)
	}
	return out
}

func firstPresent(data map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := data[key]; ok {
			return v
		}
	}
	return nil
}
