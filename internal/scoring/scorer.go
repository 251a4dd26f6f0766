// Package scoring computes the 0-100 fitness assessment for a structured
// candidate. The primary path asks the language model to fill a four-part
// rubric; fallback.go is the deterministic substitute used whenever that
// call fails.
package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hirestack/screening-agent/internal/llm"
	"github.com/hirestack/screening-agent/internal/logger"
	"github.com/hirestack/screening-agent/internal/models"
)

// Component caps. The total is the sum of the four, so it can never
// exceed 100 once each component is clamped.
const (
	MaxTechnicalSkillMatch  = 40
	MaxExperienceRelevance  = 25
	MaxCultureFitIndicators = 20
	MaxRedFlagAssessment    = 15
	MaxTotalScore           = 100
)

// Assessment is the scorer's output for one candidate.
type Assessment struct {
	Score         int
	MatchReason   string
	MissingSkills []string
	Breakdown     models.ScoreBreakdown
	RedFlags      []string
}

// Scorer evaluates candidates against a job posting.
type Scorer struct {
	client  llm.Client
	logger  *zap.Logger
	timeout time.Duration
}

// NewScorer creates a scorer backed by the given model client.
func NewScorer(client llm.Client, logger *zap.Logger, timeout time.Duration) *Scorer {
	return &Scorer{
		client:  client,
		logger:  logger,
		timeout: timeout,
	}
}

// Score assesses the candidate for the target role. It never fails: any
// problem with the model call or its response activates the deterministic
// fallback, which is always computable from the structured record.
func (s *Scorer) Score(ctx context.Context, candidate models.StructuredCandidate, req models.JobRequirements) Assessment {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.client.GenerateContent(callCtx, buildRubricPrompt(candidate, req))
	if err != nil {
		s.logger.Warn("rubric scoring call failed, using deterministic fallback",
			zap.String("candidate", candidate.Name), zap.Error(err))
		return FallbackAssessment(candidate, req.RequiredSkills)
	}

	assessment, err := parseAssessment(response)
	if err != nil {
		s.logger.Warn("rubric scoring response unparseable, using deterministic fallback",
			zap.String("candidate", candidate.Name),
			zap.String("response", logger.Truncate(response, 200)),
			zap.Error(err))
		return FallbackAssessment(candidate, req.RequiredSkills)
	}

	return assessment
}

// buildRubricPrompt creates the four-component rubric prompt.
func buildRubricPrompt(candidate models.StructuredCandidate, req models.JobRequirements) string {
	var sb strings.Builder

	sb.WriteString("You are an expert technical recruiter evaluating a candidate against a job posting. Analyze the profile below and score it with the rubric.\n\n")

	sb.WriteString("## JOB POSTING\n")
	sb.WriteString(fmt.Sprintf("Target Role: %s\n", req.TargetRole))
	sb.WriteString(fmt.Sprintf("Department: %s\n", req.Department))
	if len(req.RequiredSkills) > 0 {
		sb.WriteString("Required Skills:\n")
		for _, skill := range req.RequiredSkills {
			sb.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	}
	if req.Description != "" {
		sb.WriteString(fmt.Sprintf("Description: %s\n", req.Description))
	}

	sb.WriteString("\n## CANDIDATE PROFILE\n")
	sb.WriteString(fmt.Sprintf("Name: %s\n", candidate.Name))
	sb.WriteString(fmt.Sprintf("Current Role: %s\n", candidate.Role))
	sb.WriteString(fmt.Sprintf("Years of Experience: %d\n", candidate.ExperienceYears))
	sb.WriteString(fmt.Sprintf("Skills: %s\n", strings.Join(candidate.Skills, ", ")))
	if candidate.Education != "" {
		sb.WriteString(fmt.Sprintf("Education: %s\n", candidate.Education))
	}
	if candidate.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary: %s\n", candidate.Summary))
	}
	for _, stint := range candidate.PreviousCompanies {
		sb.WriteString(fmt.Sprintf("Previous: %s at %s (%s) %s\n", stint.Role, stint.Name, stint.Duration, stint.Context))
	}

	sb.WriteString("\n## SCORING RUBRIC\n")
	sb.WriteString("- technical_skill_match (0-40): coverage of the required skills; 35-40 near-complete, 20-34 solid overlap with gaps, under 20 major gaps.\n")
	sb.WriteString("- experience_relevance (0-25): years and relevance of experience for the target role and department.\n")
	sb.WriteString("- culture_fit_indicators (0-20): collaboration, ownership, communication signals in the profile.\n")
	sb.WriteString("- red_flag_assessment (0-15): higher means fewer concerns; deduct for gaps, very short stints, inconsistencies.\n\n")

	sb.WriteString("Return ONLY a JSON object, no additional text:\n")
	sb.WriteString("{\n")
	sb.WriteString(`  "technical_skill_match": <0-40>,` + "\n")
	sb.WriteString(`  "experience_relevance": <0-25>,` + "\n")
	sb.WriteString(`  "culture_fit_indicators": <0-20>,` + "\n")
	sb.WriteString(`  "red_flag_assessment": <0-15>,` + "\n")
	sb.WriteString(`  "match_reason": "<one of: Excellent Match, Strong Skill Match, Good Fit, Potential Fit, Partial Match, Needs Development, Not a Match>",` + "\n")
	sb.WriteString(`  "missing_skills": ["<required skill the candidate lacks>", ...],` + "\n")
	sb.WriteString(`  "web_verification_notes": "<anything worth verifying externally>",` + "\n")
	sb.WriteString(`  "red_flags": ["<concern>", ...]` + "\n")
	sb.WriteString("}\n")

	return sb.String()
}

// parseAssessment decodes the rubric response. Components are clamped to
// their own maximum before summation; the response is never trusted to
// respect its caps.
func parseAssessment(response string) (Assessment, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(llm.ExtractJSON(response)), &data); err != nil {
		return Assessment{}, fmt.Errorf("parse rubric response: %w", err)
	}

	breakdown := models.ScoreBreakdown{
		TechnicalSkillMatch:  clampComponent(llm.CoerceInt(data["technical_skill_match"], 0), MaxTechnicalSkillMatch),
		ExperienceRelevance:  clampComponent(llm.CoerceInt(data["experience_relevance"], 0), MaxExperienceRelevance),
		CultureFitIndicators: clampComponent(llm.CoerceInt(data["culture_fit_indicators"], 0), MaxCultureFitIndicators),
		RedFlagAssessment:    clampComponent(llm.CoerceInt(data["red_flag_assessment"], 0), MaxRedFlagAssessment),
	}

	total := TotalScore(breakdown)

	reason := llm.CoerceString(data["match_reason"], "")
	if reason == "" {
		reason = reasonForScore(total)
	}

	return Assessment{
		Score:         total,
		MatchReason:   reason,
		MissingSkills: llm.CoerceStringList(data["missing_skills"]),
		Breakdown:     breakdown,
		RedFlags:      llm.CoerceStringList(data["red_flags"]),
	}, nil
}

// TotalScore sums already-clamped components and clamps the result to 100.
func TotalScore(b models.ScoreBreakdown) int {
	total := clampComponent(b.TechnicalSkillMatch, MaxTechnicalSkillMatch) +
		clampComponent(b.ExperienceRelevance, MaxExperienceRelevance) +
		clampComponent(b.CultureFitIndicators, MaxCultureFitIndicators) +
		clampComponent(b.RedFlagAssessment, MaxRedFlagAssessment)
	return clampComponent(total, MaxTotalScore)
}

func clampComponent(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// reasonForScore maps a total score onto the qualitative label scale, used
// when the model omits match_reason.
func reasonForScore(score int) string {
	switch {
	case score >= 85:
		return "Excellent Match"
	case score >= 70:
		return "Strong Skill Match"
	case score >= 60:
		return "Good Fit"
	case score >= 50:
		return "Potential Fit"
	case score >= 40:
		return "Partial Match"
	case score >= 25:
		return "Needs Development"
	default:
		return "Not a Match"
	}
}
