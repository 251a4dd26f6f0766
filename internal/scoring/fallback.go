package scoring

import (
	"math"
	"strings"

	"github.com/hirestack/screening-agent/internal/models"
)

// Neutral defaults for the components the fallback cannot judge without
// the model.
const (
	fallbackCultureFit = 12
	fallbackRedFlag    = 12
)

// FallbackAssessment computes a deterministic score from skill overlap and
// experience alone. With no required skills there is nothing to fail to
// match, so the technical component gets full credit.
func FallbackAssessment(candidate models.StructuredCandidate, requiredSkills []string) Assessment {
	matched, missing := matchSkills(candidate.Skills, requiredSkills)

	tech := MaxTechnicalSkillMatch
	if len(requiredSkills) > 0 {
		tech = int(math.Round(float64(len(matched)) / float64(len(requiredSkills)) * MaxTechnicalSkillMatch))
	}

	exp := candidate.ExperienceYears * 3
	if exp > MaxExperienceRelevance {
		exp = MaxExperienceRelevance
	}

	breakdown := models.ScoreBreakdown{
		TechnicalSkillMatch:  tech,
		ExperienceRelevance:  exp,
		CultureFitIndicators: fallbackCultureFit,
		RedFlagAssessment:    fallbackRedFlag,
	}

	var reason string
	switch {
	case len(matched) >= 3:
		reason = "Strong Skill Match"
	case len(matched) >= 1:
		reason = "Partial Match"
	default:
		reason = "Needs Review"
	}

	return Assessment{
		Score:         TotalScore(breakdown),
		MatchReason:   reason,
		MissingSkills: missing,
		Breakdown:     breakdown,
		RedFlags:      []string{},
	}
}

// matchSkills splits the required set into matched and missing using
// case-insensitive comparison. Missing skills keep the required casing.
func matchSkills(candidateSkills, requiredSkills []string) (matched, missing []string) {
	have := make(map[string]bool, len(candidateSkills))
	for _, skill := range candidateSkills {
		have[strings.ToLower(strings.TrimSpace(skill))] = true
	}

	matched = []string{}
	missing = []string{}
	for _, required := range requiredSkills {
		if have[strings.ToLower(strings.TrimSpace(required))] {
			matched = append(matched, required)
		} else {
			missing = append(missing, required)
		}
	}
	return matched, missing
}
