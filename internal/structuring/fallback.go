package structuring

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hirestack/screening-agent/internal/models"
)

// PlaceholderName is used when no candidate name can be extracted.
const PlaceholderName = "Candidate"

const (
	defaultExperienceYears = 2
	maxExperienceYears     = 30
	nameScanWindow         = 500
)

// skillVocabulary is the fixed set of technology keywords the heuristic
// extractor recognises, in canonical casing.
var skillVocabulary = []string{
	"Python", "JavaScript", "TypeScript", "Java", "Go", "C++", "C#", "Ruby",
	"PHP", "Swift", "Kotlin", "Rust", "Scala", "SQL", "HTML", "CSS",
	"React", "Angular", "Vue", "Next.js", "Node.js", "Express", "Django",
	"Flask", "Spring", "Rails", ".NET", "GraphQL", "REST",
	"Docker", "Kubernetes", "Terraform", "Jenkins", "CI/CD", "Git", "Linux",
	"AWS", "Azure", "GCP",
	"MongoDB", "PostgreSQL", "MySQL", "Redis", "Elasticsearch", "Kafka",
	"Machine Learning", "Deep Learning", "TensorFlow", "PyTorch", "Pandas",
	"Data Analysis", "Figma", "Agile", "Scrum",
}

var (
	emailRe      = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	experienceRe = regexp.MustCompile(`(?i)(\d{1,2})\s*\+?\s*(?:years?|yrs?)(?:\s+of)?\s+(?:experience|exp)\b`)

	nameLabelRe   = regexp.MustCompile(`(?im)^\s*name\s*[:\-]\s*([A-Za-z][A-Za-z .'\-]{1,60})\s*$`)
	capitPairRe   = regexp.MustCompile(`\b([A-Z][a-z]+\s+[A-Z][a-z]+)\b`)
	fullNameRe    = regexp.MustCompile(`(?m)^([A-Z][a-z]+(?:\s+[A-Z]\.?)?\s+[A-Z][a-z]+)\s*$`)
	urlMarkers    = []string{"http://", "https://", "www."}
	leadingDigits = regexp.MustCompile(`^\d`)
)

// HeuristicStructure extracts a candidate record from raw text using only
// local patterns. It always produces a record; callers decide whether the
// result is usable via Usable.
func HeuristicStructure(rawText, targetRole string) models.StructuredCandidate {
	return models.StructuredCandidate{
		Name:              extractName(rawText),
		Email:             extractEmail(rawText),
		Role:              targetRole,
		ExperienceYears:   extractExperienceYears(rawText),
		Skills:            extractSkills(rawText),
		Education:         "",
		Summary:           "",
		PreviousCompanies: []models.CompanyStint{},
	}
}

// Usable reports whether a heuristically extracted record carries enough
// signal to score: either a real name or at least one recognised skill.
func Usable(c models.StructuredCandidate) bool {
	return c.Name != PlaceholderName || len(c.Skills) > 0
}

// extractName tries four patterns in order; the first hit wins.
func extractName(text string) string {
	// (a) first non-empty line, if it looks like a name
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if looksNameLike(line) {
			return line
		}
		break
	}

	// (b) explicit "Name: X" label
	if m := nameLabelRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	// (c) two consecutive capitalized words near the top of the document
	window := text
	if len(window) > nameScanWindow {
		window = window[:nameScanWindow]
	}
	if m := capitPairRe.FindStringSubmatch(window); m != nil {
		return m[1]
	}

	// (d) "Firstname [M.] Lastname" alone on a line
	if m := fullNameRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	return PlaceholderName
}

func looksNameLike(line string) bool {
	if line == "" || leadingDigits.MatchString(line) {
		return false
	}
	first := rune(line[0])
	if !(first >= 'A' && first <= 'Z' || first >= 'a' && first <= 'z') {
		return false
	}
	if strings.Contains(line, "@") {
		return false
	}
	lower := strings.ToLower(line)
	for _, marker := range urlMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

// extractEmail returns the first email-shaped match, or empty.
func extractEmail(text string) string {
	return emailRe.FindString(text)
}

// extractSkills intersects the fixed vocabulary against the lower-cased
// text, preserving the vocabulary's canonical casing in the output.
func extractSkills(text string) []string {
	lower := strings.ToLower(text)
	skills := []string{}
	for _, skill := range skillVocabulary {
		if strings.Contains(lower, strings.ToLower(skill)) {
			skills = append(skills, skill)
		}
	}
	return skills
}

// extractExperienceYears parses "N[+] years of experience" phrasings,
// clamped to [0, 30], defaulting to 2 when nothing matches.
func extractExperienceYears(text string) int {
	m := experienceRe.FindStringSubmatch(text)
	if m == nil {
		return defaultExperienceYears
	}

	years, err := strconv.Atoi(m[1])
	if err != nil {
		return defaultExperienceYears
	}
	if years < 0 {
		return 0
	}
	if years > maxExperienceYears {
		return maxExperienceYears
	}
	return years
}
