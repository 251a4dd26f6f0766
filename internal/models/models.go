package models

// ApplicationStatus is the tier assigned to a candidate by the batch ranker.
type ApplicationStatus string

const (
	StatusConfirmed ApplicationStatus = "confirmed"
	StatusWaitlist  ApplicationStatus = "waitlist"
	StatusRejected  ApplicationStatus = "rejected"
)

// JobRequirements describes the posting a batch of resumes is screened against.
type JobRequirements struct {
	JobPostingID   string   `json:"job_posting_id"`
	TargetRole     string   `json:"target_role"`
	Department     string   `json:"department"`
	RequiredSkills []string `json:"required_skills"`
	Description    string   `json:"description"`
}

// CompanyStint is one entry of a candidate's employment history,
// in the chronological order it appeared in the source text.
type CompanyStint struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Duration string `json:"duration"`
	Context  string `json:"context"`
}

// StructuredCandidate is the normalized output of resume structuring.
// ExperienceYears is always a non-negative integer, never raw model output.
type StructuredCandidate struct {
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	Role              string         `json:"role"`
	ExperienceYears   int            `json:"experience_years"`
	Skills            []string       `json:"skills"`
	Education         string         `json:"education"`
	Summary           string         `json:"summary"`
	PreviousCompanies []CompanyStint `json:"previous_companies"`
}

// ScoreBreakdown holds the four bounded scoring components.
type ScoreBreakdown struct {
	TechnicalSkillMatch  int `json:"technical_skill_match"`  // 0-40
	ExperienceRelevance  int `json:"experience_relevance"`   // 0-25
	CultureFitIndicators int `json:"culture_fit_indicators"` // 0-20
	RedFlagAssessment    int `json:"red_flag_assessment"`    // 0-15, higher = fewer flags
}

// SalaryBenchmark is a deterministic salary range estimate for a role.
type SalaryBenchmark struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
	Location string `json:"location"`
}

// ScoredCandidate is a structured candidate with its fitness assessment attached.
type ScoredCandidate struct {
	StructuredCandidate
	ID              string          `json:"id"`
	JobPostingID    string          `json:"job_posting_id"`
	Score           int             `json:"score"` // 0-100
	MatchReason     string          `json:"match_reason"`
	MissingSkills   []string        `json:"missing_skills"`
	ScoreBreakdown  ScoreBreakdown  `json:"score_breakdown"`
	RedFlags        []string        `json:"red_flags"`
	SalaryBenchmark SalaryBenchmark `json:"salary_benchmark"`
}

// RankedCandidate is a scored candidate with its batch tier assigned.
// The status is recomputed from scratch on every ranker run.
type RankedCandidate struct {
	ScoredCandidate
	ApplicationStatus ApplicationStatus `json:"application_status"`
}

// DeclinedEntry records a document that could not become a candidate record.
type DeclinedEntry struct {
	FileName     string `json:"file_name"`
	Reason       string `json:"reason"`
	DocumentType string `json:"document_type,omitempty"`
}

// EmailRecord is one drafted notification, in ranker output order.
type EmailRecord struct {
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Status       ApplicationStatus `json:"status"`
	EmailContent string            `json:"email_content"`
}

// BatchResult is the full outcome of one screening run.
// AllRanked plus Declined always covers every submitted document.
type BatchResult struct {
	Confirmed  []RankedCandidate `json:"confirmed"`
	Waitlist   []RankedCandidate `json:"waitlist"`
	Rejected   []RankedCandidate `json:"rejected"`
	AllRanked  []RankedCandidate `json:"all_ranked"`
	Declined   []DeclinedEntry   `json:"declined"`
	EmailsSent []EmailRecord     `json:"emails_sent"`
}

// ResumeDocument is one uploaded file queued for screening.
type ResumeDocument struct {
	FileName string `json:"file_name"`
	Path     string `json:"path"`
}

// IngestRequest is the request payload for document ingestion.
type IngestRequest struct {
	Method       string `json:"method"`        // "upload" or "gmail"
	GmailSubject string `json:"gmail_subject"` // Subject filter for Gmail
	Requirements string `json:"requirements"`  // JobRequirements JSON
}

// ReportResponse is the API response with the ranked batch.
type ReportResponse struct {
	BatchResult
	TargetRole string `json:"target_role"`
	Timestamp  string `json:"timestamp"`
}
