package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hirestack/screening-agent/internal/config"
	"github.com/hirestack/screening-agent/internal/ingestion"
	"github.com/hirestack/screening-agent/internal/models"
	"github.com/hirestack/screening-agent/internal/scoring"
)

// fakeStructurer derives the candidate name from the raw text so tests can
// trace documents through the pipeline.
type fakeStructurer struct {
	err error
}

func (f *fakeStructurer) Structure(_ context.Context, rawText, targetRole string) (models.StructuredCandidate, error) {
	if f.err != nil {
		return models.StructuredCandidate{}, f.err
	}
	name := strings.TrimSpace(strings.SplitN(rawText, "\n", 2)[0])
	return models.StructuredCandidate{
		Name:   name,
		Email:  strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Role:   targetRole,
		Skills: []string{"Go"},
	}, nil
}

// fakeScorer assigns scores from a fixed table keyed by candidate name.
type fakeScorer struct {
	scores map[string]int
}

func (f *fakeScorer) Score(_ context.Context, candidate models.StructuredCandidate, _ models.JobRequirements) scoring.Assessment {
	return scoring.Assessment{
		Score:       f.scores[candidate.Name],
		MatchReason: "Good Fit",
	}
}

type fakeDrafter struct{}

func (fakeDrafter) Draft(_ context.Context, candidate models.RankedCandidate, _ string) string {
	return fmt.Sprintf("Dear %s (%s)", candidate.Name, candidate.ApplicationStatus)
}

func newTestAgent(t *testing.T, scores map[string]int, extract TextExtractor) *ScreeningAgent {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.UploadsDir = t.TempDir()
	a := New(cfg, zap.NewNop())
	a.structurer = &fakeStructurer{}
	a.scorer = &fakeScorer{scores: scores}
	a.drafter = fakeDrafter{}
	if extract != nil {
		a.extract = extract
	}
	return a
}

func batchDocuments(n int) []models.ResumeDocument {
	docs := make([]models.ResumeDocument, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("resume%02d.txt", i)
		docs = append(docs, models.ResumeDocument{FileName: name, Path: "/uploads/" + name})
	}
	return docs
}

func TestProcessAndRankResumes_PartitionsBatch(t *testing.T) {
	// Ten documents: two fail extraction, the remaining eight rank into
	// ceil(8*0.2)=2 confirmed, 4 waitlisted, and floor-based 2 rejected.
	scores := map[string]int{}
	extract := func(_ context.Context, path string) (string, error) {
		switch {
		case strings.Contains(path, "resume03"):
			return "", ingestion.ErrInsufficientText
		case strings.Contains(path, "resume07"):
			return "", errors.New("pdftotext exploded")
		}
		name := "Candidate " + path[len(path)-6:len(path)-4]
		scores[name] = 90 - len(scores)*10
		return name + "\n" + strings.Repeat("experience ", 10), nil
	}

	a := newTestAgent(t, scores, extract)
	result := a.ProcessAndRankResumes(context.Background(), batchDocuments(10), models.JobRequirements{TargetRole: "Backend Engineer"})

	assert.Len(t, result.Confirmed, 2)
	assert.Len(t, result.Waitlist, 4)
	assert.Len(t, result.Rejected, 2)
	assert.Len(t, result.AllRanked, 8)
	assert.Len(t, result.Declined, 2)

	// Every submitted document is accounted for exactly once.
	assert.Equal(t, 10, len(result.AllRanked)+len(result.Declined))

	// Scores are distinct, so the ranking order is fully determined.
	for i := 1; i < len(result.AllRanked); i++ {
		assert.GreaterOrEqual(t, result.AllRanked[i-1].Score, result.AllRanked[i].Score)
	}
}

func TestProcessAndRankResumes_DeclinedReasons(t *testing.T) {
	extract := func(_ context.Context, path string) (string, error) {
		if strings.Contains(path, "resume00") {
			return "", ingestion.ErrInsufficientText
		}
		return "", errors.New("antiword missing")
	}

	a := newTestAgent(t, nil, extract)
	result := a.ProcessAndRankResumes(context.Background(), batchDocuments(2), models.JobRequirements{TargetRole: "Backend Engineer"})

	require.Len(t, result.Declined, 2)
	assert.Equal(t, "resume00.txt", result.Declined[0].FileName)
	assert.Equal(t, ReasonInsufficientText, result.Declined[0].Reason)
	assert.Equal(t, "txt", result.Declined[0].DocumentType)
	assert.Equal(t, ReasonUnreadable, result.Declined[1].Reason)
	assert.Empty(t, result.AllRanked)
}

func TestProcessAndRankResumes_ShortTextDeclined(t *testing.T) {
	extract := func(_ context.Context, _ string) (string, error) {
		return "   tiny   ", nil
	}

	a := newTestAgent(t, nil, extract)
	result := a.ProcessAndRankResumes(context.Background(), batchDocuments(1), models.JobRequirements{TargetRole: "Backend Engineer"})

	require.Len(t, result.Declined, 1)
	assert.Equal(t, ReasonInsufficientText, result.Declined[0].Reason)
}

func TestProcessAndRankResumes_StructuringFallsBackToHeuristics(t *testing.T) {
	extract := func(_ context.Context, _ string) (string, error) {
		return "Jane Doe\nBackend engineer with 6 years of experience in Go and PostgreSQL.\njane@example.com", nil
	}

	a := newTestAgent(t, map[string]int{"Jane Doe": 70}, extract)
	a.structurer = &fakeStructurer{err: errors.New("model unavailable")}

	result := a.ProcessAndRankResumes(context.Background(), batchDocuments(1), models.JobRequirements{TargetRole: "Backend Engineer"})

	require.Len(t, result.AllRanked, 1)
	assert.Equal(t, "Jane Doe", result.AllRanked[0].Name)
	assert.Empty(t, result.Declined)
}

func TestProcessAndRankResumes_UnusableHeuristicsDeclined(t *testing.T) {
	extract := func(_ context.Context, _ string) (string, error) {
		// Long enough to pass the length gate but with nothing a
		// heuristic pass can anchor on.
		return strings.Repeat("@@@ ", 20), nil
	}

	a := newTestAgent(t, nil, extract)
	a.structurer = &fakeStructurer{err: errors.New("model unavailable")}

	result := a.ProcessAndRankResumes(context.Background(), batchDocuments(1), models.JobRequirements{TargetRole: "Backend Engineer"})

	require.Len(t, result.Declined, 1)
	assert.Equal(t, ReasonUnreadable, result.Declined[0].Reason)
}

func TestProcessAndRankResumes_EmailsFollowRankingOrder(t *testing.T) {
	scores := map[string]int{}
	extract := func(_ context.Context, path string) (string, error) {
		name := "Candidate " + path[len(path)-6:len(path)-4]
		// Ascending scores by file name so ranking must reorder.
		scores[name] = 10 + len(scores)*15
		return name + "\n" + strings.Repeat("experience ", 10), nil
	}

	a := newTestAgent(t, scores, extract)
	result := a.ProcessAndRankResumes(context.Background(), batchDocuments(5), models.JobRequirements{TargetRole: "Backend Engineer"})

	require.Len(t, result.EmailsSent, len(result.AllRanked))
	for i, email := range result.EmailsSent {
		candidate := result.AllRanked[i]
		assert.Equal(t, candidate.Name, email.Name)
		assert.Equal(t, candidate.ApplicationStatus, email.Status)
		assert.Contains(t, email.EmailContent, string(candidate.ApplicationStatus))
	}
}

func TestProcessAndRankResumes_CandidateIdentity(t *testing.T) {
	extract := func(_ context.Context, _ string) (string, error) {
		return "Jane Doe\n" + strings.Repeat("experience ", 10), nil
	}

	a := newTestAgent(t, map[string]int{"Jane Doe": 80}, extract)
	req := models.JobRequirements{JobPostingID: "job-42", TargetRole: "Backend Engineer"}
	result := a.ProcessAndRankResumes(context.Background(), batchDocuments(1), req)

	require.Len(t, result.AllRanked, 1)
	got := result.AllRanked[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "job-42", got.JobPostingID)
	assert.NotEmpty(t, got.SalaryBenchmark.Currency)
}

func TestIngestFromUpload_EndToEnd(t *testing.T) {
	a := newTestAgent(t, map[string]int{"Jane Doe": 80, "John Smith": 60}, nil)

	for name, text := range map[string]string{
		"a.txt": "Jane Doe\nBackend engineer with 6 years of experience in Go and PostgreSQL.",
		"b.txt": "John Smith\nJunior developer with 1 year of experience in Python scripting.",
	} {
		_, err := a.FileHandler.SaveUploadedFile(name, strings.NewReader(text))
		require.NoError(t, err)
	}

	err := a.IngestFromUpload(context.Background(), `{"target_role":"Backend Engineer","required_skills":["Go"]}`)
	require.NoError(t, err)

	report, err := a.GetReport()
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", report.TargetRole)
	assert.Len(t, report.AllRanked, 2)
	assert.Equal(t, "Jane Doe", report.AllRanked[0].Name)
}

func TestIngestFromUpload_EmptyDirectory(t *testing.T) {
	a := newTestAgent(t, nil, nil)

	err := a.IngestFromUpload(context.Background(), `{"target_role":"Backend Engineer"}`)
	assert.ErrorContains(t, err, "no documents")
}

func TestParseRequirements(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{"valid", `{"target_role":"SRE","required_skills":["Kubernetes"]}`, ""},
		{"missing role", `{"required_skills":["Go"]}`, "target_role is required"},
		{"blank role", `{"target_role":"   "}`, "target_role is required"},
		{"malformed", `{not json`, "failed to parse job requirements"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := parseRequirements(tt.json)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "SRE", req.TargetRole)
		})
	}
}

func TestGetReport_BeforeIngestion(t *testing.T) {
	a := newTestAgent(t, nil, nil)

	_, err := a.GetReport()
	assert.ErrorContains(t, err, "no results")
}

func TestProcessAndRankResumes_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newTestAgent(t, nil, nil)
	result := a.ProcessAndRankResumes(ctx, batchDocuments(3), models.JobRequirements{TargetRole: "Backend Engineer"})

	assert.Empty(t, result.AllRanked)
	assert.Empty(t, result.Declined)
}
