// Package agent orchestrates the screening pipeline end to end:
// extraction, structuring, scoring, salary estimation, ranking, and
// notification drafting. A failure on one document never aborts the batch;
// documents that cannot become candidates are collected in the declined
// list so every submitted file is accounted for.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hirestack/screening-agent/internal/config"
	"github.com/hirestack/screening-agent/internal/ingestion"
	"github.com/hirestack/screening-agent/internal/llm"
	"github.com/hirestack/screening-agent/internal/models"
	"github.com/hirestack/screening-agent/internal/notify"
	"github.com/hirestack/screening-agent/internal/ranking"
	"github.com/hirestack/screening-agent/internal/salary"
	"github.com/hirestack/screening-agent/internal/scoring"
	"github.com/hirestack/screening-agent/internal/structuring"
)

// Declined-entry reasons.
const (
	ReasonInsufficientText = "insufficient text"
	ReasonUnreadable       = "unreadable"
)

// ProgressCallback is called to report progress during processing.
type ProgressCallback func(current, total int, message string)

// Structurer turns raw resume text into a structured candidate record.
type Structurer interface {
	Structure(ctx context.Context, rawText, targetRole string) (models.StructuredCandidate, error)
}

// CandidateScorer assesses a structured candidate against a job posting.
type CandidateScorer interface {
	Score(ctx context.Context, candidate models.StructuredCandidate, req models.JobRequirements) scoring.Assessment
}

// NotificationDrafter produces the outcome message for a ranked candidate.
type NotificationDrafter interface {
	Draft(ctx context.Context, candidate models.RankedCandidate, targetRole string) string
}

// TextExtractor produces raw text from a document on disk.
type TextExtractor func(ctx context.Context, path string) (string, error)

// ScreeningAgent drives the resume screening pipeline.
type ScreeningAgent struct {
	FileHandler  *ingestion.FileHandler
	gmailHandler *ingestion.GmailHandler

	cfg    *config.Config
	logger *zap.Logger

	llmClient  llm.Client
	structurer Structurer
	scorer     CandidateScorer
	drafter    NotificationDrafter
	extract    TextExtractor

	requirements models.JobRequirements
	result       *models.BatchResult
	mu           sync.RWMutex
	progressCb   ProgressCallback
}

// New creates a screening agent. The model client is initialized lazily on
// the first ingestion so the server can start without credentials.
func New(cfg *config.Config, logger *zap.Logger) *ScreeningAgent {
	return &ScreeningAgent{
		FileHandler: ingestion.NewFileHandler(cfg.UploadsDir),
		cfg:         cfg,
		logger:      logger,
		extract:     ingestion.ExtractText,
	}
}

// SetProgressCallback sets the progress callback function.
func (a *ScreeningAgent) SetProgressCallback(cb ProgressCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.progressCb = cb
}

// reportProgress calls the progress callback if set.
func (a *ScreeningAgent) reportProgress(current, total int, message string) {
	a.mu.RLock()
	cb := a.progressCb
	a.mu.RUnlock()

	if cb != nil {
		cb(current, total, message)
	}
}

// IngestFromUpload screens the documents in the uploads directory.
func (a *ScreeningAgent) IngestFromUpload(ctx context.Context, requirementsJSON string) error {
	req, err := parseRequirements(requirementsJSON)
	if err != nil {
		return err
	}

	a.reportProgress(0, 100, "Initializing model client...")
	if err := a.ensurePipeline(ctx); err != nil {
		return err
	}

	a.reportProgress(10, 100, "Loading documents...")
	documents, err := a.FileHandler.ListDocuments()
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}
	if len(documents) == 0 {
		return errors.New("no documents found in uploads directory")
	}

	a.logger.Info("screening batch", zap.Int("documents", len(documents)), zap.String("target_role", req.TargetRole))
	a.reportProgress(20, 100, fmt.Sprintf("Processing %d resumes...", len(documents)))

	result := a.ProcessAndRankResumes(ctx, documents, req)
	if err := ctx.Err(); err != nil {
		return err
	}

	a.storeResult(req, result)
	a.reportProgress(100, 100, "Processing complete!")
	return nil
}

// IngestFromGmail fetches resume attachments by subject filter and screens them.
func (a *ScreeningAgent) IngestFromGmail(ctx context.Context, subject, requirementsJSON string) error {
	req, err := parseRequirements(requirementsJSON)
	if err != nil {
		return err
	}

	a.reportProgress(0, 100, "Initializing Gmail handler...")
	if a.gmailHandler == nil {
		handler, err := ingestion.NewGmailHandler(ctx, a.cfg.GmailCredentialsPath, a.cfg.UploadsDir, a.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize Gmail handler: %w", err)
		}
		a.gmailHandler = handler
	}

	a.reportProgress(5, 100, "Clearing existing uploads...")
	if err := a.FileHandler.ClearUploads(); err != nil {
		return fmt.Errorf("failed to clear uploads: %w", err)
	}

	a.reportProgress(10, 100, "Fetching emails from Gmail...")
	if err := a.gmailHandler.FetchAttachments(ctx, subject); err != nil {
		return fmt.Errorf("failed to fetch Gmail attachments: %w", err)
	}

	a.reportProgress(30, 100, "Initializing model client...")
	if err := a.ensurePipeline(ctx); err != nil {
		return err
	}

	a.reportProgress(40, 100, "Loading documents...")
	documents, err := a.FileHandler.ListDocuments()
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}
	if len(documents) == 0 {
		return fmt.Errorf("no documents found after Gmail fetch with subject: %s", subject)
	}

	a.logger.Info("screening gmail batch", zap.Int("documents", len(documents)), zap.String("target_role", req.TargetRole))
	result := a.ProcessAndRankResumes(ctx, documents, req)
	if err := ctx.Err(); err != nil {
		return err
	}

	a.storeResult(req, result)
	a.reportProgress(100, 100, "Processing complete!")
	return nil
}

// ProcessAndRankResumes runs the full pipeline over a set of documents.
// Documents are processed sequentially to completion; ranking runs once
// the whole loop finishes, so it depends only on the accumulated scores.
func (a *ScreeningAgent) ProcessAndRankResumes(ctx context.Context, documents []models.ResumeDocument, req models.JobRequirements) models.BatchResult {
	candidates := make([]models.ScoredCandidate, 0, len(documents))
	declined := []models.DeclinedEntry{}

	for i, doc := range documents {
		select {
		case <-ctx.Done():
			return models.BatchResult{}
		default:
		}

		a.reportProgress(20+60*i/len(documents), 100,
			fmt.Sprintf("Evaluating %s (%d/%d)", doc.FileName, i+1, len(documents)))

		candidate, entry := a.processDocument(ctx, doc, req)
		if entry != nil {
			declined = append(declined, *entry)
			continue
		}
		candidates = append(candidates, *candidate)
	}

	a.reportProgress(85, 100, "Ranking candidates...")
	ranked := ranking.Rank(candidates)

	a.reportProgress(90, 100, "Drafting notifications...")
	emails := make([]models.EmailRecord, 0, len(ranked.AllRanked))
	for _, candidate := range ranked.AllRanked {
		emails = append(emails, models.EmailRecord{
			Name:         candidate.Name,
			Email:        candidate.Email,
			Status:       candidate.ApplicationStatus,
			EmailContent: a.drafter.Draft(ctx, candidate, req.TargetRole),
		})
	}

	return models.BatchResult{
		Confirmed:  ranked.Confirmed,
		Waitlist:   ranked.Waitlist,
		Rejected:   ranked.Rejected,
		AllRanked:  ranked.AllRanked,
		Declined:   declined,
		EmailsSent: emails,
	}
}

// processDocument takes one document through extraction, structuring,
// scoring, and salary estimation. It returns either a scored candidate or
// a declined entry, never both.
func (a *ScreeningAgent) processDocument(ctx context.Context, doc models.ResumeDocument, req models.JobRequirements) (*models.ScoredCandidate, *models.DeclinedEntry) {
	docType := strings.TrimPrefix(strings.ToLower(filepath.Ext(doc.FileName)), ".")

	text, err := a.extract(ctx, doc.Path)
	if err != nil {
		reason := ReasonUnreadable
		if errors.Is(err, ingestion.ErrInsufficientText) {
			reason = ReasonInsufficientText
		}
		a.logger.Warn("document declined at extraction",
			zap.String("file", doc.FileName), zap.String("reason", reason), zap.Error(err))
		return nil, &models.DeclinedEntry{FileName: doc.FileName, Reason: reason, DocumentType: docType}
	}

	if len(strings.TrimSpace(text)) < ingestion.MinUsableTextLength {
		a.logger.Warn("document declined, too little text", zap.String("file", doc.FileName))
		return nil, &models.DeclinedEntry{FileName: doc.FileName, Reason: ReasonInsufficientText, DocumentType: docType}
	}

	candidate, err := a.structurer.Structure(ctx, text, req.TargetRole)
	if err != nil {
		// The structurer usually absorbs its own failures; if the whole
		// call path still errored, try the heuristics once more here.
		a.logger.Warn("structuring failed, retrying heuristics at orchestrator level",
			zap.String("file", doc.FileName), zap.Error(err))
		candidate = structuring.HeuristicStructure(text, req.TargetRole)
		if !structuring.Usable(candidate) {
			return nil, &models.DeclinedEntry{FileName: doc.FileName, Reason: ReasonUnreadable, DocumentType: docType}
		}
	}

	assessment := a.scorer.Score(ctx, candidate, req)

	scored := models.ScoredCandidate{
		StructuredCandidate: candidate,
		ID:                  newCandidateID(),
		JobPostingID:        req.JobPostingID,
		Score:               assessment.Score,
		MatchReason:         assessment.MatchReason,
		MissingSkills:       assessment.MissingSkills,
		ScoreBreakdown:      assessment.Breakdown,
		RedFlags:            assessment.RedFlags,
		SalaryBenchmark:     salary.Estimate(candidate.Role, candidate.ExperienceYears),
	}

	a.logger.Debug("candidate scored",
		zap.String("file", doc.FileName),
		zap.String("candidate", candidate.Name),
		zap.Int("score", scored.Score))

	return &scored, nil
}

// ensurePipeline initializes the model client and the pipeline stages.
func (a *ScreeningAgent) ensurePipeline(ctx context.Context) error {
	if a.structurer != nil && a.scorer != nil && a.drafter != nil {
		return nil
	}

	client, err := llm.NewClient(ctx, llm.Options{
		Provider:  llm.Provider(a.cfg.Provider),
		APIKey:    a.providerAPIKey(),
		Model:     a.cfg.Model,
		ProjectID: a.cfg.GoogleCloudProject,
		Location:  a.cfg.GoogleCloudLocation,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize model client: %w", err)
	}

	timeout := a.cfg.RequestTimeout()
	a.llmClient = client
	a.structurer = structuring.NewStructurer(client, a.logger, timeout)
	a.scorer = scoring.NewScorer(client, a.logger, timeout)
	a.drafter = notify.NewDrafter(client, a.logger, timeout)
	return nil
}

func (a *ScreeningAgent) providerAPIKey() string {
	if a.cfg.Provider == "groq" {
		return a.cfg.GroqAPIKey
	}
	return a.cfg.GeminiAPIKey
}

func (a *ScreeningAgent) storeResult(req models.JobRequirements, result models.BatchResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requirements = req
	a.result = &result
}

// GetReport returns the latest batch result.
func (a *ScreeningAgent) GetReport() (models.ReportResponse, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.result == nil {
		return models.ReportResponse{}, errors.New("no results available, run ingestion first")
	}

	return models.ReportResponse{
		BatchResult: *a.result,
		TargetRole:  a.requirements.TargetRole,
		Timestamp:   time.Now().Format(time.RFC3339),
	}, nil
}

// GetRequirements returns the requirements of the latest batch.
func (a *ScreeningAgent) GetRequirements() models.JobRequirements {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.requirements
}

// Close releases the model client.
func (a *ScreeningAgent) Close() error {
	if a.llmClient != nil {
		return a.llmClient.Close()
	}
	return nil
}

func parseRequirements(requirementsJSON string) (models.JobRequirements, error) {
	var req models.JobRequirements
	if err := json.Unmarshal([]byte(requirementsJSON), &req); err != nil {
		return models.JobRequirements{}, fmt.Errorf("failed to parse job requirements: %w", err)
	}
	if strings.TrimSpace(req.TargetRole) == "" {
		return models.JobRequirements{}, errors.New("target_role is required")
	}
	return req, nil
}

// newCandidateID allocates a batch-unique candidate id.
func newCandidateID() string {
	return uuid.NewString()
}
