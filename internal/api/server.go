package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hirestack/screening-agent/internal/agent"
	"github.com/hirestack/screening-agent/internal/export"
)

// progressSnapshot is the latest batch progress reported by the agent.
type progressSnapshot struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// Server handles HTTP requests.
type Server struct {
	agent  *agent.ScreeningAgent
	logger *zap.Logger

	progressMu sync.RWMutex
	progress   progressSnapshot
}

// NewServer creates a new API server.
func NewServer(a *agent.ScreeningAgent, logger *zap.Logger) *Server {
	s := &Server{
		agent:  a,
		logger: logger,
		progress: progressSnapshot{
			Message: "idle",
		},
	}

	a.SetProgressCallback(func(current, total int, message string) {
		s.progressMu.Lock()
		s.progress = progressSnapshot{Current: current, Total: total, Message: message}
		s.progressMu.Unlock()
	})

	return s
}

// Router returns the HTTP router.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("GET /report", s.handleReport)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /", s.handleRoot)

	return s.loggingMiddleware(mux)
}

// handleRoot provides API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"service": "Resume Screening Agent",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"POST /ingest": "Upload resumes or fetch from Gmail and run screening",
			"GET /report":  "Get the ranked screening report",
			"GET /export":  "Download the report as an Excel workbook",
			"GET /status":  "Progress of the current screening batch",
			"GET /health":  "Health check",
		},
	})
}

// handleHealth provides a health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// handleIngest processes document ingestion and runs the screening batch.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32 MB max
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
		return
	}

	method := r.FormValue("method")
	requirementsJSON := r.FormValue("requirements")

	if requirementsJSON == "" {
		s.respondError(w, http.StatusBadRequest, "requirements is required")
		return
	}

	switch method {
	case "upload":
		if err := s.handleUploadMethod(r, requirementsJSON); err != nil {
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	case "gmail":
		gmailSubject := r.FormValue("gmail_subject")
		if gmailSubject == "" {
			s.respondError(w, http.StatusBadRequest, "gmail_subject is required for gmail method")
			return
		}
		if err := s.agent.IngestFromGmail(r.Context(), gmailSubject, requirementsJSON); err != nil {
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	default:
		s.respondError(w, http.StatusBadRequest, "method must be 'upload' or 'gmail'")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Documents ingested and screened successfully",
	})
}

// handleUploadMethod saves uploaded files and runs the batch over them.
func (s *Server) handleUploadMethod(r *http.Request, requirementsJSON string) error {
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		return fmt.Errorf("no files uploaded")
	}

	fileHandler := s.agent.FileHandler

	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			return fmt.Errorf("failed to open uploaded file: %w", err)
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if ext != ".pdf" && ext != ".txt" && ext != ".doc" && ext != ".docx" {
			s.logger.Info("skipping unsupported file type", zap.String("filename", fileHeader.Filename))
			continue
		}

		if _, err := fileHandler.SaveUploadedFile(fileHeader.Filename, file); err != nil {
			return fmt.Errorf("failed to save file %s: %w", fileHeader.Filename, err)
		}
		s.logger.Info("saved uploaded file", zap.String("filename", fileHeader.Filename))
	}

	return s.agent.IngestFromUpload(r.Context(), requirementsJSON)
}

// handleStatus returns the latest progress snapshot.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.progressMu.RLock()
	snapshot := s.progress
	s.progressMu.RUnlock()

	s.respondJSON(w, http.StatusOK, snapshot)
}

// handleReport returns the screening report.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.agent.GetReport()
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, report)
}

// handleExport streams the report as an Excel workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	report, err := s.agent.GetReport()
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	filename := fmt.Sprintf("screening-report-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.WriteTo(w, report); err != nil {
		s.logger.Error("failed to write excel export", zap.Error(err))
	}
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
