package ingestion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hirestack/screening-agent/internal/models"
)

var supportedExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".doc":  true,
	".docx": true,
}

// FileHandler manages the uploads directory resumes are screened from.
type FileHandler struct {
	uploadsDir string
}

// NewFileHandler creates a new file handler.
func NewFileHandler(uploadsDir string) *FileHandler {
	return &FileHandler{
		uploadsDir: uploadsDir,
	}
}

// SaveUploadedFile saves an uploaded file to the uploads directory.
func (fh *FileHandler) SaveUploadedFile(filename string, content io.Reader) (string, error) {
	if err := os.MkdirAll(fh.uploadsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	// Uploaded names come from clients; keep only the base name.
	filePath := filepath.Join(fh.uploadsDir, filepath.Base(filename))
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filePath, nil
}

// ListDocuments enumerates resume documents in the uploads directory,
// sorted by file name so batch runs are reproducible.
func (fh *FileHandler) ListDocuments() ([]models.ResumeDocument, error) {
	files, err := os.ReadDir(fh.uploadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.ResumeDocument{}, nil
		}
		return nil, fmt.Errorf("failed to read uploads directory: %w", err)
	}

	documents := make([]models.ResumeDocument, 0, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		filename := file.Name()
		if !supportedExtensions[strings.ToLower(filepath.Ext(filename))] {
			continue
		}

		documents = append(documents, models.ResumeDocument{
			FileName: filename,
			Path:     filepath.Join(fh.uploadsDir, filename),
		})
	}

	sort.Slice(documents, func(i, j int) bool {
		return documents[i].FileName < documents[j].FileName
	})

	return documents, nil
}

// ClearUploads removes all files from the uploads directory.
func (fh *FileHandler) ClearUploads() error {
	if err := os.RemoveAll(fh.uploadsDir); err != nil {
		return fmt.Errorf("failed to clear uploads directory: %w", err)
	}
	return os.MkdirAll(fh.uploadsDir, 0755)
}
