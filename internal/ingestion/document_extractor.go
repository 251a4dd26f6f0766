package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	// MinUsableTextLength is the minimum extracted-text length for a
	// document to enter the screening pipeline.
	MinUsableTextLength = 50
	// BinarySampleSize is the number of bytes to sample for binary detection.
	BinarySampleSize = 1000
	// BinaryThreshold is the proportion of non-printable characters that indicates binary data.
	BinaryThreshold = 0.3
)

// ErrInsufficientText reports a document whose extracted text is too short
// to be a readable resume.
var ErrInsufficientText = errors.New("extracted text below usable length")

// ExtractText extracts text from PDF, DOC, or TXT resume files.
func ExtractText(ctx context.Context, filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".txt":
		return extractPlainText(filePath)
	case ".pdf":
		return extractPDF(ctx, filePath)
	case ".doc":
		return extractDOC(ctx, filePath)
	case ".docx":
		return "", fmt.Errorf("DOCX extraction not supported, convert to PDF or TXT first: %s", filePath)
	default:
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
}

func extractPlainText(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}

	text := string(data)
	if IsBinaryData(text) {
		return "", fmt.Errorf("file %s has a .txt extension but binary content", filePath)
	}
	if len(strings.TrimSpace(text)) < MinUsableTextLength {
		return "", ErrInsufficientText
	}

	return text, nil
}

// extractPDF extracts text from PDF using pdftotext (poppler-utils).
func extractPDF(ctx context.Context, filePath string) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", filePath, "-")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("PDF extraction requires 'pdftotext' (install poppler-utils): %w", err)
	}

	text := string(output)
	if len(strings.TrimSpace(text)) < MinUsableTextLength {
		return "", ErrInsufficientText
	}

	return text, nil
}

// extractDOC extracts text from legacy .doc files using antiword.
func extractDOC(ctx context.Context, filePath string) (string, error) {
	cmd := exec.CommandContext(ctx, "antiword", filePath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("DOC extraction requires 'antiword': %w", err)
	}

	text := string(output)
	if len(strings.TrimSpace(text)) < MinUsableTextLength {
		return "", ErrInsufficientText
	}

	return text, nil
}

// IsBinaryData checks if content appears to be binary (PDF/ZIP markers).
func IsBinaryData(content string) bool {
	if len(content) == 0 {
		return false
	}

	// PDF magic number
	if strings.HasPrefix(content, "%PDF-") {
		return true
	}

	// ZIP magic number (DOCX files)
	if len(content) >= 2 && content[:2] == "PK" {
		return true
	}

	sampleSize := min(BinarySampleSize, len(content))
	nonPrintable := 0
	for i := 0; i < sampleSize; i++ {
		ch := content[i]
		if ch < 32 && ch != '\n' && ch != '\r' && ch != '\t' {
			nonPrintable++
		}
	}

	return float64(nonPrintable)/float64(sampleSize) > BinaryThreshold
}
