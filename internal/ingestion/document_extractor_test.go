package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtractText_PlainText(t *testing.T) {
	content := "Jane Doe\nBackend engineer with 6 years of experience in Go, PostgreSQL and Docker.\n"
	path := writeTempFile(t, "resume.txt", content)

	got, err := ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestExtractText_ShortTextRejected(t *testing.T) {
	path := writeTempFile(t, "resume.txt", "too short")

	_, err := ExtractText(context.Background(), path)
	assert.ErrorIs(t, err, ErrInsufficientText)
}

func TestExtractText_BinaryMasqueradingAsText(t *testing.T) {
	path := writeTempFile(t, "resume.txt", "%PDF-1.4 "+strings.Repeat("\x00\x01", 100))

	_, err := ExtractText(context.Background(), path)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientText)
}

func TestExtractText_UnsupportedExtension(t *testing.T) {
	path := writeTempFile(t, "resume.odt", strings.Repeat("text ", 20))

	_, err := ExtractText(context.Background(), path)
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestExtractText_DocxUnsupported(t *testing.T) {
	path := writeTempFile(t, "resume.docx", "PK\x03\x04")

	_, err := ExtractText(context.Background(), path)
	assert.ErrorContains(t, err, "DOCX extraction not supported")
}

func TestIsBinaryData(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"empty", "", false},
		{"plain text", "Jane Doe\nSoftware Engineer", false},
		{"pdf magic", "%PDF-1.7 rest of stream", true},
		{"zip magic", "PK\x03\x04rest", true},
		{"mostly control bytes", strings.Repeat("\x00\x01\x02", 100), true},
		{"text with newlines and tabs", "line one\n\tline two\r\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBinaryData(tt.content))
		})
	}
}
