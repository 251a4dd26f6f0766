// Package export renders a screening report as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hirestack/screening-agent/internal/models"
)

const (
	summarySheet    = "Summary"
	candidatesSheet = "Ranked Candidates"
	declinedSheet   = "Declined"
)

// Row fill colors per tier.
var statusColors = map[models.ApplicationStatus]string{
	models.StatusConfirmed: "C6EFCE",
	models.StatusWaitlist:  "FFEB9C",
	models.StatusRejected:  "FFC7CE",
}

// WriteTo renders the report workbook to w.
func WriteTo(w io.Writer, report models.ReportResponse) error {
	f, err := buildWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}

// SaveToFile renders the report workbook to a file path.
func SaveToFile(outputPath string, report models.ReportResponse) error {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}

	f, err := buildWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file to %s: %w", outputPath, err)
	}
	// Surface permission problems immediately rather than at download time.
	if _, statErr := os.Stat(outputPath); statErr != nil {
		return fmt.Errorf("excel file not written: %w", statErr)
	}
	return nil
}

func buildWorkbook(report models.ReportResponse) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(candidatesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(declinedSheet); err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, report); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeCandidatesSheet(f, report.AllRanked); err != nil {
		return nil, fmt.Errorf("failed to create candidates sheet: %w", err)
	}
	if err := writeDeclinedSheet(f, report.Declined); err != nil {
		return nil, fmt.Errorf("failed to create declined sheet: %w", err)
	}

	return f, nil
}

func writeSummarySheet(f *excelize.File, report models.ReportResponse) error {
	f.SetColWidth(summarySheet, "A", "A", 28)
	f.SetColWidth(summarySheet, "B", "B", 50)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	f.SetCellValue(summarySheet, "A1", "Resume Screening Report")
	f.SetCellStyle(summarySheet, "A1", "B1", headerStyle)
	f.MergeCell(summarySheet, "A1", "B1")

	rows := []struct {
		label string
		value any
	}{
		{"Target Role:", report.TargetRole},
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Candidates Ranked:", len(report.AllRanked)},
		{"Confirmed (interview):", len(report.Confirmed)},
		{"Waitlisted:", len(report.Waitlist)},
		{"Rejected:", len(report.Rejected)},
		{"Documents Declined:", len(report.Declined)},
		{"Notifications Drafted:", len(report.EmailsSent)},
	}

	for i, row := range rows {
		cellA := fmt.Sprintf("A%d", i+3)
		cellB := fmt.Sprintf("B%d", i+3)
		f.SetCellValue(summarySheet, cellA, row.label)
		f.SetCellStyle(summarySheet, cellA, cellA, labelStyle)
		f.SetCellValue(summarySheet, cellB, row.value)
	}

	return nil
}

func writeCandidatesSheet(f *excelize.File, ranked []models.RankedCandidate) error {
	headers := []string{
		"Rank", "Name", "Email", "Status", "Score",
		"Technical (0-40)", "Experience (0-25)", "Culture (0-20)", "Red Flags (0-15)",
		"Match Reason", "Missing Skills", "Red Flags", "Salary Range",
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(candidatesSheet, cell, header)
		f.SetCellStyle(candidatesSheet, cell, cell, headerStyle)
	}

	f.SetColWidth(candidatesSheet, "B", "C", 24)
	f.SetColWidth(candidatesSheet, "J", "M", 28)

	tierStyles := make(map[models.ApplicationStatus]int, len(statusColors))
	for status, color := range statusColors {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		tierStyles[status] = style
	}

	for i, candidate := range ranked {
		row := i + 2
		values := []any{
			i + 1,
			candidate.Name,
			candidate.Email,
			string(candidate.ApplicationStatus),
			candidate.Score,
			candidate.ScoreBreakdown.TechnicalSkillMatch,
			candidate.ScoreBreakdown.ExperienceRelevance,
			candidate.ScoreBreakdown.CultureFitIndicators,
			candidate.ScoreBreakdown.RedFlagAssessment,
			candidate.MatchReason,
			strings.Join(candidate.MissingSkills, ", "),
			strings.Join(candidate.RedFlags, "; "),
			formatSalary(candidate.SalaryBenchmark),
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			f.SetCellValue(candidatesSheet, cell, value)
		}

		if style, ok := tierStyles[candidate.ApplicationStatus]; ok {
			first, _ := excelize.CoordinatesToCellName(1, row)
			last, _ := excelize.CoordinatesToCellName(len(values), row)
			f.SetCellStyle(candidatesSheet, first, last, style)
		}
	}

	return nil
}

func writeDeclinedSheet(f *excelize.File, declined []models.DeclinedEntry) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"C00000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	headers := []string{"File", "Reason", "Document Type"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(declinedSheet, cell, header)
		f.SetCellStyle(declinedSheet, cell, cell, headerStyle)
	}

	f.SetColWidth(declinedSheet, "A", "B", 36)

	for i, entry := range declined {
		row := i + 2
		f.SetCellValue(declinedSheet, fmt.Sprintf("A%d", row), entry.FileName)
		f.SetCellValue(declinedSheet, fmt.Sprintf("B%d", row), entry.Reason)
		f.SetCellValue(declinedSheet, fmt.Sprintf("C%d", row), entry.DocumentType)
	}

	return nil
}

func formatSalary(b models.SalaryBenchmark) string {
	return fmt.Sprintf("%s %d - %d (%s)", b.Currency, b.Min, b.Max, b.Location)
}
