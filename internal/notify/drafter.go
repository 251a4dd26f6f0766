// Package notify drafts the outcome notification for each ranked
// candidate. Drafting failures never surface: the candidate keeps their
// ranking and receives a canned tier-appropriate message instead.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hirestack/screening-agent/internal/llm"
	"github.com/hirestack/screening-agent/internal/models"
)

// Drafter requests personalized notifications from the model.
type Drafter struct {
	client  llm.Client
	logger  *zap.Logger
	timeout time.Duration
}

// NewDrafter creates a drafter backed by the given model client.
func NewDrafter(client llm.Client, logger *zap.Logger, timeout time.Duration) *Drafter {
	return &Drafter{
		client:  client,
		logger:  logger,
		timeout: timeout,
	}
}

// Draft produces the notification body for a candidate's tier. It never
// fails; a model error yields the canned message for that tier.
func (d *Drafter) Draft(ctx context.Context, candidate models.RankedCandidate, targetRole string) string {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	prompt := buildDraftPrompt(candidate, targetRole)
	content, err := d.client.GenerateContent(callCtx, prompt)
	if err != nil {
		d.logger.Warn("notification draft failed, using canned message",
			zap.String("candidate", candidate.Name),
			zap.String("status", string(candidate.ApplicationStatus)),
			zap.Error(err))
		return CannedMessage(candidate.ApplicationStatus, candidate.Name, targetRole)
	}

	return strings.TrimSpace(content)
}

// tierInstruction maps an outcome tier to the drafting instruction.
func tierInstruction(status models.ApplicationStatus) string {
	switch status {
	case models.StatusConfirmed:
		return "Write a warm, congratulatory email inviting the candidate to an interview for the role. Mention their standout strengths."
	case models.StatusWaitlist:
		return "Write an encouraging email letting the candidate know their application is under active consideration and they are on our shortlist."
	default:
		return "Write a respectful, kind email declining the candidate's application while thanking them for their time and encouraging future applications."
	}
}

func buildDraftPrompt(candidate models.RankedCandidate, targetRole string) string {
	var sb strings.Builder

	sb.WriteString("You are writing a recruiting email on behalf of the hiring team.\n\n")
	sb.WriteString(fmt.Sprintf("Candidate Name: %s\n", candidate.Name))
	sb.WriteString(fmt.Sprintf("Role Applied For: %s\n", targetRole))
	if len(candidate.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Key Highlights: %s\n", strings.Join(candidate.Skills, ", ")))
	}
	sb.WriteString("\nInstruction: ")
	sb.WriteString(tierInstruction(candidate.ApplicationStatus))
	sb.WriteString("\n\nReturn only the email body text, no subject line and no JSON.\n")

	return sb.String()
}

// CannedMessage is the deterministic substitute used when drafting fails.
func CannedMessage(status models.ApplicationStatus, name, targetRole string) string {
	switch status {
	case models.StatusConfirmed:
		return fmt.Sprintf("Dear %s, congratulations! We were impressed by your application for the %s position and would like to invite you to an interview. Our team will follow up with scheduling details shortly.", name, targetRole)
	case models.StatusWaitlist:
		return fmt.Sprintf("Dear %s, thank you for applying for the %s position. Your application is under active consideration and we will be in touch with an update soon.", name, targetRole)
	default:
		return fmt.Sprintf("Dear %s, thank you for your interest in the %s position. After careful review we will not be moving forward at this time, but we encourage you to apply for future openings.", name, targetRole)
	}
}
