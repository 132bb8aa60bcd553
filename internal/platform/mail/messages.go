package mail

import (
	"fmt"
	"strings"

	"github.com/yonatan12121/TMS/internal/domain"
)

// Subjects of the transactional emails.
const (
	SubjectRegistration  = "Registration Confirmation"
	SubjectPasswordReset = "Password Reset"
	SubjectReport        = "Your Task Report"
)

// RegistrationMessage asks a new user to confirm their email address.
func RegistrationMessage(to, name, verifyURL string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	b.WriteString("Thank you for registering. Please confirm your email address by opening the link below:\n\n")
	fmt.Fprintf(&b, "%s\n\n", verifyURL)
	b.WriteString("The link can be used once and expires after a limited time.\n")
	return Message{To: to, Subject: SubjectRegistration, Body: b.String()}
}

// PasswordResetMessage carries a one-time password reset link.
func PasswordResetMessage(to, resetURL string) Message {
	var b strings.Builder
	b.WriteString("You requested a password reset. Open the link below to choose a new password:\n\n")
	fmt.Fprintf(&b, "%s\n\n", resetURL)
	b.WriteString("The link can be used once and expires after a limited time. If you did not request a reset, ignore this email.\n")
	return Message{To: to, Subject: SubjectPasswordReset, Body: b.String()}
}

// ReportMessage summarizes a task report.
func ReportMessage(to, name string, r *domain.Report) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nHere is your task report:\n\n", name)
	fmt.Fprintf(&b, "Total Tasks: %d\n", r.TotalTasks)
	fmt.Fprintf(&b, "Completed Tasks: %d\n", r.CompletedTasks)
	fmt.Fprintf(&b, "Pending Tasks: %d\n", r.PendingTasks)
	fmt.Fprintf(&b, "For Review Tasks: %d\n", r.ForReviewTasks)
	fmt.Fprintf(&b, "Completion Rate: %.2f%%\n", r.CompletionRate)
	fmt.Fprintf(&b, "Overdue Tasks: %d\n", r.OverdueTasks)
	return Message{To: to, Subject: SubjectReport, Body: b.String()}
}
