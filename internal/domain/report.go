package domain

import (
	"math"
	"time"
)

// Report summarizes the tasks a user owns or is assigned to.
type Report struct {
	TotalTasks     int       `json:"total_tasks"`
	CompletedTasks int       `json:"completed_tasks"`
	PendingTasks   int       `json:"pending_tasks"`
	ForReviewTasks int       `json:"for_review_tasks"`
	OverdueTasks   int       `json:"overdue_tasks"`
	CompletionRate float64   `json:"completion_rate"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// BuildReport aggregates tasks as of now.
// Each task is expected once; callers de-duplicate.
func BuildReport(tasks []Task, now time.Time) *Report {
	r := &Report{GeneratedAt: now.UTC()}
	for i := range tasks {
		t := &tasks[i]
		r.TotalTasks++
		switch t.Status {
		case StatusCompleted:
			r.CompletedTasks++
		case StatusPending:
			r.PendingTasks++
		case StatusForReview:
			r.ForReviewTasks++
		}
		if t.IsOverdue(now) {
			r.OverdueTasks++
		}
	}
	r.CompletionRate = CompletionRate(r.CompletedTasks, r.TotalTasks)
	return r
}

// CompletionRate returns completed/total as a percentage rounded to two
// decimals. It is 0 when total is 0.
func CompletionRate(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	rate := float64(completed) / float64(total) * 100
	return math.Round(rate*100) / 100
}
