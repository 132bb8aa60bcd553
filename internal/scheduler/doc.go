// Package scheduler runs the periodic maintenance of the service on cron
// schedules: clearing expired verification and reset tokens, and purging
// finished email jobs.
package scheduler
