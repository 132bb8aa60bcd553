// Package service contains the application use cases of the task management
// service. It orchestrates domain objects and the repositories defined in
// internal/store.
//
// Key components:
//
//   - AccountService: registration, email verification, login, password reset
//   - TaskService: the task lifecycle, assignment, sharing and comments
//   - CategoryService: per-user task categories
//   - NotificationService: records task events as per-user notifications
//   - ReportService: task statistics, optionally mailed to the user
//
// Services receive their dependencies through constructor injection and never
// depend on a specific infrastructure implementation. Expected failures are
// returned as sentinel errors (from this package, store or domain) so the API
// layer can map them with errors.Is; unexpected failures are wrapped in a
// ServiceError that keeps the cause reachable.
package service
