// Package domain holds the task management entities (users, tasks,
// comments, categories, notifications, reports), their enums and the
// validation rules that apply regardless of storage or transport.
package domain
