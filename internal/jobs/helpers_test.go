package jobs

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/platform/mail"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// memStore is an in-memory JobStore.
type memStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*Record
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{records: make(map[uuid.UUID]*Record)}
}

func (s *memStore) SaveJob(ctx context.Context, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	now := time.Now().UTC()
	s.records[job.ID()] = &Record{
		ID:        job.ID(),
		Type:      job.Type(),
		Payload:   job.Payload(),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (s *memStore) put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = &rec
}

func (s *memStore) UpdateJobStatus(ctx context.Context, id uuid.UUID, status Status, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		rec.Status = status
		rec.ErrorMessage = errorMsg
		rec.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (s *memStore) byStatus(status Status, olderThan time.Duration) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, 0)
	cutoff := time.Now().UTC().Add(-olderThan)
	for _, rec := range s.records {
		if rec.Status != status {
			continue
		}
		if olderThan > 0 && !rec.UpdatedAt.Before(cutoff) {
			continue
		}
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *memStore) GetPendingJobs(ctx context.Context, olderThan time.Duration) ([]Record, error) {
	return s.byStatus(StatusPending, olderThan), nil
}

func (s *memStore) GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]Record, error) {
	return s.byStatus(StatusProcessing, olderThan), nil
}

func (s *memStore) DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, rec := range s.records {
		if (rec.Status == StatusCompleted || rec.Status == StatusFailed) && rec.UpdatedAt.Before(before) {
			delete(s.records, id)
			n++
		}
	}
	return n, nil
}

// age moves a record's last update back by d.
func (s *memStore) age(id uuid.UUID, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		rec.UpdatedAt = rec.UpdatedAt.Add(-d)
	}
}

func (s *memStore) status(id uuid.UUID) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		return rec.Status
	}
	return ""
}

// funcJob is a Job whose behavior is supplied by the test.
type funcJob struct {
	id      uuid.UUID
	jobType string
	fn      func(ctx context.Context) error
}

func newFuncJob(fn func(ctx context.Context) error) *funcJob {
	return &funcJob{id: uuid.New(), jobType: "test", fn: fn}
}

func (j *funcJob) ID() uuid.UUID                     { return j.id }
func (j *funcJob) Type() string                      { return j.jobType }
func (j *funcJob) Payload() []byte                   { return []byte(`{}`) }
func (j *funcJob) Execute(ctx context.Context) error { return j.fn(ctx) }

// recordingSender collects sent messages.
type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) messages() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mail.Message(nil), s.sent...)
}
