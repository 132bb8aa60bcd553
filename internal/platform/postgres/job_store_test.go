package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yonatan12121/TMS/internal/jobs"
	"github.com/yonatan12121/TMS/internal/platform/mail"
	"github.com/yonatan12121/TMS/internal/store"
)

func TestJobStoreSaveJob(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresJobStore(db, testLogger())

	job, err := jobs.NewEmailJob(mail.NewLogSender(testLogger()), mail.Message{
		To: "ada@example.com", Subject: "Hi", Body: "hello",
	})
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO email_jobs")).
		WithArgs(job.ID(), jobs.TypeSendEmail, job.Payload(), "pending", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.SaveJob(context.Background(), job))
}

func TestJobStoreUpdateJobStatus(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresJobStore(db, testLogger())
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE email_jobs")).
		WithArgs("failed", "smtp down", sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.UpdateJobStatus(context.Background(), id, jobs.StatusFailed, "smtp down"))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE email_jobs")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.UpdateJobStatus(context.Background(), id, jobs.StatusCompleted, ""), store.ErrJobNotFound)
}

func TestJobStoreGetJobs(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresJobStore(db, testLogger())
	now := time.Now().UTC()
	cols := []string{"id", "type", "payload", "status", "error_message", "created_at", "updated_at"}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = $1 ORDER BY")).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(uuid.NewString(), jobs.TypeSendEmail, []byte(`{}`), "pending", nil, now, now))

	pending, err := s.GetPendingJobs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, jobs.StatusPending, pending[0].Status)
	assert.Empty(t, pending[0].ErrorMessage)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = $1 AND updated_at < $2")).
		WithArgs("processing", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(cols))

	stuck, err := s.GetProcessingJobs(context.Background(), time.Minute)
	require.NoError(t, err)
	assert.Empty(t, stuck)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = $1 AND updated_at < $2")).
		WithArgs("pending", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(cols))

	stale, err := s.GetPendingJobs(context.Background(), time.Minute)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestJobStoreDeleteFinishedBefore(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresJobStore(db, testLogger())
	before := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM email_jobs")).
		WithArgs("completed", "failed", before).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := s.DeleteFinishedBefore(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
