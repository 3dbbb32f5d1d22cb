package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/wrestlepro/wrestlepro/internal/domain/job"
	"github.com/wrestlepro/wrestlepro/internal/jobs"
	"github.com/wrestlepro/wrestlepro/internal/notifications"
)

type fakeJobsRepo struct {
	claimFn func(ctx context.Context, workerID string) (job.Job, error)

	doneIDs   []string
	retries   []retryCall
	failedIDs []string
}

type retryCall struct {
	id    string
	runAt time.Time
}

func (f *fakeJobsRepo) ClaimNext(ctx context.Context, workerID string) (job.Job, error) {
	if f.claimFn != nil {
		return f.claimFn(ctx, workerID)
	}

	return job.Job{}, job.ErrJobNotFound
}

func (f *fakeJobsRepo) MarkDone(_ context.Context, id string) error {
	f.doneIDs = append(f.doneIDs, id)
	return nil
}

func (f *fakeJobsRepo) MarkRetry(_ context.Context, id string, runAt time.Time, _ string) error {
	f.retries = append(f.retries, retryCall{id: id, runAt: runAt})
	return nil
}

func (f *fakeJobsRepo) MarkFailed(_ context.Context, id string, _ string) error {
	f.failedIDs = append(f.failedIDs, id)
	return nil
}

type fakeNotifier struct {
	sent []notifications.SendRegistrationConfirmationInput
	err  error
}

func (f *fakeNotifier) SendRegistrationConfirmation(_ context.Context, in notifications.SendRegistrationConfirmationInput) error {
	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, in)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func confirmationJob(t *testing.T, attempts, maxAttempts int) job.Job {
	t.Helper()

	payload, err := jobs.RegistrationConfirmationPayload{
		RegistrationID: "reg-1",
		EventID:        "evt-1",
		Email:          "ath@example.com",
		Name:           "Athlete One",
		RequestedAt:    time.Now().UTC(),
	}.JSON()

	if err != nil {
		t.Fatalf("payload JSON failed: %v", err)
	}

	return job.Job{
		ID:          "job-1",
		Type:        jobs.TypeRegistrationConfirmation,
		Payload:     payload,
		Attempts:    attempts,
		MaxAttempts: maxAttempts,
	}
}

func newTestWorker(repo *fakeJobsRepo, n notifications.Notifier) *Worker {
	return New(Config{
		PollInterval: 10 * time.Millisecond,
		WorkerID:     "test-worker",
	}, repo, n, nil, discardLogger())
}

func TestProcessOne_Success(t *testing.T) {
	repo := &fakeJobsRepo{}
	j := confirmationJob(t, 1, 10)

	repo.claimFn = func(context.Context, string) (job.Job, error) {
		return j, nil
	}

	notifier := &fakeNotifier{}
	w := newTestWorker(repo, notifier)

	processed, err := w.ProcessOne(context.Background())

	if err != nil {
		t.Fatalf("ProcessOne failed: %v", err)
	}

	if !processed {
		t.Fatalf("expected a job to be processed")
	}

	if len(notifier.sent) != 1 || notifier.sent[0].RegistrationID != "reg-1" {
		t.Fatalf("notification not sent: %+v", notifier.sent)
	}

	if len(repo.doneIDs) != 1 || repo.doneIDs[0] != "job-1" {
		t.Fatalf("job not marked done: %+v", repo.doneIDs)
	}
}

func TestProcessOne_EmptyQueue(t *testing.T) {
	repo := &fakeJobsRepo{}
	w := newTestWorker(repo, &fakeNotifier{})

	processed, err := w.ProcessOne(context.Background())

	if err != nil {
		t.Fatalf("ProcessOne failed: %v", err)
	}

	if processed {
		t.Fatalf("no job should have been claimed")
	}
}

func TestProcessOne_TransientFailureSchedulesRetry(t *testing.T) {
	repo := &fakeJobsRepo{}
	j := confirmationJob(t, 1, 10)

	repo.claimFn = func(context.Context, string) (job.Job, error) {
		return j, nil
	}

	w := newTestWorker(repo, &fakeNotifier{err: errors.New("smtp down")})

	before := time.Now().UTC()
	processed, err := w.ProcessOne(context.Background())

	if err != nil || !processed {
		t.Fatalf("ProcessOne = (%v, %v)", processed, err)
	}

	if len(repo.retries) != 1 {
		t.Fatalf("expected a retry, got retries=%+v failed=%+v", repo.retries, repo.failedIDs)
	}

	if !repo.retries[0].runAt.After(before) {
		t.Fatalf("retry must be scheduled in the future: %v", repo.retries[0].runAt)
	}

	if len(repo.doneIDs) != 0 || len(repo.failedIDs) != 0 {
		t.Fatalf("failed job must not be marked done or dead yet")
	}
}

func TestProcessOne_ExhaustedAttemptsFailPermanently(t *testing.T) {
	repo := &fakeJobsRepo{}
	j := confirmationJob(t, 10, 10)

	repo.claimFn = func(context.Context, string) (job.Job, error) {
		return j, nil
	}

	w := newTestWorker(repo, &fakeNotifier{err: errors.New("smtp down")})

	processed, err := w.ProcessOne(context.Background())

	if err != nil || !processed {
		t.Fatalf("ProcessOne = (%v, %v)", processed, err)
	}

	if len(repo.failedIDs) != 1 || repo.failedIDs[0] != "job-1" {
		t.Fatalf("expected permanent failure, got %+v", repo.failedIDs)
	}

	if len(repo.retries) != 0 {
		t.Fatalf("exhausted job must not be retried")
	}
}

func TestProcessOne_UndecodablePayloadFailsImmediately(t *testing.T) {
	repo := &fakeJobsRepo{}

	repo.claimFn = func(context.Context, string) (job.Job, error) {
		return job.Job{
			ID:          "job-bad",
			Type:        jobs.TypeRegistrationConfirmation,
			Payload:     []byte(`{"nope": true}`),
			Attempts:    1,
			MaxAttempts: 10,
		}, nil
	}

	notifier := &fakeNotifier{}
	w := newTestWorker(repo, notifier)

	processed, err := w.ProcessOne(context.Background())

	if err != nil || !processed {
		t.Fatalf("ProcessOne = (%v, %v)", processed, err)
	}

	// a payload that never decodes cannot succeed on retry

	if len(repo.failedIDs) != 1 {
		t.Fatalf("expected immediate permanent failure, got retries=%+v", repo.retries)
	}

	if len(notifier.sent) != 0 {
		t.Fatalf("no notification should be sent for a bad payload")
	}
}

func TestProcessOne_UnknownJobTypeRetries(t *testing.T) {
	repo := &fakeJobsRepo{}

	repo.claimFn = func(context.Context, string) (job.Job, error) {
		return job.Job{
			ID:          "job-odd",
			Type:        "some.future.type",
			Payload:     []byte(`{}`),
			Attempts:    1,
			MaxAttempts: 10,
		}, nil
	}

	w := newTestWorker(repo, &fakeNotifier{})

	processed, err := w.ProcessOne(context.Background())

	if err != nil || !processed {
		t.Fatalf("ProcessOne = (%v, %v)", processed, err)
	}

	if len(repo.retries) != 1 {
		t.Fatalf("unknown type should retry until exhausted, got failed=%+v", repo.failedIDs)
	}
}

func TestExponentialBackoff(t *testing.T) {
	// jitter adds up to 250ms on top of the base delay
	tests := []struct {
		attempt int
		floor   time.Duration
	}{
		{attempt: 0, floor: 2 * time.Second},
		{attempt: 1, floor: 4 * time.Second},
		{attempt: 2, floor: 8 * time.Second},
		{attempt: 10, floor: 5 * time.Minute},
		{attempt: 30, floor: 5 * time.Minute},
	}

	for _, tt := range tests {
		got := ExponentialBackoff(tt.attempt)

		if got < tt.floor || got > tt.floor+300*time.Millisecond {
			t.Fatalf("attempt %d: got %v, want within [%v, %v]", tt.attempt, got, tt.floor, tt.floor+300*time.Millisecond)
		}
	}
}
