package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wrestlepro/wrestlepro/internal/domain/job"
	"github.com/wrestlepro/wrestlepro/internal/jobs"
	"github.com/wrestlepro/wrestlepro/internal/notifications"
	"github.com/wrestlepro/wrestlepro/internal/observability"
)

type JobsRepository interface {
	ClaimNext(ctx context.Context, workerID string) (job.Job, error)
	MarkDone(ctx context.Context, id string) error
	MarkRetry(ctx context.Context, id string, runAt time.Time, errMsg string) error
	MarkFailed(ctx context.Context, id string, errMsg string) error
}

type Config struct {
	PollInterval time.Duration
	WorkerID     string
}

// Worker drains the confirmation job queue: claim, execute, mark. A job
// that keeps failing is retried with backoff until MaxAttempts, then
// parked as failed.
type Worker struct {
	cfg      Config
	repo     JobsRepository
	notifier notifications.Notifier
	prom     *observability.Prom
	log      *slog.Logger
}

func New(cfg Config, repo JobsRepository, notifier notifications.Notifier, prom *observability.Prom, log *slog.Logger) *Worker {
	return &Worker{
		cfg:      cfg,
		repo:     repo,
		notifier: notifier,
		prom:     prom,
		log:      log,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker received shutdown signal")
			return nil

		case <-ticker.C:
			for {
				processed, err := w.ProcessOne(ctx)

				if err != nil {
					w.log.Error("process job failed", "err", err)
					break
				}

				if !processed {
					break
				}
			}
		}
	}
}

// ProcessOne claims and runs at most one job. The bool reports whether a
// job was claimed at all, so Run can drain the queue before sleeping.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	claimCtx, cancel := context.WithTimeout(ctx, 2*time.Second)

	j, err := w.repo.ClaimNext(claimCtx, w.cfg.WorkerID)
	cancel()

	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			return false, nil
		}

		return false, err
	}

	err = w.execute(ctx, j)

	if err != nil {
		w.handleFailure(ctx, j, err)
		return true, nil
	}

	err = w.repo.MarkDone(ctx, j.ID)

	if err != nil {
		_ = w.repo.MarkFailed(ctx, j.ID, "mark_done_failed: "+err.Error())
		return true, err
	}

	w.observeResult(j.Type, "done")

	return true, nil
}

func (w *Worker) execute(ctx context.Context, j job.Job) error {
	switch j.Type {
	case jobs.TypeRegistrationConfirmation:
		p, err := jobs.DecodeRegistrationConfirmation(j.Payload)

		if err != nil {
			return err
		}

		return w.notifier.SendRegistrationConfirmation(ctx, notifications.SendRegistrationConfirmationInput{
			Email:          p.Email,
			Name:           p.Name,
			EventID:        p.EventID,
			RegistrationID: p.RegistrationID,
		})

	default:
		return errors.New("unknown job type: " + j.Type)
	}
}

func (w *Worker) handleFailure(ctx context.Context, j job.Job, cause error) {
	// a payload that never decodes will never succeed; fail it outright

	// ClaimNext already counted this attempt
	attempts := j.Attempts

	if errors.Is(cause, jobs.ErrInvalidPayload) || attempts >= j.MaxAttempts {
		if err := w.repo.MarkFailed(ctx, j.ID, cause.Error()); err != nil {
			w.log.Error("mark failed error", "job_id", j.ID, "err", err)
		}

		w.observeResult(j.Type, "failed")
		w.log.Warn("job failed permanently", "job_id", j.ID, "type", j.Type, "attempts", attempts, "cause", cause)
		return
	}

	runAt := time.Now().UTC().Add(ExponentialBackoff(attempts))

	if err := w.repo.MarkRetry(ctx, j.ID, runAt, cause.Error()); err != nil {
		w.log.Error("mark retry error", "job_id", j.ID, "err", err)
		return
	}

	w.observeResult(j.Type, "retry")
	w.log.Info("job scheduled for retry", "job_id", j.ID, "type", j.Type, "attempts", attempts, "run_at", runAt)
}

func (w *Worker) observeResult(jobType, result string) {
	if w.prom != nil {
		w.prom.JobResults.WithLabelValues(jobType, result).Inc()
	}
}
