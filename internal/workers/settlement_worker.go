package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"spendwise_backend/internal/logger"
	"spendwise_backend/internal/pipeline"
	"spendwise_backend/internal/utils"
)

// SettlementWorker triggers the scoring and reward pipeline once per day at
// a fixed hour. Stage ordering lives inside the pipeline itself; the worker
// only decides when a run happens.
type SettlementWorker struct {
	pipe       *pipeline.Pipeline
	runHour    int
	mailer     *utils.EmailSender
	recipients []string

	// mu serializes the scheduled run against manual re-triggers.
	mu sync.Mutex
}

func NewSettlementWorker(pipe *pipeline.Pipeline, runHour int, mailer *utils.EmailSender, recipients []string) *SettlementWorker {
	return &SettlementWorker{
		pipe:       pipe,
		runHour:    runHour,
		mailer:     mailer,
		recipients: recipients,
	}
}

// Start launches the daily trigger loop.
func (w *SettlementWorker) Start(ctx context.Context) {
	go w.runDaily(ctx)
}

func (w *SettlementWorker) runDaily(ctx context.Context) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), w.runHour, 0, 0, 0, now.Location())
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("settlement worker stopped")
			return
		case <-timer.C:
			// Failures are logged and alerted inside RunOnce; the loop keeps
			// going so the next scheduled run can repair a failed one.
			_ = w.RunOnce(ctx, pipeline.SettlementDay(time.Now()))
		}
	}
}

// RunOnce executes the full pipeline for one settlement day. Also used by
// the admin re-trigger endpoint; overlapping runs are serialized.
func (w *SettlementWorker) RunOnce(ctx context.Context, day time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	logger.Info("settlement pipeline starting", "day", day.Format("2006-01-02"))
	if err := w.pipe.Run(ctx, day); err != nil {
		logger.Error("settlement pipeline failed", "day", day.Format("2006-01-02"), "error", err)
		w.alert(day, err)
		return err
	}
	logger.Info("settlement pipeline completed", "day", day.Format("2006-01-02"))
	return nil
}

// alert emails operators about a failed run. A failed run is repaired by the
// next scheduled run or a manual re-trigger, so someone has to know.
func (w *SettlementWorker) alert(day time.Time, runErr error) {
	if w.mailer == nil || len(w.recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("Settlement pipeline failed for %s", day.Format("2006-01-02"))
	body := fmt.Sprintf(
		"<p>The nightly settlement pipeline failed for <b>%s</b>.</p><p>Error: %s</p><p>Re-trigger via POST /admin/settlement/run?day=%s once the cause is fixed.</p>",
		day.Format("2006-01-02"), runErr.Error(), day.Format("2006-01-02"),
	)

	for _, recipient := range w.recipients {
		if err := w.mailer.Send(recipient, subject, body); err != nil {
			logger.Error("failed to send settlement alert", "recipient", recipient, "error", err)
		}
	}
}
