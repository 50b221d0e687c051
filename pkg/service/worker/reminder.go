package worker

import (
	"context"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/usecase"
	"github.com/clearpath-fin/clearpath/pkg/utils/logging"
)

// ReminderWorker periodically delivers due trial reminder emails
type ReminderWorker struct {
	onboarding *usecase.OnboardingUseCase
	interval   time.Duration
	stopCh     chan struct{}
	doneCh     chan struct{}
}

// NewReminderWorker creates a worker delivering trial reminders
func NewReminderWorker(onboarding *usecase.OnboardingUseCase, interval time.Duration) *ReminderWorker {
	return &ReminderWorker{
		onboarding: onboarding,
		interval:   interval,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start begins the background delivery loop. Does not block.
func (w *ReminderWorker) Start(ctx context.Context) error {
	logging.Default().Info("reminder worker starting", "interval", w.interval.String())
	go w.run(ctx)
	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *ReminderWorker) Stop() {
	logging.Default().Info("reminder worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("reminder worker stopped")
}

func (w *ReminderWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.deliver(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.deliver(ctx)

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("reminder worker context cancelled")
			return
		}
	}
}

func (w *ReminderWorker) deliver(ctx context.Context) {
	sent, err := w.onboarding.SendDueReminders(ctx, time.Now().UTC())
	if err != nil {
		logging.Default().Error("trial reminder delivery failed (will retry next interval)",
			"error", err.Error())
		return
	}
	if sent > 0 {
		logging.Default().Info("trial reminders delivered", "count", sent)
	}
}
