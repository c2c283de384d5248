package jobs

import (
	"context"
	"fmt"
	"time"

	"internhub/internal/notifications"
	"internhub/internal/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderJob emails applicants about their interviews of the coming day.
type ReminderJob struct {
	interviews *services.InterviewService
	notifier   notifications.Dispatcher
	logger     *zap.Logger
	config     *ReminderConfig
	cron       *cron.Cron
}

type ReminderConfig struct {
	Schedule  string        // Cron schedule (e.g., "0 8 * * *" for 8 AM daily)
	Enabled   bool          // Whether to schedule reminders at all
	Lookahead time.Duration // How far ahead interviews are reminded; should match the schedule period
}

func NewReminderJob(
	interviews *services.InterviewService,
	notifier notifications.Dispatcher,
	logger *zap.Logger,
	config *ReminderConfig,
) *ReminderJob {
	if config.Lookahead <= 0 {
		config.Lookahead = 24 * time.Hour
	}
	return &ReminderJob{
		interviews: interviews,
		notifier:   notifier,
		logger:     logger,
		config:     config,
		cron:       cron.New(),
	}
}

// Start begins the scheduled reminder run
func (j *ReminderJob) Start() error {
	if !j.config.Enabled {
		j.logger.Info("interview reminders are disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		if _, err := j.RunReminders(context.Background()); err != nil {
			j.logger.Error("reminder job failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}

	j.cron.Start()
	j.logger.Info("interview reminders started", zap.String("schedule", j.config.Schedule))
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (j *ReminderJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
		j.logger.Info("interview reminders stopped")
	}
}

// RunReminders dispatches one reminder per scheduled interview starting within
// the lookahead window and returns how many were queued.
func (j *ReminderJob) RunReminders(ctx context.Context) (int, error) {
	upcoming, err := j.interviews.Upcoming(ctx, j.config.Lookahead, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to list upcoming interviews: %w", err)
	}

	sent := 0
	for i := range upcoming {
		n := services.InterviewNotification(notifications.KindInterviewReminder, &upcoming[i])
		if n.Recipient == "" {
			continue
		}
		j.notifier.Dispatch(ctx, n)
		sent++
	}
	j.logger.Info("interview reminders queued", zap.Int("count", sent), zap.Int("upcoming", len(upcoming)))
	return sent, nil
}
