package jobs

import (
	"context"
	"time"

	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/database"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/events"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/logger"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/repositories"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/services"
)

// DueReminderJob sweeps open reminders that have passed their due date and
// publishes a reminder_due event for each, for downstream notifiers to pick up.
type DueReminderJob struct {
	reminderRepo repositories.ReminderRepository
	eventBus     *events.EventBus
	db           database.DB
	log          logger.Logger
	schedule     services.Schedule
}

func NewDueReminderJob(
	reminderRepo repositories.ReminderRepository,
	eventBus *events.EventBus,
	db database.DB,
	schedule services.Schedule,
) *DueReminderJob {
	log := logger.New("dueReminderJob")
	log.Info("Creating new due reminder job", "schedule", schedule)

	return &DueReminderJob{
		reminderRepo: reminderRepo,
		eventBus:     eventBus,
		db:           db,
		log:          log,
		schedule:     schedule,
	}
}

func (j *DueReminderJob) Name() string {
	return "DueReminderSweep"
}

func (j *DueReminderJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting due reminder sweep")

	overdue, err := j.reminderRepo.GetOverdue(ctx, j.db.SQLWithContext(ctx), time.Now())
	if err != nil {
		return log.Err("due reminder sweep failed", err)
	}

	for _, reminder := range overdue {
		event := events.Event{
			Type:      events.REMINDER_DUE,
			VehicleID: &reminder.VehicleID,
			Data: map[string]any{
				"reminderId":  reminder.ID,
				"description": reminder.Description,
				"dueDate":     reminder.DueDate,
			},
		}

		if err := j.eventBus.Publish(events.REMINDERS_CHANNEL, event); err != nil {
			log.Warn("failed to publish due reminder event", "reminderID", reminder.ID, "error", err)
		}
	}

	log.Info("Due reminder sweep completed", "overdueCount", len(overdue))
	return nil
}

func (j *DueReminderJob) Schedule() services.Schedule {
	return j.schedule
}
