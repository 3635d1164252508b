package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/timeentry"
)

// staleEntryAge is how long an entry may stay active before the owner is
// reminded to clock out.
const staleEntryAge = 16 * time.Hour

// StaleEntryJobs reminds employees about entries left active overnight.
// Entries are never auto-closed; the adjustment workflow exists for
// fixing forgotten clock-outs.
type StaleEntryJobs struct {
	timeEntryRepo timeentry.TimeEntryRepository
	notifService  notification.Service
}

func NewStaleEntryJobs(timeEntryRepo timeentry.TimeEntryRepository, notifService notification.Service) *StaleEntryJobs {
	return &StaleEntryJobs{
		timeEntryRepo: timeEntryRepo,
		notifService:  notifService,
	}
}

func (j *StaleEntryJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("remind_stale_time_entries", 1*time.Hour, j.RemindStaleEntries)
}

// RemindStaleEntries notifies the owner and HR for every entry that has
// been active longer than staleEntryAge.
func (j *StaleEntryJobs) RemindStaleEntries(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-staleEntryAge)

	entries, err := j.timeEntryRepo.FindStaleActive(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("find stale active entries: %w", err)
	}

	for _, entry := range entries {
		j.notifService.QueueNotification(ctx, notification.CreateNotificationRequest{
			Audience: notification.Individual(entry.EmployeeID),
			Title:    "Still clocked in?",
			Message:  fmt.Sprintf("Your time entry from %s is still active. Clock out or request an adjustment.", entry.ClockIn.Format("Jan 2 15:04")),
			Type:     notification.TypeWarning,
			Category: notification.CategoryAttendance,
			Data:     map[string]interface{}{"time_entry_id": entry.ID},
		})
		j.notifService.QueueNotification(ctx, notification.CreateNotificationRequest{
			Audience: notification.ForRole(string(employee.RoleHR)),
			Title:    "Stale time entry",
			Message:  fmt.Sprintf("%s has been clocked in since %s.", entry.EmployeeName, entry.ClockIn.Format("Jan 2 15:04")),
			Type:     notification.TypeWarning,
			Category: notification.CategoryAttendance,
			Data:     map[string]interface{}{"time_entry_id": entry.ID, "employee_id": entry.EmployeeID},
		})
	}

	if len(entries) > 0 {
		slog.Info("Stale time entry reminders queued", "count", len(entries))
	}

	return nil
}
