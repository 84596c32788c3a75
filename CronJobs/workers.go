package CronJobs

import (
	"log"
	"os"
	"time"

	"github.com/Aryan1411/hms/Tasks"

	"github.com/go-co-op/gocron"
)

// ReportScheduler drives the periodic notification jobs: the daily
// reminder sweep and the monthly per-doctor reports.
type ReportScheduler struct {
	Runner *Tasks.Runner
}

func NewReportScheduler(runner *Tasks.Runner) *ReportScheduler {
	return &ReportScheduler{Runner: runner}
}

// Start registers the jobs and launches the scheduler asynchronously.
// Daily reminders run at REMINDER_TIME (default 07:00). Monthly reports
// run shortly after midnight and are gated on it being the first day of
// the month, since gocron has no month-day expression.
func (rs *ReportScheduler) Start() *gocron.Scheduler {
	scheduler := gocron.NewScheduler(time.Local)

	reminderTime := os.Getenv("REMINDER_TIME")
	if reminderTime == "" {
		reminderTime = "07:00"
	}

	scheduler.Every(1).Day().At(reminderTime).Do(func() {
		log.Println("Running daily appointment reminder sweep...")
		if err := rs.Runner.SendDailyReminders(); err != nil {
			log.Printf("Error sending appointment reminders: %v", err)
		}
	})

	scheduler.Every(1).Day().At("00:05").Do(func() {
		if time.Now().Day() != 1 {
			return
		}
		log.Println("Running monthly doctor reports...")
		if err := rs.Runner.SendMonthlyReports(); err != nil {
			log.Printf("Error sending monthly reports: %v", err)
		}
	})

	scheduler.StartAsync()
	log.Println("Report scheduler started")

	return scheduler
}
