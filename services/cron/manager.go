package cron

import (
	"log"
	"time"

	"github.com/campusadmit/admissions-api/model"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron *cron.Cron
	db   *gorm.DB
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron: c,
		db:   db,
	}
}

// Start registers and starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// 1. Every hour: prune expired entries from the token blacklist
	_, err := m.cron.AddFunc("0 0 * * * *", m.CleanupExpiredTokens)
	if err != nil {
		return err
	}

	// 2. Daily at 2 AM: prune old read notifications and cron logs
	_, err = m.cron.AddFunc("0 0 2 * * *", m.CleanupOldData)
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// runLogged runs a job and records its outcome in cron_job_logs.
func (m *CronManager) runLogged(jobName string, job func() (string, error)) {
	log.Printf("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))
	start := time.Now()

	message, err := job()

	entry := model.CronJobLog{
		JobName:    jobName,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		log.Printf("[CRON] Error in job: %s - %v", jobName, err)
		entry.Status = "failed"
		entry.Message = err.Error()
	} else {
		log.Printf("[CRON] Completed job: %s - %s", jobName, message)
		entry.Status = "completed"
		entry.Message = message
	}
	m.db.Create(&entry)
}
