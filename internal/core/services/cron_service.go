package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance: the end-of-day summary and the
// expired refresh token purge.
type CronService struct {
	cron     *cron.Cron
	reports  *ReportService
	notifier *NotificationService
	auth     *AuthService
}

// NewCronService creates a new cron service
func NewCronService(reports *ReportService, notifier *NotificationService, auth *AuthService) *CronService {
	return &CronService{
		cron:     cron.New(),
		reports:  reports,
		notifier: notifier,
		auth:     auth,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *CronService) Start() error {
	// Daily summary just before midnight, so it covers the whole event day.
	if _, err := s.cron.AddFunc("55 23 * * *", s.runDailySummary); err != nil {
		return err
	}

	// Hourly refresh token purge.
	if _, err := s.cron.AddFunc("0 * * * *", s.runTokenPurge); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Cron jobs scheduled")
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron jobs stopped")
}

func (s *CronService) runDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	summary, err := s.reports.TodaySummary(ctx)
	if err != nil {
		log.Printf("❌ Daily summary failed: %v", err)
		return
	}

	log.Printf("📊 Daily summary %s: %d entries, %d food claims", summary.Date, summary.HallEntries, summary.FoodClaims)
	s.notifier.NotifyDailySummary(summary)
}

func (s *CronService) runTokenPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.auth.PurgeExpiredTokens(ctx); err != nil {
		log.Printf("❌ Token purge failed: %v", err)
		return
	}
	log.Println("✅ Expired refresh tokens purged")
}
