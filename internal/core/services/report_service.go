package services

import (
	"context"

	"eventpass/internal/adapters/persistence/models"
	"eventpass/internal/adapters/persistence/repositories"
	"eventpass/internal/pkg/eventcal"
)

// DailySummary aggregates one event day's activity.
type DailySummary struct {
	Date           string `json:"date"`
	DayIndex       int    `json:"day_index"`
	HallEntries    int64  `json:"hall_entries"`
	CompletedStays int64  `json:"completed_stays"`
	FoodClaims     int64  `json:"food_claims"`
	TotalStudents  int64  `json:"total_students"`
	CurrentlyIn    int64  `json:"currently_inside"`
}

// ReportService produces read-only aggregates for dashboards and the daily
// summary job.
type ReportService struct {
	studentRepo repositories.StudentRepository
	sessionRepo repositories.SessionRepository
	foodRepo    repositories.FoodRepository
	auditRepo   repositories.AuditRepository
	cal         *eventcal.Calendar
}

// NewReportService creates a new report service
func NewReportService(
	studentRepo repositories.StudentRepository,
	sessionRepo repositories.SessionRepository,
	foodRepo repositories.FoodRepository,
	auditRepo repositories.AuditRepository,
	cal *eventcal.Calendar,
) *ReportService {
	return &ReportService{
		studentRepo: studentRepo,
		sessionRepo: sessionRepo,
		foodRepo:    foodRepo,
		auditRepo:   auditRepo,
		cal:         cal,
	}
}

// Occupancy returns live per-hall headcounts.
func (s *ReportService) Occupancy(ctx context.Context) ([]repositories.HallOccupancy, error) {
	return s.sessionRepo.OccupancyByHall(ctx)
}

// TodaySummary aggregates the current event day.
func (s *ReportService) TodaySummary(ctx context.Context) (*DailySummary, error) {
	date, dayIndex := s.cal.Today()
	return s.summarize(ctx, date, dayIndex)
}

// SummaryForDate aggregates a given day key (format 2006-01-02).
func (s *ReportService) SummaryForDate(ctx context.Context, date string, dayIndex int) (*DailySummary, error) {
	return s.summarize(ctx, date, dayIndex)
}

func (s *ReportService) summarize(ctx context.Context, date string, dayIndex int) (*DailySummary, error) {
	entries, err := s.sessionRepo.CountByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	closed, err := s.sessionRepo.CountClosedByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	foodClaims, err := s.foodRepo.CountByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	_, totalStudents, err := s.studentRepo.List(ctx, "", 0, 1)
	if err != nil {
		return nil, err
	}

	occupancy, err := s.sessionRepo.OccupancyByHall(ctx)
	if err != nil {
		return nil, err
	}
	var inside int64
	for _, row := range occupancy {
		inside += row.Inside
	}

	return &DailySummary{
		Date:           date,
		DayIndex:       dayIndex,
		HallEntries:    entries,
		CompletedStays: closed,
		FoodClaims:     foodClaims,
		TotalStudents:  totalStudents,
		CurrentlyIn:    inside,
	}, nil
}

// AuditLog lists audit records newest-first with optional filters.
func (s *ReportService) AuditLog(ctx context.Context, filter repositories.AuditFilter, offset, limit int) ([]models.AuditRecord, int64, error) {
	return s.auditRepo.List(ctx, filter, offset, limit)
}
