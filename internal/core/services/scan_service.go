package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"eventpass/internal/adapters/persistence/models"
	"eventpass/internal/adapters/persistence/repositories"
	"eventpass/internal/core/domain"
	"eventpass/internal/pkg/credential"
	"eventpass/internal/pkg/dedup"
	"eventpass/internal/pkg/eventcal"
	"eventpass/internal/pkg/metrics"

	"gorm.io/gorm"
)

// Scan service errors
var (
	ErrStudentNotFound = errors.New("student not found")
	ErrHallNotFound    = errors.New("hall not found")
	ErrHallInactive    = errors.New("hall is not active")
	ErrDuplicateScan   = errors.New("duplicate scan suppressed")
	ErrInvalidEventID  = errors.New("invalid event id format")
)

// Hall scan statuses
const (
	StatusEntry    = "entry"
	StatusExit     = "exit"
	StatusMovement = "movement"
	StatusAllowed  = "allowed"
	StatusDenied   = "denied"
)

// Actor identifies the staff member performing a scan.
type Actor struct {
	ID   uint
	Name string
	Role string
	IP   string
}

// HallScanResult is the outcome of one hall scan.
type HallScanResult struct {
	Status    string                  `json:"status"`
	Message   string                  `json:"message"`
	Hall      string                  `json:"hall"`
	From      string                  `json:"from,omitempty"`
	To        string                  `json:"to,omitempty"`
	Student   *models.StudentResponse `json:"student"`
	Timestamp time.Time               `json:"timestamp"`
}

// FoodScanResult is the outcome of one food counter scan. A denial is still
// an HTTP-level success; Status carries the decision.
type FoodScanResult struct {
	Status    string                  `json:"status"`
	Message   string                  `json:"message"`
	ClaimedAt *time.Time              `json:"claimed_at,omitempty"`
	Student   *models.StudentResponse `json:"student"`
}

// ScanService implements the hall transition engine and the food claim
// ledger. All state decisions are made from the database inside a per-student
// row lock; the dedup guard in front of it is advisory only.
type ScanService struct {
	studentRepo repositories.StudentRepository
	hallRepo    repositories.HallRepository
	sessionRepo repositories.SessionRepository
	foodRepo    repositories.FoodRepository
	guard       *dedup.Guard
	audit       AuditSink
	cal         *eventcal.Calendar
	dedupTTL    time.Duration
}

// NewScanService creates a new scan service
func NewScanService(
	studentRepo repositories.StudentRepository,
	hallRepo repositories.HallRepository,
	sessionRepo repositories.SessionRepository,
	foodRepo repositories.FoodRepository,
	guard *dedup.Guard,
	audit AuditSink,
	cal *eventcal.Calendar,
	dedupTTL time.Duration,
) *ScanService {
	if dedupTTL <= 0 {
		dedupTTL = dedup.DefaultTTL
	}
	return &ScanService{
		studentRepo: studentRepo,
		hallRepo:    hallRepo,
		sessionRepo: sessionRepo,
		foodRepo:    foodRepo,
		guard:       guard,
		audit:       audit,
		cal:         cal,
		dedupTTL:    dedupTTL,
	}
}

// ScanHall processes one hall scan for a student credential and returns the
// resulting transition: entry when the student is outside, exit when scanned
// at the hall they are inside, movement when scanned at a different hall.
func (s *ScanService) ScanHall(ctx context.Context, actor Actor, eventID, hallCode string) (*HallScanResult, error) {
	eventID = credential.Normalize(eventID)
	if !credential.Valid(eventID) {
		return nil, ErrInvalidEventID
	}

	actorKey := strconv.FormatUint(uint64(actor.ID), 10)
	if s.guard.ShouldSuppress(actorKey, eventID, dedup.ActionHall) {
		metrics.ScansTotal.WithLabelValues(metrics.KindHall, metrics.OutcomeSuppressed).Inc()
		return nil, ErrDuplicateScan
	}
	s.guard.Record(actorKey, eventID, dedup.ActionHall, s.dedupTTL)
	metrics.DedupEntries.Set(float64(s.guard.Len()))

	student, err := s.studentRepo.GetByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.ScansTotal.WithLabelValues(metrics.KindHall, metrics.OutcomeRejected).Inc()
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	hall, err := s.hallRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(hallCode)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	if !hall.IsActive {
		return nil, ErrHallInactive
	}

	now := time.Now()
	date, dayIndex := s.cal.DayKey(now)

	var result *HallScanResult
	err = s.sessionRepo.Transaction(ctx, func(tx repositories.SessionRepository) error {
		if err := tx.LockStudent(ctx, student.ID); err != nil {
			return err
		}

		open, err := tx.GetOpenByStudent(ctx, student.ID)
		if err != nil {
			return err
		}

		switch {
		case open == nil:
			// Outside any hall: open a session here.
			if err := tx.Create(ctx, &models.HallSession{
				StudentID: student.ID,
				HallID:    hall.ID,
				EntryTime: now,
				Date:      date,
				DayIndex:  dayIndex,
			}); err != nil {
				return err
			}
			result = &HallScanResult{
				Status:    StatusEntry,
				Message:   fmt.Sprintf("Entered %s", hall.Name),
				Hall:      hall.Name,
				Student:   student.ToResponse(),
				Timestamp: now,
			}

		case open.HallID == hall.ID:
			// Inside this hall: close the session.
			if err := tx.Close(ctx, open.ID, now); err != nil {
				return err
			}
			result = &HallScanResult{
				Status:    StatusExit,
				Message:   fmt.Sprintf("Exited %s", hall.Name),
				Hall:      hall.Name,
				Student:   student.ToResponse(),
				Timestamp: now,
			}

		default:
			// Inside another hall: close it and open one here with the
			// same timestamp, so the record shows no gap.
			fromName := "unknown hall"
			if open.Hall != nil {
				fromName = open.Hall.Name
			}
			if err := tx.Close(ctx, open.ID, now); err != nil {
				return err
			}
			if err := tx.Create(ctx, &models.HallSession{
				StudentID: student.ID,
				HallID:    hall.ID,
				EntryTime: now,
				Date:      date,
				DayIndex:  dayIndex,
			}); err != nil {
				return err
			}
			result = &HallScanResult{
				Status:    StatusMovement,
				Message:   fmt.Sprintf("Moved from %s to %s", fromName, hall.Name),
				Hall:      hall.Name,
				From:      fromName,
				To:        hall.Name,
				Student:   student.ToResponse(),
				Timestamp: now,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordHallAudit(actor, student, hall, result)
	return result, nil
}

func (s *ScanService) recordHallAudit(actor Actor, student *models.Student, hall *models.Hall, result *HallScanResult) {
	var action string
	switch result.Status {
	case StatusEntry:
		action = domain.AuditHallEntry
		metrics.ScansTotal.WithLabelValues(metrics.KindHall, metrics.OutcomeEntry).Inc()
	case StatusExit:
		action = domain.AuditHallExit
		metrics.ScansTotal.WithLabelValues(metrics.KindHall, metrics.OutcomeExit).Inc()
	case StatusMovement:
		action = domain.AuditHallMove
		metrics.ScansTotal.WithLabelValues(metrics.KindHall, metrics.OutcomeMovement).Inc()
	}

	s.audit.Record(AuditEntry{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		ActorRole:  actor.Role,
		Action:     action,
		Resource:   "hall_session",
		ResourceID: student.EventID,
		Details:    fmt.Sprintf("%s at %s (%s)", result.Message, hall.Code, student.Name),
		IPAddress:  actor.IP,
	})
}

// ScanFood processes one food counter scan. The first scan of the event day
// is allowed and recorded; every later scan is denied and echoes the time of
// the original claim. Denials are reported as successful responses.
func (s *ScanService) ScanFood(ctx context.Context, actor Actor, eventID string) (*FoodScanResult, error) {
	eventID = credential.Normalize(eventID)
	if !credential.Valid(eventID) {
		return nil, ErrInvalidEventID
	}

	actorKey := strconv.FormatUint(uint64(actor.ID), 10)
	if s.guard.ShouldSuppress(actorKey, eventID, dedup.ActionFood) {
		metrics.ScansTotal.WithLabelValues(metrics.KindFood, metrics.OutcomeSuppressed).Inc()
		return nil, ErrDuplicateScan
	}
	s.guard.Record(actorKey, eventID, dedup.ActionFood, s.dedupTTL)
	metrics.DedupEntries.Set(float64(s.guard.Len()))

	student, err := s.studentRepo.GetByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.ScansTotal.WithLabelValues(metrics.KindFood, metrics.OutcomeRejected).Inc()
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	now := time.Now()
	date, _ := s.cal.DayKey(now)

	existing, err := s.foodRepo.GetByStudentAndDate(ctx, student.ID, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.denyFood(actor, student, existing), nil
	}

	claim := &models.FoodClaim{
		StudentID: student.ID,
		Date:      date,
		Time:      now,
	}
	if err := s.foodRepo.Create(ctx, claim); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race: another counter claimed between our read and
			// write. Re-read the winning claim and deny against it.
			winner, rerr := s.foodRepo.GetByStudentAndDate(ctx, student.ID, date)
			if rerr != nil {
				return nil, rerr
			}
			if winner != nil {
				return s.denyFood(actor, student, winner), nil
			}
		}
		return nil, err
	}

	metrics.ScansTotal.WithLabelValues(metrics.KindFood, metrics.OutcomeAllowed).Inc()
	s.audit.Record(AuditEntry{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		ActorRole:  actor.Role,
		Action:     domain.AuditFoodAllowed,
		Resource:   "food_claim",
		ResourceID: student.EventID,
		Details:    fmt.Sprintf("Food claim allowed for %s on %s", student.Name, date),
		IPAddress:  actor.IP,
	})

	return &FoodScanResult{
		Status:    StatusAllowed,
		Message:   "Meal approved",
		ClaimedAt: &claim.Time,
		Student:   student.ToResponse(),
	}, nil
}

func (s *ScanService) denyFood(actor Actor, student *models.Student, claim *models.FoodClaim) *FoodScanResult {
	metrics.ScansTotal.WithLabelValues(metrics.KindFood, metrics.OutcomeDenied).Inc()
	s.audit.Record(AuditEntry{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		ActorRole:  actor.Role,
		Action:     domain.AuditFoodDenied,
		Resource:   "food_claim",
		ResourceID: student.EventID,
		Details:    fmt.Sprintf("Food claim denied for %s, already claimed at %s", student.Name, claim.Time.Format(time.RFC3339)),
		IPAddress:  actor.IP,
	})
	claimedAt := claim.Time
	return &FoodScanResult{
		Status:    StatusDenied,
		Message:   fmt.Sprintf("Already claimed at %s", claimedAt.Format("15:04:05")),
		ClaimedAt: &claimedAt,
		Student:   student.ToResponse(),
	}
}
