package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventpass/internal/adapters/persistence/models"
	"eventpass/internal/core/domain"
	"eventpass/internal/pkg/dedup"
	"eventpass/internal/pkg/eventcal"
)

type scanFixture struct {
	svc      *ScanService
	students *mockStudentRepo
	halls    *mockHallRepo
	sessions *mockSessionRepo
	food     *mockFoodRepo
	guard    *dedup.Guard
	audit    *mockAuditSink
}

func newScanFixture(t *testing.T, dedupTTL time.Duration) *scanFixture {
	t.Helper()

	students := newMockStudentRepo()
	halls := newMockHallRepo()
	sessions := newMockSessionRepo(halls)
	food := newMockFoodRepo()
	guard := dedup.NewGuard(time.Hour)
	t.Cleanup(guard.Stop)
	audit := &mockAuditSink{}

	svc := NewScanService(students, halls, sessions, food, guard, audit, eventcal.NewInLocation(time.UTC), dedupTTL)
	return &scanFixture{
		svc:      svc,
		students: students,
		halls:    halls,
		sessions: sessions,
		food:     food,
		guard:    guard,
		audit:    audit,
	}
}

func (f *scanFixture) addStudent(t *testing.T, eventID string) *models.Student {
	t.Helper()
	student := &models.Student{
		Name:    "Asha Rao",
		Email:   "asha@example.com",
		Phone:   "9876543210",
		Program: "BTECH",
		Year:    2,
		Gender:  "FEMALE",
		Section: "A",
		EventID: eventID,
	}
	if err := f.students.Create(context.Background(), student); err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return student
}

func (f *scanFixture) addHall(t *testing.T, name, code string, active bool) *models.Hall {
	t.Helper()
	hall := &models.Hall{Name: name, Code: code, IsActive: active}
	if err := f.halls.Create(context.Background(), hall); err != nil {
		t.Fatalf("seed hall: %v", err)
	}
	return hall
}

var testActor = Actor{ID: 7, Name: "desk-1", Role: "VOLUNTEER"}

func TestScanHallTransitions(t *testing.T) {
	f := newScanFixture(t, time.Nanosecond) // effectively no dedup window
	student := f.addStudent(t, "A1B2C3D4E5F60718")
	f.addHall(t, "Main Auditorium", "AUD", true)
	f.addHall(t, "Workshop Block", "WSB", true)

	ctx := context.Background()

	// Scan 1: outside -> entry
	res, err := f.svc.ScanHall(ctx, testActor, student.EventID, "AUD")
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	if res.Status != StatusEntry {
		t.Fatalf("first scan status = %q, want %q", res.Status, StatusEntry)
	}
	if res.Hall != "Main Auditorium" {
		t.Errorf("first scan hall = %q", res.Hall)
	}

	// Scan 2: same hall -> exit
	res, err = f.svc.ScanHall(ctx, testActor, student.EventID, "AUD")
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if res.Status != StatusExit {
		t.Fatalf("second scan status = %q, want %q", res.Status, StatusExit)
	}

	// Scan 3: outside again -> entry at the other hall
	res, err = f.svc.ScanHall(ctx, testActor, student.EventID, "WSB")
	if err != nil {
		t.Fatalf("third scan: %v", err)
	}
	if res.Status != StatusEntry {
		t.Fatalf("third scan status = %q, want %q", res.Status, StatusEntry)
	}

	// Scan 4: different hall while inside -> movement
	res, err = f.svc.ScanHall(ctx, testActor, student.EventID, "AUD")
	if err != nil {
		t.Fatalf("fourth scan: %v", err)
	}
	if res.Status != StatusMovement {
		t.Fatalf("fourth scan status = %q, want %q", res.Status, StatusMovement)
	}
	if res.From != "Workshop Block" || res.To != "Main Auditorium" {
		t.Errorf("movement from %q to %q", res.From, res.To)
	}

	// Movement closed the old session and opened the new one at the same
	// instant.
	open, err := f.sessions.GetOpenByStudent(ctx, student.ID)
	if err != nil || open == nil {
		t.Fatalf("open session after movement: %v, %v", open, err)
	}
	var closed *models.HallSession
	for _, s := range f.sessions.sessions {
		if s.ExitTime != nil && s.Date == open.Date && s.HallID != open.HallID && s.ExitTime.Equal(open.EntryTime) {
			closed = s
		}
	}
	if closed == nil {
		t.Error("movement should close the prior session at the new session's entry time")
	}

	n, _ := f.sessions.CountOpenByStudent(ctx, student.ID)
	if n != 1 {
		t.Errorf("open sessions = %d, want 1", n)
	}

	wantActions := []string{domain.AuditHallEntry, domain.AuditHallExit, domain.AuditHallEntry, domain.AuditHallMove}
	got := f.audit.actions()
	if len(got) != len(wantActions) {
		t.Fatalf("audit actions = %v, want %v", got, wantActions)
	}
	for i := range wantActions {
		if got[i] != wantActions[i] {
			t.Errorf("audit action[%d] = %q, want %q", i, got[i], wantActions[i])
		}
	}
}

func TestScanHallUnknownCredential(t *testing.T) {
	f := newScanFixture(t, time.Nanosecond)
	f.addHall(t, "Main Auditorium", "AUD", true)

	_, err := f.svc.ScanHall(context.Background(), testActor, "FFFFFFFFFFFFFFFF", "AUD")
	if !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("err = %v, want ErrStudentNotFound", err)
	}
}

func TestScanHallMalformedCredential(t *testing.T) {
	f := newScanFixture(t, time.Nanosecond)

	_, err := f.svc.ScanHall(context.Background(), testActor, "not-a-credential", "AUD")
	if !errors.Is(err, ErrInvalidEventID) {
		t.Fatalf("err = %v, want ErrInvalidEventID", err)
	}
}

func TestScanHallInactiveHall(t *testing.T) {
	f := newScanFixture(t, time.Nanosecond)
	student := f.addStudent(t, "A1B2C3D4E5F60718")
	f.addHall(t, "Closed Hall", "CLS", false)

	_, err := f.svc.ScanHall(context.Background(), testActor, student.EventID, "CLS")
	if !errors.Is(err, ErrHallInactive) {
		t.Fatalf("err = %v, want ErrHallInactive", err)
	}

	_, err = f.svc.ScanHall(context.Background(), testActor, student.EventID, "NOPE")
	if !errors.Is(err, ErrHallNotFound) {
		t.Fatalf("err = %v, want ErrHallNotFound", err)
	}
}

func TestScanHallDedupSuppression(t *testing.T) {
	f := newScanFixture(t, time.Minute)
	student := f.addStudent(t, "A1B2C3D4E5F60718")
	f.addHall(t, "Main Auditorium", "AUD", true)

	ctx := context.Background()

	if _, err := f.svc.ScanHall(ctx, testActor, student.EventID, "AUD"); err != nil {
		t.Fatalf("first scan: %v", err)
	}

	// Immediate replay from the same scanner is suppressed.
	_, err := f.svc.ScanHall(ctx, testActor, student.EventID, "AUD")
	if !errors.Is(err, ErrDuplicateScan) {
		t.Fatalf("replay err = %v, want ErrDuplicateScan", err)
	}

	// A different scanner is not affected.
	other := Actor{ID: 8, Name: "desk-2", Role: "VOLUNTEER"}
	res, err := f.svc.ScanHall(ctx, other, student.EventID, "AUD")
	if err != nil {
		t.Fatalf("other scanner: %v", err)
	}
	if res.Status != StatusExit {
		t.Errorf("other scanner status = %q, want %q", res.Status, StatusExit)
	}
}

func TestScanFoodFirstAllowedThenDenied(t *testing.T) {
	f := newScanFixture(t, time.Nanosecond)
	student := f.addStudent(t, "A1B2C3D4E5F60718")

	ctx := context.Background()

	res, err := f.svc.ScanFood(ctx, testActor, student.EventID)
	if err != nil {
		t.Fatalf("first food scan: %v", err)
	}
	if res.Status != StatusAllowed {
		t.Fatalf("first food scan status = %q, want %q", res.Status, StatusAllowed)
	}
	if res.ClaimedAt == nil {
		t.Fatal("first food scan should carry the claim time")
	}
	firstClaim := *res.ClaimedAt

	res, err = f.svc.ScanFood(ctx, testActor, student.EventID)
	if err != nil {
		t.Fatalf("second food scan: %v", err)
	}
	if res.Status != StatusDenied {
		t.Fatalf("second food scan status = %q, want %q", res.Status, StatusDenied)
	}
	if res.ClaimedAt == nil || !res.ClaimedAt.Equal(firstClaim) {
		t.Errorf("denial should echo the original claim time %v, got %v", firstClaim, res.ClaimedAt)
	}

	got := f.audit.actions()
	want := []string{domain.AuditFoodAllowed, domain.AuditFoodDenied}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("audit actions = %v, want %v", got, want)
	}
}

func TestScanFoodRaceLoserIsDenied(t *testing.T) {
	f := newScanFixture(t, time.Nanosecond)
	student := f.addStudent(t, "A1B2C3D4E5F60718")

	ctx := context.Background()
	date, _ := eventcal.NewInLocation(time.UTC).DayKey(time.Now())

	// Simulate another counter winning the insert between our existence
	// check and our write.
	winnerTime := time.Now().Add(-time.Second)
	f.food.beforeCreate = func() {
		f.food.mu.Lock()
		f.food.claims[foodKey(student.ID, date)] = &models.FoodClaim{
			StudentID: student.ID,
			Date:      date,
			Time:      winnerTime,
		}
		f.food.mu.Unlock()
	}

	res, err := f.svc.ScanFood(ctx, testActor, student.EventID)
	if err != nil {
		t.Fatalf("racing food scan: %v", err)
	}
	if res.Status != StatusDenied {
		t.Fatalf("racing food scan status = %q, want %q", res.Status, StatusDenied)
	}
	if res.ClaimedAt == nil || !res.ClaimedAt.Equal(winnerTime) {
		t.Errorf("denial should echo the winner's claim time %v, got %v", winnerTime, res.ClaimedAt)
	}
}

func TestScanFoodUnknownCredential(t *testing.T) {
	f := newScanFixture(t, time.Nanosecond)

	_, err := f.svc.ScanFood(context.Background(), testActor, "FFFFFFFFFFFFFFFF")
	if !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("err = %v, want ErrStudentNotFound", err)
	}
}
