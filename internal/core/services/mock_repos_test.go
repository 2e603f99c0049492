package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"eventpass/internal/adapters/persistence/models"
	"eventpass/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// In-memory repository fakes. They honor the same contracts the GORM
// implementations do: not-found maps to gorm.ErrRecordNotFound (or nil,nil
// where the interface says so) and unique violations map to
// gorm.ErrDuplicatedKey.

type mockStudentRepo struct {
	mu       sync.Mutex
	students map[uint]*models.Student
	nextID   uint
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[uint]*models.Student), nextID: 1}
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.students {
		if s.Phone == student.Phone || s.Email == student.Email || s.EventID == student.EventID {
			return gorm.ErrDuplicatedKey
		}
	}
	student.ID = m.nextID
	m.nextID++
	student.CreatedAt = time.Now()
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (m *mockStudentRepo) GetByEventID(ctx context.Context, eventID string) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.students {
		if s.EventID == eventID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students[student.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.students, id)
	return nil
}

func (m *mockStudentRepo) List(ctx context.Context, search string, offset, limit int) ([]*models.Student, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Student
	for _, s := range m.students {
		if search == "" || strings.Contains(s.Name, search) || strings.Contains(s.Email, search) {
			out = append(out, s)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockStudentRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.students {
		if s.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.students {
		if s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type mockAllowlistRepo struct {
	mu     sync.Mutex
	phones map[string]string
}

func newMockAllowlistRepo(phones ...string) *mockAllowlistRepo {
	m := &mockAllowlistRepo{phones: make(map[string]string)}
	for _, p := range phones {
		m.phones[p] = ""
	}
	return m
}

func (m *mockAllowlistRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.phones[phone]
	return ok, nil
}

func (m *mockAllowlistRepo) Upsert(ctx context.Context, entry *models.AllowlistEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phones[entry.Phone] = entry.Name
	return nil
}

func (m *mockAllowlistRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.phones)), nil
}

type mockHallRepo struct {
	mu     sync.Mutex
	halls  map[uint]*models.Hall
	nextID uint
}

func newMockHallRepo() *mockHallRepo {
	return &mockHallRepo{halls: make(map[uint]*models.Hall), nextID: 1}
}

func (m *mockHallRepo) Create(ctx context.Context, hall *models.Hall) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.halls {
		if h.Code == hall.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	hall.ID = m.nextID
	m.nextID++
	m.halls[hall.ID] = hall
	return nil
}

func (m *mockHallRepo) GetByID(ctx context.Context, id uint) (*models.Hall, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.halls[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return h, nil
}

func (m *mockHallRepo) GetByCode(ctx context.Context, code string) (*models.Hall, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.halls {
		if h.Code == code {
			return h, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHallRepo) Update(ctx context.Context, hall *models.Hall) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.halls[hall.ID] = hall
	return nil
}

func (m *mockHallRepo) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.halls, id)
	return nil
}

func (m *mockHallRepo) List(ctx context.Context, includeInactive bool) ([]models.Hall, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Hall
	for _, h := range m.halls {
		if includeInactive || h.IsActive {
			out = append(out, *h)
		}
	}
	return out, nil
}

type mockSessionRepo struct {
	mu       sync.Mutex
	sessions map[uint]*models.HallSession
	nextID   uint
	hallRepo *mockHallRepo
}

func newMockSessionRepo(hallRepo *mockHallRepo) *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[uint]*models.HallSession), nextID: 1, hallRepo: hallRepo}
}

func (m *mockSessionRepo) Transaction(ctx context.Context, fn func(tx repositories.SessionRepository) error) error {
	return fn(m)
}

func (m *mockSessionRepo) LockStudent(ctx context.Context, studentID uint) error {
	return nil
}

func (m *mockSessionRepo) GetOpenByStudent(ctx context.Context, studentID uint) (*models.HallSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.StudentID == studentID && s.ExitTime == nil {
			copied := *s
			if m.hallRepo != nil {
				if h, ok := m.hallRepo.halls[s.HallID]; ok {
					copied.Hall = h
				}
			}
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockSessionRepo) Create(ctx context.Context, session *models.HallSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session.ID = m.nextID
	m.nextID++
	m.sessions[session.ID] = session
	return nil
}

func (m *mockSessionRepo) Close(ctx context.Context, sessionID uint, exitTime time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.ExitTime = &exitTime
	return nil
}

func (m *mockSessionRepo) CountOpenByStudent(ctx context.Context, studentID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.sessions {
		if s.StudentID == studentID && s.ExitTime == nil {
			n++
		}
	}
	return n, nil
}

func (m *mockSessionRepo) OccupancyByHall(ctx context.Context) ([]repositories.HallOccupancy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[uint]int64)
	for _, s := range m.sessions {
		if s.ExitTime == nil {
			counts[s.HallID]++
		}
	}
	var out []repositories.HallOccupancy
	for hallID, inside := range counts {
		out = append(out, repositories.HallOccupancy{HallID: hallID, Inside: inside})
	}
	return out, nil
}

func (m *mockSessionRepo) CountByDate(ctx context.Context, date string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.sessions {
		if s.Date == date {
			n++
		}
	}
	return n, nil
}

func (m *mockSessionRepo) CountClosedByDate(ctx context.Context, date string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.sessions {
		if s.Date == date && s.ExitTime != nil {
			n++
		}
	}
	return n, nil
}

type mockFoodRepo struct {
	mu     sync.Mutex
	claims map[string]*models.FoodClaim
	nextID uint

	// beforeCreate, when set, runs inside Create before the duplicate
	// check. Tests use it to slip a competing claim in.
	beforeCreate func()
}

func newMockFoodRepo() *mockFoodRepo {
	return &mockFoodRepo{claims: make(map[string]*models.FoodClaim), nextID: 1}
}

func foodKey(studentID uint, date string) string {
	return fmt.Sprintf("%d|%s", studentID, date)
}

func (m *mockFoodRepo) GetByStudentAndDate(ctx context.Context, studentID uint, date string) (*models.FoodClaim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.claims[foodKey(studentID, date)]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (m *mockFoodRepo) Create(ctx context.Context, claim *models.FoodClaim) error {
	if m.beforeCreate != nil {
		hook := m.beforeCreate
		m.beforeCreate = nil
		hook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := foodKey(claim.StudentID, claim.Date)
	if _, ok := m.claims[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	claim.ID = m.nextID
	m.nextID++
	m.claims[key] = claim
	return nil
}

func (m *mockFoodRepo) CountByDate(ctx context.Context, date string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.claims {
		if c.Date == date {
			n++
		}
	}
	return n, nil
}

// mockAuditSink records entries synchronously so tests can assert on them.
type mockAuditSink struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (m *mockAuditSink) Record(entry AuditEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
}

func (m *mockAuditSink) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Action)
	}
	return out
}
