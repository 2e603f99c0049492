package config

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"eventpass/internal/adapters/persistence/models"
	"eventpass/internal/core/domain"
	"eventpass/internal/pkg/password"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedHalls(); err != nil {
		log.Printf("⚠️ Hall seeder skipped: %v", err)
	}
	if err := s.seedAllowlist(); err != nil {
		log.Printf("⚠️ Allowlist seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.StaffUser{}).Where("role = ?", string(domain.RoleAdmin)).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		if s.cfg.IsProd() {
			log.Println("⚠️ Skipping admin seed: SEED_ADMIN_PASSWORD not set")
			return nil
		}
		adminPassword = "admin123456"
	}

	hashedPassword, err := password.Hash(adminPassword)
	if err != nil {
		return err
	}

	admin := &models.StaffUser{
		Username: "admin",
		Email:    "admin@eventpass.local",
		Password: hashedPassword,
		Role:     string(domain.RoleAdmin),
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}

// seedHalls seeds a default hall set so scanning works out of the box in dev.
func (s *Seeder) seedHalls() error {
	if s.cfg.IsProd() {
		return nil
	}

	var count int64
	s.db.Model(&models.Hall{}).Count(&count)
	if count > 0 {
		return nil
	}

	halls := []models.Hall{
		{Name: "Main Auditorium", Code: "AUD", Capacity: 800, IsActive: true},
		{Name: "Workshop Block", Code: "WSB", Capacity: 200, IsActive: true},
		{Name: "Food Court", Code: "FOOD", Capacity: 400, IsActive: true, IsFoodCounter: true},
	}
	if err := s.db.Create(&halls).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d halls", len(halls))
	return nil
}

// seedAllowlist loads the pre-vetted phone roster from a CSV file with
// columns phone,name (header optional). Re-running with a fresh file is
// safe: entries upsert on phone.
func (s *Seeder) seedAllowlist() error {
	path := s.cfg.Event.AllowlistCSV
	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open allowlist csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var loaded int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read allowlist csv: %w", err)
		}
		if len(row) == 0 {
			continue
		}

		phone := domain.NormalizePhone(row[0])
		if phone == "" {
			continue // header or junk row
		}
		name := ""
		if len(row) > 1 {
			name = strings.TrimSpace(row[1])
		}

		entry := &models.AllowlistEntry{Phone: phone, Name: name}
		err = s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(entry).Error
		if err != nil {
			return err
		}
		loaded++
	}

	log.Printf("✅ Allowlist loaded: %d phones from %s", loaded, path)
	return nil
}
