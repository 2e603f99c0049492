package services

import (
	"context"
	"log"
	"time"

	"eventpass/internal/adapters/persistence/models"
	"eventpass/internal/adapters/persistence/repositories"
	"eventpass/internal/pkg/metrics"
)

// AuditEntry is one scan/management decision to be recorded.
type AuditEntry struct {
	ActorID    uint
	ActorName  string
	ActorRole  string
	Action     string
	Resource   string
	ResourceID string
	Details    string
	IPAddress  string
}

// AuditSink receives audit entries. Implementations must never block the
// caller on durability and must never surface write errors to it.
type AuditSink interface {
	Record(entry AuditEntry)
}

// AuditService writes audit records on a best-effort side channel. A failed
// write is counted and logged, then dropped; the primary operation has
// already been reported as successful by then.
type AuditService struct {
	auditRepo repositories.AuditRepository
	timeout   time.Duration
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo repositories.AuditRepository) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		timeout:   5 * time.Second,
	}
}

// Record enqueues an asynchronous audit write.
func (s *AuditService) Record(entry AuditEntry) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		record := &models.AuditRecord{
			ActorID:    entry.ActorID,
			ActorName:  entry.ActorName,
			ActorRole:  entry.ActorRole,
			Action:     entry.Action,
			Resource:   entry.Resource,
			ResourceID: entry.ResourceID,
			Details:    entry.Details,
			IPAddress:  entry.IPAddress,
		}

		if err := s.auditRepo.Create(ctx, record); err != nil {
			metrics.AuditWriteFailures.Inc()
			log.Printf("⚠️ Audit write dropped [%s %s]: %v", entry.Action, entry.ResourceID, err)
		}
	}()
}
