package dedup

import (
	"strings"
	"sync"
	"time"
)

// Action kinds used as the third part of the dedup key.
const (
	ActionHall = "hall_scan"
	ActionFood = "food_scan"
)

// DefaultTTL is the suppression window for repeated scans.
const DefaultTTL = 2 * time.Second

// DefaultSweepInterval bounds memory growth independent of lookup traffic.
const DefaultSweepInterval = 30 * time.Second

// Guard suppresses rapid repeated processing of the same
// (actor, subject, action) tuple, e.g. a QR camera firing its decode
// callback twice for one physical scan. It is advisory only: callers must
// stay correct even when the guard is bypassed. State lives in process
// memory and is lost on restart.
type Guard struct {
	mu       sync.Mutex
	entries  map[string]time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewGuard creates a guard and starts its background sweep.
// sweepInterval <= 0 falls back to DefaultSweepInterval.
func NewGuard(sweepInterval time.Duration) *Guard {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	g := &Guard{
		entries:  make(map[string]time.Time),
		stopChan: make(chan struct{}),
	}
	go g.runSweepLoop(sweepInterval)
	return g
}

// ShouldSuppress reports whether this tuple was recorded within its TTL.
// Expired entries are deleted on lookup.
func (g *Guard) ShouldSuppress(actorID, subject, action string) bool {
	key := buildKey(actorID, subject, action)

	g.mu.Lock()
	defer g.mu.Unlock()

	expiresAt, ok := g.entries[key]
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		delete(g.entries, key)
		return false
	}
	return true
}

// Record stores the tuple with now+ttl, overwriting any prior entry.
// ttl <= 0 falls back to DefaultTTL.
func (g *Guard) Record(actorID, subject, action string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	key := buildKey(actorID, subject, action)

	g.mu.Lock()
	g.entries[key] = time.Now().Add(ttl)
	g.mu.Unlock()
}

// Len returns the current number of entries, expired or not.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

// Stop terminates the background sweep. Safe to call more than once.
func (g *Guard) Stop() {
	g.stopOnce.Do(func() {
		close(g.stopChan)
	})
}

func (g *Guard) runSweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.sweep()
		case <-g.stopChan:
			return
		}
	}
}

func (g *Guard) sweep() {
	now := time.Now()

	g.mu.Lock()
	for key, expiresAt := range g.entries {
		if now.After(expiresAt) {
			delete(g.entries, key)
		}
	}
	g.mu.Unlock()
}

func buildKey(actorID, subject, action string) string {
	return strings.Join([]string{actorID, subject, action}, "|")
}
