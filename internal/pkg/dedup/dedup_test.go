package dedup

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestSuppressWithinTTL(t *testing.T) {
	g := NewGuard(time.Hour)
	defer g.Stop()

	if g.ShouldSuppress("7", "A1B2", ActionHall) {
		t.Fatal("empty guard should not suppress")
	}

	g.Record("7", "A1B2", ActionHall, time.Minute)

	if !g.ShouldSuppress("7", "A1B2", ActionHall) {
		t.Error("same tuple within TTL should be suppressed")
	}
	if g.ShouldSuppress("8", "A1B2", ActionHall) {
		t.Error("different actor should not be suppressed")
	}
	if g.ShouldSuppress("7", "C3D4", ActionHall) {
		t.Error("different subject should not be suppressed")
	}
	if g.ShouldSuppress("7", "A1B2", ActionFood) {
		t.Error("different action should not be suppressed")
	}
}

func TestExpiryOnLookup(t *testing.T) {
	g := NewGuard(time.Hour)
	defer g.Stop()

	g.Record("7", "A1B2", ActionHall, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if g.ShouldSuppress("7", "A1B2", ActionHall) {
		t.Error("expired entry should not suppress")
	}
	if g.Len() != 0 {
		t.Errorf("expired entry should be deleted on lookup, len = %d", g.Len())
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	g := NewGuard(20 * time.Millisecond)
	defer g.Stop()

	for i := 0; i < 10; i++ {
		g.Record("7", fmt.Sprintf("subject-%d", i), ActionHall, time.Millisecond)
	}
	g.Record("7", "fresh", ActionHall, time.Hour)

	deadline := time.After(time.Second)
	for g.Len() > 1 {
		select {
		case <-deadline:
			t.Fatalf("sweep did not clean up, len = %d", g.Len())
		case <-time.After(10 * time.Millisecond):
		}
	}

	if !g.ShouldSuppress("7", "fresh", ActionHall) {
		t.Error("sweep must keep unexpired entries")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	g := NewGuard(time.Hour)
	g.Stop()
	g.Stop()
}

func TestConcurrentAccess(t *testing.T) {
	g := NewGuard(time.Hour)
	defer g.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			subject := fmt.Sprintf("subject-%d", n)
			for j := 0; j < 100; j++ {
				g.Record("7", subject, ActionHall, time.Minute)
				g.ShouldSuppress("7", subject, ActionHall)
				g.Len()
			}
		}(i)
	}
	wg.Wait()

	if g.Len() != 8 {
		t.Errorf("len = %d, want 8", g.Len())
	}
}
