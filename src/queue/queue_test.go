package queue

import (
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vinniebhanu2021/priority-queue-lift/src/logging"
	"github.com/vinniebhanu2021/priority-queue-lift/src/types"
)

func TestMain(m *testing.M) {
	logging.GetLoggerConfigured(zerolog.Disabled)
	m.Run()
}

// fakeClock returns a store pinned to a controllable time.
func fakeClock(s *Store) *time.Time {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })
	return &now
}

func TestAddValidation(t *testing.T) {
	s := New(10)
	if s.AddInternal(0) || s.AddInternal(11) {
		t.Error("out-of-range internal request accepted")
	}
	if s.AddExternal(0, types.DirUp) || s.AddExternal(11, types.DirDown) {
		t.Error("out-of-range external request accepted")
	}
	if s.AddExternal(5, types.DirIdle) {
		t.Error("external request without up/down tag accepted")
	}
	if s.AddEmergency(0, 5) || s.AddEmergency(5, 11) {
		t.Error("out-of-range emergency request accepted")
	}
	if s.TotalPending() != 0 {
		t.Errorf("pending = %d after rejected adds, want 0", s.TotalPending())
	}
}

func TestIdempotentAdds(t *testing.T) {
	s := New(10)
	for i := 0; i < 3; i++ {
		if !s.AddInternal(4) {
			t.Fatal("duplicate internal add returned false")
		}
		if !s.AddExternal(6, types.DirDown) {
			t.Fatal("duplicate external add returned false")
		}
		if !s.AddEmergency(2, 9) {
			t.Fatal("duplicate emergency add returned false")
		}
	}
	if s.TotalPending() != 3 {
		t.Errorf("pending = %d, want 3 (one per class)", s.TotalPending())
	}
	if n := len(s.Emergencies()); n != 1 {
		t.Errorf("emergency list has %d entries, want 1 (dedup by pair)", n)
	}
}

func TestEmergencyDedupIsByPairOnly(t *testing.T) {
	s := New(10)
	now := fakeClock(s)
	s.AddEmergency(2, 9)
	*now = now.Add(10 * time.Second)
	s.AddEmergency(2, 9) // same pair, later submission: absorbed
	s.AddEmergency(9, 2) // reversed pair: distinct

	reqs := s.Emergencies()
	if len(reqs) != 2 {
		t.Fatalf("emergency list = %d entries, want 2", len(reqs))
	}
	if got := reqs[0].SubmittedAt; !got.Equal(now.Add(-10 * time.Second)) {
		t.Error("duplicate pair replaced the original submission time")
	}
}

func TestWaitTimeAccounting(t *testing.T) {
	s := New(10)
	now := fakeClock(s)

	s.AddInternal(4)
	s.AddExternal(6, types.DirUp)
	s.AddEmergency(2, 9)
	*now = now.Add(5 * time.Second)

	if wait := s.RemoveInternal(4); wait != 5*time.Second {
		t.Errorf("internal wait = %v, want 5s", wait)
	}
	*now = now.Add(3 * time.Second)
	if wait := s.RemoveExternal(6, types.DirUp); wait != 8*time.Second {
		t.Errorf("external wait = %v, want 8s", wait)
	}
	if wait := s.RemoveEmergency(2, 9); wait != 8*time.Second {
		t.Errorf("emergency wait = %v, want 8s", wait)
	}

	stats := s.Statistics()
	if stats.NormalServed != 2 || stats.EmergencyServed != 1 {
		t.Errorf("served = %d normal / %d emergency, want 2 / 1",
			stats.NormalServed, stats.EmergencyServed)
	}
	if stats.TotalWait != 21*time.Second {
		t.Errorf("total wait = %v, want 21s", stats.TotalWait)
	}
	if stats.AverageWait != 7*time.Second {
		t.Errorf("average wait = %v, want 7s", stats.AverageWait)
	}
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	s := New(10)
	if s.RemoveInternal(4) != 0 {
		t.Error("removing absent internal returned non-zero wait")
	}
	if s.RemoveExternal(4, types.DirUp) != 0 {
		t.Error("removing absent external returned non-zero wait")
	}
	if s.RemoveEmergency(4, 8) != 0 {
		t.Error("removing absent emergency returned non-zero wait")
	}
	if stats := s.Statistics(); stats.TotalServed != 0 {
		t.Errorf("served = %d after no-op removals, want 0", stats.TotalServed)
	}
}

func TestPauseResumeRoundTrip(t *testing.T) {
	s := New(10)
	s.AddInternal(3)
	s.AddInternal(7)
	s.AddExternal(4, types.DirUp)
	s.AddExternal(6, types.DirDown)

	s.PauseNormal()
	if s.HasNormal() {
		t.Fatal("live sets not cleared by pause")
	}
	if !s.HasPaused() {
		t.Fatal("paused snapshot empty after pause")
	}
	s.PauseNormal() // idempotent: must not wipe the snapshot
	if !s.HasPaused() {
		t.Fatal("repeated pause destroyed the snapshot")
	}

	s.ResumeNormal()
	if s.HasPaused() {
		t.Error("paused storage not cleared by resume")
	}
	if got := s.InternalFloors(); !slices.Equal(got, []int{3, 7}) {
		t.Errorf("internal after resume = %v, want [3 7]", got)
	}
	if got := s.ExternalUpFloors(); !slices.Equal(got, []int{4}) {
		t.Errorf("external up after resume = %v, want [4]", got)
	}
	if got := s.ExternalDownFloors(); !slices.Equal(got, []int{6}) {
		t.Errorf("external down after resume = %v, want [6]", got)
	}
	s.ResumeNormal() // idempotent
	if !s.HasNormal() {
		t.Error("repeated resume lost the live sets")
	}
}

func TestPausedInsertsServedAfterResume(t *testing.T) {
	s := New(10)
	s.PauseNormal()

	if !s.AddInternal(5) || !s.AddExternal(8, types.DirDown) {
		t.Fatal("adds while paused rejected")
	}
	if s.HasNormal() {
		t.Fatal("paused add landed in the live sets")
	}
	if !s.HasPaused() {
		t.Fatal("paused add not recorded")
	}

	s.ResumeNormal()
	if !s.HasInternal(5) || !s.HasExternal(8, types.DirDown) {
		t.Error("requests added while paused missing after resume")
	}
}

func TestListingOrders(t *testing.T) {
	s := New(10)
	for _, f := range []int{9, 2, 5} {
		s.AddInternal(f)
		s.AddExternal(f, types.DirUp)
		s.AddExternal(f, types.DirDown)
	}
	pending := s.AllRequests()
	if !slices.Equal(pending.Internal, []int{2, 5, 9}) {
		t.Errorf("internal = %v, want ascending [2 5 9]", pending.Internal)
	}
	if !slices.Equal(pending.ExternalUp, []int{2, 5, 9}) {
		t.Errorf("external up = %v, want ascending [2 5 9]", pending.ExternalUp)
	}
	if !slices.Equal(pending.ExternalDown, []int{9, 5, 2}) {
		t.Errorf("external down = %v, want descending [9 5 2]", pending.ExternalDown)
	}
}

func TestPendingInfo(t *testing.T) {
	s := New(10)
	now := fakeClock(s)

	s.AddExternal(4, types.DirUp)
	s.AddEmergency(2, 9)
	*now = now.Add(2 * time.Second)

	info := s.GetPendingInfo()
	if len(info.ExternalUp) != 1 || info.ExternalUp[0].Label != "UP" {
		t.Fatalf("external up info = %+v", info.ExternalUp)
	}
	if info.ExternalUp[0].Wait != 2*time.Second {
		t.Errorf("wait = %v, want 2s", info.ExternalUp[0].Wait)
	}
	if len(info.Emergency) != 1 || info.Emergency[0].Label != "->9" {
		t.Fatalf("emergency info = %+v", info.Emergency)
	}
	if len(info.Paused) != 0 {
		t.Errorf("paused row present with nothing paused: %+v", info.Paused)
	}

	s.PauseNormal()
	info = s.GetPendingInfo()
	if len(info.Paused) != 1 || info.Paused[0].Label != "1 paused" {
		t.Errorf("paused row = %+v, want one '1 paused' entry", info.Paused)
	}
}

func TestMarkEmergencyPickedUp(t *testing.T) {
	s := New(10)
	s.AddEmergency(2, 9)
	s.MarkEmergencyPickedUp(2, 9)
	if reqs := s.Emergencies(); !reqs[0].PickedUp {
		t.Error("PickedUp flag not set")
	}
	s.MarkEmergencyPickedUp(3, 4) // absent pair: no-op
}
