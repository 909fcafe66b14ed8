package types

import (
	"testing"
	"time"
)

func TestDirectionOpposite(t *testing.T) {
	cases := []struct {
		dir  Direction
		want Direction
	}{
		{DirUp, DirDown},
		{DirDown, DirUp},
		{DirIdle, DirIdle},
	}
	for _, c := range cases {
		if got := c.dir.Opposite(); got != c.want {
			t.Errorf("%v.Opposite() = %v, want %v", c.dir, got, c.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	cases := []struct {
		in   string
		want Direction
	}{
		{"UP", DirUp},
		{"down", DirDown},
		{"IDLE", DirIdle},
		{"sideways", DirIdle},
	}
	for _, c := range cases {
		if got := ParseDirection(c.in); got != c.want {
			t.Errorf("ParseDirection(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestStatsAverages(t *testing.T) {
	s := Stats{MaxCapacity: 8}
	if s.AverageWait() != 0 {
		t.Error("average wait non-zero with nothing served")
	}
	s.NormalServed = 2
	s.EmergencyServed = 1
	s.TotalWait = 9 * time.Second
	if got := s.AverageWait(); got != 3*time.Second {
		t.Errorf("average wait = %v, want 3s", got)
	}
	if got := s.TotalServed(); got != 3 {
		t.Errorf("total served = %d, want 3", got)
	}
}
