package types

import "time"

type Direction int

const (
	DirIdle Direction = iota
	DirUp
	DirDown
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "UP"
	case DirDown:
		return "DOWN"
	case DirIdle:
		return "IDLE"
	}
	return "UNKNOWN"
}

// Opposite returns the reversed travel direction. Idle has no opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	}
	return DirIdle
}

// ParseDirection maps a config string onto a Direction, defaulting to Idle.
func ParseDirection(s string) Direction {
	switch s {
	case "UP", "up", "Up":
		return DirUp
	case "DOWN", "down", "Down":
		return DirDown
	}
	return DirIdle
}

type DoorState int

const (
	DoorClosed DoorState = iota
	DoorOpen
	DoorOpening
	DoorClosing
)

func (s DoorState) String() string {
	switch s {
	case DoorClosed:
		return "CLOSED"
	case DoorOpen:
		return "OPEN"
	case DoorOpening:
		return "OPENING"
	case DoorClosing:
		return "CLOSING"
	}
	return "UNKNOWN"
}

type EmergencyPriority int

const (
	PriorityNormal EmergencyPriority = iota + 1
	PriorityHigh
	PriorityCritical
)

func (p EmergencyPriority) String() string {
	switch p {
	case PriorityNormal:
		return "NORMAL"
	case PriorityHigh:
		return "HIGH"
	case PriorityCritical:
		return "CRITICAL"
	}
	return "UNKNOWN"
}

// EmergencyRequest is a pickup/destination pair. Identity is the pair
// alone: two requests with equal floors are the same logical request
// regardless of priority or submission time.
type EmergencyRequest struct {
	FromFloor   int
	ToFloor     int
	Priority    EmergencyPriority
	SubmittedAt time.Time
	PickedUp    bool
}

func (r EmergencyRequest) SamePair(from, to int) bool {
	return r.FromFloor == from && r.ToFloor == to
}

// RequestInfo is one row of the pending-request listing exposed by the
// status API. Label carries the display tag ("UP", "DOWN", "->7", ...).
type RequestInfo struct {
	Floor       int
	Label       string
	RequestedAt time.Time
	Wait        time.Duration
}

// Stats accumulates service counters. The car tracks floors traveled and
// passengers; the request store tracks served counts and wait times.
type Stats struct {
	FloorsTraveled  int
	NormalServed    int
	EmergencyServed int
	TotalWait       time.Duration
	Passengers      int
	MaxCapacity     int
}

func (s *Stats) TotalServed() int {
	return s.NormalServed + s.EmergencyServed
}

func (s *Stats) AverageWait() time.Duration {
	served := s.TotalServed()
	if served == 0 {
		return 0
	}
	return s.TotalWait / time.Duration(served)
}

// AddPassenger boards one passenger if capacity allows.
func (s *Stats) AddPassenger() bool {
	if s.Passengers < s.MaxCapacity {
		s.Passengers++
		return true
	}
	return false
}

// RemovePassenger alights one passenger if any are aboard.
func (s *Stats) RemovePassenger() bool {
	if s.Passengers > 0 {
		s.Passengers--
		return true
	}
	return false
}
