package dispatcher

import (
	"time"

	"github.com/vinniebhanu2021/priority-queue-lift/src/emergency"
	"github.com/vinniebhanu2021/priority-queue-lift/src/queue"
	"github.com/vinniebhanu2021/priority-queue-lift/src/types"
)

// Status is the compact snapshot handed to rendering layers on every frame.
type Status struct {
	Floor          int
	TargetFloor    int
	HasTarget      bool
	Direction      types.Direction
	Doors          types.DoorState
	EmergencyMode  bool
	HasEmergency   bool
	EmergencyCount int
	Requests       queue.Pending
	Paused         bool
	Speed          float64
	Passengers     int
	Capacity       int
}

// StatsSnapshot extends the store statistics with the car odometer.
type StatsSnapshot struct {
	FloorsTraveled  int
	RequestsServed  int
	NormalServed    int
	EmergencyServed int
	AverageWait     time.Duration
}

// DetailedStatus adds statistics, the full pending listing, the emergency
// group breakdown while active, and the recent event log.
type DetailedStatus struct {
	Status
	Stats           StatsSnapshot
	PendingRequests queue.PendingInfo
	EmergencyGroups *emergency.Groups
	EmergencyRuns   int
	RecentEvents    []string
}
