// Package car models the physical state of a single elevator car: position,
// direction, the door state machine and passenger accounting. It advances at
// most one floor per tick and knows nothing about requests.
package car

import (
	"github.com/vinniebhanu2021/priority-queue-lift/src/types"
)

type Car struct {
	numFloors int
	floor     int
	dir       types.Direction
	doors     types.DoorState
	doorTimer int
	doorHold  int
	moving    bool
	target    int
	hasTarget bool
	stats     types.Stats
}

// New returns a car parked at startFloor with closed doors. doorHold is the
// number of ticks the doors stay fully open before closing.
func New(numFloors, startFloor, capacity, doorHold int) *Car {
	return &Car{
		numFloors: numFloors,
		floor:     startFloor,
		dir:       types.DirIdle,
		doors:     types.DoorClosed,
		doorHold:  doorHold,
		stats:     types.Stats{MaxCapacity: capacity},
	}
}

func (c *Car) Floor() int                 { return c.floor }
func (c *Car) Direction() types.Direction { return c.dir }
func (c *Car) Doors() types.DoorState     { return c.doors }
func (c *Car) Moving() bool               { return c.moving }
func (c *Car) FloorsTraveled() int        { return c.stats.FloorsTraveled }

// SetDirection sets the travel direction directly. Feasibility is only
// checked when the car actually moves.
func (c *Car) SetDirection(d types.Direction) {
	c.dir = d
}

// Target returns the tracked target floor, if any.
func (c *Car) Target() (int, bool) {
	return c.target, c.hasTarget
}

// OpenDoors starts the opening sequence. Ignored unless doors are closed.
func (c *Car) OpenDoors() {
	if c.doors == types.DoorClosed {
		c.doors = types.DoorOpening
		c.doorTimer = 1
	}
}

// CloseDoors starts the closing sequence. Ignored unless doors are fully open.
func (c *Car) CloseDoors() {
	if c.doors == types.DoorOpen {
		c.doors = types.DoorClosing
		c.doorTimer = 1
	}
}

// AdvanceDoors counts the door timer down one tick and performs the due
// transition. Reports whether the doors are mid-sequence.
func (c *Car) AdvanceDoors() bool {
	switch c.doors {
	case types.DoorOpening:
		c.doorTimer--
		if c.doorTimer <= 0 {
			c.doors = types.DoorOpen
			c.doorTimer = c.doorHold
		}
		return true
	case types.DoorOpen:
		c.doorTimer--
		if c.doorTimer <= 0 {
			c.doors = types.DoorClosing
			c.doorTimer = 1
		}
		return true
	case types.DoorClosing:
		c.doorTimer--
		if c.doorTimer <= 0 {
			c.doors = types.DoorClosed
		}
		return true
	}
	return false
}

// CanMove reports whether movement is permitted (doors closed).
func (c *Car) CanMove() bool {
	return c.doors == types.DoorClosed
}

// MoveTo records a target floor and points the car toward it. A target equal
// to the current floor clears any target and idles the car; an out-of-range
// target is rejected without touching state.
func (c *Car) MoveTo(target int) {
	if target == c.floor {
		c.dir = types.DirIdle
		c.hasTarget = false
		return
	}
	if target < 1 || target > c.numFloors {
		return
	}
	c.target = target
	c.hasTarget = true
	if target > c.floor {
		c.dir = types.DirUp
	} else {
		c.dir = types.DirDown
	}
	c.moving = true
}

// Step advances the car one tick and reports whether it arrived at its
// target. Door transitions block movement; arrival does not open the doors —
// the coordinator decides that based on whether a request is being served.
func (c *Car) Step() bool {
	if c.doors != types.DoorClosed {
		c.AdvanceDoors()
		return false
	}
	if !c.hasTarget {
		c.moving = false
		c.dir = types.DirIdle
		return false
	}
	if c.floor == c.target {
		c.moving = false
		c.hasTarget = false
		return true
	}
	switch c.dir {
	case types.DirUp:
		c.floor++
		c.stats.FloorsTraveled++
	case types.DirDown:
		c.floor--
		c.stats.FloorsTraveled++
	}
	return false
}

func (c *Car) AtFloor(floor int) bool {
	return c.floor == floor
}

// NextFloor returns the next floor the car will reach along its current
// direction, bounded by the target.
func (c *Car) NextFloor() (int, bool) {
	if !c.hasTarget {
		return 0, false
	}
	switch c.dir {
	case types.DirUp:
		return min(c.floor+1, c.target), true
	case types.DirDown:
		return max(c.floor-1, c.target), true
	}
	return 0, false
}

// DistanceTo returns the floor distance from the current position.
func (c *Car) DistanceTo(floor int) int {
	d := c.floor - floor
	if d < 0 {
		return -d
	}
	return d
}

func (c *Car) AddPassenger() bool    { return c.stats.AddPassenger() }
func (c *Car) RemovePassenger() bool { return c.stats.RemovePassenger() }
func (c *Car) Passengers() int       { return c.stats.Passengers }
func (c *Car) Capacity() int         { return c.stats.MaxCapacity }

func (c *Car) IsFull() bool {
	return c.stats.Passengers >= c.stats.MaxCapacity
}
