// Package emergency orders emergency transport requests into priority
// groups relative to the car's position and direction, and picks the next
// pickup or drop-off target. It holds no state of its own: the coordinator
// passes in the live request list on every call.
package emergency

import (
	"slices"

	"github.com/vinniebhanu2021/priority-queue-lift/src/types"
)

// Leg identifies which half of an emergency request the next target serves.
type Leg int

const (
	LegPickup Leg = iota
	LegDropoff
)

func (l Leg) String() string {
	if l == LegPickup {
		return "PICKUP"
	}
	return "DROPOFF"
}

// Groups is the three-way priority partition of the emergency list.
//
//   - ContinueDir (group A): pickup reachable without reversing.
//   - ReverseDir (group B): pickup behind the current direction.
//   - Residual (group C): degenerate leftovers, e.g. pickup and destination
//     both equal to the current floor.
type Groups struct {
	ContinueDir []types.EmergencyRequest
	ReverseDir  []types.EmergencyRequest
	Residual    []types.EmergencyRequest
}

func (g Groups) Total() int {
	return len(g.ContinueDir) + len(g.ReverseDir) + len(g.Residual)
}

func (g Groups) first() (types.EmergencyRequest, bool) {
	switch {
	case len(g.ContinueDir) > 0:
		return g.ContinueDir[0], true
	case len(g.ReverseDir) > 0:
		return g.ReverseDir[0], true
	case len(g.Residual) > 0:
		return g.Residual[0], true
	}
	return types.EmergencyRequest{}, false
}

// Classify partitions and orders the emergency list against the given car
// position.
func Classify(floor int, dir types.Direction, reqs []types.EmergencyRequest) Groups {
	var g Groups
	for _, r := range reqs {
		switch {
		case r.FromFloor == floor && r.ToFloor == floor:
			g.Residual = append(g.Residual, r)
		case ahead(r.FromFloor, floor, dir):
			g.ContinueDir = append(g.ContinueDir, r)
		case behind(r.FromFloor, floor, dir):
			g.ReverseDir = append(g.ReverseDir, r)
		default:
			// Pickup at the current floor: classify by destination.
			if ahead(r.ToFloor, floor, dir) {
				g.ContinueDir = append(g.ContinueDir, r)
			} else {
				g.ReverseDir = append(g.ReverseDir, r)
			}
		}
	}

	sortGroup(g.ContinueDir, floor, dir)
	sortGroup(g.ReverseDir, floor, dir.Opposite())
	slices.SortStableFunc(g.Residual, func(a, b types.EmergencyRequest) int {
		return dist(a.ToFloor, floor) - dist(b.ToFloor, floor)
	})
	return g
}

// ahead reports whether target lies strictly ahead of floor in direction
// dir. Under Idle, "ahead" means above, matching the classification the
// original scheme applies when no direction is committed.
func ahead(target, floor int, dir types.Direction) bool {
	switch dir {
	case types.DirDown:
		return target < floor
	default:
		return target > floor
	}
}

func behind(target, floor int, dir types.Direction) bool {
	switch dir {
	case types.DirDown:
		return target > floor
	default:
		return target < floor
	}
}

// sortGroup orders a group by pickup floor: monotonic along dir, or
// nearest-first when idle.
func sortGroup(reqs []types.EmergencyRequest, floor int, dir types.Direction) {
	switch dir {
	case types.DirUp:
		slices.SortStableFunc(reqs, func(a, b types.EmergencyRequest) int {
			return a.FromFloor - b.FromFloor
		})
	case types.DirDown:
		slices.SortStableFunc(reqs, func(a, b types.EmergencyRequest) int {
			return b.FromFloor - a.FromFloor
		})
	default:
		slices.SortStableFunc(reqs, func(a, b types.EmergencyRequest) int {
			return dist(a.FromFloor, floor) - dist(b.FromFloor, floor)
		})
	}
}

func dist(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// NextTarget selects the next emergency stop: the head of the first
// non-empty group in A, B, C order. If the car already stands at that
// request's pickup floor the target is the destination (drop-off leg),
// otherwise the pickup floor (pickup leg). The caller commits the returned
// request as its in-progress leg; classification never overrides a leg
// already underway.
func NextTarget(floor int, dir types.Direction, reqs []types.EmergencyRequest) (target int, leg Leg, req types.EmergencyRequest, ok bool) {
	if len(reqs) == 0 {
		return 0, LegPickup, types.EmergencyRequest{}, false
	}
	r, ok := Classify(floor, dir, reqs).first()
	if !ok {
		return 0, LegPickup, types.EmergencyRequest{}, false
	}
	if r.FromFloor == floor {
		return r.ToFloor, LegDropoff, r, true
	}
	return r.FromFloor, LegPickup, r, true
}
