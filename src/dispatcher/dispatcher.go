// Package dispatcher ties the car, the request store and the emergency
// scheduler into a per-tick decision loop and exposes the engine's public
// API to rendering and console layers.
package dispatcher

import (
	"fmt"
	"slices"

	"github.com/vinniebhanu2021/priority-queue-lift/src/car"
	"github.com/vinniebhanu2021/priority-queue-lift/src/config"
	"github.com/vinniebhanu2021/priority-queue-lift/src/emergency"
	"github.com/vinniebhanu2021/priority-queue-lift/src/logging"
	"github.com/vinniebhanu2021/priority-queue-lift/src/queue"
	"github.com/vinniebhanu2021/priority-queue-lift/src/types"
)

var log = logging.GetLogger()

// Engine is the top-level coordinator. It owns the car and the store
// exclusively and runs one simulation tick per Update call.
//
// The engine is single-threaded by design: no operation blocks and nothing
// runs asynchronously inside it. A multi-threaded host must serialize every
// call (request submission and Update alike) behind its own lock; concurrent
// unsynchronized calls are undefined behaviour.
type Engine struct {
	car   *car.Car
	store *queue.Store

	// In-progress emergency legs. Once committed, a leg is completed
	// before the scheduler is consulted again.
	pickup  *types.EmergencyRequest
	dropoff *types.EmergencyRequest

	emergencyMode bool
	emergencyRuns int

	paused bool
	speed  float64
	events []string
}

// New builds an engine from the given configuration.
func New(cfg config.Config) *Engine {
	c := car.New(cfg.Floors, cfg.StartFloor, cfg.Capacity, cfg.DoorHoldTicks)
	c.SetDirection(types.ParseDirection(cfg.StartDirection))
	e := &Engine{
		car:   c,
		store: queue.New(cfg.Floors),
		speed: 1.0,
	}
	e.SetSpeed(cfg.Speed)
	return e
}

// Store exposes the request store, primarily for tests that need a fake
// clock.
func (e *Engine) Store() *queue.Store { return e.store }

// Car exposes the physical controller for read-only inspection.
func (e *Engine) Car() *car.Car { return e.car }

// AddInternalRequest submits a cab request. Rejected while emergency mode
// is active or when the floor is out of range.
func (e *Engine) AddInternalRequest(floor int) bool {
	if e.emergencyMode {
		return false
	}
	ok := e.store.AddInternal(floor)
	if ok {
		e.logEvent(fmt.Sprintf("Internal request: floor %d", floor))
	}
	return ok
}

// AddExternalRequest submits an up or down call. Rejected while emergency
// mode is active or when the floor is out of range.
func (e *Engine) AddExternalRequest(floor int, dir types.Direction) bool {
	if e.emergencyMode {
		return false
	}
	ok := e.store.AddExternal(floor, dir)
	if ok {
		e.logEvent(fmt.Sprintf("External %s request: floor %d", dir, floor))
	}
	return ok
}

// AddEmergencyRequest submits an emergency transport. Always accepted
// regardless of mode (only out-of-range floors are rejected) and enters
// emergency mode on first acceptance.
func (e *Engine) AddEmergencyRequest(from, to int) bool {
	ok := e.store.AddEmergency(from, to)
	if ok {
		e.triggerEmergency()
		e.logEvent(fmt.Sprintf("EMERGENCY: floor %d -> floor %d", from, to))
	}
	return ok
}

func (e *Engine) triggerEmergency() {
	if e.emergencyMode {
		return
	}
	e.emergencyMode = true
	e.emergencyRuns++
	e.store.PauseNormal()
	log.Warn().Msg("emergency mode engaged")
}

// endEmergency leaves emergency mode once the list is drained and no leg is
// outstanding.
func (e *Engine) endEmergency() {
	if !e.emergencyMode || e.store.HasEmergency() || e.pickup != nil || e.dropoff != nil {
		return
	}
	e.emergencyMode = false
	e.store.ResumeNormal()
	log.Info().Msg("emergency mode cleared")
}

func (e *Engine) IsEmergencyMode() bool { return e.emergencyMode }

// Update advances the engine exactly one tick. It returns whether the car
// arrived at a target this tick and, if so, a human-readable event line.
// While externally paused it returns (false, "") and changes nothing.
func (e *Engine) Update() (bool, string) {
	if e.paused {
		return false, ""
	}
	if _, ok := e.car.Target(); !ok {
		if target, ok := e.nextTarget(); ok {
			e.car.MoveTo(target)
		}
	}
	return e.step()
}

// step runs the car one tick and applies arrival side effects.
func (e *Engine) step() (bool, string) {
	arrived := e.car.Step()
	if !arrived {
		return false, ""
	}

	floor := e.car.Floor()
	msg := fmt.Sprintf("Arrived at floor %d", floor)
	openDoors := false

	if e.emergencyMode {
		if e.pickup != nil && floor == e.pickup.FromFloor {
			e.dropoff = e.pickup
			e.pickup = nil
			e.store.MarkEmergencyPickedUp(e.dropoff.FromFloor, e.dropoff.ToFloor)
			e.car.AddPassenger()
			msg += fmt.Sprintf(" [emergency pickup %d->%d]", e.dropoff.FromFloor, e.dropoff.ToFloor)
			openDoors = true
		}
		if e.dropoff != nil && floor == e.dropoff.ToFloor {
			from, to := e.dropoff.FromFloor, e.dropoff.ToFloor
			e.store.RemoveEmergency(from, to)
			e.dropoff = nil
			e.car.RemovePassenger()
			msg += fmt.Sprintf(" [emergency complete %d->%d]", from, to)
			openDoors = true
			e.endEmergency()
		}
	} else {
		suffix, served := e.serveNormalAt(floor)
		msg += suffix
		openDoors = served
	}

	if openDoors {
		e.car.OpenDoors()
	}
	e.logEvent(msg)

	if target, ok := e.nextTarget(); ok {
		e.car.MoveTo(target)
	} else {
		e.car.SetDirection(types.DirIdle)
	}
	return true, msg
}

// nextTarget picks the next floor to head for. Committed emergency legs
// come first, then the emergency scheduler, then the normal continuation
// policy.
func (e *Engine) nextTarget() (int, bool) {
	floor := e.car.Floor()
	dir := e.car.Direction()

	if e.dropoff != nil && floor != e.dropoff.ToFloor {
		return e.dropoff.ToFloor, true
	}
	if e.pickup != nil && floor != e.pickup.FromFloor {
		return e.pickup.FromFloor, true
	}

	for e.emergencyMode && e.store.HasEmergency() {
		target, leg, req, ok := emergency.NextTarget(floor, dir, e.store.Emergencies())
		if !ok {
			break
		}
		r := req
		if leg == emergency.LegDropoff && target == floor {
			// Pickup and destination both sit at the current floor. A
			// target equal to the current floor never produces an arrival,
			// so the request completes where the car stands.
			e.store.RemoveEmergency(r.FromFloor, r.ToFloor)
			e.car.OpenDoors()
			e.logEvent(fmt.Sprintf("Serving at floor %d [emergency complete %d->%d]", floor, r.FromFloor, r.ToFloor))
			e.endEmergency()
			continue
		}
		switch leg {
		case emergency.LegPickup:
			e.pickup = &r
		case emergency.LegDropoff:
			// The car already stands at the pickup floor, so the
			// passenger boards here and only the drop-off remains.
			e.dropoff = &r
			if !r.PickedUp {
				e.store.MarkEmergencyPickedUp(r.FromFloor, r.ToFloor)
				e.car.AddPassenger()
			}
		}
		log.Debug().Int("target", target).Stringer("leg", leg).Msg("emergency target selected")
		return target, true
	}

	if !e.emergencyMode {
		if suffix, served := e.serveNormalAt(floor); served {
			e.car.OpenDoors()
			e.logEvent(fmt.Sprintf("Serving at floor %d%s", floor, suffix))
		}
		return e.nextNormalTarget(floor, dir)
	}
	return 0, false
}

// serveNormalAt removes every normal request pending at floor and applies
// the passenger side effects. It returns the event suffix and whether
// anything was served. Arrivals and parked cars share this path: a request
// at the floor the car already stands on never produces an arrival, so it
// is served where the car stands.
func (e *Engine) serveNormalAt(floor int) (string, bool) {
	msg := ""
	served := false
	if e.store.HasInternal(floor) {
		e.store.RemoveInternal(floor)
		e.car.RemovePassenger()
		msg += " [internal served]"
		served = true
	}
	if e.store.HasExternal(floor, types.DirUp) {
		e.store.RemoveExternal(floor, types.DirUp)
		e.car.AddPassenger()
		msg += " [external UP served]"
		served = true
	}
	if e.store.HasExternal(floor, types.DirDown) {
		e.store.RemoveExternal(floor, types.DirDown)
		e.car.AddPassenger()
		msg += " [external DOWN served]"
		served = true
	}
	return msg, served
}

// nextNormalTarget applies the continuation policy: keep serving requests
// ahead in the current direction, internal before external; reverse when
// nothing is ahead; when idle, head for the closest call.
func (e *Engine) nextNormalTarget(floor int, dir types.Direction) (int, bool) {
	internal := e.store.InternalFloors()
	up := e.store.ExternalUpFloors()
	down := e.store.ExternalDownFloors()

	if len(internal) > 0 {
		switch dir {
		case types.DirUp:
			if t, ok := minAbove(internal, floor); ok {
				return t, true
			}
			return slices.Max(internal), true
		case types.DirDown:
			if t, ok := maxBelow(internal, floor); ok {
				return t, true
			}
			return slices.Min(internal), true
		default:
			return nearest(internal, floor), true
		}
	}

	switch dir {
	case types.DirUp:
		if t, ok := minAbove(up, floor); ok {
			return t, true
		}
		if len(down) > 0 {
			return slices.Max(down), true
		}
	case types.DirDown:
		if t, ok := maxBelow(down, floor); ok {
			return t, true
		}
		if len(up) > 0 {
			return slices.Min(up), true
		}
	default:
		all := append(slices.Clone(up), down...)
		if len(all) > 0 {
			return nearest(all, floor), true
		}
	}
	return 0, false
}

func minAbove(floors []int, floor int) (int, bool) {
	best, found := 0, false
	for _, f := range floors {
		if f > floor && (!found || f < best) {
			best, found = f, true
		}
	}
	return best, found
}

func maxBelow(floors []int, floor int) (int, bool) {
	best, found := 0, false
	for _, f := range floors {
		if f < floor && (!found || f > best) {
			best, found = f, true
		}
	}
	return best, found
}

func nearest(floors []int, floor int) int {
	best := floors[0]
	for _, f := range floors[1:] {
		if abs(f-floor) < abs(best-floor) {
			best = f
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Pause suspends tick execution without losing state.
func (e *Engine) Pause() { e.paused = true }

// Resume re-enables tick execution.
func (e *Engine) Resume() { e.paused = false }

// TogglePause flips the pause flag and returns the new state.
func (e *Engine) TogglePause() bool {
	e.paused = !e.paused
	return e.paused
}

// SetSpeed stores the advisory pacing multiplier, clamped to [0.1, 3.0].
// It has no effect on per-tick semantics.
func (e *Engine) SetSpeed(mult float64) {
	e.speed = min(max(mult, config.MinSpeed), config.MaxSpeed)
}

func (e *Engine) Speed() float64 { return e.speed }

func (e *Engine) logEvent(msg string) {
	e.events = append(e.events, msg)
	if len(e.events) > config.MaxLogEntries {
		e.events = e.events[1:]
	}
	log.Debug().Msg(msg)
}

// Status returns the compact snapshot for rendering layers.
func (e *Engine) Status() Status {
	target, hasTarget := e.car.Target()
	return Status{
		Floor:          e.car.Floor(),
		TargetFloor:    target,
		HasTarget:      hasTarget,
		Direction:      e.car.Direction(),
		Doors:          e.car.Doors(),
		EmergencyMode:  e.emergencyMode,
		HasEmergency:   e.store.HasEmergency(),
		EmergencyCount: len(e.store.Emergencies()),
		Requests:       e.store.AllRequests(),
		Paused:         e.paused,
		Speed:          e.speed,
		Passengers:     e.car.Passengers(),
		Capacity:       e.car.Capacity(),
	}
}

// DetailedStatus returns the full snapshot including statistics, the
// pending listing with wait times, the emergency group breakdown while
// active, and the last few event lines.
func (e *Engine) DetailedStatus() DetailedStatus {
	stats := e.store.Statistics()
	detailed := DetailedStatus{
		Status: e.Status(),
		Stats: StatsSnapshot{
			FloorsTraveled:  e.car.FloorsTraveled(),
			RequestsServed:  stats.TotalServed,
			NormalServed:    stats.NormalServed,
			EmergencyServed: stats.EmergencyServed,
			AverageWait:     stats.AverageWait,
		},
		PendingRequests: e.store.GetPendingInfo(),
		EmergencyRuns:   e.emergencyRuns,
	}
	if e.emergencyMode {
		groups := emergency.Classify(e.car.Floor(), e.car.Direction(), e.store.Emergencies())
		detailed.EmergencyGroups = &groups
	}
	if n := len(e.events); n > 0 {
		start := max(n-config.RecentEventCount, 0)
		detailed.RecentEvents = slices.Clone(e.events[start:])
	}
	return detailed
}
