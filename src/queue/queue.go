// Package queue owns the multi-class request store: internal cab requests,
// external up/down calls and the emergency list, with wait-time accounting
// and the pause/resume snapshot used while emergency mode is active.
package queue

import (
	"fmt"
	"slices"
	"time"

	"github.com/tiendc/go-deepcopy"

	"github.com/vinniebhanu2021/priority-queue-lift/src/logging"
	"github.com/vinniebhanu2021/priority-queue-lift/src/types"
)

var log = logging.GetLogger()

// Store keeps every pending request keyed by floor, with the submission
// time as value so wait times fall out of removal.
type Store struct {
	numFloors int

	internal     map[int]time.Time
	externalUp   map[int]time.Time
	externalDown map[int]time.Time
	emergencies  []types.EmergencyRequest

	pausedInternal map[int]time.Time
	pausedUp       map[int]time.Time
	pausedDown     map[int]time.Time
	paused         bool

	stats types.Stats
	now   func() time.Time
}

func New(numFloors int) *Store {
	return &Store{
		numFloors:      numFloors,
		internal:       map[int]time.Time{},
		externalUp:     map[int]time.Time{},
		externalDown:   map[int]time.Time{},
		pausedInternal: map[int]time.Time{},
		pausedUp:       map[int]time.Time{},
		pausedDown:     map[int]time.Time{},
		now:            time.Now,
	}
}

// SetClock replaces the time source. Used by tests to make wait times
// deterministic.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) inRange(floor int) bool {
	return floor >= 1 && floor <= s.numFloors
}

// AddInternal records a cab request. Idempotent; while the store is paused
// the request lands in the paused set and is not served until resumption.
func (s *Store) AddInternal(floor int) bool {
	if !s.inRange(floor) {
		return false
	}
	if s.paused {
		if _, ok := s.pausedInternal[floor]; !ok {
			s.pausedInternal[floor] = s.now()
		}
		return true
	}
	if _, ok := s.internal[floor]; !ok {
		s.internal[floor] = s.now()
		log.Debug().Int("floor", floor).Msg("internal request queued")
	}
	return true
}

// AddExternal records an up or down call at a floor. Idempotent; paused
// behaviour matches AddInternal.
func (s *Store) AddExternal(floor int, dir types.Direction) bool {
	if !s.inRange(floor) {
		return false
	}
	var live, shadow map[int]time.Time
	switch dir {
	case types.DirUp:
		live, shadow = s.externalUp, s.pausedUp
	case types.DirDown:
		live, shadow = s.externalDown, s.pausedDown
	default:
		return false
	}
	if s.paused {
		if _, ok := shadow[floor]; !ok {
			shadow[floor] = s.now()
		}
		return true
	}
	if _, ok := live[floor]; !ok {
		live[floor] = s.now()
		log.Debug().Int("floor", floor).Stringer("dir", dir).Msg("external request queued")
	}
	return true
}

// AddEmergency appends an emergency transport request. Requests are
// deduplicated by their (from, to) pair; a duplicate is silently absorbed.
func (s *Store) AddEmergency(from, to int) bool {
	if !s.inRange(from) || !s.inRange(to) {
		return false
	}
	for _, r := range s.emergencies {
		if r.SamePair(from, to) {
			return true
		}
	}
	s.emergencies = append(s.emergencies, types.EmergencyRequest{
		FromFloor:   from,
		ToFloor:     to,
		Priority:    types.PriorityCritical,
		SubmittedAt: s.now(),
	})
	log.Info().Int("from", from).Int("to", to).Msg("emergency request queued")
	return true
}

// RemoveInternal serves a cab request and returns its wait time. Removing an
// absent floor is a no-op returning zero.
func (s *Store) RemoveInternal(floor int) time.Duration {
	t, ok := s.internal[floor]
	if !ok {
		return 0
	}
	delete(s.internal, floor)
	wait := s.now().Sub(t)
	s.stats.TotalWait += wait
	s.stats.NormalServed++
	return wait
}

// RemoveExternal serves an up or down call and returns its wait time.
func (s *Store) RemoveExternal(floor int, dir types.Direction) time.Duration {
	var live map[int]time.Time
	switch dir {
	case types.DirUp:
		live = s.externalUp
	case types.DirDown:
		live = s.externalDown
	default:
		return 0
	}
	t, ok := live[floor]
	if !ok {
		return 0
	}
	delete(live, floor)
	wait := s.now().Sub(t)
	s.stats.TotalWait += wait
	s.stats.NormalServed++
	return wait
}

// RemoveEmergency completes an emergency request and returns its wait time.
func (s *Store) RemoveEmergency(from, to int) time.Duration {
	for i, r := range s.emergencies {
		if r.SamePair(from, to) {
			s.emergencies = append(s.emergencies[:i], s.emergencies[i+1:]...)
			wait := s.now().Sub(r.SubmittedAt)
			s.stats.TotalWait += wait
			s.stats.EmergencyServed++
			return wait
		}
	}
	return 0
}

// MarkEmergencyPickedUp flags the matching request once its passenger is
// aboard.
func (s *Store) MarkEmergencyPickedUp(from, to int) {
	for i := range s.emergencies {
		if s.emergencies[i].SamePair(from, to) {
			s.emergencies[i].PickedUp = true
			return
		}
	}
}

// PauseNormal snapshots the three live normal sets aside and clears them.
// Idempotent while already paused.
func (s *Store) PauseNormal() {
	if s.paused {
		return
	}
	if err := deepcopy.Copy(&s.pausedInternal, s.internal); err != nil {
		panic(err)
	}
	if err := deepcopy.Copy(&s.pausedUp, s.externalUp); err != nil {
		panic(err)
	}
	if err := deepcopy.Copy(&s.pausedDown, s.externalDown); err != nil {
		panic(err)
	}
	s.internal = map[int]time.Time{}
	s.externalUp = map[int]time.Time{}
	s.externalDown = map[int]time.Time{}
	s.paused = true
	log.Info().Msg("normal requests paused")
}

// ResumeNormal restores the paused snapshot into the live sets. Idempotent
// while not paused.
func (s *Store) ResumeNormal() {
	if !s.paused {
		return
	}
	if err := deepcopy.Copy(&s.internal, s.pausedInternal); err != nil {
		panic(err)
	}
	if err := deepcopy.Copy(&s.externalUp, s.pausedUp); err != nil {
		panic(err)
	}
	if err := deepcopy.Copy(&s.externalDown, s.pausedDown); err != nil {
		panic(err)
	}
	s.pausedInternal = map[int]time.Time{}
	s.pausedUp = map[int]time.Time{}
	s.pausedDown = map[int]time.Time{}
	s.paused = false
	log.Info().Msg("normal requests resumed")
}

func (s *Store) IsPaused() bool { return s.paused }

func (s *Store) HasEmergency() bool {
	return len(s.emergencies) > 0
}

func (s *Store) HasNormal() bool {
	return len(s.internal) > 0 || len(s.externalUp) > 0 || len(s.externalDown) > 0
}

func (s *Store) HasPaused() bool {
	return len(s.pausedInternal) > 0 || len(s.pausedUp) > 0 || len(s.pausedDown) > 0
}

func (s *Store) HasInternal(floor int) bool {
	_, ok := s.internal[floor]
	return ok
}

func (s *Store) HasExternal(floor int, dir types.Direction) bool {
	switch dir {
	case types.DirUp:
		_, ok := s.externalUp[floor]
		return ok
	case types.DirDown:
		_, ok := s.externalDown[floor]
		return ok
	}
	return false
}

// Emergencies returns a copy of the live emergency list in submission order.
func (s *Store) Emergencies() []types.EmergencyRequest {
	return slices.Clone(s.emergencies)
}

// InternalFloors returns the live cab-request floors sorted ascending.
func (s *Store) InternalFloors() []int {
	return sortedKeys(s.internal, false)
}

// ExternalUpFloors returns the live up-call floors sorted ascending.
func (s *Store) ExternalUpFloors() []int {
	return sortedKeys(s.externalUp, false)
}

// ExternalDownFloors returns the live down-call floors sorted descending.
func (s *Store) ExternalDownFloors() []int {
	return sortedKeys(s.externalDown, true)
}

func sortedKeys(m map[int]time.Time, desc bool) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if desc {
		slices.Reverse(keys)
	}
	return keys
}

// Pending is the sorted normal-request listing used by the status snapshot.
type Pending struct {
	Internal     []int
	ExternalUp   []int
	ExternalDown []int
}

func (s *Store) AllRequests() Pending {
	return Pending{
		Internal:     s.InternalFloors(),
		ExternalUp:   s.ExternalUpFloors(),
		ExternalDown: s.ExternalDownFloors(),
	}
}

// PendingInfo is the detailed pending-request listing with wait times.
type PendingInfo struct {
	Internal     []types.RequestInfo
	ExternalUp   []types.RequestInfo
	ExternalDown []types.RequestInfo
	Emergency    []types.RequestInfo
	Paused       []types.RequestInfo
}

func (s *Store) GetPendingInfo() PendingInfo {
	now := s.now()
	var info PendingInfo

	for _, floor := range s.InternalFloors() {
		t := s.internal[floor]
		info.Internal = append(info.Internal, types.RequestInfo{
			Floor: floor, RequestedAt: t, Wait: now.Sub(t),
		})
	}
	for _, floor := range s.ExternalUpFloors() {
		t := s.externalUp[floor]
		info.ExternalUp = append(info.ExternalUp, types.RequestInfo{
			Floor: floor, Label: "UP", RequestedAt: t, Wait: now.Sub(t),
		})
	}
	for _, floor := range s.ExternalDownFloors() {
		t := s.externalDown[floor]
		info.ExternalDown = append(info.ExternalDown, types.RequestInfo{
			Floor: floor, Label: "DOWN", RequestedAt: t, Wait: now.Sub(t),
		})
	}
	for _, r := range s.emergencies {
		info.Emergency = append(info.Emergency, types.RequestInfo{
			Floor:       r.FromFloor,
			Label:       fmt.Sprintf("->%d", r.ToFloor),
			RequestedAt: r.SubmittedAt,
			Wait:        now.Sub(r.SubmittedAt),
		})
	}
	if n := len(s.pausedInternal) + len(s.pausedUp) + len(s.pausedDown); n > 0 {
		info.Paused = append(info.Paused, types.RequestInfo{
			Floor:       -1,
			Label:       fmt.Sprintf("%d paused", n),
			RequestedAt: now,
		})
	}
	return info
}

// TotalPending counts every live request including emergencies.
func (s *Store) TotalPending() int {
	return len(s.internal) + len(s.externalUp) + len(s.externalDown) + len(s.emergencies)
}

// StatsSnapshot is the aggregate service statistics view.
type StatsSnapshot struct {
	TotalServed     int
	NormalServed    int
	EmergencyServed int
	AverageWait     time.Duration
	TotalWait       time.Duration
	PendingCount    int
}

func (s *Store) Statistics() StatsSnapshot {
	return StatsSnapshot{
		TotalServed:     s.stats.TotalServed(),
		NormalServed:    s.stats.NormalServed,
		EmergencyServed: s.stats.EmergencyServed,
		AverageWait:     s.stats.AverageWait(),
		TotalWait:       s.stats.TotalWait,
		PendingCount:    s.TotalPending(),
	}
}
