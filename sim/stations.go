package sim

import "time"

// StationTracker holds, per stage, the next-free timestamp of every
// parallel station. Stations are the only shared mutable resource of a
// run; they are contended in unit-processing order, not in time order.
type StationTracker struct {
	availability map[string][]time.Time
}

// NewStationTracker initializes every station of every stage to be free
// at the simulation start date.
func NewStationTracker(stages StageList, start time.Time) *StationTracker {
	avail := make(map[string][]time.Time, len(stages))
	for _, st := range stages {
		slots := make([]time.Time, st.StationCount)
		for i := range slots {
			slots[i] = start
		}
		avail[st.Name] = slots
	}
	return &StationTracker{availability: avail}
}

// Select returns the index of the earliest-free station for the stage.
// Ties go to the lowest index.
func (t *StationTracker) Select(stage string) int {
	slots := t.availability[stage]
	best := 0
	for i := 1; i < len(slots); i++ {
		if slots[i].Before(slots[best]) {
			best = i
		}
	}
	return best
}

// AvailableAt returns the next-free time of one station.
func (t *StationTracker) AvailableAt(stage string, station int) time.Time {
	return t.availability[stage][station]
}

// Reserve overwrites the station's next-free time. Callers must never pass
// a value earlier than the current one; the tracker does not check.
func (t *StationTracker) Reserve(stage string, station int, next time.Time) {
	t.availability[stage][station] = next
}
