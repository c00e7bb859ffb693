package sim

import "time"

// ProductionEvent records one resolved attempt of one unit at one stage.
// Events are immutable once emitted.
type ProductionEvent struct {
	UnitID        string    // serial number, e.g. "SN101"
	Stage         string    // stage name
	StationID     string    // stage name + 1-based station index, e.g. "Welding_2"
	StartTime     time.Time // max(unit ready time, station free time)
	EndTime       time.Time // StartTime plus the sampled processing time
	DurationHours float64   // sampled processing time, >= 1, rounded to 2 decimals
	QCPassed      bool      // whether this attempt cleared quality control
}

// CycleHours is the wall time the attempt occupied the station, excluding
// any rework penalty.
func (e ProductionEvent) CycleHours() float64 {
	return e.EndTime.Sub(e.StartTime).Hours()
}
