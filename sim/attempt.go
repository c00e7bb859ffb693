package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// reworkPenaltyFactor scales a stage's mean processing time into the fixed
// extra station occupancy after a failed QC attempt.
const reworkPenaltyFactor = 0.25

// UnitState tracks one unit moving through the line. ReadyTime is the
// earliest moment the unit may begin its next stage attempt and is
// non-decreasing over the unit's lifetime.
type UnitState struct {
	ID        string
	ReadyTime time.Time
}

// UnitSerial derives the serial number of the i-th unit (1-based).
func UnitSerial(i int) string {
	return fmt.Sprintf("SN%d", 100+i)
}

// ResolveAttempt processes exactly one attempt of unit at stage: picks the
// earliest-free station, samples a duration and a QC outcome, reserves the
// station, advances the unit's ready time, and returns the emitted event.
//
// On a failed attempt the station stays occupied through the rework
// penalty, so the next attempt re-selects a station from scratch and may
// land on a different one.
func ResolveAttempt(unit *UnitState, stage StageConfig, tracker *StationTracker, sampler *Sampler) ProductionEvent {
	station := tracker.Select(stage.Name)
	available := tracker.AvailableAt(stage.Name, station)

	start := unit.ReadyTime
	if available.After(start) {
		start = available
	}

	hours := sampler.DurationHours(stage.MeanTimeHours, stage.StdDevHours)
	end := start.Add(hoursToDuration(hours))
	passed := sampler.PassQC(stage.PassRate)

	ev := ProductionEvent{
		UnitID:        unit.ID,
		Stage:         stage.Name,
		StationID:     fmt.Sprintf("%s_%d", stage.Name, station+1),
		StartTime:     start,
		EndTime:       end,
		DurationHours: math.Round(hours*100) / 100,
		QCPassed:      passed,
	}

	if passed {
		tracker.Reserve(stage.Name, station, end)
		unit.ReadyTime = end
	} else {
		reworkEnd := end.Add(hoursToDuration(stage.MeanTimeHours * reworkPenaltyFactor))
		tracker.Reserve(stage.Name, station, reworkEnd)
		unit.ReadyTime = reworkEnd
		logrus.Debugf("REWORK: %s at %s will be ready for retry at %s",
			unit.ID, stage.Name, reworkEnd.Format("2006-01-02 15:04"))
	}

	return ev
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
