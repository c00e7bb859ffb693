// Derives throughput and cycle-time KPIs from a production ledger.
// Everything here is a pure function of the ledger; no simulation state.

package sim

import (
	"fmt"
	"math"
)

const hoursPerDay = 24

// KPIReport summarizes one ledger for reporting and scenario comparison.
type KPIReport struct {
	TotalUnits        int     // distinct units that reached the terminal stage
	MakespanDays      float64 // max end time minus min start time, whole ledger
	ThroughputPerWeek float64 // TotalUnits / (MakespanDays / 7), 0 when degenerate
}

// CalculateKPIs computes the report. Unit completions are counted at the
// terminal stage only; the makespan spans every stage. Throughput is
// guarded to zero for empty ledgers and non-positive makespans.
func CalculateKPIs(ledger Ledger, terminalStage string) KPIReport {
	if len(ledger) == 0 {
		return KPIReport{}
	}

	completed := make(map[string]struct{})
	minStart := ledger[0].StartTime
	maxEnd := ledger[0].EndTime
	for _, ev := range ledger {
		if ev.Stage == terminalStage {
			completed[ev.UnitID] = struct{}{}
		}
		if ev.StartTime.Before(minStart) {
			minStart = ev.StartTime
		}
		if ev.EndTime.After(maxEnd) {
			maxEnd = ev.EndTime
		}
	}

	report := KPIReport{
		TotalUnits:   len(completed),
		MakespanDays: maxEnd.Sub(minStart).Hours() / hoursPerDay,
	}
	if report.MakespanDays > 0 {
		report.ThroughputPerWeek = float64(report.TotalUnits) / (report.MakespanDays / 7)
	}
	return report
}

// Print displays the report at the end of a run.
func (r KPIReport) Print() {
	fmt.Println("=== Production KPIs ===")
	fmt.Printf("Units completed      : %d\n", r.TotalUnits)
	fmt.Printf("Makespan             : %.1f days\n", r.MakespanDays)
	fmt.Printf("Throughput           : %.2f units/week\n", r.ThroughputPerWeek)
}

// StageStats summarizes observed cycle times for one stage.
type StageStats struct {
	Stage     string
	Attempts  int     // total attempts, including rework
	Reworks   int     // failed attempts
	MeanHours float64 // mean station occupancy per attempt
	MinHours  float64
	MaxHours  float64
}

// StageCycleStats aggregates per-stage cycle times in declared stage
// order. Stages with no events are omitted.
func StageCycleStats(ledger Ledger, stages StageList) []StageStats {
	byStage := make(map[string]*StageStats, len(stages))
	for _, ev := range ledger {
		st, ok := byStage[ev.Stage]
		if !ok {
			st = &StageStats{Stage: ev.Stage, MinHours: math.Inf(1)}
			byStage[ev.Stage] = st
		}
		h := ev.CycleHours()
		st.Attempts++
		if !ev.QCPassed {
			st.Reworks++
		}
		st.MeanHours += h
		st.MinHours = math.Min(st.MinHours, h)
		st.MaxHours = math.Max(st.MaxHours, h)
	}

	out := make([]StageStats, 0, len(byStage))
	for _, sc := range stages {
		st, ok := byStage[sc.Name]
		if !ok {
			continue
		}
		st.MeanHours /= float64(st.Attempts)
		out = append(out, *st)
	}
	return out
}
