// sim/simulator.go
package sim

import (
	"github.com/sirupsen/logrus"
)

// Simulator is the core object that holds the configuration, station
// state, and randomness source for one production run.
//
// Units are fully resolved in serial-number order: unit 1 runs through
// every stage before unit 2 starts. This is not a global event-clock
// scheduler; a later unit may reserve a station slot with an earlier
// timestamp than an earlier unit's later stages. The ledger therefore
// comes back in generation order, not sorted by start time across units.
type Simulator struct {
	Config  *SimulationConfig
	Tracker *StationTracker
	sampler *Sampler
	ledger  Ledger
}

// NewSimulator builds a Simulator for one run. The seed comes from the
// config; pass a non-zero seed for reproducible ledgers.
func NewSimulator(cfg *SimulationConfig) *Simulator {
	s := &Simulator{Config: cfg}
	if cfg != nil {
		s.Tracker = NewStationTracker(cfg.Stages, cfg.StartDate)
		s.sampler = NewSampler(cfg.Seed)
	}
	return s
}

// Run produces every unit to completion and returns the ledger. An absent
// or empty configuration yields an empty ledger and no error. A stage that
// hits the attempt cap returns the partial ledger alongside a
// *StageExhaustedError.
func (s *Simulator) Run() (Ledger, error) {
	if s.Config == nil || len(s.Config.Stages) == 0 || s.Config.UnitCount <= 0 {
		return Ledger{}, nil
	}

	logrus.Infof("Starting run: %d units, %d stages, seed=%d",
		s.Config.UnitCount, len(s.Config.Stages), s.sampler.Seed())

	for i := 1; i <= s.Config.UnitCount; i++ {
		unit := &UnitState{ID: UnitSerial(i), ReadyTime: s.Config.StartDate}
		if err := s.runUnit(unit); err != nil {
			return s.ledger, err
		}
		logrus.Debugf("%s completed all stages, ready at %s", unit.ID, unit.ReadyTime.Format("2006-01-02 15:04"))
	}

	logrus.Infof("Run ended: %d events in ledger", len(s.ledger))
	return s.ledger, nil
}

// runUnit drives one unit through every stage in declared order. A unit
// cannot begin a stage before its last successful attempt at the previous
// one.
func (s *Simulator) runUnit(unit *UnitState) error {
	for i := range s.Config.Stages {
		if err := s.runStage(unit, s.Config.Stages[i]); err != nil {
			return err
		}
	}
	return nil
}

// runStage retries one stage until QC passes, threading the unit's ready
// time forward each attempt. With MaxAttempts > 0 the loop is bounded and
// exhaustion becomes an explicit fault.
func (s *Simulator) runStage(unit *UnitState, stage StageConfig) error {
	attempts := 0
	for {
		ev := ResolveAttempt(unit, stage, s.Tracker, s.sampler)
		s.ledger = append(s.ledger, ev)
		attempts++
		if ev.QCPassed {
			return nil
		}
		if s.Config.MaxAttempts > 0 && attempts >= s.Config.MaxAttempts {
			return &StageExhaustedError{UnitID: unit.ID, Stage: stage.Name, Attempts: attempts}
		}
	}
}
