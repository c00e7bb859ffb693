package sim

import (
	"fmt"
	"time"
)

// StageConfig holds the parameters of one production stage.
type StageConfig struct {
	Name          string  // unique stage name, also the processing-order key
	MeanTimeHours float64 // mean processing time per attempt (must be > 0)
	StdDevHours   float64 // processing time standard deviation (must be >= 0)
	PassRate      float64 // per-attempt QC pass probability in [0,1]
	StationCount  int     // number of identical parallel stations (must be >= 1)
}

// StageList is the ordered sequence of stages a unit moves through.
// Slice order is the processing order.
type StageList []StageConfig

// Index returns the position of the named stage, or -1 if absent.
func (sl StageList) Index(name string) int {
	for i := range sl {
		if sl[i].Name == name {
			return i
		}
	}
	return -1
}

// Terminal returns the name of the last stage, the one whose completions
// count as finished units. Empty string for an empty list.
func (sl StageList) Terminal() string {
	if len(sl) == 0 {
		return ""
	}
	return sl[len(sl)-1].Name
}

// SimulationConfig groups everything one simulation run needs.
type SimulationConfig struct {
	StartDate   time.Time // every station and unit starts free/ready here
	UnitCount   int       // number of units to produce (must be > 0)
	Seed        int64     // RNG seed; 0 means seed from wall clock
	MaxAttempts int       // per-stage attempt cap; 0 means unbounded retry
	Stages      StageList
}

// Stage returns a pointer into Stages for the named stage so callers can
// mutate it in place, or nil if the stage does not exist.
func (c *SimulationConfig) Stage(name string) *StageConfig {
	i := c.Stages.Index(name)
	if i < 0 {
		return nil
	}
	return &c.Stages[i]
}

// Clone returns a deep copy. Scenario mutations are applied to clones so
// the baseline config is never touched.
func (c *SimulationConfig) Clone() *SimulationConfig {
	out := *c
	out.Stages = make(StageList, len(c.Stages))
	copy(out.Stages, c.Stages)
	return &out
}

// Validate checks every field the engine assumes to be well formed.
// All failures wrap ErrInvalidConfig.
func (c *SimulationConfig) Validate() error {
	if c.StartDate.IsZero() {
		return fmt.Errorf("%w: start_date is missing", ErrInvalidConfig)
	}
	if c.UnitCount <= 0 {
		return fmt.Errorf("%w: num_starships must be positive, got %d", ErrInvalidConfig, c.UnitCount)
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("%w: max_attempts must be >= 0, got %d", ErrInvalidConfig, c.MaxAttempts)
	}
	if len(c.Stages) == 0 {
		return fmt.Errorf("%w: no production stages defined", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Stages))
	for _, st := range c.Stages {
		if st.Name == "" {
			return fmt.Errorf("%w: stage with empty name", ErrInvalidConfig)
		}
		if seen[st.Name] {
			return fmt.Errorf("%w: duplicate stage %q", ErrInvalidConfig, st.Name)
		}
		seen[st.Name] = true
		if st.MeanTimeHours <= 0 {
			return fmt.Errorf("%w: stage %q: mean_time_hours must be positive, got %v", ErrInvalidConfig, st.Name, st.MeanTimeHours)
		}
		if st.StdDevHours < 0 {
			return fmt.Errorf("%w: stage %q: std_dev_hours must be >= 0, got %v", ErrInvalidConfig, st.Name, st.StdDevHours)
		}
		if st.PassRate < 0 || st.PassRate > 1 {
			return fmt.Errorf("%w: stage %q: pass_rate must be in [0,1], got %v", ErrInvalidConfig, st.Name, st.PassRate)
		}
		if st.StationCount < 1 {
			return fmt.Errorf("%w: stage %q: station_count must be >= 1, got %d", ErrInvalidConfig, st.Name, st.StationCount)
		}
	}
	return nil
}
