package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mutation operations a scenario may apply to a cloned config.
const (
	// MutationAddStation adds Value stations to a stage (1 when Value is 0).
	MutationAddStation = "add_station"
	// MutationSetPassRate replaces a stage's QC pass rate with Value.
	MutationSetPassRate = "set_pass_rate"
	// MutationScaleMeanTime multiplies a stage's mean time by Value.
	MutationScaleMeanTime = "scale_mean_time"
)

// Mutation is one what-if adjustment to a single stage.
type Mutation struct {
	Op    string  `yaml:"op"`
	Stage string  `yaml:"stage"`
	Value float64 `yaml:"value"`
}

// Scenario is a named set of mutations modelling a process improvement,
// e.g. adding a tiling station or raising the welding pass rate.
type Scenario struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Mutations   []Mutation `yaml:"mutations"`
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadScenarios reads a YAML scenario file.
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var sf scenarioFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse scenario file: %w", err)
	}
	if len(sf.Scenarios) == 0 {
		return nil, fmt.Errorf("%w: scenario file defines no scenarios", ErrInvalidConfig)
	}
	return sf.Scenarios, nil
}

// Apply builds the scenario's config by mutating a deep copy of base.
// The baseline config is never modified, so baseline and scenario runs
// stay directly comparable. The mutated config is re-validated before it
// is returned.
func (sc Scenario) Apply(base *SimulationConfig) (*SimulationConfig, error) {
	cfg := base.Clone()
	for _, m := range sc.Mutations {
		stage := cfg.Stage(m.Stage)
		if stage == nil {
			return nil, fmt.Errorf("%w: scenario %q references unknown stage %q", ErrInvalidConfig, sc.Name, m.Stage)
		}
		switch m.Op {
		case MutationAddStation:
			added := int(m.Value)
			if added == 0 {
				added = 1
			}
			stage.StationCount += added
		case MutationSetPassRate:
			stage.PassRate = m.Value
		case MutationScaleMeanTime:
			stage.MeanTimeHours *= m.Value
		default:
			return nil, fmt.Errorf("%w: scenario %q has unknown mutation op %q", ErrInvalidConfig, sc.Name, m.Op)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %q produced an invalid config: %w", sc.Name, err)
	}
	return cfg, nil
}
