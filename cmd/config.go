package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	sim "github.com/linesim/linesim/sim"
)

// JSON shapes of the config document. production_stages is decoded with a
// field-order-preserving object walk because declaration order IS the
// processing order; a plain map would lose it.
type simulationParams struct {
	StartDate    string `json:"start_date"`
	NumStarships int    `json:"num_starships"`
	Seed         int64  `json:"seed"`
	MaxAttempts  int    `json:"max_attempts"`
}

type stageParams struct {
	MeanTimeHours float64 `json:"mean_time_hours"`
	StdDevHours   float64 `json:"std_dev_hours"`
	PassRate      float64 `json:"pass_rate"`
	StationCount  int     `json:"station_count"`
}

const startDateLayout = "2006-01-02"

// LoadConfig reads and validates a simulation config file. A missing or
// unreadable file wraps sim.ErrConfigUnavailable; a malformed one wraps
// sim.ErrInvalidConfig.
func LoadConfig(path string) (*sim.SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sim.ErrConfigUnavailable, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes the JSON config document, preserving the declared
// stage order, and validates the result.
func ParseConfig(data []byte) (*sim.SimulationConfig, error) {
	var params simulationParams
	var stages sim.StageList

	iter := jsoniter.ParseBytes(jsoniter.ConfigCompatibleWithStandardLibrary, data)
	iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		switch field {
		case "simulation_parameters":
			it.ReadVal(&params)
		case "production_stages":
			it.ReadObjectCB(func(it *jsoniter.Iterator, name string) bool {
				var p stageParams
				it.ReadVal(&p)
				stages = append(stages, sim.StageConfig{
					Name:          name,
					MeanTimeHours: p.MeanTimeHours,
					StdDevHours:   p.StdDevHours,
					PassRate:      p.PassRate,
					StationCount:  p.StationCount,
				})
				return true
			})
		default:
			it.Skip()
		}
		return true
	})
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, fmt.Errorf("%w: %v", sim.ErrInvalidConfig, iter.Error)
	}

	if params.StartDate == "" {
		return nil, fmt.Errorf("%w: simulation_parameters.start_date is missing", sim.ErrInvalidConfig)
	}
	startDate, err := time.Parse(startDateLayout, params.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start_date %q: %v", sim.ErrInvalidConfig, params.StartDate, err)
	}

	cfg := &sim.SimulationConfig{
		StartDate:   startDate,
		UnitCount:   params.NumStarships,
		Seed:        params.Seed,
		MaxAttempts: params.MaxAttempts,
		Stages:      stages,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
