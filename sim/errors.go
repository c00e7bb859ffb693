package sim

import (
	"errors"
	"fmt"
)

// ErrConfigUnavailable marks a configuration that could not be read at all
// (missing or unreadable file). Callers degrade to an empty ledger and zero
// KPIs rather than faulting.
var ErrConfigUnavailable = errors.New("configuration unavailable")

// ErrInvalidConfig marks a configuration that was read but is malformed:
// missing keys, unknown stage references, non-positive station counts.
// The engine refuses to run such a config.
var ErrInvalidConfig = errors.New("invalid configuration")

// StageExhaustedError reports that a unit hit the per-stage attempt cap
// without a QC pass. It converts the unbounded retry loop of a degenerate
// pass rate into an explicit fault.
type StageExhaustedError struct {
	UnitID   string
	Stage    string
	Attempts int
}

func (e *StageExhaustedError) Error() string {
	return fmt.Sprintf("unit %s exhausted %d attempts at stage %s without passing QC", e.UnitID, e.Attempts, e.Stage)
}
