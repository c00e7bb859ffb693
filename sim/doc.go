// Package sim provides the core simulation engine for a multi-stage
// manufacturing line with parallel stations and probabilistic QC rework.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - stations.go: per-stage station availability and earliest-free selection
//   - attempt.go: one unit's attempt at one stage, QC roll, rework penalty
//   - simulator.go: the unit-major run loop that produces the event ledger
//
// Around the engine sit pure collaborators:
//   - ledger.go: the ledger type and its CSV projections
//   - kpis.go: throughput, makespan, and cycle-time KPIs over a ledger
//   - scenario.go: what-if mutations applied to deep-copied configs
//
// # Scheduling model
//
// Units are resolved one at a time to completion, not on a shared global
// event clock. Unit 2 may therefore reserve a station slot with an earlier
// timestamp than unit 1's later stages. This changes measured throughput
// versus a true event-clock simulator and is the model's defining quirk;
// a time-ordered multi-unit scheduler would be a different design.
package sim
