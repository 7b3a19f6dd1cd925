// metrics.go adapts the teacher's running-totals Metrics accumulator
// (sim/metrics.go) to this domain's §6 stats() contract and the
// replan/last-rescue bookkeeping needed for §6's benchmark output schema.

package sim

import "fmt"

// Metrics aggregates simulation-wide statistics for Simulation.Stats and
// for benchmark reporting (§6).
type Metrics struct {
	Rescued       int
	Dead          int
	TotalInitial  int
	ReplanCount   int
	LastRescueTick int64
}

// Remaining returns the count of occupants neither rescued nor dead.
func (m *Metrics) Remaining() int {
	return m.TotalInitial - m.Rescued - m.Dead
}

// RecordRescue accumulates a DropOff (or self-evacuation) event.
func (m *Metrics) RecordRescue(count int, tick int64) {
	if count <= 0 {
		return
	}
	m.Rescued += count
	m.LastRescueTick = tick
}

// RecordDeath accumulates occupants newly counted as dead.
func (m *Metrics) RecordDeath(count int) {
	m.Dead += count
}

// RecordReplan increments the replan-event counter.
func (m *Metrics) RecordReplan() {
	m.ReplanCount++
}

// Stats is the §6 Simulation.stats() return value.
type Stats struct {
	Tick         int64
	Rescued      int
	Dead         int
	Remaining    int
	TotalInitial int
	TimeMinutes  float64
}

// Snapshot builds a Stats value as of the given tick.
func (m *Metrics) Snapshot(tick int64) Stats {
	return Stats{
		Tick:         tick,
		Rescued:      m.Rescued,
		Dead:         m.Dead,
		Remaining:    m.Remaining(),
		TotalInitial: m.TotalInitial,
		TimeMinutes:  float64(tick) * tauSeconds / 60,
	}
}

// Print displays aggregated metrics at the end of a run, matching the
// teacher's plain-text Metrics.Print convention.
func (s Stats) Print() {
	fmt.Println("=== Simulation Stats ===")
	fmt.Printf("Tick              : %d\n", s.Tick)
	fmt.Printf("Rescued           : %d\n", s.Rescued)
	fmt.Printf("Dead              : %d\n", s.Dead)
	fmt.Printf("Remaining         : %d\n", s.Remaining)
	fmt.Printf("Total Initial     : %d\n", s.TotalInitial)
	fmt.Printf("Elapsed (minutes) : %.2f\n", s.TimeMinutes)
}
