// physics.go implements the stochastic fire and smoke model from §4.1:
// edge burn-out, fire-intensity preheating and ignition, smoke diffusion,
// and smoke-casualty rolls. This is a simplified, tick-discretized model
// per spec's own Non-goal ("realistic combustion or fluid dynamics") —
// no library in the retrieval pack models building fire, so these
// formulas are implemented directly from §4.1.

package sim

import (
	"math"
	"math/rand"
)

const (
	tauSeconds = 1.0 // fixed tick duration (§4.1)

	// firePreheatK is the implementer-chosen preheat coefficient scaling
	// how strongly a burning neighbor's fire_intensity radiates into an
	// adjacent room per tick. Not specified numerically by §4.1; chosen
	// small enough that a room next to a fully burning neighbor takes
	// several ticks to ignite rather than igniting instantaneously.
	firePreheatK = 0.05

	// fireIgnitionThreshold is the fire_intensity level at which a room
	// is marked burned (§4.1: "When fire_intensity crosses the ignition
	// threshold...").
	fireIgnitionThreshold = 0.6

	// smokeGenRate scales how much smoke a burning/fire-adjacent room
	// generates per tick, proportional to its fire_intensity.
	smokeGenRate = 2.0 // m^3 per tick per unit fire_intensity

	// smokeDiffusionRate scales diffusion flow between adjacent rooms.
	smokeDiffusionRate = 0.1
)

// burnProbability computes p_burn(e) per the §4.1 formula.
func burnProbability(g *Graph, eidx int, tick int64) float64 {
	e := g.Edges[eidx]
	d := g.DistanceToNearestBurning3D(eidx)
	widthFactor := 2.0 / math.Max(0.5, e.WidthM)
	timeFactor := 1 + float64(tick)/100
	distanceFactor := 1 / (1 + d/10)
	return e.BaseBurnRate * timeFactor * distanceFactor * widthFactor * tauSeconds
}

// applyEdgeBurnout independently clears each still-existing edge with
// probability burnProbability, drawing from the edge_burn RNG subsystem
// in ascending edge-index order for determinism (§5 ordering guarantee #3).
func applyEdgeBurnout(g *Graph, tick int64, rng *rand.Rand) (clearedIDs []string) {
	for i, e := range g.Edges {
		if !e.Exists {
			continue
		}
		p := burnProbability(g, i, tick)
		if rng.Float64() < p {
			e.Exists = false
			clearedIDs = append(clearedIDs, e.ID)
		}
	}
	return clearedIDs
}

// applyFirePropagation grows fire_intensity on every vertex by a
// preheating term summed over existing-edge neighbors (§4.1), then
// ignites any vertex crossing the threshold. Returns the total occupants
// newly killed by ignition this tick.
func applyFirePropagation(g *Graph) (newlyDead int) {
	n := len(g.Vertices)
	delta := make([]float64, n)

	for i, v := range g.Vertices {
		if v.Burned {
			continue
		}
		var sum float64
		for _, eidx := range g.EdgesAt(i) {
			e := g.Edges[eidx]
			if !e.Exists {
				continue
			}
			nIdx := e.Other(i)
			neighbor := g.Vertices[nIdx]
			if neighbor.FireIntensity <= 0 {
				continue
			}
			widthFactor := 2.0 / math.Max(0.5, e.WidthM)
			d := g.SpatialDistance3D(i, nIdx)
			distanceFactor := 1 / math.Max(1, d)
			verticalMod := 1.0
			if neighbor.Floor != v.Floor {
				verticalMod = 0.7
			}
			sum += neighbor.FireIntensity * firePreheatK * widthFactor * distanceFactor * verticalMod
		}
		delta[i] = sum * tauSeconds
	}

	for i, v := range g.Vertices {
		if v.Burned || delta[i] == 0 {
			continue
		}
		v.FireIntensity += delta[i]
		if v.FireIntensity > 1 {
			v.FireIntensity = 1
		}
		if v.FireIntensity >= fireIgnitionThreshold {
			newlyDead += v.MarkBurned()
		}
	}
	return newlyDead
}

// applySmokeGeneration adds smoke to every burned or fire-intensity>0
// vertex, proportional to fire_intensity and tau, capped at the room's
// volume.
func applySmokeGeneration(g *Graph) {
	for _, v := range g.Vertices {
		if v.FireIntensity <= 0 {
			continue
		}
		v.SmokeVolumeM3 += v.FireIntensity * smokeGenRate * tauSeconds
		if vol := v.VolumeM3(); vol > 0 && v.SmokeVolumeM3 > vol {
			v.SmokeVolumeM3 = vol
		}
	}
}

// applySmokeDiffusion moves smoke between adjacent existing-edge vertices
// proportional to the concentration differential and min(volumeA,
// volumeB), with a vertical modifier (1.5x flowing up a floor, 0.5x
// flowing down). Deltas are computed from a snapshot of current volumes
// so that diffusion within a tick is order-independent.
func applySmokeDiffusion(g *Graph) {
	n := len(g.Vertices)
	delta := make([]float64, n)

	for _, e := range g.Edges {
		if !e.Exists {
			continue
		}
		va, vb := g.Vertices[e.A], g.Vertices[e.B]
		ca, cb := va.SmokeConcentration(), vb.SmokeConcentration()
		if ca == cb {
			continue
		}
		minVol := math.Min(va.VolumeM3(), vb.VolumeM3())
		if minVol <= 0 {
			continue
		}
		flow := (ca - cb) * minVol * smokeDiffusionRate * tauSeconds // positive: a -> b
		vertical := 1.0
		if vb.Floor > va.Floor {
			vertical = 1.5
		} else if vb.Floor < va.Floor {
			vertical = 0.5
		}
		if flow > 0 {
			flow *= vertical
			delta[e.A] -= flow
			delta[e.B] += flow
		} else {
			vertical = 1.0
			if va.Floor > vb.Floor {
				vertical = 1.5
			} else if va.Floor < vb.Floor {
				vertical = 0.5
			}
			flow = -flow * vertical
			delta[e.A] += flow
			delta[e.B] -= flow
		}
	}

	for i, v := range g.Vertices {
		if delta[i] == 0 {
			continue
		}
		v.SmokeVolumeM3 += delta[i]
		if v.SmokeVolumeM3 < 0 {
			v.SmokeVolumeM3 = 0
		}
		if vol := v.VolumeM3(); vol > 0 && v.SmokeVolumeM3 > vol {
			v.SmokeVolumeM3 = vol
		}
	}
}

// smokeDeathProbability implements the §4.1 concentration bands.
func smokeDeathProbability(c float64) float64 {
	switch {
	case c < 0.3:
		return 0
	case c < 0.5:
		return 0.02
	case c < 0.7:
		return 0.05
	default:
		return 0.15
	}
}

// applySmokeCasualtyRolls independently rolls each live occupant in every
// vertex for a smoke death, in ascending vertex-index order for
// determinism. Returns the number of newly dead occupants (capable and
// incapable combined).
func applySmokeCasualtyRolls(g *Graph, rng *rand.Rand) (newlyDead int) {
	for _, v := range g.Vertices {
		if v.Burned {
			continue
		}
		p := smokeDeathProbability(v.SmokeConcentration())
		if p <= 0 {
			continue
		}
		capableCount, incapableCount := v.OccupantsCapable, v.OccupantsIncapable
		var capableDeaths, incapableDeaths int
		for i := 0; i < capableCount; i++ {
			if rng.Float64() < p {
				capableDeaths++
			}
		}
		for i := 0; i < incapableCount; i++ {
			if rng.Float64() < p {
				incapableDeaths++
			}
		}
		v.OccupantsCapable -= capableDeaths
		v.OccupantsIncapable -= incapableDeaths
		newlyDead += capableDeaths + incapableDeaths
	}
	return newlyDead
}
