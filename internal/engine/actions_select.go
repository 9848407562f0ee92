package engine

// ApplyNoise perturbs every candidate's weight by ±20% multiplicative noise,
// flooring at 0.01. Draws are made in candidate order,
// which is itself deterministic because GenerateCandidates builds the slice
// in a fixed order per agent.
func (s *Simulation) ApplyNoise(cands []Candidate) {
	for i := range cands {
		cands[i].Weight *= s.RNG.NoiseMultiplier()
		if cands[i].Weight < WeightClampMin {
			cands[i].Weight = WeightClampMin
		}
	}
}

// Select performs weighted-random choice over candidates, returning the
// chosen candidate. cands must be non-empty (GenerateCandidates guarantees
// an Idle fallback).
func (s *Simulation) Select(cands []Candidate) Candidate {
	weights := make([]float64, len(cands))
	for i, c := range cands {
		weights[i] = c.Weight
	}
	idx := s.RNG.WeightedChoice(weights)
	if idx < 0 {
		idx = 0
	}
	return cands[idx]
}
