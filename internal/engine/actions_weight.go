package engine

import "github.com/talgya/crossroads/internal/ents"

// ApplyTraitWeights multiplies every candidate's weight by its trait/needs/
// role-derived modifier.4, then clamps to [0.01, 10.0].
func (s *Simulation) ApplyTraitWeights(a *ents.Agent, cands []Candidate) {
	for i := range cands {
		c := &cands[i]
		switch c.Sub {
		case SubTravel:
			c.Weight *= (0.5 + 0.5*a.Traits.Boldness) * (0.8 + 0.4*a.Traits.Sociability)
		case SubReturnHome:
			c.Weight *= (0.5 + a.Traits.LoyaltyWeight) * (1.5 - 0.5*a.Traits.Boldness)
			switch a.Needs.SocialBelonging {
			case ents.BelongingIsolated:
				c.Weight *= 3.0
			case ents.BelongingPeripheral:
				c.Weight *= 1.5
			}
		case SubPatrol:
			if a.Membership.Role == ents.RoleScoutCaptain {
				c.Weight *= 2.0
			}
			c.Weight *= (0.5 + a.Traits.LoyaltyWeight)
		case SubShareMemory, SubGroupShare:
			c.Weight *= (0.6 + 0.4*a.Traits.Sociability)
			if a.Needs.SocialBelonging == ents.BelongingIsolated {
				c.Weight *= 1.3
			}
			if c.Sub == SubGroupShare {
				c.Weight *= 0.8
			}
		case SubIdle:
			c.Weight *= (1.5 - 0.5*a.Traits.Sociability)
			if a.Needs.FoodSecurity == ents.FoodDesperate {
				c.Weight *= 0.5
			}
			if a.Needs.SocialBelonging == ents.BelongingIsolated {
				c.Weight *= 0.5
			}
		case SubArgue, SubFight, SubAssassinate:
			c.Weight *= (0.5 + 1.5*a.Traits.Boldness)
			if c.Sub == SubAssassinate {
				// Gated by trust toward target below a severe threshold;
				// already enforced at generation time, so only scale here.
				c.Weight *= (0.3 + 0.7*a.Traits.Boldness)
			}
		case SubLie:
			c.Weight *= (1.5 - a.Traits.Honesty) * (0.7 + 0.6*a.Traits.Boldness)
		case SubConfess:
			c.Weight *= (0.5 + a.Traits.Honesty)
			if a.Needs.SocialBelonging == ents.BelongingIntegrated {
				c.Weight *= 1.5
			}
		}

		c.Weight = clampWeight(c.Weight)
	}
}
