// Package bootstrap assembles a fresh starting world: generated
// locations, a handful of factions each holding an HQ, and an initial
// agent roster with randomized traits, all deterministic from the run
// seed. It exists so cmd/crossroads has somewhere to start a run without
// a prior snapshot; hand-authored world content would replace it.
package bootstrap

import (
	"fmt"

	"github.com/talgya/crossroads/internal/engine"
	"github.com/talgya/crossroads/internal/ents"
	"github.com/talgya/crossroads/internal/rng"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/world"
)

// Config controls the size of the generated starting world.
type Config struct {
	Seed          uint64
	FactionCount  int
	AgentsPerFaction int
	WorldWidth    int
	WorldHeight   int
}

// DefaultConfig returns a small but non-trivial starting world: 3 factions,
// 6 agents apiece, over a 5x5 location grid.
func DefaultConfig(seed uint64) Config {
	return Config{
		Seed:             seed,
		FactionCount:     3,
		AgentsPerFaction: 6,
		WorldWidth:       5,
		WorldHeight:      5,
	}
}

var factionNames = []string{"Ashford", "Brackenwood", "Cairnmoor", "Duskfen", "Eldergate"}

var agentNames = []string{
	"Aldric", "Brenna", "Corin", "Dalla", "Eamon", "Fiora", "Garrick", "Hesper",
	"Ilse", "Joran", "Kestra", "Lucan", "Mireille", "Nessa", "Oswin", "Petra",
	"Quill", "Roswen", "Saoirse", "Torvald",
}

// Build constructs a new simulation populated per cfg.
func Build(cfg Config) *engine.Simulation {
	sim := engine.NewSimulation(cfg.Seed)

	world.Generate(world.GenConfig{Width: cfg.WorldWidth, Height: cfg.WorldHeight, Seed: int64(cfg.Seed)}, sim.Locations)

	locationIDs := sim.Locations.All()
	hqCandidates := make([]ents.LocationID, 0, len(locationIDs))
	for _, id := range locationIDs {
		loc, ok := sim.Locations.Get(id)
		if !ok {
			continue
		}
		if loc.HasProperty(world.PropFactionHQ) {
			hqCandidates = append(hqCandidates, ents.LocationID(id))
		}
	}
	if len(hqCandidates) == 0 {
		for _, id := range locationIDs {
			hqCandidates = append(hqCandidates, ents.LocationID(id))
		}
	}

	agentSeq := 0
	for i := 0; i < cfg.FactionCount && i < len(factionNames); i++ {
		hq := hqCandidates[i%len(hqCandidates)]
		fid := social.FactionID(fmt.Sprintf("faction_%d", i))
		f := social.NewFaction(fid, factionNames[i], string(hq))
		f.Resources = social.Resources{Grain: 50, Iron: 10, Salt: 5, Beer: 5}
		sim.Factions.Register(f)
		sim.RitualScheduleFor(fid)

		traitSeed := rng.Sub(cfg.Seed, int64(i)+1000)
		for j := 0; j < cfg.AgentsPerFaction; j++ {
			name := agentNames[agentSeq%len(agentNames)]
			agentSeq++
			id := ents.AgentID(fmt.Sprintf("agent_%d_%d", i, j))
			traits := ents.Traits{
				Boldness:          traitSeed.Float64(),
				LoyaltyWeight:     traitSeed.Float64(),
				GrudgePersistence: traitSeed.Float64(),
				Ambition:          traitSeed.Float64(),
				Honesty:           traitSeed.Float64(),
				Sociability:       traitSeed.Float64(),
				GroupPreference:   traitSeed.Float64(),
			}
			a := ents.NewAgent(id, name, fid, ents.LocationID(hq), traits)
			if j == 0 {
				a.Membership.Role = ents.RoleLeader
				a.Membership.Status = ents.StatusLeader
				leader := id
				f.Leader = &leader
			} else if j == 1 {
				a.Membership.Role = ents.RoleReader
				a.Membership.Status = ents.StatusSkilledWorker
				reader := id
				f.Reader = &reader
			}
			sim.AddAgent(a)
			f.AddMember(id)
		}
	}

	return sim
}
