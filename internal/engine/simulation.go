// Package engine runs the deterministic tick pipeline over agents,
// factions, and locations: perception, needs, action generation,
// weighting, selection, execution, trust processing, grudge decay, faction
// ritual, and tension detection.
package engine

import (
	"sort"

	"github.com/talgya/crossroads/internal/ents"
	"github.com/talgya/crossroads/internal/rng"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/tension"
	"github.com/talgya/crossroads/internal/world"
)

// Simulation is the full mutable world state the tick pipeline operates
// on. It is the single owner of every registry and queue; no subsystem
// holds its own copy of agent or faction state.
type Simulation struct {
	Seed uint64
	Tick uint64

	Agents    map[ents.AgentID]*ents.Agent
	Relations *ents.RelationshipGraph
	Memories  *ents.MemoryBank

	Locations *world.Registry
	Factions  *social.Registry
	Rituals   map[social.FactionID]*social.RitualSchedule

	Tensions *tension.Stream

	// ActiveThreats names currently active external threats, feeding the
	// ExternalThreat detector. Bootstrap starts it empty and no intervention
	// type or tick phase writes it; it is only carried through snapshots and
	// the SQLite cache and restored on resume.
	ActiveThreats []string

	// Season is the current production-modifier season.
	Season Season

	Events      []Event
	lastEventID ents.EventID

	RNG *rng.Stream

	trustQueue []ents.TrustEvent

	interactionCounters *InteractionCounters

	agentOrder []ents.AgentID // cached sorted order, rebuilt on membership change
	orderDirty bool
}

// NewSimulation creates an empty simulation seeded deterministically.
func NewSimulation(seed uint64) *Simulation {
	return &Simulation{
		Seed:      seed,
		Agents:    make(map[ents.AgentID]*ents.Agent),
		Relations: ents.NewRelationshipGraph(),
		Memories:  ents.NewMemoryBank(),
		Locations: world.NewRegistry(),
		Factions:  social.NewRegistry(),
		Rituals:   make(map[social.FactionID]*social.RitualSchedule),
		Tensions:  tension.NewStream(),
		RNG:       rng.New(seed),
		orderDirty: true,
		interactionCounters: NewInteractionCounters(),
	}
}

// AddAgent registers a new agent in the world.
func (s *Simulation) AddAgent(a *ents.Agent) {
	s.Agents[a.ID] = a
	s.orderDirty = true
}

// AgentOrder returns every living agent id in stable sorted order, the
// iteration order every phase of the tick pipeline uses to keep execution
// deterministic regardless of map iteration order.
func (s *Simulation) AgentOrder() []ents.AgentID {
	if s.orderDirty {
		ids := make([]ents.AgentID, 0, len(s.Agents))
		for id, a := range s.Agents {
			if a.Alive {
				ids = append(ids, id)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		s.agentOrder = ids
		s.orderDirty = false
	}
	return s.agentOrder
}

// MarkOrderDirty forces AgentOrder to recompute on next call, used after a
// death or spawn changes the living-agent set.
func (s *Simulation) MarkOrderDirty() {
	s.orderDirty = true
}

// FactionOf returns the faction an agent belongs to, or nil if unaffiliated.
func (s *Simulation) FactionOf(agent ents.AgentID) *social.Faction {
	a, ok := s.Agents[agent]
	if !ok || a.Membership.FactionID == "" {
		return nil
	}
	f, ok := s.Factions.Get(a.Membership.FactionID)
	if !ok {
		return nil
	}
	return f
}

// InteractionCounters returns the process-wide interaction counter set.
func (s *Simulation) InteractionCounters() *InteractionCounters {
	return s.interactionCounters
}

// RitualScheduleFor returns (creating if absent) the ritual schedule for a
// faction.
func (s *Simulation) RitualScheduleFor(id social.FactionID) *social.RitualSchedule {
	rs, ok := s.Rituals[id]
	if !ok {
		rs = social.NewRitualSchedule()
		s.Rituals[id] = rs
	}
	return rs
}

// SetRitualSchedule installs an already-populated ritual schedule for a
// faction, used when resuming from a persisted cache.
func (s *Simulation) SetRitualSchedule(id social.FactionID, rs *social.RitualSchedule) {
	s.Rituals[id] = rs
}

// RestoreEventCounter sets the simulation's monotonic event-id counter, used
// when resuming from a persisted cache so newly emitted events never reuse
// an id already written to a prior run's event log.
func (s *Simulation) RestoreEventCounter(last ents.EventID) {
	if last > s.lastEventID {
		s.lastEventID = last
	}
}

// LastEventID returns the most recently assigned event id, for persisting
// the counter across a resume.
func (s *Simulation) LastEventID() ents.EventID {
	return s.lastEventID
}
