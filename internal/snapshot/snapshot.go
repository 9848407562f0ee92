// Package snapshot builds and serializes the self-contained world-state
// value handed off to downstream viewers: snap_<tick:06>.json files plus a
// rolling current_state.json and a single tension_stream.json, all under
// the run's output directory.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/talgya/crossroads/internal/ents"
	"github.com/talgya/crossroads/internal/engine"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/tension"
)

// GlobalResources sums resource stockpiles across every faction.
type GlobalResources struct {
	Grain uint64 `json:"grain"`
	Iron  uint64 `json:"iron"`
	Salt  uint64 `json:"salt"`
	Beer  uint64 `json:"beer"`
}

// World captures the top-level simulation clock and environment.
type World struct {
	Tick          uint64          `json:"tick"`
	Season        string          `json:"season"`
	Resources     GlobalResources `json:"global_resources"`
	ActiveThreats []string        `json:"active_threats"`
}

// FactionSummary is a faction's snapshot-time state.
type FactionSummary struct {
	ID        social.FactionID `json:"id"`
	Name      string           `json:"name"`
	HQ        string           `json:"hq_location"`
	Leader    *ents.AgentID    `json:"leader,omitempty"`
	Reader    *ents.AgentID    `json:"reader,omitempty"`
	Members   []ents.AgentID   `json:"members"`
	Resources social.Resources `json:"resources"`
	ArchiveSize int            `json:"archive_size"`
}

// AgentRecord is a full per-agent snapshot.
type AgentRecord struct {
	ID         ents.AgentID    `json:"id"`
	Name       string          `json:"name"`
	Alive      bool            `json:"alive"`
	FactionID  ents.FactionID  `json:"faction_id"`
	Role       ents.Role       `json:"role"`
	Status     ents.StatusLevel `json:"status"`
	LocationID ents.LocationID `json:"location_id"`
	Traits     ents.Traits     `json:"traits"`
	Needs      ents.Needs      `json:"needs"`
	Goals      []ents.Goal     `json:"goals"`
	Intoxication float64       `json:"intoxication"`
}

// RelationshipEdge is one entry of the from->to trust graph.
type RelationshipEdge struct {
	From              ents.AgentID `json:"from"`
	To                ents.AgentID `json:"to"`
	Trust             ents.Trust   `json:"trust"`
	LastInteractionTick uint64     `json:"last_interaction_tick"`
	MemoryCount       int          `json:"memory_count"`
}

// LocationSummary is a location's snapshot-time occupancy.
type LocationSummary struct {
	ID              ents.LocationID `json:"id"`
	PresentAgents   []ents.AgentID  `json:"present_agents"`
}

// Metrics holds derived, computed-at-snapshot-time measures.
type Metrics struct {
	FactionPowerBalance map[social.FactionID]float64 `json:"faction_power_balance"`
	SocialHubs          []ents.AgentID               `json:"social_hubs"`
	SocialIsolates      []ents.AgentID               `json:"social_isolates"`
}

// Snapshot is the self-contained world-state hand-off value.
type Snapshot struct {
	RunID         string              `json:"run_id"`
	Tick          uint64              `json:"tick"`
	World         World               `json:"world"`
	Factions      []FactionSummary    `json:"factions"`
	Agents        []AgentRecord       `json:"agents"`
	Relationships []RelationshipEdge  `json:"relationships"`
	Locations     []LocationSummary   `json:"locations"`
	Tensions      []*tension.Tension  `json:"tensions"`
	Metrics       Metrics             `json:"metrics"`
}

// Build walks the simulation's entity set and produces a self-contained
// Snapshot value.
func Build(s *engine.Simulation, runID string) Snapshot {
	snap := Snapshot{
		RunID: runID,
		Tick:  s.Tick,
		World: World{
			Tick:          s.Tick,
			Season:        s.Season.String(),
			ActiveThreats: append([]string(nil), s.ActiveThreats...),
		},
		Tensions: s.Tensions.All(),
	}

	for _, fid := range s.Factions.All() {
		f, ok := s.Factions.Get(fid)
		if !ok {
			continue
		}
		snap.World.Resources.Grain += f.Resources.Grain
		snap.World.Resources.Iron += f.Resources.Iron
		snap.World.Resources.Salt += f.Resources.Salt
		snap.World.Resources.Beer += f.Resources.Beer

		members := append([]ents.AgentID(nil), f.Members...)
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		snap.Factions = append(snap.Factions, FactionSummary{
			ID: fid, Name: f.Name, HQ: f.HQLocation,
			Leader: f.Leader, Reader: f.Reader,
			Members: members, Resources: f.Resources,
			ArchiveSize: len(f.Archive),
		})
	}

	agentIDs := make([]ents.AgentID, 0, len(s.Agents))
	for id := range s.Agents {
		agentIDs = append(agentIDs, id)
	}
	sort.Slice(agentIDs, func(i, j int) bool { return agentIDs[i] < agentIDs[j] })
	for _, id := range agentIDs {
		a := s.Agents[id]
		intox := 0.0
		if a.Intoxication != nil {
			intox = a.Intoxication.Level
		}
		snap.Agents = append(snap.Agents, AgentRecord{
			ID: a.ID, Name: a.Name, Alive: a.Alive,
			FactionID: a.Membership.FactionID, Role: a.Membership.Role, Status: a.Membership.Status,
			LocationID: a.LocationID, Traits: a.Traits, Needs: a.Needs,
			Goals: append([]ents.Goal(nil), a.Goals...), Intoxication: intox,
		})
	}

	for _, rel := range s.Relations.AllEdges() {
		snap.Relationships = append(snap.Relationships, RelationshipEdge{
			From: rel.From, To: rel.To, Trust: rel.Trust,
			LastInteractionTick: rel.LastInteractionTick,
			MemoryCount:         len(s.Memories.AboutSubject(rel.From, rel.To)),
		})
	}

	for _, lid := range s.Locations.All() {
		snap.Locations = append(snap.Locations, LocationSummary{
			ID:            ents.LocationID(lid),
			PresentAgents: s.AgentsAt(ents.LocationID(lid)),
		})
	}

	snap.Metrics = computeMetrics(s, agentIDs)

	return snap
}

// computeMetrics derives faction power balance (share of total live members)
// and social hub/isolate agents (in-degree of positive-trust relationships).
func computeMetrics(s *engine.Simulation, agentIDs []ents.AgentID) Metrics {
	m := Metrics{FactionPowerBalance: make(map[social.FactionID]float64)}

	totalLive := 0
	liveByFaction := make(map[social.FactionID]int)
	for _, id := range agentIDs {
		a := s.Agents[id]
		if !a.Alive {
			continue
		}
		totalLive++
		if a.Membership.FactionID != "" {
			liveByFaction[a.Membership.FactionID]++
		}
	}
	if totalLive > 0 {
		for _, fid := range s.Factions.All() {
			m.FactionPowerBalance[fid] = float64(liveByFaction[fid]) / float64(totalLive)
		}
	}

	type score struct {
		id    ents.AgentID
		trust int
	}
	var scored []score
	for _, id := range agentIDs {
		a := s.Agents[id]
		if !a.Alive {
			continue
		}
		positive := 0
		for _, rel := range s.Relations.Incoming(id) {
			if rel.Trust.Overall() > 0.2 {
				positive++
			}
		}
		scored = append(scored, score{id, positive})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].trust != scored[j].trust {
			return scored[i].trust > scored[j].trust
		}
		return scored[i].id < scored[j].id
	})
	const topN = 3
	for i, sc := range scored {
		if i >= topN || sc.trust == 0 {
			break
		}
		m.SocialHubs = append(m.SocialHubs, sc.id)
	}
	for _, sc := range scored {
		if sc.trust == 0 {
			m.SocialIsolates = append(m.SocialIsolates, sc.id)
		}
	}

	return m
}

// NewRunID generates a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// FileName returns the tick-padded snapshot filename.
func FileName(tick uint64) string {
	return fmt.Sprintf("snap_%06d.json", tick)
}

// Write serializes snap to <dir>/snap_<tick:06>.json and overwrites
// <dir>/current_state.json with the same content.
func Write(dir string, snap Snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	path := filepath.Join(dir, FileName(snap.Tick))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	current := filepath.Join(dir, "current_state.json")
	if err := os.WriteFile(current, data, 0o644); err != nil {
		return fmt.Errorf("write current_state: %w", err)
	}
	return nil
}

// WriteTensionStream overwrites the single tension-stream file listing
// every currently-tracked tension.
func WriteTensionStream(dir string, tensions []*tension.Tension) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}
	data, err := json.MarshalIndent(tensions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tension stream: %w", err)
	}
	path := filepath.Join(dir, "tension_stream.json")
	return os.WriteFile(path, data, 0o644)
}
