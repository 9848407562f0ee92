// Package intervene watches a directory for dropped-in JSON intervention
// files and applies them to a running simulation between ticks. The
// watcher goroutine only records which files have settled; application
// happens on the simulation's goroutine via Drain. Settled files are
// applied at most once and then removed.
package intervene

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/talgya/crossroads/internal/ents"
	"github.com/talgya/crossroads/internal/engine"
	"github.com/talgya/crossroads/internal/social"
)

// Type enumerates the six intervention kinds.
type Type string

const (
	TypeModifyAgent        Type = "modify_agent"
	TypeModifyFaction       Type = "modify_faction"
	TypeModifyRelationship Type = "modify_relationship"
	TypeMoveAgent           Type = "move_agent"
	TypeChangeFaction       Type = "change_faction"
	TypeAddGoal             Type = "add_goal"
)

// Intervention is the type-specific payload of an intervention file. Only
// the fields relevant to Type are expected to be populated; unrecognized
// top-level keys in the enclosing Document are tolerated but logged.
type Intervention struct {
	Type Type `json:"type"`

	// modify_agent / change_faction / move_agent target this agent.
	AgentID *ents.AgentID `json:"agent_id,omitempty"`

	// modify_agent: a sparse trait overlay, applied additively then clamped.
	Traits map[string]float64 `json:"traits,omitempty"`

	// modify_faction targets this faction.
	FactionID *ents.FactionID `json:"faction_id,omitempty"`
	Resources map[string]int64 `json:"resources,omitempty"`

	// modify_relationship.
	FromAgentID *ents.AgentID `json:"from_agent_id,omitempty"`
	ToAgentID   *ents.AgentID `json:"to_agent_id,omitempty"`
	Reliability *float64      `json:"reliability,omitempty"`
	Alignment   *float64      `json:"alignment,omitempty"`
	Capability  *float64      `json:"capability,omitempty"`

	// move_agent.
	LocationID *ents.LocationID `json:"location_id,omitempty"`

	// change_faction.
	NewFactionID *ents.FactionID `json:"new_faction_id,omitempty"`

	// add_goal.
	GoalKind     *ents.GoalKind `json:"goal_kind,omitempty"`
	GoalPriority *float64       `json:"goal_priority,omitempty"`
	GoalTarget   *ents.AgentID  `json:"goal_target,omitempty"`
}

// Document is the full on-disk shape of an intervention file:
// `{ id, reason?, intervention: {...} }`.
type Document struct {
	ID           string       `json:"id"`
	Reason       string       `json:"reason,omitempty"`
	Intervention Intervention `json:"intervention"`
}

// Watcher watches a directory for intervention files and applies them to a
// simulation, only between ticks (the caller is responsible for calling
// Drain at a tick boundary, never mid-pipeline).
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	dir     string

	pending     map[string]time.Time
	debounceDur time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
	running bool
}

// New creates a Watcher for the given directory, creating it if absent.
func New(dir string) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("intervention dir: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("new fsnotify watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{
		watcher:     fw,
		dir:         dir,
		pending:     make(map[string]time.Time),
		debounceDur: 200 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start runs the event-collection loop in a goroutine; it only records
// which files have settled, it never applies them. Application happens on
// the simulation's own goroutine via Drain, so no tick phase ever blocks
// on watcher I/O.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run(ctx)
}

// Stop halts the watch loop and closes the underlying fsnotify watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.mu.Lock()
			w.pending[event.Name] = time.Now()
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("intervention watcher error", "err", err)
		}
	}
}

// settled returns paths whose last event is older than the debounce window,
// removing them from the pending set.
func (w *Watcher) settled() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	var out []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounceDur {
			out = append(out, path)
			delete(w.pending, path)
		}
	}
	return out
}

// Drain applies every settled intervention file to sim. It must only be
// called between ticks. Each file is consumed at most once: on success it
// is deleted; on a missing-required-field parse failure it is left in place
// with a logged diagnostic.
func (w *Watcher) Drain(sim *engine.Simulation) {
	for _, path := range w.settled() {
		w.applyFile(sim, path)
	}
}

func (w *Watcher) applyFile(sim *engine.Simulation, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		slog.Error("intervention file unreadable", "path", path, "err", err)
		return
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Error("intervention file malformed json", "path", path, "err", err)
		return
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Error("intervention file does not match schema", "path", path, "err", err)
		return
	}

	knownTop := map[string]bool{"id": true, "reason": true, "intervention": true}
	for k := range raw {
		if !knownTop[k] {
			slog.Warn("intervention file has unknown field", "path", path, "field", k)
		}
	}

	if err := Apply(sim, doc.Intervention); err != nil {
		slog.Error("intervention rejected, left in place", "path", path, "id", doc.ID, "err", err)
		return
	}

	slog.Info("intervention applied", "path", path, "id", doc.ID, "type", doc.Intervention.Type)
	if err := os.Remove(path); err != nil {
		slog.Warn("intervention applied but file could not be removed", "path", path, "err", err)
	}
}

// Apply performs a single intervention against sim, returning an error for
// a missing required field or an unresolvable reference. A rejected
// intervention never blocks the rest of a drained batch.
func Apply(sim *engine.Simulation, iv Intervention) error {
	switch iv.Type {
	case TypeModifyAgent:
		return applyModifyAgent(sim, iv)
	case TypeModifyFaction:
		return applyModifyFaction(sim, iv)
	case TypeModifyRelationship:
		return applyModifyRelationship(sim, iv)
	case TypeMoveAgent:
		return applyMoveAgent(sim, iv)
	case TypeChangeFaction:
		return applyChangeFaction(sim, iv)
	case TypeAddGoal:
		return applyAddGoal(sim, iv)
	default:
		return fmt.Errorf("unknown intervention type %q", iv.Type)
	}
}

func applyModifyAgent(sim *engine.Simulation, iv Intervention) error {
	if iv.AgentID == nil {
		return fmt.Errorf("modify_agent: missing agent_id")
	}
	a, ok := sim.Agents[*iv.AgentID]
	if !ok {
		return fmt.Errorf("modify_agent: agent %s not found", *iv.AgentID)
	}
	for trait, delta := range iv.Traits {
		if delta == 0 {
			continue
		}
		switch trait {
		case "boldness":
			a.Traits.Boldness += delta
		case "loyalty_weight":
			a.Traits.LoyaltyWeight += delta
		case "grudge_persistence":
			a.Traits.GrudgePersistence += delta
		case "ambition":
			a.Traits.Ambition += delta
		case "honesty":
			a.Traits.Honesty += delta
		case "sociability":
			a.Traits.Sociability += delta
		case "group_preference":
			a.Traits.GroupPreference += delta
		default:
			slog.Warn("modify_agent: unknown trait field", "trait", trait)
		}
	}
	a.Traits.Clamp()
	return nil
}

func applyModifyFaction(sim *engine.Simulation, iv Intervention) error {
	if iv.FactionID == nil {
		return fmt.Errorf("modify_faction: missing faction_id")
	}
	f, ok := sim.Factions.Get(social.FactionID(*iv.FactionID))
	if !ok {
		return fmt.Errorf("modify_faction: faction %s not found", *iv.FactionID)
	}
	for good, delta := range iv.Resources {
		switch good {
		case "grain":
			f.Resources.Grain = addClampedUint(f.Resources.Grain, delta)
		case "iron":
			f.Resources.Iron = addClampedUint(f.Resources.Iron, delta)
		case "salt":
			f.Resources.Salt = addClampedUint(f.Resources.Salt, delta)
		case "beer":
			f.Resources.Beer = addClampedUint(f.Resources.Beer, delta)
		default:
			slog.Warn("modify_faction: unknown resource field", "resource", good)
		}
	}
	return nil
}

// addClampedUint applies a signed delta to a non-negative counter,
// saturating at zero.
func addClampedUint(v uint64, delta int64) uint64 {
	if delta < 0 && uint64(-delta) > v {
		return 0
	}
	if delta < 0 {
		return v - uint64(-delta)
	}
	return v + uint64(delta)
}

func applyModifyRelationship(sim *engine.Simulation, iv Intervention) error {
	if iv.FromAgentID == nil || iv.ToAgentID == nil {
		return fmt.Errorf("modify_relationship: missing from_agent_id or to_agent_id")
	}
	if _, ok := sim.Agents[*iv.FromAgentID]; !ok {
		return fmt.Errorf("modify_relationship: agent %s not found", *iv.FromAgentID)
	}
	if _, ok := sim.Agents[*iv.ToAgentID]; !ok {
		return fmt.Errorf("modify_relationship: agent %s not found", *iv.ToAgentID)
	}
	rel := sim.Relations.Ensure(*iv.FromAgentID, *iv.ToAgentID)
	if iv.Reliability != nil {
		rel.Trust.Reliability = *iv.Reliability
	}
	if iv.Alignment != nil {
		rel.Trust.Alignment = *iv.Alignment
	}
	if iv.Capability != nil {
		rel.Trust.Capability = *iv.Capability
	}
	rel.Trust.Clamp()
	return nil
}

func applyMoveAgent(sim *engine.Simulation, iv Intervention) error {
	if iv.AgentID == nil || iv.LocationID == nil {
		return fmt.Errorf("move_agent: missing agent_id or location_id")
	}
	a, ok := sim.Agents[*iv.AgentID]
	if !ok {
		return fmt.Errorf("move_agent: agent %s not found", *iv.AgentID)
	}
	if _, ok := sim.Locations.Get(*iv.LocationID); !ok {
		return fmt.Errorf("move_agent: location %s not found", *iv.LocationID)
	}
	a.LocationID = *iv.LocationID
	return nil
}

func applyChangeFaction(sim *engine.Simulation, iv Intervention) error {
	if iv.AgentID == nil || iv.NewFactionID == nil {
		return fmt.Errorf("change_faction: missing agent_id or new_faction_id")
	}
	a, ok := sim.Agents[*iv.AgentID]
	if !ok {
		return fmt.Errorf("change_faction: agent %s not found", *iv.AgentID)
	}
	newFaction, ok := sim.Factions.Get(social.FactionID(*iv.NewFactionID))
	if !ok {
		return fmt.Errorf("change_faction: faction %s not found", *iv.NewFactionID)
	}
	if old := sim.FactionOf(a.ID); old != nil {
		old.RemoveMember(a.ID)
	}
	a.Membership.FactionID = newFaction.ID
	a.Membership.Role = ents.RoleNewcomer
	a.Membership.Status = ents.StatusNewcomer
	newFaction.AddMember(a.ID)
	return nil
}

func applyAddGoal(sim *engine.Simulation, iv Intervention) error {
	if iv.AgentID == nil || iv.GoalKind == nil {
		return fmt.Errorf("add_goal: missing agent_id or goal_kind")
	}
	a, ok := sim.Agents[*iv.AgentID]
	if !ok {
		return fmt.Errorf("add_goal: agent %s not found", *iv.AgentID)
	}
	priority := 0.5
	if iv.GoalPriority != nil {
		priority = *iv.GoalPriority
	}
	a.AddGoal(ents.Goal{
		Kind:     *iv.GoalKind,
		Priority: priority,
		Target:   iv.GoalTarget,
	})
	return nil
}
