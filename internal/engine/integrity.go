package engine

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/talgya/crossroads/internal/ents"
)

// IntegrityMode controls how an integrity violation is handled: Strict
// aborts the run so the host can emit a diagnostic snapshot, Lenient logs
// and repairs in place.
type IntegrityMode uint8

const (
	IntegrityLenient IntegrityMode = iota
	IntegrityStrict
)

// IntegrityCheckInterval is how often, in ticks, the periodic assertions
// run.
const IntegrityCheckInterval = 50

// Violation describes one failed data-integrity assertion.
type Violation struct {
	Check  string
	Detail string
}

func (v Violation) String() string {
	return v.Check + ": " + v.Detail
}

// IntegrityError aggregates every violation found in one pass.
type IntegrityError struct {
	Tick       uint64
	Violations []Violation
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity check failed at tick %d: %d violation(s), first: %s",
		e.Tick, len(e.Violations), e.Violations[0])
}

// CheckIntegrity runs the periodic data-integrity assertions: faction
// rosters agree with live membership, references resolve, trust and trait
// scalars are in range, and archive entry ids are unique. In Lenient mode
// each violation is logged and repaired where possible and nil is
// returned; in Strict mode the violations are returned as an error and
// nothing is repaired, leaving the state intact for a diagnostic snapshot.
func (s *Simulation) CheckIntegrity(mode IntegrityMode) error {
	var violations []Violation

	violations = append(violations, s.checkAgentReferences(mode)...)
	violations = append(violations, s.checkFactionRosters(mode)...)
	violations = append(violations, s.checkRelationshipEndpoints(mode)...)
	violations = append(violations, s.checkScalarRanges(mode)...)
	violations = append(violations, s.checkArchiveIDs()...)

	if len(violations) == 0 {
		return nil
	}
	if mode == IntegrityStrict {
		return &IntegrityError{Tick: s.Tick, Violations: violations}
	}
	for _, v := range violations {
		slog.Warn("integrity violation repaired", "tick", s.Tick, "check", v.Check, "detail", v.Detail)
	}
	return nil
}

// checkAgentReferences verifies every live agent points at a registered
// faction and location. Lenient repair exiles an agent whose faction is
// missing; a missing location is reported but not repaired.
func (s *Simulation) checkAgentReferences(mode IntegrityMode) []Violation {
	var out []Violation
	for _, id := range s.AgentOrder() {
		a := s.Agents[id]
		if a.Membership.FactionID != "" {
			if _, ok := s.Factions.Get(a.Membership.FactionID); !ok {
				out = append(out, Violation{"agent_faction_ref",
					fmt.Sprintf("agent %s references missing faction %s", id, a.Membership.FactionID)})
				if mode == IntegrityLenient {
					a.Exile()
				}
			}
		}
		if _, ok := s.Locations.Get(a.LocationID); !ok {
			out = append(out, Violation{"agent_location_ref",
				fmt.Sprintf("agent %s references missing location %s", id, a.LocationID)})
		}
	}
	return out
}

// checkFactionRosters verifies each faction's roster matches the set of
// live agents whose membership points at it, and that Leader/Reader are
// live members. Lenient repair rebuilds the roster from agent membership.
func (s *Simulation) checkFactionRosters(mode IntegrityMode) []Violation {
	var out []Violation

	actual := make(map[ents.FactionID][]ents.AgentID)
	for _, id := range s.AgentOrder() {
		a := s.Agents[id]
		if a.Membership.FactionID != "" {
			actual[a.Membership.FactionID] = append(actual[a.Membership.FactionID], id)
		}
	}

	for _, fid := range s.Factions.All() {
		f, ok := s.Factions.Get(fid)
		if !ok {
			continue
		}
		want := actual[fid]
		if !sameMembers(f.Members, want) {
			out = append(out, Violation{"faction_member_count",
				fmt.Sprintf("faction %s roster has %d entries, %d live agents point at it", fid, len(f.Members), len(want))})
			if mode == IntegrityLenient {
				f.Members = append([]ents.AgentID(nil), want...)
			}
		}
		if f.Leader != nil {
			if a, ok := s.Agents[*f.Leader]; !ok || !a.Alive || a.Membership.FactionID != fid {
				out = append(out, Violation{"faction_leader_ref",
					fmt.Sprintf("faction %s leader %s is not a live member", fid, *f.Leader)})
				if mode == IntegrityLenient {
					f.Leader = nil
				}
			}
		}
		if f.Reader != nil {
			if a, ok := s.Agents[*f.Reader]; !ok || !a.Alive || a.Membership.FactionID != fid {
				out = append(out, Violation{"faction_reader_ref",
					fmt.Sprintf("faction %s reader %s is not a live member", fid, *f.Reader)})
				if mode == IntegrityLenient {
					f.Reader = nil
				}
			}
		}
	}
	return out
}

func sameMembers(a, b []ents.AgentID) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]ents.AgentID(nil), a...)
	bs := append([]ents.AgentID(nil), b...)
	sort.Slice(as, func(i, j int) bool { return as[i] < as[j] })
	sort.Slice(bs, func(i, j int) bool { return bs[i] < bs[j] })
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// checkRelationshipEndpoints verifies every relationship edge references
// known agents. Lenient repair removes edges touching unknown agents.
func (s *Simulation) checkRelationshipEndpoints(mode IntegrityMode) []Violation {
	var out []Violation
	var orphaned []ents.AgentID
	for _, rel := range s.Relations.AllEdges() {
		if _, ok := s.Agents[rel.From]; !ok {
			out = append(out, Violation{"relationship_from_ref",
				fmt.Sprintf("relationship %s->%s references unknown holder", rel.From, rel.To)})
			orphaned = append(orphaned, rel.From)
			continue
		}
		if _, ok := s.Agents[rel.To]; !ok {
			out = append(out, Violation{"relationship_to_ref",
				fmt.Sprintf("relationship %s->%s references unknown target", rel.From, rel.To)})
			orphaned = append(orphaned, rel.To)
		}
	}
	if mode == IntegrityLenient {
		for _, id := range orphaned {
			s.Relations.RemoveAgent(id)
		}
	}
	return out
}

// checkScalarRanges verifies trait, trust, and memory-fidelity scalars are
// inside their ranges. Lenient repair clamps them.
func (s *Simulation) checkScalarRanges(mode IntegrityMode) []Violation {
	var out []Violation
	for _, id := range s.AgentOrder() {
		a := s.Agents[id]
		if !a.Traits.InRange() {
			out = append(out, Violation{"trait_range",
				fmt.Sprintf("agent %s has a trait outside [0,1]", id)})
			if mode == IntegrityLenient {
				a.Traits.Clamp()
			}
		}
		mems := s.Memories.Get(id)
		var fixed []ents.Memory
		for i, m := range mems {
			if m.Fidelity < 0 || m.Fidelity > 1 {
				out = append(out, Violation{"memory_fidelity_range",
					fmt.Sprintf("agent %s memory %s fidelity %.3f outside [0,1]", id, m.ID, m.Fidelity)})
				if mode == IntegrityLenient {
					if fixed == nil {
						fixed = append([]ents.Memory(nil), mems...)
					}
					fixed[i].Fidelity = clampf(m.Fidelity, 0, 1)
				}
			}
		}
		if fixed != nil {
			s.Memories.Replace(id, fixed)
		}
	}
	for _, rel := range s.Relations.AllEdges() {
		t := rel.Trust
		if t.Reliability < -1 || t.Reliability > 1 || t.Alignment < -1 || t.Alignment > 1 ||
			t.Capability < -1 || t.Capability > 1 {
			out = append(out, Violation{"trust_range",
				fmt.Sprintf("relationship %s->%s has a trust dimension outside [-1,1]", rel.From, rel.To)})
			if mode == IntegrityLenient {
				rel.Trust.Clamp()
			}
		}
	}
	return out
}

// checkArchiveIDs verifies no faction archive holds two entries with the
// same id. There is no lenient repair for a collision; the duplicate stays
// and keeps being reported.
func (s *Simulation) checkArchiveIDs() []Violation {
	var out []Violation
	for _, fid := range s.Factions.All() {
		f, ok := s.Factions.Get(fid)
		if !ok {
			continue
		}
		seen := make(map[ents.ArchiveEntryID]bool, len(f.Archive))
		for _, e := range f.Archive {
			if seen[e.ID] {
				out = append(out, Violation{"archive_id_collision",
					fmt.Sprintf("faction %s archive entry id %s duplicated", fid, e.ID)})
			}
			seen[e.ID] = true
		}
	}
	return out
}
