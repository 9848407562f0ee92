package engine

import (
	"fmt"
	"strings"

	"github.com/talgya/crossroads/internal/ents"
	"github.com/talgya/crossroads/internal/social"
)

// RitualEntriesRead is the maximum number of least-read archive entries a
// ritual draws on.
const RitualEntriesRead = 3

// RitualMemoryFidelity and RitualMemoryEmotionalWeight are the fixed values
// assigned to every memory a ritual creates.
const (
	RitualMemoryFidelity       = 0.9
	RitualMemoryEmotionalWeight = 0.4
)

// RunRituals advances every faction's ritual schedule, executing any ritual
// that has come due this tick.
func (s *Simulation) RunRituals() {
	for _, fid := range s.Factions.All() {
		f, ok := s.Factions.Get(fid)
		if !ok {
			continue
		}
		rs := s.RitualScheduleFor(fid)
		if !rs.Due(s.Tick) {
			continue
		}
		s.runRitual(f, rs)
	}
}

func (s *Simulation) runRitual(f *social.Faction, rs *social.RitualSchedule) {
	var present, absent []ents.AgentID
	for _, member := range f.Members {
		a, ok := s.Agents[member]
		if !ok || !a.Alive {
			continue
		}
		if string(a.LocationID) == f.HQLocation {
			present = append(present, member)
		} else {
			absent = append(absent, member)
		}
	}

	if len(present) < 2 {
		for _, member := range f.Members {
			if a, ok := s.Agents[member]; ok && a.Alive {
				rs.RecordMissed(string(member))
			}
		}
		rs.Advance(s.Tick)
		return
	}

	entries := f.LeastReadEntries(RitualEntriesRead)

	primary := ritualPrimaryActor(f)

	affected := make([]AffectedActor, 0, len(present))
	for _, attendee := range present {
		attended := true
		affected = append(affected, AffectedActor{
			Actor:    s.snapshotActor(attendee),
			Attended: &attended,
		})
		for _, entry := range entries {
			s.createRitualMemory(attendee, entry)
		}
		rs.RecordAttendance(string(attendee))
	}
	for _, entry := range entries {
		f.IncrementReads(entry.ID)
	}
	for _, member := range absent {
		rs.RecordMissed(string(member))
	}

	e := s.Emit(Event{
		Type:     EventRitual,
		Subtype:  "FactionRitual",
		Primary:  s.snapshotActor(primary),
		Context:  EventContext{Trigger: fmt.Sprintf("%s holds its ritual gathering", f.Name)},
		Affected: affected,
		Outcome:  EventOutcome{"entries_read": len(entries), "attendees": len(present)},
	})
	e.DramaScore = ScoreDrama(0.1, s.statusOf(primary), 0, false, false, false)
	s.Events[len(s.Events)-1] = e

	rs.Advance(s.Tick)
}

// ritualPrimaryActor resolves the reader, falling back to the leader, then
// to the faction's own id as a last resort when both seats are empty.
func ritualPrimaryActor(f *social.Faction) ents.AgentID {
	if f.Reader != nil {
		return *f.Reader
	}
	if f.Leader != nil {
		return *f.Leader
	}
	return ents.AgentID(f.ID)
}

func (s *Simulation) statusOf(id ents.AgentID) ents.StatusLevel {
	if a, ok := s.Agents[id]; ok {
		return a.Membership.Status
	}
	return 0
}

func (s *Simulation) createRitualMemory(attendee ents.AgentID, entry social.ArchiveEntry) {
	authorName := entry.AuthorName
	if authorName == "" {
		authorName = s.nameOf(entry.Author)
	}
	mem := ents.Memory{
		ID:              s.Memories.GenerateID(),
		Subject:         entry.Subject,
		Content:         entry.Content,
		Fidelity:        RitualMemoryFidelity,
		EmotionalWeight: RitualMemoryEmotionalWeight,
		TickCreated:     s.Tick,
		Valence:         ritualValence(entry.Content),
		SourceChain: []ents.MemorySource{
			{AgentID: entry.Author, Name: authorName},
		},
	}
	s.Memories.Add(attendee, mem)
}

func (s *Simulation) nameOf(id ents.AgentID) string {
	if a, ok := s.Agents[id]; ok {
		return a.Name
	}
	return "unknown"
}

// ritualValence infers a memory's sentiment from archive entry text by a
// simple keyword heuristic.
func ritualValence(content string) ents.Valence {
	lower := strings.ToLower(content)
	for _, word := range []string{"helped", "reliable", "good"} {
		if strings.Contains(lower, word) {
			return ents.ValencePositive
		}
	}
	for _, word := range []string{"complained", "failed", "negative"} {
		if strings.Contains(lower, word) {
			return ents.ValenceNegative
		}
	}
	return ents.ValenceNeutral
}
