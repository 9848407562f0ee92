package engine

import (
	"fmt"

	"github.com/talgya/crossroads/internal/ents"
)

// executeArchive dispatches WriteEntry, ReadArchive, DestroyEntry, and
// ForgeEntry.
func (s *Simulation) executeArchive(c Candidate) {
	switch c.Sub {
	case SubWriteEntry:
		s.executeWriteEntry(c)
	case SubReadArchive:
		s.executeReadArchive(c)
	case SubDestroyEntry:
		s.executeDestroyEntry(c)
	case SubForgeEntry:
		s.executeForgeEntry(c)
	}
}

func (s *Simulation) executeWriteEntry(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok || c.MemoryID == nil {
		return
	}
	f := s.FactionOf(c.Agent)
	if f == nil || string(a.LocationID) != f.HQLocation {
		return
	}
	var mem *ents.Memory
	for _, m := range s.Memories.Get(c.Agent) {
		if m.ID == *c.MemoryID {
			mm := m
			mem = &mm
			break
		}
	}
	if mem == nil {
		return
	}

	entry := f.AppendArchiveEntry(c.Agent, a.Name, mem.Subject, mem.Content, s.Tick)

	e := s.Emit(Event{
		Type:    EventArchive,
		Subtype: string(SubWriteEntry),
		Primary: s.snapshotActor(c.Agent),
		Context: EventContext{Trigger: fmt.Sprintf("%s writes a memory to the %s archive", a.Name, f.Name)},
		Outcome: EventOutcome{"entry_id": entry.ID, "authentic": true},
	})
	e.DramaScore = ScoreDrama(0.15, a.Membership.Status, 0, false, false, false)
	s.Events[len(s.Events)-1] = e
}

func (s *Simulation) executeReadArchive(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok {
		return
	}
	f := s.FactionOf(c.Agent)
	if f == nil || string(a.LocationID) != f.HQLocation {
		return
	}
	e := s.Emit(Event{
		Type:    EventArchive,
		Subtype: string(SubReadArchive),
		Primary: s.snapshotActor(c.Agent),
		Context: EventContext{Trigger: fmt.Sprintf("%s reads the %s archive", a.Name, f.Name)},
	})
	e.DramaScore = ScoreDrama(0.05, a.Membership.Status, 0, false, false, false)
	s.Events[len(s.Events)-1] = e
}

func (s *Simulation) executeDestroyEntry(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok || c.ArchiveEntry == nil {
		return
	}
	f := s.FactionOf(c.Agent)
	if f == nil {
		return
	}
	if !f.DestroyArchiveEntry(*c.ArchiveEntry) {
		return
	}
	e := s.Emit(Event{
		Type:      EventArchive,
		Subtype:   string(SubDestroyEntry),
		Primary:   s.snapshotActor(c.Agent),
		Context:   EventContext{Trigger: fmt.Sprintf("%s destroys an archive entry", a.Name)},
		DramaTags: []string{"coverup"},
	})
	e.DramaScore = ScoreDrama(0.5, a.Membership.Status, 0, false, false, false)
	s.Events[len(s.Events)-1] = e
}

func (s *Simulation) executeForgeEntry(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok {
		return
	}
	f := s.FactionOf(c.Agent)
	if f == nil || string(a.LocationID) != f.HQLocation {
		return
	}
	subject := c.Agent
	content := fmt.Sprintf("%s was seen aiding a rival faction.", a.Name)
	if c.TargetAgent != nil {
		if target, ok := s.Agents[*c.TargetAgent]; ok {
			subject = target.ID
			content = fmt.Sprintf("%s was seen aiding a rival faction.", target.Name)
		}
	}
	entry := f.ForgeArchiveEntry(c.Agent, a.Name, subject, content, s.Tick)

	e := s.Emit(Event{
		Type:      EventArchive,
		Subtype:   string(SubForgeEntry),
		Primary:   s.snapshotActor(c.Agent),
		Context:   EventContext{Trigger: fmt.Sprintf("%s forges an archive entry", a.Name)},
		Outcome:   EventOutcome{"entry_id": entry.ID, "authentic": false},
		DramaTags: []string{"forgery"},
	})
	e.DramaScore = ScoreDrama(0.6, a.Membership.Status, 0, false, false, false)
	s.Events[len(s.Events)-1] = e
}
