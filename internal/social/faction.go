// Package social implements factions and their shared archives:
// territory-holding groups with a leader, reader, member roster, resource
// stockpile, and an append-plus-authored archive read during rituals.
package social

import (
	"sort"

	"github.com/talgya/crossroads/internal/ents"
)

// FactionID identifies a faction uniquely; an alias of ents.FactionID so
// agent membership and faction registration share one id space.
type FactionID = ents.FactionID

// Resources tracks the fungible goods a faction stockpiles.
type Resources struct {
	Grain uint64 `json:"grain"`
	Iron  uint64 `json:"iron"`
	Salt  uint64 `json:"salt"`
	Beer  uint64 `json:"beer"`
}

// ArchiveEntry is a shared, faction-owned record created by archive
// actions and read back during rituals.
type ArchiveEntry struct {
	ID          ents.ArchiveEntryID `json:"id"`
	Author      ents.AgentID        `json:"author"`
	AuthorName  string              `json:"author_name"`
	Subject     ents.AgentID        `json:"subject"`
	Content     string              `json:"content"`
	TickCreated uint64              `json:"tick_created"`
	ReadCount   int                 `json:"read_count"`
	Forged      bool                `json:"forged"`
}

// Faction is a territory-holding group with a leader, a reader, a shared
// archive, and resource stockpiles.
type Faction struct {
	ID                 FactionID             `json:"id"`
	Name               string                `json:"name"`
	Territory          []string              `json:"territory"`
	HQLocation         string                `json:"hq_location"`
	Leader             *ents.AgentID         `json:"leader,omitempty"`
	Reader             *ents.AgentID         `json:"reader,omitempty"`
	Members            []ents.AgentID        `json:"members"`
	Resources          Resources             `json:"resources"`
	ExternalReputation map[FactionID]float64 `json:"external_reputation"`
	Archive            []ArchiveEntry        `json:"archive"`

	nextArchiveID uint64
}

// NewFaction creates an empty faction with no leader or members.
func NewFaction(id FactionID, name, hq string) *Faction {
	return &Faction{
		ID:                 id,
		Name:               name,
		HQLocation:         hq,
		ExternalReputation: make(map[FactionID]float64),
	}
}

// MemberCount returns the number of living members tracked by the faction.
func (f *Faction) MemberCount() int {
	return len(f.Members)
}

// HasMember reports whether agent belongs to the faction.
func (f *Faction) HasMember(agent ents.AgentID) bool {
	for _, m := range f.Members {
		if m == agent {
			return true
		}
	}
	return false
}

// AddMember enrolls agent, a no-op if already a member.
func (f *Faction) AddMember(agent ents.AgentID) {
	if f.HasMember(agent) {
		return
	}
	f.Members = append(f.Members, agent)
}

// RemoveMember drops agent from the roster and clears Leader/Reader if it
// was either, leaving the faction leaderless until succession plays out.
func (f *Faction) RemoveMember(agent ents.AgentID) {
	kept := f.Members[:0]
	for _, m := range f.Members {
		if m != agent {
			kept = append(kept, m)
		}
	}
	f.Members = kept
	if f.Leader != nil && *f.Leader == agent {
		f.Leader = nil
	}
	if f.Reader != nil && *f.Reader == agent {
		f.Reader = nil
	}
}

// NewArchiveID returns a fresh, faction-unique archive entry id.
func (f *Faction) NewArchiveID() ents.ArchiveEntryID {
	f.nextArchiveID++
	return ents.ArchiveEntryID(string(f.ID) + "-archive-" + itoa(f.nextArchiveID))
}

// ArchiveCounter returns the faction's next-archive-id counter for
// persisting across a resume.
func (f *Faction) ArchiveCounter() uint64 {
	return f.nextArchiveID
}

// RestoreArchiveCounter sets the faction's next-archive-id counter, used
// when resuming from a persisted cache so freshly written entries never
// collide with loaded ones.
func (f *Faction) RestoreArchiveCounter(n uint64) {
	if n > f.nextArchiveID {
		f.nextArchiveID = n
	}
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// AppendArchiveEntry records a new entry. authorName is snapshotted so the
// entry stays attributable after the author dies; subject names the agent
// the entry is about (the author itself for a self-account).
func (f *Faction) AppendArchiveEntry(author ents.AgentID, authorName string, subject ents.AgentID, content string, tick uint64) ArchiveEntry {
	e := ArchiveEntry{
		ID:          f.NewArchiveID(),
		Author:      author,
		AuthorName:  authorName,
		Subject:     subject,
		Content:     content,
		TickCreated: tick,
	}
	f.Archive = append(f.Archive, e)
	return e
}

// DestroyArchiveEntry removes an entry by id, reporting whether it existed.
func (f *Faction) DestroyArchiveEntry(id ents.ArchiveEntryID) bool {
	for i, e := range f.Archive {
		if e.ID == id {
			f.Archive = append(f.Archive[:i], f.Archive[i+1:]...)
			return true
		}
	}
	return false
}

// ForgeArchiveEntry appends a new entry marked Forged=true, used by
// conflict/deception actions that plant false shared history.
func (f *Faction) ForgeArchiveEntry(author ents.AgentID, authorName string, subject ents.AgentID, content string, tick uint64) ArchiveEntry {
	e := f.AppendArchiveEntry(author, authorName, subject, content, tick)
	for i := range f.Archive {
		if f.Archive[i].ID == e.ID {
			f.Archive[i].Forged = true
			return f.Archive[i]
		}
	}
	return e
}

// LeastReadEntries returns up to n archive entries with the lowest read
// counts, ties broken by id for determinism. The ritual system reads up to
// three of these per gathering.
func (f *Faction) LeastReadEntries(n int) []ArchiveEntry {
	sorted := make([]ArchiveEntry, len(f.Archive))
	copy(sorted, f.Archive)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ReadCount != sorted[j].ReadCount {
			return sorted[i].ReadCount < sorted[j].ReadCount
		}
		return sorted[i].ID < sorted[j].ID
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// IncrementReads bumps the read count of an archive entry by id.
func (f *Faction) IncrementReads(id ents.ArchiveEntryID) {
	for i := range f.Archive {
		if f.Archive[i].ID == id {
			f.Archive[i].ReadCount++
			return
		}
	}
}

// Registry holds every faction keyed by id.
type Registry struct {
	byID map[FactionID]*Faction
}

// NewRegistry creates an empty faction registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[FactionID]*Faction)}
}

// Register adds a faction to the registry.
func (r *Registry) Register(f *Faction) {
	r.byID[f.ID] = f
}

// Get looks up a faction by id.
func (r *Registry) Get(id FactionID) (*Faction, bool) {
	f, ok := r.byID[id]
	return f, ok
}

// All returns every faction id in stable sorted order.
func (r *Registry) All() []FactionID {
	ids := make([]FactionID, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
