// Package persistence provides an optional SQLite-backed fast-resume cache
// for the simulation's world state. The JSON snapshot files written by
// internal/snapshot remain the authoritative interchange format; this
// package exists only so a long run can be restarted without replaying
// every tick from scratch when no --from-snapshot path is given. Writes
// are full-replace per table inside a single transaction, with prepared
// statements for per-row inserts.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/crossroads/internal/ents"
	"github.com/talgya/crossroads/internal/engine"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/tension"
	"github.com/talgya/crossroads/internal/world"
)

// DB wraps a SQLite connection used as the fast-resume cache.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS agents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		alive INTEGER NOT NULL,
		faction_id TEXT NOT NULL,
		role TEXT NOT NULL,
		status INTEGER NOT NULL,
		location_id TEXT NOT NULL,
		traits_json TEXT NOT NULL,
		needs_json TEXT NOT NULL,
		goals_json TEXT NOT NULL,
		intoxication_json TEXT
	);

	CREATE TABLE IF NOT EXISTS factions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		territory_json TEXT NOT NULL,
		hq_location TEXT NOT NULL,
		leader_id TEXT,
		reader_id TEXT,
		members_json TEXT NOT NULL,
		grain INTEGER NOT NULL,
		iron INTEGER NOT NULL,
		salt INTEGER NOT NULL,
		beer INTEGER NOT NULL,
		reputation_json TEXT NOT NULL,
		next_archive_id INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS archive_entries (
		id TEXT PRIMARY KEY,
		faction_id TEXT NOT NULL,
		author TEXT NOT NULL,
		author_name TEXT NOT NULL DEFAULT '',
		subject TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		tick_created INTEGER NOT NULL,
		read_count INTEGER NOT NULL,
		forged INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS locations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		kind INTEGER NOT NULL,
		controlling_faction TEXT,
		properties_json TEXT NOT NULL,
		grain INTEGER NOT NULL,
		iron INTEGER NOT NULL,
		salt INTEGER NOT NULL,
		adjacent_json TEXT NOT NULL,
		benefits_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS relationships (
		from_id TEXT NOT NULL,
		to_id TEXT NOT NULL,
		reliability REAL NOT NULL,
		alignment REAL NOT NULL,
		capability REAL NOT NULL,
		last_interaction_tick INTEGER NOT NULL,
		memory_count INTEGER NOT NULL,
		grudge_active INTEGER NOT NULL,
		PRIMARY KEY (from_id, to_id)
	);

	CREATE TABLE IF NOT EXISTS memories (
		id TEXT PRIMARY KEY,
		agent_id TEXT NOT NULL,
		source_event_id INTEGER,
		subject TEXT NOT NULL,
		content TEXT NOT NULL,
		fidelity REAL NOT NULL,
		source_chain_json TEXT NOT NULL,
		emotional_weight REAL NOT NULL,
		tick_created INTEGER NOT NULL,
		valence INTEGER NOT NULL,
		is_secret INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY,
		tick INTEGER NOT NULL,
		type TEXT NOT NULL,
		subtype TEXT NOT NULL,
		payload_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tensions (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		payload_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ritual_schedules (
		faction_id TEXT PRIMARY KEY,
		last_ritual_tick INTEGER NOT NULL,
		next_ritual_tick INTEGER NOT NULL,
		attendance_json TEXT NOT NULL,
		missed_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_agents_faction ON agents(faction_id);
	CREATE INDEX IF NOT EXISTS idx_agents_location ON agents(location_id);
	CREATE INDEX IF NOT EXISTS idx_archive_faction ON archive_entries(faction_id);
	CREATE INDEX IF NOT EXISTS idx_memories_agent ON memories(agent_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_from ON relationships(from_id);
	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// HasWorldState returns true if the database contains a previously saved run.
func (db *DB) HasWorldState() bool {
	var count int
	err := db.conn.Get(&count, "SELECT COUNT(*) FROM agents")
	return err == nil && count > 0
}

// SaveWorldState performs a full save of the simulation's world state: every
// agent, faction, archive entry, location, relationship, memory, ritual
// schedule, tracked tension, and the recent tail of the event log, plus
// world metadata (tick, season, seed, run id, event-id counter).
func (db *DB) SaveWorldState(sim *engine.Simulation, runID string) error {
	slog.Info("saving world state to cache",
		"agents", len(sim.Agents), "factions", len(sim.Factions.All()), "tick", sim.Tick)

	if err := db.saveAgents(sim); err != nil {
		return fmt.Errorf("save agents: %w", err)
	}
	if err := db.saveFactions(sim); err != nil {
		return fmt.Errorf("save factions: %w", err)
	}
	if err := db.saveLocations(sim); err != nil {
		return fmt.Errorf("save locations: %w", err)
	}
	if err := db.saveRelationships(sim); err != nil {
		return fmt.Errorf("save relationships: %w", err)
	}
	if err := db.saveMemories(sim); err != nil {
		return fmt.Errorf("save memories: %w", err)
	}
	if err := db.saveRitualSchedules(sim); err != nil {
		return fmt.Errorf("save ritual schedules: %w", err)
	}
	if err := db.saveTensions(sim); err != nil {
		return fmt.Errorf("save tensions: %w", err)
	}
	if err := db.SaveEvents(sim.Events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if _, err := db.TrimOldEvents(sim.Tick, EventCacheKeepTicks); err != nil {
		return fmt.Errorf("trim events: %w", err)
	}
	if err := db.SaveMeta("tick", fmt.Sprintf("%d", sim.Tick)); err != nil {
		return err
	}
	if err := db.SaveMeta("season", fmt.Sprintf("%d", sim.Season)); err != nil {
		return err
	}
	if err := db.SaveMeta("seed", fmt.Sprintf("%d", sim.Seed)); err != nil {
		return err
	}
	if err := db.SaveMeta("run_id", runID); err != nil {
		return err
	}
	if err := db.SaveMeta("last_event_id", fmt.Sprintf("%d", sim.LastEventID())); err != nil {
		return err
	}
	threatsJSON, _ := json.Marshal(sim.ActiveThreats)
	if err := db.SaveMeta("active_threats", string(threatsJSON)); err != nil {
		return err
	}

	slog.Info("world state cached")
	return nil
}

func (db *DB) saveAgents(sim *engine.Simulation) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM agents"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO agents
		(id, name, alive, faction_id, role, status, location_id, traits_json, needs_json, goals_json, intoxication_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, id := range sim.AgentOrder() {
		a := sim.Agents[id]
		traitsJSON, _ := json.Marshal(a.Traits)
		needsJSON, _ := json.Marshal(a.Needs)
		goalsJSON, _ := json.Marshal(a.Goals)
		var intoxJSON *string
		if a.Intoxication != nil {
			b, _ := json.Marshal(a.Intoxication)
			s := string(b)
			intoxJSON = &s
		}
		alive := 0
		if a.Alive {
			alive = 1
		}
		if _, err := stmt.Exec(a.ID, a.Name, alive, a.Membership.FactionID, a.Membership.Role,
			a.Membership.Status, a.LocationID, string(traitsJSON), string(needsJSON), string(goalsJSON), intoxJSON); err != nil {
			return fmt.Errorf("insert agent %s: %w", a.ID, err)
		}
	}

	// Dead agents are skipped by AgentOrder but must still round-trip for
	// retrospective queries.
	for id, a := range sim.Agents {
		if a.Alive {
			continue
		}
		traitsJSON, _ := json.Marshal(a.Traits)
		needsJSON, _ := json.Marshal(a.Needs)
		goalsJSON, _ := json.Marshal(a.Goals)
		if _, err := stmt.Exec(id, a.Name, 0, a.Membership.FactionID, a.Membership.Role,
			a.Membership.Status, a.LocationID, string(traitsJSON), string(needsJSON), string(goalsJSON), nil); err != nil {
			return fmt.Errorf("insert dead agent %s: %w", id, err)
		}
	}

	return tx.Commit()
}

func (db *DB) saveFactions(sim *engine.Simulation) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM factions"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM archive_entries"); err != nil {
		return err
	}

	for _, fid := range sim.Factions.All() {
		f, ok := sim.Factions.Get(fid)
		if !ok {
			continue
		}
		territoryJSON, _ := json.Marshal(f.Territory)
		membersJSON, _ := json.Marshal(f.Members)
		reputationJSON, _ := json.Marshal(f.ExternalReputation)

		_, err := tx.Exec(`INSERT INTO factions
			(id, name, territory_json, hq_location, leader_id, reader_id, members_json,
			 grain, iron, salt, beer, reputation_json, next_archive_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, f.Name, string(territoryJSON), f.HQLocation, f.Leader, f.Reader, string(membersJSON),
			f.Resources.Grain, f.Resources.Iron, f.Resources.Salt, f.Resources.Beer,
			string(reputationJSON), f.ArchiveCounter())
		if err != nil {
			return fmt.Errorf("insert faction %s: %w", f.ID, err)
		}

		for _, e := range f.Archive {
			if _, err := tx.Exec(`INSERT INTO archive_entries
				(id, faction_id, author, author_name, subject, content, tick_created, read_count, forged)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				e.ID, f.ID, e.Author, e.AuthorName, e.Subject, e.Content, e.TickCreated, e.ReadCount, boolToInt(e.Forged)); err != nil {
				return fmt.Errorf("insert archive entry %s: %w", e.ID, err)
			}
		}
	}

	return tx.Commit()
}

func (db *DB) saveLocations(sim *engine.Simulation) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM locations"); err != nil {
		return err
	}

	for _, lid := range sim.Locations.All() {
		l, ok := sim.Locations.Get(lid)
		if !ok {
			continue
		}
		propsJSON, _ := json.Marshal(l.Properties)
		adjJSON, _ := json.Marshal(l.Adjacent)
		benefitsJSON, _ := json.Marshal(l.Benefits)
		_, err := tx.Exec(`INSERT INTO locations
			(id, name, kind, controlling_faction, properties_json, grain, iron, salt, adjacent_json, benefits_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			l.ID, l.Name, l.Kind, l.ControllingFaction, string(propsJSON),
			l.Yields.Grain, l.Yields.Iron, l.Yields.Salt, string(adjJSON), string(benefitsJSON))
		if err != nil {
			return fmt.Errorf("insert location %s: %w", l.ID, err)
		}
	}

	return tx.Commit()
}

func (db *DB) saveRelationships(sim *engine.Simulation) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM relationships"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO relationships
		(from_id, to_id, reliability, alignment, capability, last_interaction_tick, memory_count, grudge_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rel := range sim.Relations.AllEdges() {
		if _, err := stmt.Exec(rel.From, rel.To, rel.Trust.Reliability, rel.Trust.Alignment, rel.Trust.Capability,
			rel.LastInteractionTick, rel.MemoryCount, boolToInt(rel.Grudge.Active)); err != nil {
			return fmt.Errorf("insert relationship %s->%s: %w", rel.From, rel.To, err)
		}
	}

	return tx.Commit()
}

func (db *DB) saveMemories(sim *engine.Simulation) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM memories"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO memories
		(id, agent_id, source_event_id, subject, content, fidelity, source_chain_json, emotional_weight, tick_created, valence, is_secret)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for id := range sim.Agents {
		for _, m := range sim.Memories.Get(id) {
			chainJSON, _ := json.Marshal(m.SourceChain)
			if _, err := stmt.Exec(m.ID, id, m.SourceEventID, m.Subject, m.Content, m.Fidelity,
				string(chainJSON), m.EmotionalWeight, m.TickCreated, m.Valence, boolToInt(m.IsSecret)); err != nil {
				return fmt.Errorf("insert memory %s: %w", m.ID, err)
			}
		}
	}

	return tx.Commit()
}

func (db *DB) saveRitualSchedules(sim *engine.Simulation) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM ritual_schedules"); err != nil {
		return err
	}
	for _, fid := range sim.Factions.All() {
		rs := sim.RitualScheduleFor(fid)
		attendanceJSON, _ := json.Marshal(rs.Attendance)
		missedJSON, _ := json.Marshal(rs.Missed)
		if _, err := tx.Exec(`INSERT INTO ritual_schedules
			(faction_id, last_ritual_tick, next_ritual_tick, attendance_json, missed_json)
			VALUES (?, ?, ?, ?, ?)`,
			fid, rs.LastRitualTick, rs.NextRitualTick, string(attendanceJSON), string(missedJSON)); err != nil {
			return fmt.Errorf("insert ritual schedule %s: %w", fid, err)
		}
	}
	return tx.Commit()
}

func (db *DB) saveTensions(sim *engine.Simulation) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tensions"); err != nil {
		return err
	}
	for _, t := range sim.Tensions.All() {
		payload, _ := json.Marshal(t)
		if _, err := tx.Exec("INSERT INTO tensions (id, type, payload_json) VALUES (?, ?, ?)",
			t.ID, t.Type, string(payload)); err != nil {
			return fmt.Errorf("insert tension %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// EventCacheKeepTicks bounds how far back the cached event tail reaches;
// the JSONL event log on disk remains the full record.
const EventCacheKeepTicks = 1000

// SaveEvents appends events to the database's recent-event tail.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		payload, _ := json.Marshal(e)
		if _, err := tx.Exec("INSERT OR REPLACE INTO events (id, tick, type, subtype, payload_json) VALUES (?, ?, ?, ?, ?)",
			e.ID, e.Tick, e.Type, e.Subtype, string(payload)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// TrimOldEvents removes cached events older than keepTicks, bounding the
// cache's growth over a long run.
func (db *DB) TrimOldEvents(currentTick uint64, keepTicks uint64) (int64, error) {
	if currentTick <= keepTicks {
		return 0, nil
	}
	cutoff := currentTick - keepTicks
	result, err := db.conn.Exec("DELETE FROM events WHERE tick < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec("INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)", key, value)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// LoadWorldState rebuilds a full Simulation from the cache, for a resume
// that skips replaying every tick from the start. Locations must be
// regenerated or loaded before agents/factions reference them; this loads
// locations first so adjacency and HQ lookups resolve immediately.
func (db *DB) LoadWorldState() (*engine.Simulation, string, error) {
	seedStr, err := db.GetMeta("seed")
	if err != nil {
		return nil, "", fmt.Errorf("load seed: %w", err)
	}
	var seed uint64
	fmt.Sscanf(seedStr, "%d", &seed)

	sim := engine.NewSimulation(seed)

	if err := db.loadLocations(sim); err != nil {
		return nil, "", fmt.Errorf("load locations: %w", err)
	}
	if err := db.loadFactions(sim); err != nil {
		return nil, "", fmt.Errorf("load factions: %w", err)
	}
	if err := db.loadAgents(sim); err != nil {
		return nil, "", fmt.Errorf("load agents: %w", err)
	}
	if err := db.loadRelationships(sim); err != nil {
		return nil, "", fmt.Errorf("load relationships: %w", err)
	}
	if err := db.loadMemories(sim); err != nil {
		return nil, "", fmt.Errorf("load memories: %w", err)
	}
	if err := db.loadRitualSchedules(sim); err != nil {
		return nil, "", fmt.Errorf("load ritual schedules: %w", err)
	}
	if err := db.loadTensions(sim); err != nil {
		return nil, "", fmt.Errorf("load tensions: %w", err)
	}

	tickStr, _ := db.GetMeta("tick")
	var tick uint64
	fmt.Sscanf(tickStr, "%d", &tick)
	sim.Tick = tick

	seasonStr, _ := db.GetMeta("season")
	var season uint8
	fmt.Sscanf(seasonStr, "%d", &season)
	sim.Season = engine.Season(season)

	lastEventStr, _ := db.GetMeta("last_event_id")
	var lastEvent uint64
	fmt.Sscanf(lastEventStr, "%d", &lastEvent)
	sim.RestoreEventCounter(ents.EventID(lastEvent))

	threatsJSON, _ := db.GetMeta("active_threats")
	if threatsJSON != "" {
		json.Unmarshal([]byte(threatsJSON), &sim.ActiveThreats)
	}

	runID, _ := db.GetMeta("run_id")

	sim.MarkOrderDirty()
	return sim, runID, nil
}

func (db *DB) loadLocations(sim *engine.Simulation) error {
	type row struct {
		ID                 string  `db:"id"`
		Name               string  `db:"name"`
		Kind               uint8   `db:"kind"`
		ControllingFaction *string `db:"controlling_faction"`
		PropertiesJSON     string  `db:"properties_json"`
		Grain              uint64  `db:"grain"`
		Iron               uint64  `db:"iron"`
		Salt               uint64  `db:"salt"`
		AdjacentJSON        string `db:"adjacent_json"`
		BenefitsJSON        string `db:"benefits_json"`
	}
	var rows []row
	if err := db.conn.Select(&rows, "SELECT * FROM locations"); err != nil {
		return nil // table empty on a fresh cache, not fatal
	}
	for _, r := range rows {
		loc := &world.Location{
			ID:                 world.LocationID(r.ID),
			Name:               r.Name,
			Kind:               world.Kind(r.Kind),
			ControllingFaction: r.ControllingFaction,
			Yields:             world.Yields{Grain: r.Grain, Iron: r.Iron, Salt: r.Salt},
			Properties:         make(map[world.Property]bool),
		}
		json.Unmarshal([]byte(r.PropertiesJSON), &loc.Properties)
		json.Unmarshal([]byte(r.AdjacentJSON), &loc.Adjacent)
		json.Unmarshal([]byte(r.BenefitsJSON), &loc.Benefits)
		sim.Locations.Register(loc)
	}
	return nil
}

func (db *DB) loadFactions(sim *engine.Simulation) error {
	type row struct {
		ID             string  `db:"id"`
		Name           string  `db:"name"`
		TerritoryJSON  string  `db:"territory_json"`
		HQLocation     string  `db:"hq_location"`
		LeaderID       *string `db:"leader_id"`
		ReaderID       *string `db:"reader_id"`
		MembersJSON    string  `db:"members_json"`
		Grain          uint64  `db:"grain"`
		Iron           uint64  `db:"iron"`
		Salt           uint64  `db:"salt"`
		Beer           uint64  `db:"beer"`
		ReputationJSON string  `db:"reputation_json"`
		NextArchiveID  uint64  `db:"next_archive_id"`
	}
	var rows []row
	if err := db.conn.Select(&rows, "SELECT * FROM factions"); err != nil {
		return nil
	}
	for _, r := range rows {
		f := social.NewFaction(social.FactionID(r.ID), r.Name, r.HQLocation)
		json.Unmarshal([]byte(r.TerritoryJSON), &f.Territory)
		json.Unmarshal([]byte(r.MembersJSON), &f.Members)
		json.Unmarshal([]byte(r.ReputationJSON), &f.ExternalReputation)
		f.Resources = social.Resources{Grain: r.Grain, Iron: r.Iron, Salt: r.Salt, Beer: r.Beer}
		if r.LeaderID != nil {
			id := ents.AgentID(*r.LeaderID)
			f.Leader = &id
		}
		if r.ReaderID != nil {
			id := ents.AgentID(*r.ReaderID)
			f.Reader = &id
		}
		f.RestoreArchiveCounter(r.NextArchiveID)
		sim.Factions.Register(f)
	}

	var entries []struct {
		ID          string `db:"id"`
		FactionID   string `db:"faction_id"`
		Author      string `db:"author"`
		AuthorName  string `db:"author_name"`
		Subject     string `db:"subject"`
		Content     string `db:"content"`
		TickCreated uint64 `db:"tick_created"`
		ReadCount   int    `db:"read_count"`
		Forged      int    `db:"forged"`
	}
	if err := db.conn.Select(&entries, "SELECT * FROM archive_entries ORDER BY id"); err != nil {
		return err
	}
	for _, e := range entries {
		f, ok := sim.Factions.Get(social.FactionID(e.FactionID))
		if !ok {
			continue
		}
		f.Archive = append(f.Archive, social.ArchiveEntry{
			ID: ents.ArchiveEntryID(e.ID), Author: ents.AgentID(e.Author),
			AuthorName: e.AuthorName, Subject: ents.AgentID(e.Subject), Content: e.Content,
			TickCreated: e.TickCreated, ReadCount: e.ReadCount, Forged: e.Forged != 0,
		})
	}
	return nil
}

func (db *DB) loadAgents(sim *engine.Simulation) error {
	type row struct {
		ID               string  `db:"id"`
		Name             string  `db:"name"`
		Alive            int     `db:"alive"`
		FactionID        string  `db:"faction_id"`
		Role             string  `db:"role"`
		Status           uint8   `db:"status"`
		LocationID       string  `db:"location_id"`
		TraitsJSON       string  `db:"traits_json"`
		NeedsJSON        string  `db:"needs_json"`
		GoalsJSON        string  `db:"goals_json"`
		IntoxicationJSON *string `db:"intoxication_json"`
	}
	var rows []row
	if err := db.conn.Select(&rows, "SELECT * FROM agents"); err != nil {
		return err
	}
	for _, r := range rows {
		a := &ents.Agent{
			ID:    ents.AgentID(r.ID),
			Name:  r.Name,
			Alive: r.Alive != 0,
			Membership: ents.Membership{
				FactionID: ents.FactionID(r.FactionID),
				Role:      ents.Role(r.Role),
				Status:    ents.StatusLevel(r.Status),
			},
			LocationID: ents.LocationID(r.LocationID),
		}
		json.Unmarshal([]byte(r.TraitsJSON), &a.Traits)
		json.Unmarshal([]byte(r.NeedsJSON), &a.Needs)
		json.Unmarshal([]byte(r.GoalsJSON), &a.Goals)
		if r.IntoxicationJSON != nil {
			var in ents.Intoxication
			json.Unmarshal([]byte(*r.IntoxicationJSON), &in)
			a.Intoxication = &in
		}
		sim.AddAgent(a)
		if f, ok := sim.Factions.Get(a.Membership.FactionID); ok && a.Alive {
			f.AddMember(a.ID)
		}
	}
	return nil
}

func (db *DB) loadRelationships(sim *engine.Simulation) error {
	var rows []struct {
		FromID              string  `db:"from_id"`
		ToID                string  `db:"to_id"`
		Reliability         float64 `db:"reliability"`
		Alignment           float64 `db:"alignment"`
		Capability          float64 `db:"capability"`
		LastInteractionTick uint64  `db:"last_interaction_tick"`
		MemoryCount         int     `db:"memory_count"`
		GrudgeActive        int     `db:"grudge_active"`
	}
	if err := db.conn.Select(&rows, "SELECT * FROM relationships"); err != nil {
		return err
	}
	for _, r := range rows {
		rel := sim.Relations.Ensure(ents.AgentID(r.FromID), ents.AgentID(r.ToID))
		rel.Trust = ents.Trust{Reliability: r.Reliability, Alignment: r.Alignment, Capability: r.Capability}
		rel.LastInteractionTick = r.LastInteractionTick
		rel.MemoryCount = r.MemoryCount
		rel.Grudge.Active = r.GrudgeActive != 0
	}
	return nil
}

func (db *DB) loadMemories(sim *engine.Simulation) error {
	var rows []struct {
		ID              string  `db:"id"`
		AgentID         string  `db:"agent_id"`
		SourceEventID   *uint64 `db:"source_event_id"`
		Subject         string  `db:"subject"`
		Content         string  `db:"content"`
		Fidelity        float64 `db:"fidelity"`
		SourceChainJSON string  `db:"source_chain_json"`
		EmotionalWeight float64 `db:"emotional_weight"`
		TickCreated     uint64  `db:"tick_created"`
		Valence         uint8   `db:"valence"`
		IsSecret        int     `db:"is_secret"`
	}
	if err := db.conn.Select(&rows, "SELECT * FROM memories ORDER BY id"); err != nil {
		return err
	}
	byAgent := make(map[ents.AgentID][]ents.Memory)
	var maxID uint64
	for _, r := range rows {
		m := ents.Memory{
			ID:              ents.MemoryID(r.ID),
			Subject:         ents.AgentID(r.Subject),
			Content:         r.Content,
			Fidelity:        r.Fidelity,
			EmotionalWeight: r.EmotionalWeight,
			TickCreated:     r.TickCreated,
			Valence:         ents.Valence(r.Valence),
			IsSecret:        r.IsSecret != 0,
		}
		if r.SourceEventID != nil {
			id := ents.EventID(*r.SourceEventID)
			m.SourceEventID = &id
		}
		json.Unmarshal([]byte(r.SourceChainJSON), &m.SourceChain)
		agent := ents.AgentID(r.AgentID)
		byAgent[agent] = append(byAgent[agent], m)
		if n := memorySeq(r.ID); n > maxID {
			maxID = n
		}
	}
	for agent, mems := range byAgent {
		sim.Memories.Replace(agent, mems)
	}
	sim.Memories.RestoreCounter(maxID)
	return nil
}

// memorySeq extracts the numeric suffix of a "mem_<n>" id for counter
// restoration; returns 0 for any id not in that shape.
func memorySeq(id string) uint64 {
	const prefix = "mem_"
	if len(id) <= len(prefix) || id[:len(prefix)] != prefix {
		return 0
	}
	var n uint64
	fmt.Sscanf(id[len(prefix):], "%d", &n)
	return n
}

func (db *DB) loadRitualSchedules(sim *engine.Simulation) error {
	var rows []struct {
		FactionID      string `db:"faction_id"`
		LastRitualTick uint64 `db:"last_ritual_tick"`
		NextRitualTick uint64 `db:"next_ritual_tick"`
		AttendanceJSON string `db:"attendance_json"`
		MissedJSON     string `db:"missed_json"`
	}
	if err := db.conn.Select(&rows, "SELECT * FROM ritual_schedules"); err != nil {
		return err
	}
	for _, r := range rows {
		rs := social.NewRitualSchedule()
		rs.LastRitualTick = r.LastRitualTick
		rs.NextRitualTick = r.NextRitualTick
		json.Unmarshal([]byte(r.AttendanceJSON), &rs.Attendance)
		json.Unmarshal([]byte(r.MissedJSON), &rs.Missed)
		sim.SetRitualSchedule(social.FactionID(r.FactionID), rs)
	}
	return nil
}

func (db *DB) loadTensions(sim *engine.Simulation) error {
	var rows []struct {
		ID          string `db:"id"`
		PayloadJSON string `db:"payload_json"`
	}
	if err := db.conn.Select(&rows, "SELECT * FROM tensions"); err != nil {
		return err
	}
	for _, r := range rows {
		var t tension.Tension
		if err := json.Unmarshal([]byte(r.PayloadJSON), &t); err != nil {
			slog.Warn("skipping unparseable cached tension", "id", r.ID, "err", err)
			continue
		}
		tt := t
		sim.Tensions.Restore(&tt)
	}
	return nil
}

// RecentEvents returns the most recently cached events, newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var rows []struct {
		PayloadJSON string `db:"payload_json"`
	}
	err := db.conn.Select(&rows, "SELECT payload_json FROM events ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	events := make([]engine.Event, 0, len(rows))
	for _, r := range rows {
		var e engine.Event
		if err := json.Unmarshal([]byte(r.PayloadJSON), &e); err == nil {
			events = append(events, e)
		}
	}
	return events, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
