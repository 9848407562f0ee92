// Command crossroads runs the deterministic agent/faction narrative
// simulation core: a fixed-length tick loop that writes an append-only
// event log, periodic snapshots, and a tension stream, with optional
// SQLite caching and signal-driven shutdown with a final save.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/crossroads/internal/bootstrap"
	"github.com/talgya/crossroads/internal/engine"
	"github.com/talgya/crossroads/internal/ents"
	"github.com/talgya/crossroads/internal/intervene"
	"github.com/talgya/crossroads/internal/persistence"
	"github.com/talgya/crossroads/internal/snapshot"
	"github.com/talgya/crossroads/internal/social"
)

func main() {
	os.Exit(run())
}

// run contains the full CLI body and returns a process exit code, so a
// single human-readable line is printed on user-visible failure and no
// panic ever crosses main.
func run() int {
	var (
		seed             uint64
		ticks            uint64
		snapshotInterval uint64
		fromSnapshot     string
		startTick        uint64
		outputDir        string
		cachePath        string
		interventionDir  string
		strict           bool
	)
	flag.Uint64Var(&seed, "seed", 1, "deterministic RNG seed")
	flag.Uint64Var(&ticks, "ticks", 1000, "number of ticks to run")
	flag.Uint64Var(&snapshotInterval, "snapshot-interval", 100, "ticks between snapshot writes")
	flag.StringVar(&fromSnapshot, "from-snapshot", "", "path to a snap_*.json to resume from")
	flag.Uint64Var(&startTick, "start-tick", 0, "tick to resume at (paired with --from-snapshot)")
	flag.StringVar(&outputDir, "output-dir", "out", "directory for snapshots, event log, tension stream")
	flag.StringVar(&cachePath, "cache", "", "optional SQLite fast-resume cache path (empty disables it)")
	flag.StringVar(&interventionDir, "interventions", "", "optional directory watched for intervention files (empty disables it)")
	flag.BoolVar(&strict, "strict", false, "abort on a data-integrity violation instead of repairing it")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	runID := snapshot.NewRunID()
	slog.Info("crossroads starting", "run_id", runID, "seed", seed, "ticks", humanize.Comma(int64(ticks)))

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "crossroads: cannot create output dir: %v\n", err)
		return 1
	}

	sim, startedAt, err := buildSimulation(seed, fromSnapshot, startTick)
	if err != nil {
		fmt.Fprintf(os.Stderr, "crossroads: %v\n", err)
		return 1
	}

	var cache *persistence.DB
	if cachePath != "" {
		cache, err = persistence.Open(cachePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "crossroads: cannot open cache: %v\n", err)
			return 1
		}
		defer cache.Close()
		if cache.HasWorldState() && fromSnapshot == "" {
			slog.Info("resuming from cache", "path", cachePath)
			cached, cachedRunID, err := cache.LoadWorldState()
			if err != nil {
				fmt.Fprintf(os.Stderr, "crossroads: cannot load cache: %v\n", err)
				return 1
			}
			sim = cached
			if cachedRunID != "" {
				runID = cachedRunID
			}
			startedAt = sim.Tick
		}
	}

	var watcher *intervene.Watcher
	if interventionDir != "" {
		watcher, err = intervene.New(interventionDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "crossroads: cannot start intervention watcher: %v\n", err)
			return 1
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		watcher.Start(ctx)
		defer watcher.Stop()
	}

	eventLog, err := newEventLogWriter(filepath.Join(outputDir, "events.jsonl"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "crossroads: cannot open event log: %v\n", err)
		return 1
	}
	defer eventLog.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	var stopRequested atomic.Bool
	go func() {
		sig := <-sigCh
		slog.Warn("received signal, will stop after current tick", "signal", sig)
		stopRequested.Store(true)
	}()

	targetTick := startedAt + ticks
	started := time.Now()
	lastEventFlush := 0

	integrityMode := engine.IntegrityLenient
	if strict {
		integrityMode = engine.IntegrityStrict
	}

	for sim.Tick < targetTick && !stopRequested.Load() {
		sim.Step()

		if sim.Tick%engine.IntegrityCheckInterval == 0 {
			if err := sim.CheckIntegrity(integrityMode); err != nil {
				if snapErr := writeSnapshot(outputDir, sim, runID); snapErr != nil {
					slog.Error("diagnostic snapshot write failed", "err", snapErr)
				}
				fmt.Fprintf(os.Stderr, "crossroads: %v\n", err)
				return 1
			}
		}

		if err := eventLog.writeNewEvents(sim.Events, &lastEventFlush); err != nil {
			fmt.Fprintf(os.Stderr, "crossroads: event log write failed: %v\n", err)
			return 1
		}

		if watcher != nil {
			watcher.Drain(sim)
		}

		if snapshotInterval > 0 && sim.Tick%snapshotInterval == 0 {
			if err := writeSnapshot(outputDir, sim, runID); err != nil {
				fmt.Fprintf(os.Stderr, "crossroads: snapshot write failed: %v\n", err)
				return 1
			}
			if cache != nil {
				if err := cache.SaveWorldState(sim, runID); err != nil {
					slog.Error("cache save failed", "err", err)
				}
			}
			slog.Info("progress", "tick", humanize.Comma(int64(sim.Tick)),
				"elapsed", humanize.RelTime(started, time.Now(), "", ""),
				"events", humanize.Comma(int64(len(sim.Events))))
		}
	}

	if err := writeSnapshot(outputDir, sim, runID); err != nil {
		fmt.Fprintf(os.Stderr, "crossroads: final snapshot write failed: %v\n", err)
		return 1
	}
	if cache != nil {
		if err := cache.SaveWorldState(sim, runID); err != nil {
			slog.Error("final cache save failed", "err", err)
		}
	}

	slog.Info("crossroads finished", "run_id", runID, "final_tick", sim.Tick,
		"duration", humanize.RelTime(started, time.Now(), "", ""))
	return 0
}

// buildSimulation either loads the world named by fromSnapshot or builds a
// fresh one from the default bootstrap config, returning the simulation and
// the tick it should be considered to have started at.
func buildSimulation(seed uint64, fromSnapshot string, startTick uint64) (*engine.Simulation, uint64, error) {
	if fromSnapshot == "" {
		return bootstrap.Build(bootstrap.DefaultConfig(seed)), 0, nil
	}

	data, err := os.ReadFile(fromSnapshot)
	if err != nil {
		return nil, 0, fmt.Errorf("unreadable snapshot %s: %w", fromSnapshot, err)
	}
	var snap snapshot.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, 0, fmt.Errorf("malformed snapshot %s: %w", fromSnapshot, err)
	}

	sim := restoreSimulation(seed, snap)
	sim.Tick = startTick
	if sim.Tick == 0 {
		sim.Tick = snap.Tick
	}
	sim.MarkOrderDirty()
	slog.Warn("resumed from snapshot file; archive text and memory-bank content are not carried by the snapshot schema (see DESIGN.md) and start empty",
		"path", fromSnapshot, "tick", sim.Tick)
	return sim, sim.Tick, nil
}

// restoreSimulation rebuilds a Simulation from a parsed snapshot. Locations
// are regenerated from the deterministic bootstrap content, so the same
// seed must be supplied to resume a run; every dynamic field the snapshot
// schema carries (agents, traits, needs, goals, factions, membership,
// resources, the relationship trust graph, season, active threats, and
// tensions) is restored verbatim. Archive entry text and memory-bank
// content are not part of the snapshot schema and are left empty; see
// DESIGN.md's "--from-snapshot fidelity note".
func restoreSimulation(seed uint64, snap snapshot.Snapshot) *engine.Simulation {
	sim := bootstrap.Build(bootstrap.DefaultConfig(seed))

	sim.Agents = make(map[ents.AgentID]*ents.Agent, len(snap.Agents))
	for _, rec := range snap.Agents {
		a := &ents.Agent{
			ID:    rec.ID,
			Name:  rec.Name,
			Alive: rec.Alive,
			Membership: ents.Membership{
				FactionID: rec.FactionID,
				Role:      rec.Role,
				Status:    rec.Status,
			},
			LocationID: rec.LocationID,
			Traits:     rec.Traits,
			Needs:      rec.Needs,
			Goals:      append([]ents.Goal(nil), rec.Goals...),
		}
		if rec.Intoxication > 0 {
			a.Intoxication = &ents.Intoxication{Level: rec.Intoxication, AppliedAt: snap.Tick}
		}
		sim.Agents[a.ID] = a
	}
	sim.MarkOrderDirty()

	for _, fs := range snap.Factions {
		f, ok := sim.Factions.Get(fs.ID)
		if !ok {
			f = social.NewFaction(fs.ID, fs.Name, fs.HQ)
			sim.Factions.Register(f)
			sim.RitualScheduleFor(fs.ID)
		}
		f.HQLocation = fs.HQ
		f.Leader = fs.Leader
		f.Reader = fs.Reader
		f.Members = append([]ents.AgentID(nil), fs.Members...)
		f.Resources = fs.Resources
	}

	for _, edge := range snap.Relationships {
		rel := sim.Relations.Ensure(edge.From, edge.To)
		rel.Trust = edge.Trust
		rel.LastInteractionTick = edge.LastInteractionTick
	}

	sim.Season = engine.ParseSeason(snap.World.Season)
	sim.ActiveThreats = append([]string(nil), snap.World.ActiveThreats...)
	for _, t := range snap.Tensions {
		sim.Tensions.Restore(t)
	}

	return sim
}

func writeSnapshot(outputDir string, sim *engine.Simulation, runID string) error {
	snap := snapshot.Build(sim, runID)
	if err := snapshot.Write(outputDir, snap); err != nil {
		return err
	}
	return snapshot.WriteTensionStream(outputDir, snap.Tensions)
}

// eventLogWriter wraps the event log in a buffered writer that is always
// flushed, even on an early return, via Close's defer in the caller.
type eventLogWriter struct {
	f *os.File
	w *bufio.Writer
}

func newEventLogWriter(path string) (*eventLogWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &eventLogWriter{f: f, w: bufio.NewWriter(f)}, nil
}

// writeNewEvents appends every event past the last-flushed index, advancing
// it, and flushes at this tick boundary.
func (w *eventLogWriter) writeNewEvents(events []engine.Event, lastIndex *int) error {
	for _, e := range events[*lastIndex:] {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if _, err := w.w.Write(data); err != nil {
			return err
		}
		if err := w.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	*lastIndex = len(events)
	return w.w.Flush()
}

func (w *eventLogWriter) Close() error {
	if err := w.w.Flush(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
