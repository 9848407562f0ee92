// Package world provides the location registry, adjacency graph, and BFS
// pathing used by movement actions. Locations form a discrete graph of
// named nodes with symmetric adjacency, not a coordinate grid.
package world

import (
	"sort"

	"github.com/talgya/crossroads/internal/ents"
)

// LocationID identifies a location uniquely; an alias of ents.LocationID so
// agent positions and the registry share one id space.
type LocationID = ents.LocationID

// Kind enumerates the location type tags.
type Kind uint8

const (
	KindVillage Kind = iota
	KindFields
	KindForest
	KindBridge
	KindCrossroads
	KindHall
	KindMarket
	KindWatchtower
	KindMine
	KindHarbor
)

// Property is a boolean flag a location may carry.
type Property uint8

const (
	PropHiddenMeetingSpot Property = iota
	PropTradeRoute
	PropFactionHQ
	PropNeutral
	PropContested
	PropFoodProduction
	PropStrategic
	PropDefensible
)

// Yields holds the per-season production potential of a location.
type Yields struct {
	Grain uint64 `json:"grain"`
	Iron  uint64 `json:"iron"`
	Salt  uint64 `json:"salt"`
}

// Benefits captures what a location offers an agent that stops there.
type Benefits struct {
	Shelter      bool `json:"shelter"`
	FoodStores   bool `json:"food_stores"`
	Water        bool `json:"water"`
	SocialHub    int  `json:"social_hub_rating"` // 0-10
	Safety       int  `json:"safety"`            // 0-10
	RestQuality  int  `json:"rest_quality"`       // 0-10
	IsHQ         bool `json:"is_hq"`
	Productions  []string `json:"production_types,omitempty"`
}

// Location is a node in the adjacency graph agents move across.
type Location struct {
	ID                LocationID `json:"id"`
	Name              string     `json:"name"`
	Kind              Kind       `json:"kind"`
	ControllingFaction *string   `json:"controlling_faction,omitempty"`
	Properties        map[Property]bool `json:"properties"`
	Yields            Yields     `json:"yields"`
	Adjacent          []LocationID `json:"adjacent"`
	Benefits          Benefits   `json:"benefits"`
}

// HasProperty reports whether the location carries the given property flag.
func (l *Location) HasProperty(p Property) bool {
	return l.Properties[p]
}

// Registry holds every location and its adjacency graph. Connect always adds
// both directions of an edge; Register stores a location's Adjacent list as
// given.
type Registry struct {
	byID map[LocationID]*Location
}

// NewRegistry creates an empty location registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[LocationID]*Location)}
}

// Register adds a location to the registry.
func (r *Registry) Register(l *Location) {
	r.byID[l.ID] = l
}

// Get looks up a location by id.
func (r *Registry) Get(id LocationID) (*Location, bool) {
	l, ok := r.byID[id]
	return l, ok
}

// Connect makes a and b adjacent to one another. Adjacency is always
// symmetric; there is no one-way edge.
func (r *Registry) Connect(a, b LocationID) {
	la, aok := r.byID[a]
	lb, bok := r.byID[b]
	if !aok || !bok {
		return
	}
	if !contains(la.Adjacent, b) {
		la.Adjacent = append(la.Adjacent, b)
	}
	if !contains(lb.Adjacent, a) {
		lb.Adjacent = append(lb.Adjacent, a)
	}
}

func contains(ids []LocationID, target LocationID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

// Adjacent returns the neighbor ids of a location, in stable sorted order.
func (r *Registry) Adjacent(id LocationID) []LocationID {
	l, ok := r.byID[id]
	if !ok {
		return nil
	}
	out := make([]LocationID, len(l.Adjacent))
	copy(out, l.Adjacent)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Reachable reports whether target is reachable from start via any number of
// adjacency hops.
func (r *Registry) Reachable(start, target LocationID) bool {
	if start == target {
		return true
	}
	_, ok := r.bfs(start, target)
	return ok
}

// FirstStepToward runs a breadth-first search from start to target and
// returns only the first hop of the shortest path, not the full path,
// since movement covers one hop per tick anyway. ok is false if
// start==target or target is unreachable.
func (r *Registry) FirstStepToward(start, target LocationID) (LocationID, bool) {
	if start == target {
		return "", false
	}
	return r.bfs(start, target)
}

// bfs performs the shared breadth-first search and returns the first step of
// the shortest start->target path.
func (r *Registry) bfs(start, target LocationID) (LocationID, bool) {
	if _, ok := r.byID[start]; !ok {
		return "", false
	}
	if _, ok := r.byID[target]; !ok {
		return "", false
	}

	type frame struct {
		id        LocationID
		firstStep LocationID
	}

	visited := map[LocationID]bool{start: true}
	queue := []frame{}
	for _, n := range r.Adjacent(start) {
		if n == target {
			return n, true
		}
		if !visited[n] {
			visited[n] = true
			queue = append(queue, frame{id: n, firstStep: n})
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range r.Adjacent(cur.id) {
			if n == target {
				return cur.firstStep, true
			}
			if !visited[n] {
				visited[n] = true
				queue = append(queue, frame{id: n, firstStep: cur.firstStep})
			}
		}
	}
	return "", false
}

// All returns every registered location id in stable sorted order.
func (r *Registry) All() []LocationID {
	ids := make([]LocationID, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
