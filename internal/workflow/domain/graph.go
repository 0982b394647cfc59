package domain

import (
	"sort"

	"github.com/google/uuid"
)

// Graph is an in-memory view of a project's transition edges.
type Graph struct {
	out map[uuid.UUID]map[uuid.UUID]struct{}
	in  map[uuid.UUID]map[uuid.UUID]struct{}
}

func NewGraph(edges []*Transition) *Graph {
	g := &Graph{
		out: make(map[uuid.UUID]map[uuid.UUID]struct{}),
		in:  make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
	for _, e := range edges {
		g.add(e.FromStatusID(), e.ToStatusID())
	}
	return g
}

func (g *Graph) add(from, to uuid.UUID) {
	if g.out[from] == nil {
		g.out[from] = make(map[uuid.UUID]struct{})
	}
	if g.in[to] == nil {
		g.in[to] = make(map[uuid.UUID]struct{})
	}
	g.out[from][to] = struct{}{}
	g.in[to][from] = struct{}{}
}

// Allows is an exact directed lookup; an edge A->B says nothing about B->A.
func (g *Graph) Allows(from, to uuid.UUID) bool {
	_, ok := g.out[from][to]
	return ok
}

// Targets lists the statuses reachable from from in one move.
func (g *Graph) Targets(from uuid.UUID) []uuid.UUID {
	return sortedKeys(g.out[from])
}

// Sources lists the statuses that can move directly into to.
func (g *Graph) Sources(to uuid.UUID) []uuid.UUID {
	return sortedKeys(g.in[to])
}

// Reachable returns every status reachable from start, start included.
func (g *Graph) Reachable(start uuid.UUID) map[uuid.UUID]bool {
	seen := map[uuid.UUID]bool{start: true}
	queue := []uuid.UUID{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for next := range g.out[current] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

func sortedKeys(set map[uuid.UUID]struct{}) []uuid.UUID {
	keys := make([]uuid.UUID, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}
