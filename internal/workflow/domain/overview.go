package domain

import "github.com/google/uuid"

// StatusNode is one status with its edges.
type StatusNode struct {
	Status   *Status
	Outgoing []uuid.UUID
	Incoming []uuid.UUID
}

// Overview summarizes the shape of a project's workflow.
type Overview struct {
	ProjectID uuid.UUID
	Nodes     []StatusNode
	EntryID   uuid.UUID
	// Unreachable lists statuses no task can reach from the entry status.
	Unreachable []uuid.UUID
	// DeadEnds lists non-completed statuses without outgoing edges.
	DeadEnds []uuid.UUID
	// CompletionReachable is true when some completed status is reachable
	// from the entry status.
	CompletionReachable bool
	EdgeCount           int
}

// Analyze builds an Overview of statuses and edges.
func Analyze(projectID uuid.UUID, statuses []*Status, edges []*Transition) Overview {
	sorted := append([]*Status(nil), statuses...)
	SortStatuses(sorted)

	graph := NewGraph(edges)
	overview := Overview{ProjectID: projectID, EdgeCount: len(edges)}

	var reachable map[uuid.UUID]bool
	if len(sorted) > 0 {
		overview.EntryID = sorted[0].ID()
		reachable = graph.Reachable(overview.EntryID)
	}

	for _, s := range sorted {
		node := StatusNode{
			Status:   s,
			Outgoing: graph.Targets(s.ID()),
			Incoming: graph.Sources(s.ID()),
		}
		overview.Nodes = append(overview.Nodes, node)

		if !reachable[s.ID()] {
			overview.Unreachable = append(overview.Unreachable, s.ID())
		}
		if len(node.Outgoing) == 0 && !s.IsCompleted() {
			overview.DeadEnds = append(overview.DeadEnds, s.ID())
		}
		if s.IsCompleted() && reachable[s.ID()] {
			overview.CompletionReachable = true
		}
	}
	return overview
}
