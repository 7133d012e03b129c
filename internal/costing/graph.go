package costing

import "github.com/google/uuid"

const (
	colorUnvisited = iota
	colorVisiting
	colorVisited
)

// TopoOrder returns the node ids in dependency order (children before
// parents) using a three-color depth-first search. A back-edge means a cycle:
// onCycle is invoked with the offending node id and the edge is skipped, so
// the walk always terminates. The resolver and the planner both lean on this
// instead of carrying their own ad hoc cycle guards.
func TopoOrder(ids []uuid.UUID, children func(uuid.UUID) []uuid.UUID, onCycle func(uuid.UUID)) []uuid.UUID {
	colors := make(map[uuid.UUID]int, len(ids))
	order := make([]uuid.UUID, 0, len(ids))

	var visit func(id uuid.UUID)
	visit = func(id uuid.UUID) {
		switch colors[id] {
		case colorVisited:
			return
		case colorVisiting:
			// Back-edge: break the cycle rather than fail the whole resolution.
			if onCycle != nil {
				onCycle(id)
			}
			return
		}
		colors[id] = colorVisiting
		for _, child := range children(id) {
			visit(child)
		}
		colors[id] = colorVisited
		order = append(order, id)
	}

	for _, id := range ids {
		visit(id)
	}
	return order
}
