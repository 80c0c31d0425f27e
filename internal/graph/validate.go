package graph

import (
	"github.com/gammazero/toposort"
	"github.com/me/taskflow/pkg/model"
)

// Validate checks a batch up front: references, self-dependencies and cycles.
// On success it returns one dependency-respecting order of all task ids.
func Validate(tasks []model.Task) ([]string, error) {
	g, err := Build(tasks)
	if err != nil {
		return nil, err
	}

	var edges []toposort.Edge
	for _, t := range tasks {
		for _, succ := range g.forward[t.ID] {
			edges = append(edges, toposort.Edge{t.ID, succ})
		}
	}

	if len(edges) == 0 {
		order := make([]string, 0, len(tasks))
		for _, t := range tasks {
			order = append(order, t.ID)
		}
		return order, nil
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, model.NewSchedulingError(model.KindCyclicDependency,
			"dependency cycle detected", g.cycleMembers()...)
	}

	// Tasks with no edges at all are absent from the toposort output.
	inSorted := make(map[string]bool, len(sorted))
	order := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if g.inDegree[t.ID] == 0 && len(g.forward[t.ID]) == 0 {
			order = append(order, t.ID)
			inSorted[t.ID] = true
		}
	}
	for _, node := range sorted {
		id := node.(string)
		if !inSorted[id] {
			inSorted[id] = true
			order = append(order, id)
		}
	}
	return order, nil
}

// cycleMembers drains the graph and returns the tasks left holding in-degree.
func (g *Graph) cycleMembers() []string {
	inDegree := g.InDegree()
	queue := g.Roots()
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, succ := range g.forward[id] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}
	return g.Unresolved(inDegree)
}
