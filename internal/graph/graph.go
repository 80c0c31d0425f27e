package graph

import (
	"fmt"

	"github.com/me/taskflow/pkg/model"
)

// Graph is the dependency graph of one task batch. It is immutable after
// Build; strategies drain a copy of the in-degree map.
type Graph struct {
	tasks    []model.Task
	index    map[string]int
	forward  map[string][]string
	inDegree map[string]int
}

// Build constructs the graph for tasks.
//
// Dependency "a" on task "b" creates the edge a -> b. Every referenced id must
// be in the batch, otherwise a MissingDependency error names it. A task that
// depends on itself is reported as a CyclicDependency. Longer cycles are not
// detected here: a Kahn drain simply stops short of len(tasks).
func Build(tasks []model.Task) (*Graph, error) {
	g := &Graph{
		tasks:    tasks,
		index:    make(map[string]int, len(tasks)),
		forward:  make(map[string][]string, len(tasks)),
		inDegree: make(map[string]int, len(tasks)),
	}

	for i, t := range tasks {
		if _, dup := g.index[t.ID]; dup {
			return nil, model.NewSchedulingError(model.KindInvalidTask, "duplicate task id", t.ID)
		}
		g.index[t.ID] = i
		g.inDegree[t.ID] = 0
	}

	// Dependents are appended in task-list order so that every consumer sees
	// a deterministic edge order.
	for _, t := range tasks {
		seen := make(map[string]bool, len(t.Dependencies))
		for _, dep := range t.Dependencies {
			if dep == t.ID {
				return nil, model.NewSchedulingError(model.KindCyclicDependency,
					"task depends on itself", t.ID)
			}
			if _, ok := g.index[dep]; !ok {
				return nil, &model.SchedulingError{
					Kind:    model.KindMissingDependency,
					Message: fmt.Sprintf("task %q references unknown dependency", t.ID),
					TaskIDs: []string{dep},
				}
			}
			if seen[dep] {
				continue
			}
			seen[dep] = true
			g.forward[dep] = append(g.forward[dep], t.ID)
			g.inDegree[t.ID]++
		}
	}

	return g, nil
}

// Len returns the number of tasks in the graph.
func (g *Graph) Len() int {
	return len(g.tasks)
}

// Tasks returns the batch in input order.
func (g *Graph) Tasks() []model.Task {
	return g.tasks
}

// Task returns the task with the given id.
func (g *Graph) Task(id string) (model.Task, bool) {
	i, ok := g.index[id]
	if !ok {
		return model.Task{}, false
	}
	return g.tasks[i], true
}

// Position returns the input index of id, or -1.
func (g *Graph) Position(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// Dependents returns the ids of tasks that depend on id.
func (g *Graph) Dependents(id string) []string {
	return g.forward[id]
}

// InDegree returns a fresh copy of the in-degree map for draining.
func (g *Graph) InDegree() map[string]int {
	out := make(map[string]int, len(g.inDegree))
	for id, d := range g.inDegree {
		out[id] = d
	}
	return out
}

// Roots returns the tasks with no dependencies, in input order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, t := range g.tasks {
		if g.inDegree[t.ID] == 0 {
			roots = append(roots, t.ID)
		}
	}
	return roots
}

// Unresolved returns, in input order, the ids that a Kahn drain ending with
// the given residual in-degrees failed to release.
func (g *Graph) Unresolved(residual map[string]int) []string {
	var ids []string
	for _, t := range g.tasks {
		if residual[t.ID] > 0 {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
