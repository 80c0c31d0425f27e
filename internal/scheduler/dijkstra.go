package scheduler

import (
	"context"
	"sort"

	"github.com/emirpasic/gods/queues/priorityqueue"
	"github.com/me/taskflow/pkg/model"
)

// Dijkstra computes, for every task, the shortest duration-weighted distance
// from any task without dependencies, then schedules tasks by ascending
// distance. The order depends on graph distance only, not on deadlines.
type Dijkstra struct{}

func (Dijkstra) Name() model.StrategyID { return model.StrategyDijkstra }

func (Dijkstra) Description() string {
	return "Shortest duration-weighted distance from the dependency roots"
}

func (Dijkstra) UsesDependencies() bool { return true }

type distEntry struct {
	id   string
	dist int
	seq  int
}

func byDistance(a, b interface{}) int {
	x, y := a.(distEntry), b.(distEntry)
	switch {
	case x.dist != y.dist:
		if x.dist < y.dist {
			return -1
		}
		return 1
	case x.seq < y.seq:
		return -1
	case x.seq > y.seq:
		return 1
	}
	return 0
}

func (Dijkstra) Schedule(_ context.Context, req Request) ([]model.ScheduledTask, error) {
	g := req.Graph
	if g.Len() == 0 {
		return []model.ScheduledTask{}, nil
	}

	roots := g.Roots()
	if len(roots) == 0 {
		return nil, model.NewSchedulingError(model.KindNoEntryPoint,
			"no tasks without dependencies found")
	}

	dist := make(map[string]int, g.Len())
	finalized := make(map[string]bool, g.Len())
	queue := priorityqueue.NewWith(byDistance)
	seq := 0
	for _, id := range roots {
		dist[id] = 0
		queue.Enqueue(distEntry{id: id, dist: 0, seq: seq})
		seq++
	}

	for !queue.Empty() {
		v, _ := queue.Dequeue()
		cur := v.(distEntry)
		if finalized[cur.id] {
			continue
		}
		finalized[cur.id] = true

		for _, succ := range g.Dependents(cur.id) {
			if finalized[succ] {
				continue
			}
			t, _ := g.Task(succ)
			nd := cur.dist + t.Duration
			if old, seen := dist[succ]; !seen || nd < old {
				dist[succ] = nd
				queue.Enqueue(distEntry{id: succ, dist: nd, seq: seq})
				seq++
			}
		}
	}

	// A task no root can reach sits in a component without a root, which
	// in a finite graph means a cycle.
	if len(finalized) != g.Len() {
		var unreachable []string
		for _, t := range g.Tasks() {
			if !finalized[t.ID] {
				unreachable = append(unreachable, t.ID)
			}
		}
		return nil, model.NewSchedulingError(model.KindCyclicDependency,
			"tasks unreachable from any task without dependencies", unreachable...)
	}

	ordered := make([]model.Task, len(g.Tasks()))
	copy(ordered, g.Tasks())
	sort.SliceStable(ordered, func(i, j int) bool {
		return dist[ordered[i].ID] < dist[ordered[j].ID]
	})

	tl := newTimeline(req.Now, len(ordered))
	for _, t := range ordered {
		tl.place(t)
	}
	return tl.schedule(), nil
}
