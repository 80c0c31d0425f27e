package scheduler

import (
	"context"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/me/taskflow/pkg/model"
)

// Topological is Kahn's algorithm with a FIFO queue: ready tasks run in the
// order they became ready, starting with the roots in input order.
type Topological struct{}

func (Topological) Name() model.StrategyID { return model.StrategyTopological }

func (Topological) Description() string {
	return "Kahn's algorithm, ready tasks in arrival order"
}

func (Topological) UsesDependencies() bool { return true }

func (Topological) Schedule(_ context.Context, req Request) ([]model.ScheduledTask, error) {
	g := req.Graph
	inDegree := g.InDegree()
	tl := newTimeline(req.Now, g.Len())

	queue := linkedlistqueue.New()
	for _, id := range g.Roots() {
		queue.Enqueue(id)
	}

	for !queue.Empty() {
		v, _ := queue.Dequeue()
		id := v.(string)
		t, _ := g.Task(id)
		tl.place(t)

		for _, succ := range g.Dependents(id) {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue.Enqueue(succ)
			}
		}
	}

	if len(tl.schedule()) != g.Len() {
		return nil, model.NewSchedulingError(model.KindCyclicDependency,
			"circular dependency detected in tasks", g.Unresolved(inDegree)...)
	}
	return tl.schedule(), nil
}
