package scheduler

import (
	"context"

	"github.com/emirpasic/gods/queues/priorityqueue"
	"github.com/me/taskflow/pkg/model"
)

// PriorityQueue is Kahn's algorithm with a priority queue of ready tasks:
// the most important ready task runs next. Among equally important tasks the
// one with the least deadline slack wins, slack being measured from the
// cursor at the moment the task became ready; remaining ties go to the task
// that became ready first.
type PriorityQueue struct{}

func (PriorityQueue) Name() model.StrategyID { return model.StrategyPriorityQueue }

func (PriorityQueue) Description() string {
	return "Kahn's algorithm, highest-importance ready task first"
}

func (PriorityQueue) UsesDependencies() bool { return true }

type readyTask struct {
	id         string
	importance int
	slack      float64 // minutes
	seq        int
}

// byUrgency orders readyTask values for a min-heap: the urgent task is "smallest".
func byUrgency(a, b interface{}) int {
	x, y := a.(readyTask), b.(readyTask)
	switch {
	case x.importance != y.importance:
		if x.importance > y.importance {
			return -1
		}
		return 1
	case x.slack != y.slack:
		if x.slack < y.slack {
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

func (PriorityQueue) Schedule(_ context.Context, req Request) ([]model.ScheduledTask, error) {
	g := req.Graph
	inDegree := g.InDegree()
	tl := newTimeline(req.Now, g.Len())
	queue := priorityqueue.NewWith(byUrgency)

	seq := 0
	push := func(id string) {
		t, _ := g.Task(id)
		queue.Enqueue(readyTask{
			id:         id,
			importance: t.EffectiveImportance(),
			slack:      t.DeadlineOr(req.Now).Sub(tl.cursor).Minutes(),
			seq:        seq,
		})
		seq++
	}

	for _, id := range g.Roots() {
		push(id)
	}

	for !queue.Empty() {
		v, _ := queue.Dequeue()
		id := v.(readyTask).id
		t, _ := g.Task(id)
		tl.place(t)

		for _, succ := range g.Dependents(id) {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				push(succ)
			}
		}
	}

	if scheduled := tl.schedule(); len(scheduled) != g.Len() {
		return nil, model.NewSchedulingError(model.KindCyclicDependency,
			"circular dependency detected in tasks", g.Unresolved(inDegree)...)
	}
	return tl.schedule(), nil
}
