package kernel

import "time"

// TaskStats describes one registered task and its dispatch history.
type TaskStats struct {
	Name       string
	Priority   Priority
	Period     time.Duration
	StackBytes uint32

	Dispatches   uint64
	LastDispatch uint64
	// Overruns counts dispatches that started more than one period late.
	Overruns uint64
}

// Stats returns task statistics in priority order.
func (k *Kernel) Stats() []TaskStats {
	k.mu.Lock()
	defer k.mu.Unlock()

	out := make([]TaskStats, 0, len(k.order))
	for _, id := range k.order {
		out = append(out, k.tasks[id].stats)
	}
	return out
}
