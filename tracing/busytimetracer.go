package tracing

// BusyTimeTracer counts the cycles in which at least one task is in flight.
// Overlapping tasks are counted once.
type BusyTimeTracer struct {
	filter        TaskFilter
	inflightTasks map[string]struct{}
	busySince     uint64
	busyCycles    uint64
}

// NewBusyTimeTracer creates a new BusyTimeTracer
func NewBusyTimeTracer(filter TaskFilter) *BusyTimeTracer {
	return &BusyTimeTracer{
		filter:        filter,
		inflightTasks: make(map[string]struct{}),
	}
}

// BusyCycles returns the busy cycles of the tasks that have ended.
func (t *BusyTimeTracer) BusyCycles() uint64 {
	return t.busyCycles
}

// TerminateAllTasks ends all the tasks at the cycle.
func (t *BusyTimeTracer) TerminateAllTasks(cycle uint64) {
	if len(t.inflightTasks) == 0 {
		return
	}

	t.busyCycles += cycle - t.busySince
	t.inflightTasks = make(map[string]struct{})
}

// StartTask records the task start time
func (t *BusyTimeTracer) StartTask(task Task) {
	if t.filter != nil && !t.filter(task) {
		return
	}

	if len(t.inflightTasks) == 0 {
		t.busySince = task.StartCycle
	}

	t.inflightTasks[task.ID] = struct{}{}
}

// StepTask does nothing
func (t *BusyTimeTracer) StepTask(_ Task) {
	// Do nothing
}

// EndTask records the end of the task
func (t *BusyTimeTracer) EndTask(task Task) {
	if _, ok := t.inflightTasks[task.ID]; !ok {
		return
	}

	delete(t.inflightTasks, task.ID)

	if len(t.inflightTasks) == 0 {
		t.busyCycles += task.EndCycle - t.busySince
	}
}
