package tracing

import "sync"

// LatencySummary describes the cycles that a group of tasks took.
type LatencySummary struct {
	Count       uint64
	TotalCycles uint64
	MinCycles   uint64
	MaxCycles   uint64
}

// Average returns the mean cycles per task, or 0 if there is no task.
func (s LatencySummary) Average() float64 {
	if s.Count == 0 {
		return 0
	}

	return float64(s.TotalCycles) / float64(s.Count)
}

func (s *LatencySummary) add(cycles uint64) {
	if s.Count == 0 || cycles < s.MinCycles {
		s.MinCycles = cycles
	}

	s.MaxCycles = max(s.MaxCycles, cycles)
	s.TotalCycles += cycles
	s.Count++
}

// LatencyTracer measures how long tasks take from start to end, overall and
// by outcome. Overlapping tasks are counted separately.
type LatencyTracer struct {
	filter TaskFilter

	lock      sync.Mutex
	inflight  map[string]uint64
	all       LatencySummary
	byOutcome map[string]*LatencySummary
}

// NewLatencyTracer creates a LatencyTracer for the tasks the filter accepts.
// A nil filter accepts every task.
func NewLatencyTracer(filter TaskFilter) *LatencyTracer {
	return &LatencyTracer{
		filter:    filter,
		inflight:  make(map[string]uint64),
		byOutcome: make(map[string]*LatencySummary),
	}
}

// Summary covers every ended task.
func (t *LatencyTracer) Summary() LatencySummary {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.all
}

// Outcome covers the ended tasks with the outcome.
func (t *LatencyTracer) Outcome(outcome string) LatencySummary {
	t.lock.Lock()
	defer t.lock.Unlock()

	s, ok := t.byOutcome[outcome]
	if !ok {
		return LatencySummary{}
	}

	return *s
}

// NumInflight returns the number of tasks that have started but not ended.
func (t *LatencyTracer) NumInflight() int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return len(t.inflight)
}

// StartTask remembers when the task started.
func (t *LatencyTracer) StartTask(task Task) {
	if t.filter != nil && !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.inflight[task.ID] = task.StartCycle
	t.lock.Unlock()
}

// StepTask is ignored.
func (t *LatencyTracer) StepTask(_ Task) {}

// EndTask adds the task to the summaries.
func (t *LatencyTracer) EndTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	startCycle, ok := t.inflight[task.ID]
	if !ok {
		return
	}

	delete(t.inflight, task.ID)

	cycles := uint64(0)
	if task.EndCycle > startCycle {
		cycles = task.EndCycle - startCycle
	}

	t.all.add(cycles)

	s, ok := t.byOutcome[task.Outcome]
	if !ok {
		s = &LatencySummary{}
		t.byOutcome[task.Outcome] = s
	}

	s.add(cycles)
}
