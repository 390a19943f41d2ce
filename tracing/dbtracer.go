package tracing

import (
	"sync"

	"github.com/sarchlab/vcnoc/datarecording"
)

// The tables that a DBTracer writes.
const (
	TaskTable = "trace_task"
	StepTable = "trace_step"
)

// TaskEntry is a row of the task table.
type TaskEntry struct {
	ID         string
	ParentID   string
	Kind       string
	What       string
	Location   string
	Outcome    string
	StartCycle uint64
	EndCycle   uint64
}

// StepEntry is a row of the step table.
type StepEntry struct {
	TaskID string
	Cycle  uint64
	What   string
}

// DBTracer is a tracer that stores the ended tasks with a data recorder.
// Tasks that end before the start cycle or start after the end cycle are not
// stored. An end cycle of zero means no limit.
type DBTracer struct {
	mu       sync.Mutex
	backend  datarecording.DataRecorder
	tasks    map[string]Task
	startCyc uint64
	endCyc   uint64
}

// NewDBTracer creates a DBTracer and the tables it writes.
func NewDBTracer(backend datarecording.DataRecorder) *DBTracer {
	backend.CreateTable(TaskTable, TaskEntry{})
	backend.CreateTable(StepTable, StepEntry{})

	return &DBTracer{
		backend: backend,
		tasks:   make(map[string]Task),
	}
}

// SetCycleRange limits the tasks that are stored.
func (t *DBTracer) SetCycleRange(start, end uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startCyc = start
	t.endCyc = end
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(task Task) {
	t.startingTaskMustBeValid(task)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.endCyc > 0 && task.StartCycle > t.endCyc {
		return
	}

	t.tasks[task.ID] = task
}

func (t *DBTracer) startingTaskMustBeValid(task Task) {
	if task.ID == "" {
		panic("task ID must be set")
	}

	if task.Kind == "" {
		panic("task kind must be set")
	}

	if task.What == "" {
		panic("task what must be set")
	}

	if task.Where == "" {
		panic("task location must be set")
	}
}

// StepTask adds the steps to a task.
func (t *DBTracer) StepTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	original, ok := t.tasks[task.ID]
	if !ok {
		return
	}

	original.Steps = append(original.Steps, task.Steps...)
	t.tasks[task.ID] = original
}

// EndTask marks the end of a task and stores it.
func (t *DBTracer) EndTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	original, ok := t.tasks[task.ID]
	if !ok {
		return
	}

	delete(t.tasks, task.ID)

	if task.EndCycle < t.startCyc {
		return
	}

	t.backend.InsertData(TaskTable, TaskEntry{
		ID:         original.ID,
		ParentID:   original.ParentID,
		Kind:       original.Kind,
		What:       original.What,
		Location:   original.Where,
		Outcome:    task.Outcome,
		StartCycle: original.StartCycle,
		EndCycle:   task.EndCycle,
	})

	for _, s := range original.Steps {
		t.backend.InsertData(StepTable, StepEntry{
			TaskID: original.ID,
			Cycle:  s.Cycle,
			What:   s.What,
		})
	}
}
