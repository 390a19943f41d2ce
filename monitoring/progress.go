package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/sarchlab/vcnoc/noc/messaging"
	"github.com/sarchlab/vcnoc/noc/standalone"
	"github.com/sarchlab/vcnoc/sim"
)

// A ProgressBar counts finished and in-progress work items.
type ProgressBar struct {
	sync.Mutex
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// IncrementInProgress adds started items.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress += amount
}

// IncrementFinished adds items that finished without being started.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// MoveInProgressToFinished marks started items as finished.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress -= amount
	b.Finished += amount
}

// CreateProgressBar adds a bar to /api/progress.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from /api/progress.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	kept := m.progressBars[:0]
	for _, b := range m.progressBars {
		if b != pb {
			kept = append(kept, b)
		}
	}

	m.progressBars = kept
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	writeJSON(w, m.progressBars)
}

// TrackCycles creates a bar that finishes one item per clock cycle.
func (m *Monitor) TrackCycles(clock *sim.Clock, total uint64) *ProgressBar {
	bar := m.CreateProgressBar(clock.Name(), total)

	clock.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
		if ctx.Pos == sim.HookPosCycleEnd {
			bar.IncrementFinished(1)
		}
	}))

	return bar
}

// TrackPackets creates a bar of the packets that the agents exchange. A
// packet is in progress from its head flit leaving the source agent until its
// tail flit reaches the destination agent.
func (m *Monitor) TrackPackets(
	name string,
	total uint64,
	agents ...*standalone.Agent,
) *ProgressBar {
	bar := m.CreateProgressBar(name, total)

	hook := sim.HookFunc(func(ctx sim.HookCtx) {
		flit, ok := ctx.Item.(*messaging.Flit)
		if !ok {
			return
		}

		switch {
		case ctx.Pos == standalone.HookPosAgentSend &&
			flit.Type == messaging.Head:
			bar.IncrementInProgress(1)
		case ctx.Pos == standalone.HookPosAgentRecv &&
			flit.Type == messaging.Tail:
			bar.MoveInProgressToFinished(1)
		}
	})

	for _, a := range agents {
		a.AcceptHook(hook)
	}

	return bar
}
