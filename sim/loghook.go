package sim

import (
	"log"
)

// LogHookBase is embedded by the hooks that write into a logger.
type LogHookBase struct {
	*log.Logger
}

// EdgeLogger is an engine hook that writes one line per clock edge. Other
// events are written with their type and handler.
type EdgeLogger struct {
	LogHookBase
}

// NewEdgeLogger creates an EdgeLogger that writes into logger.
func NewEdgeLogger(logger *log.Logger) *EdgeLogger {
	return &EdgeLogger{LogHookBase: LogHookBase{Logger: logger}}
}

// Func writes the event that is about to be handled.
func (h *EdgeLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	switch evt := ctx.Item.(type) {
	case *EdgeEvent:
		name := "?"
		if named, ok := evt.Handler().(Named); ok {
			name = named.Name()
		}

		h.Printf("%.10f, %s, cycle %d, %s edge",
			evt.Time(), name, evt.Cycle, evt.Edge)
	case Event:
		h.Printf("%.10f, %T", evt.Time(), evt)
	}
}
