package sim

// HookPos names a point where hooks are invoked.
type HookPos struct {
	Name string
}

// HookCtx describes one hook invocation. What Item and Detail hold depends on
// the position.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// Hookable is implemented by everything that hooks can observe.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
	InvokeHook(ctx HookCtx)
}

// Hook observes a Hookable.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc turns a function into a Hook. A HookFunc cannot be compared, so
// the same function can be accepted more than once.
type HookFunc func(ctx HookCtx)

// Func calls f.
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// HookableBase keeps the hooks of a Hookable.
type HookableBase struct {
	Hooks []Hook
}

// AcceptHook adds a hook. Accepting the same hook twice panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	if _, isFunc := hook.(HookFunc); !isFunc {
		for _, existing := range h.Hooks {
			if existing == hook {
				panic("duplicated hook")
			}
		}
	}

	h.Hooks = append(h.Hooks, hook)
}

// NumHooks returns the number of hooks.
func (h *HookableBase) NumHooks() int {
	return len(h.Hooks)
}

// InvokeHook calls the hooks in the order they were accepted.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
