package sim

// HookPos names a point in the phase loop where hooks fire.
type HookPos struct {
	Name string
}

// HookPosAfterAdvance fires after phase A moved the clock.
var HookPosAfterAdvance = &HookPos{Name: "AfterAdvance"}

// HookPosAfterEvent fires after each event dispatched in phase B.
var HookPosAfterEvent = &HookPos{Name: "AfterEvent"}

// HookPosAfterServiceStarts fires at the end of phase C.
var HookPosAfterServiceStarts = &HookPos{Name: "AfterServiceStarts"}

// HookCtx describes the site a hook was triggered from.
type HookCtx struct {
	Pos  *HookPos
	Now  float64
	Item any // the dispatched Event for HookPosAfterEvent, nil otherwise
}

// Hook is invoked synchronously on the engine goroutine. Hooks must not
// mutate engine or station state.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to Hook.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) { f(ctx) }

// HookableBase stores hooks and invokes them in registration order.
type HookableBase struct {
	Hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// InvokeHook triggers the registered hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
