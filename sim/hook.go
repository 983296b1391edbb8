package sim

// HookPos names a position in the simulation loop where hooks fire.
type HookPos struct {
	Name string
}

// HookPosBeforeRun triggers once when a run starts, before any event pops.
var HookPosBeforeRun = &HookPos{Name: "BeforeRun"}

// HookPosBeforeEvent triggers before an event is dispatched. Item is the
// *Event about to be handled.
var HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent triggers after an event was dispatched. Item is the
// dispatched *Event; Detail carries the []*Event it produced.
var HookPosAfterEvent = &HookPos{Name: "AfterEvent"}

// HookPosAfterRun triggers once when a run stops. Detail carries the
// RunReport.
var HookPosAfterRun = &HookPos{Name: "AfterRun"}

// HookCtx describes the site that triggered a hook.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// A Hook is a piece of observation logic invoked by a hookable object.
// Hooks observe; they must not schedule events or advance the clock.
type Hook interface {
	Func(ctx HookCtx)
}

// Hookable accepts hooks.
type Hookable interface {
	AcceptHook(hook Hook)
}

// HookableBase implements Hookable for types that embed it.
type HookableBase struct {
	hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// InvokeHook triggers all registered hooks in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}

// NumHooks returns the number of registered hooks.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}
