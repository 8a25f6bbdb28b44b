package sim

// HookPos defines the enum of possible hooking positions.
type HookPos struct {
	Name string
}

// HookPosBeforePhase triggers before a stepper phase runs.
var HookPosBeforePhase = &HookPos{Name: "BeforePhase"}

// HookPosAfterPhase triggers after a stepper phase completed.
var HookPosAfterPhase = &HookPos{Name: "AfterPhase"}

// HookCtx holds the information about the site where a hook is invoked.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable defines an object that accepts Hooks.
type Hookable interface {
	// AcceptHook registers a hook.
	AcceptHook(hook Hook)
}

// A Hook is a short piece of program invoked by a hookable object.
type Hook interface {
	Func(ctx HookCtx)
}

// A HookableBase provides the hook bookkeeping for types that implement
// the Hookable interface.
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
