package solve

// HookPos defines the enum of possible hooking positions
type HookPos struct {
	Name string
}

// HookPosSweepEnd triggers after each evaluation sweep over all states.
var HookPosSweepEnd = &HookPos{Name: "SweepEnd"}

// HookPosEvalEnd triggers when an evaluation phase finishes, whether it
// converged or hit the sweep cap.
var HookPosEvalEnd = &HookPos{Name: "EvalEnd"}

// HookPosImproveEnd triggers after each policy improvement pass.
var HookPosImproveEnd = &HookPos{Name: "ImproveEnd"}

// HookCtx is the context that holds all the information about the site
// that a hook is triggered.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos

	// Iteration is the 1-based outer evaluate-improve round.
	Iteration int

	// Sweep is the total evaluation sweep count so far.
	Sweep int

	// Delta is the largest absolute value change of the last sweep.
	Delta float64

	// Changed is the number of states whose action changed in the last
	// improvement pass.
	Changed int
}

// Hookable defines an object that accepts Hooks.
type Hookable interface {
	// AcceptHook registers a hook
	AcceptHook(hook Hook)
}

// Hook is a short piece of program that can be invoked by a hookable
// object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// A HookableBase provides some utility function for other types that
// implement the Hookable interface.
type HookableBase struct {
	Hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.Hooks)
}

// InvokeHook triggers the registered Hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
