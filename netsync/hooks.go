package netsync

// WorldApplier receives every snapshot payload, in tick order, exactly once.
type WorldApplier[T any] interface {
	ApplyDelta(payload T)
}

// Renderer is called once per synced frame with the bracketing payloads.
type Renderer[T any] interface {
	RenderFrame(from, to T, fraction float64)
}

// Predictor runs one local-only simulation step.
type Predictor interface {
	Step()
}

type ApplyFunc[T any] func(payload T)

func (f ApplyFunc[T]) ApplyDelta(payload T) { f(payload) }

type RenderFunc[T any] func(from, to T, fraction float64)

func (f RenderFunc[T]) RenderFrame(from, to T, fraction float64) { f(from, to, fraction) }

type StepFunc func()

func (f StepFunc) Step() { f() }

// Hooks are the engine's collaborators. Any of them may be nil.
type Hooks[T any] struct {
	World     WorldApplier[T]
	Renderer  Renderer[T]
	Predictor Predictor
}
