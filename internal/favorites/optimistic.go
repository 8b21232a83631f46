package favorites

import "context"

// Mutation describes one optimistic update of a value of type T.
type Mutation[T any] struct {
	// Get captures the current value.
	Get func() T
	// Set installs a value.
	Set func(T)
	// Apply derives the speculative value from the captured one.
	Apply func(prior T) T
	// Effect performs the remote write.
	Effect func(ctx context.Context) error
	// Sync re-reads the authoritative value after settlement. Optional.
	Sync func(ctx context.Context)
}

// Run applies m optimistically.
//
// The speculative value is installed before Effect runs. If Effect fails the captured value is restored verbatim,
// never re-derived, so overlapping mutations cannot double-flip. Sync always runs last, after any restore.
func Run[T any](ctx context.Context, m Mutation[T]) error {
	prior := m.Get()
	m.Set(m.Apply(prior))

	err := m.Effect(ctx)
	if err != nil {
		m.Set(prior)
	}

	if m.Sync != nil {
		m.Sync(ctx)
	}
	return err
}
