package favorites

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestRun(t *testing.T) {
	newMutation := func(value *int, log *[]string, effectErr error) Mutation[int] {
		return Mutation[int]{
			Get: func() int { return *value },
			Set: func(v int) {
				*log = append(*log, "set")
				*value = v
			},
			Apply: func(prior int) int { return prior + 1 },
			Effect: func(context.Context) error {
				*log = append(*log, "effect")
				return effectErr
			},
			Sync: func(context.Context) { *log = append(*log, "sync") },
		}
	}

	t.Run("keeps the speculative value on success", func(t *testing.T) {
		value, log := 1, []string{}
		if err := Run(context.Background(), newMutation(&value, &log, nil)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if value != 2 {
			t.Errorf("expected 2, got %d", value)
		}
		if want := []string{"set", "effect", "sync"}; !slices.Equal(log, want) {
			t.Errorf("expected order %v, got %v", want, log)
		}
	})

	t.Run("restores the captured value before syncing on failure", func(t *testing.T) {
		boom := errors.New("boom")
		value, log := 1, []string{}
		err := Run(context.Background(), newMutation(&value, &log, boom))
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if value != 1 {
			t.Errorf("expected prior value 1, got %d", value)
		}
		if want := []string{"set", "effect", "set", "sync"}; !slices.Equal(log, want) {
			t.Errorf("expected order %v, got %v", want, log)
		}
	})

	t.Run("restore is verbatim even if the value moved meanwhile", func(t *testing.T) {
		value := 1
		m := Mutation[int]{
			Get:   func() int { return value },
			Set:   func(v int) { value = v },
			Apply: func(prior int) int { return prior + 1 },
			Effect: func(context.Context) error {
				value = 10
				return errors.New("boom")
			},
		}
		Run(context.Background(), m)
		if value != 1 {
			t.Errorf("expected verbatim restore to 1, got %d", value)
		}
	})
}
