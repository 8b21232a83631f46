package reconcile

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDeferred(t *testing.T) {
	t.Run("runs after the delay", func(t *testing.T) {
		var ran atomic.Int32
		d := Defer(time.Millisecond, func() { ran.Add(1) })
		waitFor(t, d)

		if ran.Load() != 1 {
			t.Errorf("expected one run, got %d", ran.Load())
		}
		if !d.Fired() || d.Pending() {
			t.Error("expected fired and not pending")
		}
		if d.Cancel() {
			t.Error("expected cancel after firing to report false")
		}
	})

	t.Run("cancel stops a pending run", func(t *testing.T) {
		var ran atomic.Int32
		d := Defer(time.Hour, func() { ran.Add(1) })
		if !d.Pending() {
			t.Fatal("expected pending")
		}
		if !d.Cancel() {
			t.Fatal("expected cancel to report true")
		}
		select {
		case <-d.Done():
		default:
			t.Fatal("expected Done to be closed after cancel")
		}
		if d.Fired() || ran.Load() != 0 {
			t.Error("expected no run")
		}
		if d.Cancel() {
			t.Error("expected second cancel to report false")
		}
	})
}
