package shutdown

import (
	"context"
	"errors"
	"testing"
)

// TestRunCleanupPriorityOrder verifies lower priorities run first.
func TestRunCleanupPriorityOrder(t *testing.T) {
	registry := NewRegistry()
	var order []string

	registry.Register("database", 30, func(ctx context.Context) error {
		order = append(order, "database")
		return nil
	})
	registry.Register("logger", 5, func(ctx context.Context) error {
		order = append(order, "logger")
		return nil
	})
	registry.Register("workers", 20, func(ctx context.Context) error {
		order = append(order, "workers")
		return nil
	})

	if errs := registry.RunCleanup(context.Background()); len(errs) != 0 {
		t.Fatalf("RunCleanup() errors = %v, want none", errs)
	}

	want := []string{"logger", "workers", "database"}
	if len(order) != len(want) {
		t.Fatalf("ran %d functions, want %d", len(order), len(want))
	}
	for i, name := range want {
		if order[i] != name {
			t.Errorf("order[%d] = %q, want %q", i, order[i], name)
		}
	}
}

// TestRunCleanupCollectsErrors verifies all functions run despite failures.
func TestRunCleanupCollectsErrors(t *testing.T) {
	registry := NewRegistry()
	ran := 0

	registry.Register("failing", 10, func(ctx context.Context) error {
		ran++
		return errors.New("close failed")
	})
	registry.Register("ok", 20, func(ctx context.Context) error {
		ran++
		return nil
	})

	errs := registry.RunCleanup(context.Background())
	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1", len(errs))
	}
	if ran != 2 {
		t.Errorf("ran = %d, want 2", ran)
	}
	if errs[0].Error() != "failing: close failed" {
		t.Errorf("errs[0] = %q", errs[0].Error())
	}
}

// TestRunCleanupOnlyOnce verifies the registry closes after the first run.
func TestRunCleanupOnlyOnce(t *testing.T) {
	registry := NewRegistry()
	ran := 0
	registry.Register("once", 10, func(ctx context.Context) error {
		ran++
		return nil
	})

	registry.RunCleanup(context.Background())
	if errs := registry.RunCleanup(context.Background()); errs != nil {
		t.Errorf("second RunCleanup() = %v, want nil", errs)
	}
	if ran != 1 {
		t.Errorf("ran = %d, want 1", ran)
	}

	// Registration after close is ignored.
	registry.Register("late", 10, func(ctx context.Context) error { return nil })
	if registry.Len() != 1 {
		t.Errorf("Len() = %d, want 1", registry.Len())
	}
}

// TestSignalCounterForceThreshold verifies the force callback fires at the
// configured count.
func TestSignalCounterForceThreshold(t *testing.T) {
	forced := false
	counter := NewSignalCounter(2, func() { forced = true })

	if count := counter.Increment(); count != 1 {
		t.Errorf("first Increment() = %d, want 1", count)
	}
	if forced {
		t.Error("force callback fired after first signal")
	}

	if count := counter.Increment(); count != 2 {
		t.Errorf("second Increment() = %d, want 2", count)
	}
	if !forced {
		t.Error("force callback did not fire after second signal")
	}
}
