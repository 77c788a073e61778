package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestRun_CallsAfterChange(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "aims.md")
	other := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(target, []byte("v0"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	fired := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, []string{target}, 20*time.Millisecond, func() {
			calls.Add(1)
			select {
			case fired <- struct{}{}:
			default:
			}
		})
	}()

	// Writes to unwatched siblings must not trigger.
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(150 * time.Millisecond)
	defer tick.Stop()
	for i := 1; ; i++ {
		select {
		case <-fired:
			cancel()
			if err := <-done; err != nil {
				t.Errorf("Run returned %v, want nil", err)
			}
			if calls.Load() < 1 {
				t.Error("callback not recorded")
			}
			return
		case <-tick.C:
			if err := os.WriteFile(target, []byte{byte('0' + i%10)}, 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("callback never fired")
		}
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(target, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, []string{target}, 0, func() {}) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRun_NoPaths(t *testing.T) {
	if err := Run(context.Background(), nil, 0, func() {}); err == nil {
		t.Error("expected error for no paths")
	}
}
