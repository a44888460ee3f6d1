package watch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// syncBuffer guards log output written from the watch goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// touchUntil rewrites path until fired receives or the deadline passes.
// Writes made before the watcher is registered are not observed.
func touchUntil(t *testing.T, path string, fired <-chan struct{}) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-fired:
			return
		case <-tick.C:
			if err := os.WriteFile(path, []byte("board x {}\n"), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
		case <-deadline:
			t.Fatal("action was not called")
		}
	}
}

func TestRunCallsActionOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "design.cs")
	if err := os.WriteFile(path, []byte("board x {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fired := make(chan struct{}, 1)
	w, err := New(path, func(ctx context.Context) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	}, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	touchUntil(t, path, fired)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "design.cs")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	fired := make(chan struct{}, 1)
	w, err := New(path, func(ctx context.Context) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	}, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	go func() {
		for i := 0; i < 5; i++ {
			_ = os.WriteFile(filepath.Join(dir, "other.cs"), []byte("x"), 0o644)
			time.Sleep(50 * time.Millisecond)
		}
	}()

	if err := w.Run(ctx); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	select {
	case <-fired:
		t.Error("action called for an unrelated file")
	default:
	}
}

func TestRunLogsActionErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "design.cs")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	var logs syncBuffer
	fired := make(chan struct{}, 1)
	w, err := New(path, func(ctx context.Context) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return errors.New("syntax error")
	}, WithDebounce(10*time.Millisecond), WithLogger(zerolog.New(&logs)))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	touchUntil(t, path, fired)
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run error: %v", err)
	}

	if !strings.Contains(logs.String(), "syntax error") {
		t.Errorf("log = %q, want action error", logs.String())
	}
}

func TestRunMissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "gone", "design.cs"), func(context.Context) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Run(context.Background()); err == nil {
		t.Error("Run expected error for a missing directory")
	}
}
