package cancel_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/M2SiCKneSs/gzoltar-tdp-demo/pkg/cancel"
)

func TestCancelDirectlyClosesContext(t *testing.T) {
	c := cancel.New(cancel.Config{})
	if c.Cancelled() {
		t.Fatal("Cancelled() = true before any trigger")
	}

	c.Cancel("manual")

	select {
	case <-c.Context().Done():
	default:
		t.Fatal("Context() not cancelled after Cancel()")
	}
	if !c.Cancelled() {
		t.Fatal("Cancelled() = false after Cancel()")
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	c := cancel.New(cancel.Config{})
	var calls int
	c.OnCancel(func(reason string) { calls++ })

	c.Cancel("first")
	c.Cancel("second")

	if calls != 1 {
		t.Fatalf("OnCancel invoked %d times, want 1", calls)
	}
}

func TestStopFileTriggersCancellation(t *testing.T) {
	stopFile := filepath.Join(t.TempDir(), "stop")
	c := cancel.New(cancel.Config{StopFile: stopFile, PollInterval: 10 * time.Millisecond})

	watchCtx, stop := context.WithCancel(context.Background())
	defer stop()
	c.Start(watchCtx)

	if err := os.WriteFile(stopFile, []byte("stop"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-c.Context().Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Context() not cancelled after stop file appeared")
	}
}

func TestOnCancelReceivesReason(t *testing.T) {
	c := cancel.New(cancel.Config{})
	var got string
	c.OnCancel(func(reason string) { got = reason })

	c.Cancel("operator requested stop")
	if got != "operator requested stop" {
		t.Fatalf("OnCancel reason = %q, want %q", got, "operator requested stop")
	}
}
