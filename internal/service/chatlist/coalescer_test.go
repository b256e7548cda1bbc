package chatlist

import (
	"sort"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	emitted []string
}

func (r *recorder) emit(threadUuid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emitted = append(r.emitted, threadUuid)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.emitted))
	copy(out, r.emitted)
	return out
}

func TestFlushCollapsesToSingleRefresh(t *testing.T) {
	rec := &recorder{}
	c := NewCoalescer(time.Hour, rec.emit)

	c.Enqueue("T1", true)
	c.Enqueue("T1", true)
	c.Enqueue("T1", false)

	if n := c.Flush(); n != 1 {
		t.Fatalf("emitted %d refreshes, want 1", n)
	}
	got := rec.snapshot()
	if len(got) != 1 || got[0] != "T1" {
		t.Fatalf("emitted %v, want [T1]", got)
	}
}

func TestFlagIsOrCombinedNotOverwritten(t *testing.T) {
	rec := &recorder{}
	c := NewCoalescer(time.Hour, rec.emit)

	// a user-facing update followed by non-user-facing ones must still refresh
	c.Enqueue("T1", false)
	c.Enqueue("T1", true)
	c.Enqueue("T1", false)

	if n := c.Flush(); n != 1 {
		t.Fatalf("emitted %d refreshes, want 1", n)
	}
}

func TestAllNonUserFacingEmitsNothing(t *testing.T) {
	rec := &recorder{}
	c := NewCoalescer(time.Hour, rec.emit)

	c.Enqueue("T1", false)
	c.Enqueue("T1", false)

	if n := c.Flush(); n != 0 {
		t.Fatalf("emitted %d refreshes, want 0", n)
	}
	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("emitted %v, want none", got)
	}
}

func TestThreadsAreIndependent(t *testing.T) {
	rec := &recorder{}
	c := NewCoalescer(time.Hour, rec.emit)

	c.Enqueue("T1", true)
	c.Enqueue("T2", false)
	c.Enqueue("T3", true)

	if n := c.Flush(); n != 2 {
		t.Fatalf("emitted %d refreshes, want 2", n)
	}
	got := rec.snapshot()
	sort.Strings(got)
	if len(got) != 2 || got[0] != "T1" || got[1] != "T3" {
		t.Fatalf("emitted %v, want [T1 T3]", got)
	}
}

func TestFlushStartsNewWindow(t *testing.T) {
	rec := &recorder{}
	c := NewCoalescer(time.Hour, rec.emit)

	c.Enqueue("T1", true)
	c.Flush()

	// the flag from the previous window must not leak into the next one
	c.Enqueue("T1", false)
	if n := c.Flush(); n != 0 {
		t.Fatalf("emitted %d refreshes after window reset, want 0", n)
	}
}

func TestCloseFlushesPending(t *testing.T) {
	rec := &recorder{}
	c := NewCoalescer(time.Hour, rec.emit)

	done := make(chan struct{})
	go func() {
		c.Start()
		close(done)
	}()

	c.Enqueue("T1", true)
	c.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Close")
	}
	if got := rec.snapshot(); len(got) != 1 || got[0] != "T1" {
		t.Fatalf("emitted %v, want [T1]", got)
	}
}
