// Package chatlist collapses bursts of thread updates into chat-list
// refresh signals.
//
// Rebuilding the chat list is expensive for clients, so the group manager
// never signals it directly. It enqueues every update here together with a
// flag saying whether the change was user-facing; within a flush window all
// updates for one thread collapse into a single entry whose flag is the OR
// of the individual flags. A refresh is emitted for a thread only when that
// OR is true.
package chatlist

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// entry is the collapsed state of one thread within the current window.
type entry struct {
	updateChatListUI bool // OR of every collapsed update's flag
	collapsed        int  // number of updates collapsed into this entry
}

// Coalescer accumulates thread updates and flushes them on a fixed interval.
type Coalescer struct {
	mu      sync.Mutex
	pending map[string]*entry // thread uuid -> collapsed state

	interval time.Duration
	emit     func(threadUuid string)

	stop     chan struct{}
	stopOnce sync.Once
}

// NewCoalescer creates a coalescer that calls emit once per thread per flush
// for threads whose collapsed batch contained a user-facing update.
func NewCoalescer(interval time.Duration, emit func(threadUuid string)) *Coalescer {
	return &Coalescer{
		pending:  make(map[string]*entry),
		interval: interval,
		emit:     emit,
		stop:     make(chan struct{}),
	}
}

// Enqueue records one thread update. The flag is OR-combined into the
// pending entry, never overwritten: once any update in a batch is
// user-facing, the whole batch is.
func (c *Coalescer) Enqueue(threadUuid string, shouldUpdateChatListUI bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.pending[threadUuid]
	if e == nil {
		e = &entry{}
		c.pending[threadUuid] = e
	}
	e.collapsed++
	e.updateChatListUI = e.updateChatListUI || shouldUpdateChatListUI
}

// Flush emits refreshes for the current batch and starts a new window.
// It returns the number of refreshes emitted.
func (c *Coalescer) Flush() int {
	c.mu.Lock()
	batch := c.pending
	c.pending = make(map[string]*entry)
	c.mu.Unlock()

	emitted := 0
	for uuid, e := range batch {
		if !e.updateChatListUI {
			// every collapsed update was non-user-facing; nothing to redraw
			continue
		}
		c.emit(uuid)
		emitted++
		if e.collapsed > 1 {
			zap.L().Debug("collapsed chat-list updates",
				zap.String("threadUuid", uuid),
				zap.Int("collapsed", e.collapsed),
			)
		}
	}
	return emitted
}

// Start runs the flush loop until Close.
func (c *Coalescer) Start() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Flush()
		case <-c.stop:
			c.Flush()
			return
		}
	}
}

// Close stops the flush loop after one final flush.
func (c *Coalescer) Close() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}
