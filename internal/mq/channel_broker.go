package mq

import (
	"sync"

	"go.uber.org/zap"

	"nimbus_chat_server/pkg/constants"
)

// ChannelBroker is the standalone-mode broker: events stay in-process and
// are fanned out over a buffered channel. Suitable for a single instance or
// development; multi-instance deployments use KafkaBroker.
type ChannelBroker struct {
	events chan ThreadEvent
	stop   chan struct{}

	mu          sync.RWMutex
	subscribers []Subscriber

	closeOnce sync.Once
}

// NewChannelBroker creates an in-process broker.
func NewChannelBroker() *ChannelBroker {
	return &ChannelBroker{
		events: make(chan ThreadEvent, constants.CHANNEL_SIZE),
		stop:   make(chan struct{}),
	}
}

// Subscribe registers a consumer. Must be called before Start.
func (b *ChannelBroker) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish queues an event for dispatch. When the buffer is full the event is
// dropped with a warning rather than stalling the write path; consumers of
// thread events tolerate gaps because they re-read state on demand.
func (b *ChannelBroker) Publish(ev ThreadEvent) error {
	select {
	case b.events <- ev:
		return nil
	default:
		zap.L().Warn("thread event channel full, dropping event",
			zap.String("type", ev.Type),
			zap.String("threadUuid", ev.ThreadUuid),
		)
		return nil
	}
}

// Start runs the dispatch loop until Close.
func (b *ChannelBroker) Start() {
	for {
		select {
		case ev := <-b.events:
			b.dispatch(ev)
		case <-b.stop:
			// drain what was queued before the stop
			for {
				select {
				case ev := <-b.events:
					b.dispatch(ev)
				default:
					return
				}
			}
		}
	}
}

func (b *ChannelBroker) dispatch(ev ThreadEvent) {
	b.mu.RLock()
	subs := b.subscribers
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// Close stops the dispatch loop. The events channel stays open so a late
// Publish is dropped instead of panicking.
func (b *ChannelBroker) Close() error {
	b.closeOnce.Do(func() {
		close(b.stop)
	})
	return nil
}
