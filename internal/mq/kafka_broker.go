package mq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"nimbus_chat_server/internal/config"
)

// KafkaBroker publishes thread events to a Kafka topic and consumes the same
// topic, so updates made by one server instance reach the gateways of every
// instance. Events are keyed by group id to keep per-group ordering.
type KafkaBroker struct {
	writer *kafka.Writer
	reader *kafka.Reader

	mu          sync.RWMutex
	subscribers []Subscriber

	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewKafkaBroker builds the writer/reader pair from config.
func NewKafkaBroker(conf *config.KafkaConfig) *KafkaBroker {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(conf.HostPort),
		Topic:                  conf.ThreadEventTopic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           conf.Timeout * time.Second,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{conf.HostPort},
		Topic:          conf.ThreadEventTopic,
		CommitInterval: conf.Timeout * time.Second,
		GroupID:        "thread_events",
		StartOffset:    kafka.LastOffset,
	})
	return &KafkaBroker{
		writer: writer,
		reader: reader,
	}
}

// Subscribe registers a consumer. Must be called before Start.
func (b *KafkaBroker) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish writes the event to the topic.
func (b *KafkaBroker) Publish(ev ThreadEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(ev.GroupId),
		Value: value,
	})
}

// Start consumes the topic and fans events out to subscribers until Close.
func (b *KafkaBroker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	for {
		msg, err := b.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			zap.L().Error("kafka read thread event", zap.Error(err))
			continue
		}

		var ev ThreadEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			zap.L().Error("unmarshal thread event", zap.Error(err), zap.ByteString("value", msg.Value))
			continue
		}
		b.dispatch(ev)
	}
}

func (b *KafkaBroker) dispatch(ev ThreadEvent) {
	b.mu.RLock()
	subs := b.subscribers
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// Close stops the consume loop and closes the Kafka connections.
func (b *KafkaBroker) Close() error {
	var firstErr error
	b.closeOnce.Do(func() {
		if b.cancel != nil {
			b.cancel()
		}
		if err := b.writer.Close(); err != nil {
			firstErr = err
			zap.L().Error("close kafka writer", zap.Error(err))
		}
		if err := b.reader.Close(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			zap.L().Error("close kafka reader", zap.Error(err))
		}
	})
	return firstErr
}
