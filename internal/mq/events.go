// Package mq carries thread events between the group manager and its
// consumers (websocket gateway, peer instances). Two broker implementations
// exist: an in-process channel broker and a Kafka broker; config selects one.
package mq

import "time"

// Thread event types.
const (
	// EventAvatarChanged fires when a group model update changed the group
	// avatar. Consumers that render the avatar must drop their cached copy.
	EventAvatarChanged = "avatar_changed"
	// EventChatListRefresh fires when a collapsed batch of thread updates
	// contained at least one user-facing change.
	EventChatListRefresh = "chat_list_refresh"
)

// ThreadEvent is the wire record for a thread notification. ThreadUuid is
// the key identifying the affected record.
type ThreadEvent struct {
	Id         int64  `json:"id"`   // snowflake, unique per event
	Type       string `json:"type"` // one of the Event* constants
	ThreadUuid string `json:"thread_uuid"`
	GroupId    string `json:"group_id,omitempty"`
	Timestamp  int64  `json:"timestamp"` // unix ms at publish time
}

// NewThreadEvent stamps an event with the current time.
func NewThreadEvent(id int64, eventType, threadUuid, groupId string) ThreadEvent {
	return ThreadEvent{
		Id:         id,
		Type:       eventType,
		ThreadUuid: threadUuid,
		GroupId:    groupId,
		Timestamp:  time.Now().UnixMilli(),
	}
}

// Subscriber consumes delivered events. Subscribers run on the broker's
// dispatch goroutine and must not block.
type Subscriber func(ev ThreadEvent)

// Broker publishes thread events and fans them out to subscribers.
type Broker interface {
	// Publish hands an event to the broker.
	Publish(ev ThreadEvent) error
	// Subscribe registers a consumer. Must be called before Start.
	Subscribe(fn Subscriber)
	// Start runs the dispatch loop until Close.
	Start()
	// Close stops dispatching and releases broker resources.
	Close() error
}
