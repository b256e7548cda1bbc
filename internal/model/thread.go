// Package model defines the persisted records.
// This file defines the base thread state shared by every conversation kind.
package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// Thread holds the per-conversation state that is independent of the
// conversation kind: ordering key, notification settings, the message draft
// and visibility. It is embedded by concrete thread records such as
// GroupThread and never mapped to a table of its own.
type Thread struct {
	gorm.Model // ID, CreatedAt (creation date), UpdatedAt, DeletedAt (soft delete)

	// Uuid is the thread's unique identifier, format: T + timestamped random
	// string. It is the key carried by thread notifications.
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);not null"`

	// LastInteractionRowId orders threads in the chat list. It is the
	// snowflake ID of the most recent interaction and only ever increases.
	LastInteractionRowId int64 `gorm:"column:last_interaction_row_id;index;not null;default:0"`

	// MentionNotificationMode, see pkg/enum/thread/mention_mode_enum.
	MentionNotificationMode int8 `gorm:"column:mention_notification_mode;not null;default:0"`

	// MessageDraft is the unsent composer text for this thread.
	MessageDraft string `gorm:"column:message_draft;type:TEXT"`

	// MessageDraftBodyRanges is the JSON-encoded []BodyRange describing
	// formatting and mentions inside MessageDraft.
	MessageDraftBodyRanges string `gorm:"column:message_draft_body_ranges;type:TEXT"`

	// ShouldThreadBeVisible controls whether the thread appears in the chat
	// list at all. Threads learned about passively start hidden.
	ShouldThreadBeVisible bool `gorm:"column:should_thread_be_visible;not null;default:false"`

	// StoryViewMode, see pkg/enum/thread/story_view_mode_enum.
	StoryViewMode int8 `gorm:"column:story_view_mode;not null;default:0"`

	// LastSentStoryTimestamp is the unix-ms timestamp of the last story sent
	// to this thread, null when none was ever sent.
	LastSentStoryTimestamp sql.NullInt64 `gorm:"column:last_sent_story_timestamp"`

	// EditTargetTimestamp points at the message currently being edited in the
	// composer, null when the draft is a fresh message.
	EditTargetTimestamp sql.NullInt64 `gorm:"column:edit_target_timestamp"`

	// The columns below are kept so rows written by earlier releases still
	// decode. New logic must not read or write them; their concerns moved to
	// per-user association records.
	ConversationColorNameObsolete               string       `gorm:"column:conversation_color_name_obsolete;type:varchar(50)"`
	IsArchivedObsolete                          bool         `gorm:"column:is_archived_obsolete;not null;default:false"`
	IsMarkedUnreadObsolete                      bool         `gorm:"column:is_marked_unread_obsolete;not null;default:false"`
	MutedUntilDateObsolete                      sql.NullTime `gorm:"column:muted_until_date_obsolete"`
	MutedUntilTimestampObsolete                 int64        `gorm:"column:muted_until_timestamp_obsolete;not null;default:0"`
	LastVisibleSortIdObsolete                   int64        `gorm:"column:last_visible_sort_id_obsolete;not null;default:0"`
	LastVisibleSortIdOnScreenPercentageObsolete float64      `gorm:"column:last_visible_sort_id_on_screen_percentage_obsolete;not null;default:0"`
}
