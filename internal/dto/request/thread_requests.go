// Package request defines the HTTP request bodies.
package request

import "nimbus_chat_server/internal/model"

// EnsureGroupThreadRequest creates the thread for a newly learned group, or
// returns the existing one.
type EnsureGroupThreadRequest struct {
	GroupId     string   `json:"group_id" binding:"required"`
	Name        string   `json:"name"`
	Avatar      string   `json:"avatar"`
	MemberUuids []string `json:"member_uuids"`
	Revision    int64    `json:"revision" binding:"min=0"`
}

// UpdateGroupModelRequest replaces the stored group model of a thread.
// ShouldUpdateChatListUi marks the change as user-facing; it is OR-combined
// with other updates collapsed into the same refresh window.
type UpdateGroupModelRequest struct {
	GroupId                string   `json:"group_id" binding:"required"`
	Name                   string   `json:"name"`
	Avatar                 string   `json:"avatar"`
	MemberUuids            []string `json:"member_uuids"`
	Revision               int64    `json:"revision" binding:"min=0"`
	ShouldUpdateChatListUi bool     `json:"should_update_chat_list_ui"`
}

// UpdateDraftRequest stores the composer state of a thread.
type UpdateDraftRequest struct {
	GroupId             string            `json:"group_id" binding:"required"`
	Draft               string            `json:"draft"`
	BodyRanges          []model.BodyRange `json:"body_ranges"`
	EditTargetTimestamp *int64            `json:"edit_target_timestamp"`
}

// SetMentionNotificationModeRequest sets the mention notification mode.
type SetMentionNotificationModeRequest struct {
	GroupId string `json:"group_id" binding:"required"`
	Mode    int8   `json:"mode" binding:"min=0,max=2"`
}

// SetStoryViewModeRequest sets the story view mode.
type SetStoryViewModeRequest struct {
	GroupId string `json:"group_id" binding:"required"`
	Mode    int8   `json:"mode" binding:"min=0,max=3"`
}

// SetVisibleRequest shows or hides the thread in the chat list.
type SetVisibleRequest struct {
	GroupId string `json:"group_id" binding:"required"`
	Visible bool   `json:"visible"`
}

// RecordInteractionRequest bumps the thread's chat-list ordering key.
type RecordInteractionRequest struct {
	GroupId string `json:"group_id" binding:"required"`
}

// DeleteGroupThreadRequest removes a group thread.
type DeleteGroupThreadRequest struct {
	GroupId string `json:"group_id" binding:"required"`
}
