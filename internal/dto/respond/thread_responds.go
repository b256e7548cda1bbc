// Package respond defines the HTTP response bodies.
package respond

import "nimbus_chat_server/internal/model"

// GroupThreadRespond is the snapshot of a group thread returned by the read
// paths. It is also the shape stored in the cache.
type GroupThreadRespond struct {
	ThreadUuid              string            `json:"thread_uuid"`
	GroupId                 string            `json:"group_id"`
	Name                    string            `json:"name"`
	DisplayName             string            `json:"display_name"` // name or the default placeholder
	Avatar                  string            `json:"avatar"`
	MemberUuids             []string          `json:"member_uuids"`
	MemberCnt               int               `json:"member_cnt"`
	Revision                int64             `json:"revision"`
	MentionNotificationMode int8              `json:"mention_notification_mode"`
	MessageDraft            string            `json:"message_draft"`
	MessageDraftBodyRanges  []model.BodyRange `json:"message_draft_body_ranges,omitempty"`
	ShouldThreadBeVisible   bool              `json:"should_thread_be_visible"`
	StoryViewMode           int8              `json:"story_view_mode"`
	LastSentStoryTimestamp  *int64            `json:"last_sent_story_timestamp,omitempty"`
	EditTargetTimestamp     *int64            `json:"edit_target_timestamp,omitempty"`
	LastInteractionRowId    int64             `json:"last_interaction_row_id"`
	CreatedAt               int64             `json:"created_at"` // unix ms
}

// NewGroupThreadRespond builds the snapshot from a persisted thread.
func NewGroupThreadRespond(thread *model.GroupThread) *GroupThreadRespond {
	rsp := &GroupThreadRespond{
		ThreadUuid:              thread.Uuid,
		GroupId:                 thread.GroupModel.GroupId,
		Name:                    thread.GroupModel.Name,
		DisplayName:             thread.GroupNameOrDefault(),
		Avatar:                  thread.GroupModel.Avatar,
		MemberUuids:             thread.GroupModel.MemberUuids(),
		MemberCnt:               thread.GroupModel.MemberCnt,
		Revision:                thread.GroupModel.Revision,
		MentionNotificationMode: thread.MentionNotificationMode,
		MessageDraft:            thread.MessageDraft,
		ShouldThreadBeVisible:   thread.ShouldThreadBeVisible,
		StoryViewMode:           thread.StoryViewMode,
		LastInteractionRowId:    thread.LastInteractionRowId,
		CreatedAt:               thread.CreatedAt.UnixMilli(),
	}
	if ranges, err := model.DecodeBodyRanges(thread.MessageDraftBodyRanges); err == nil {
		rsp.MessageDraftBodyRanges = ranges
	}
	if thread.LastSentStoryTimestamp.Valid {
		ts := thread.LastSentStoryTimestamp.Int64
		rsp.LastSentStoryTimestamp = &ts
	}
	if thread.EditTargetTimestamp.Valid {
		ts := thread.EditTargetTimestamp.Int64
		rsp.EditTargetTimestamp = &ts
	}
	return rsp
}
