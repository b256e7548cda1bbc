// Package service defines the business-logic interfaces and their
// aggregation. Handlers depend on these interfaces, never on the concrete
// implementations, so tests can substitute stubs.
package service

import (
	"nimbus_chat_server/internal/dto/request"
	"nimbus_chat_server/internal/dto/respond"
	"nimbus_chat_server/internal/model"
)

// ThreadService is the group-thread surface exposed to handlers. It is
// implemented by groupmgr.GroupManager, the sole owner of group-thread
// mutation.
type ThreadService interface {
	// EnsureGroupThread creates the thread for a newly learned group, or
	// returns the existing one.
	EnsureGroupThread(groupModel model.GroupModel) (*model.GroupThread, error)
	// FetchGroupThread returns the thread snapshot for a group.
	FetchGroupThread(groupId string) (*respond.GroupThreadRespond, error)
	// UpdateGroupModel replaces the stored group model; the flag marks the
	// update as user-facing for chat-list refresh purposes.
	UpdateGroupModel(groupId string, newModel model.GroupModel, shouldUpdateChatListUI bool) error
	// UpdateDraft stores the composer state of a thread.
	UpdateDraft(groupId, draft string, ranges []model.BodyRange, editTargetTimestamp *int64) error
	// SetMentionNotificationMode sets how mentions notify for this thread.
	SetMentionNotificationMode(groupId string, mode int8) error
	// SetStoryViewMode sets who may see stories posted to this thread.
	SetStoryViewMode(groupId string, mode int8) error
	// SetVisible shows or hides the thread in the chat list.
	SetVisible(groupId string, visible bool) error
	// RecordInteraction assigns and returns a new chat-list ordering key.
	RecordInteraction(groupId string) (int64, error)
	// DeleteGroupThread removes a group thread.
	DeleteGroupThread(groupId string) error
}

// AuthService issues and refreshes token pairs.
type AuthService interface {
	// Token exchanges the shared client key for a token pair.
	Token(req request.TokenRequest) (*respond.TokenRespond, error)
	// Refresh redeems a refresh token for a new pair; each refresh token is
	// single-use.
	Refresh(req request.RefreshRequest) (*respond.TokenRespond, error)
}
