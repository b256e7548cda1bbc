// Package groupmgr owns the lifecycle of group threads.
//
// GroupManager is the only component allowed to create or mutate a
// GroupThread. Every mutation runs inside a write transaction, keeps the
// GroupMember mirror in sync with the group model, invalidates the cache and
// feeds downstream signals: an avatar-changed event when the update touched
// the avatar, and a chat-list refresh enqueued with the update's
// user-facing flag.
package groupmgr

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nimbus_chat_server/internal/dao/mysql/repository"
	myredis "nimbus_chat_server/internal/dao/redis"
	"nimbus_chat_server/internal/dto/respond"
	"nimbus_chat_server/internal/model"
	"nimbus_chat_server/internal/mq"
	"nimbus_chat_server/internal/service/chatlist"
	"nimbus_chat_server/pkg/enum/thread/mention_mode_enum"
	"nimbus_chat_server/pkg/enum/thread/story_view_mode_enum"
	"nimbus_chat_server/pkg/errorx"
	"nimbus_chat_server/pkg/util/random"
	"nimbus_chat_server/pkg/util/snowflake"
)

const threadCacheTTL = 24 * time.Hour

func threadCacheKey(groupId string) string {
	return "group_thread_" + groupId
}

// GroupManager coordinates group thread creation and mutation.
type GroupManager struct {
	repos    *repository.Repositories
	cache    myredis.AsyncCacheService
	broker   mq.Broker
	chatList *chatlist.Coalescer
}

// NewGroupManager wires the manager's dependencies.
func NewGroupManager(
	repos *repository.Repositories,
	cache myredis.AsyncCacheService,
	broker mq.Broker,
	chatList *chatlist.Coalescer,
) *GroupManager {
	return &GroupManager{
		repos:    repos,
		cache:    cache,
		broker:   broker,
		chatList: chatList,
	}
}

// EnsureGroupThread returns the thread for groupModel's group, creating it
// when the group is learned about for the first time. Creation is
// transactional (thread row plus member mirror) and idempotent: a concurrent
// create loses the race on the group_id unique index and falls back to the
// winner's row.
func (g *GroupManager) EnsureGroupThread(groupModel model.GroupModel) (*model.GroupThread, error) {
	if groupModel.GroupId == "" {
		return nil, errorx.ErrInvalidParam
	}

	existing, err := g.repos.Thread.FindByGroupId(groupModel.GroupId)
	if err == nil {
		return existing, nil
	}
	if !errorx.IsNotFound(err) {
		zap.L().Error("find group thread", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	thread := &model.GroupThread{
		Thread: model.Thread{
			Uuid: fmt.Sprintf("T%s", random.GetNowAndLenRandomString(13)),
		},
		GroupModel: groupModel,
	}

	err = g.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Thread.Create(thread); err != nil {
			return err
		}
		return txRepos.GroupMember.ReplaceForGroup(groupModel.GroupId, thread.Uuid, groupModel.MemberUuids())
	})
	if err != nil {
		// lost a creation race: the unique index rejected our row, take the winner's
		if winner, findErr := g.repos.Thread.FindByGroupId(groupModel.GroupId); findErr == nil {
			return winner, nil
		}
		zap.L().Error("create group thread", zap.Error(err), zap.String("groupId", groupModel.GroupId))
		return nil, errorx.ErrServerBusy
	}

	g.invalidate(groupModel.GroupId)
	return thread, nil
}

// UpdateGroupModel replaces the stored group model of a thread.
//
// shouldUpdateChatListUI marks the update as user-facing. The flag is handed
// to the chat-list coalescer, which ORs it across all updates collapsed into
// one refresh window, so a batch fires a refresh when any one of its updates
// was user-facing.
func (g *GroupManager) UpdateGroupModel(groupId string, newModel model.GroupModel, shouldUpdateChatListUI bool) error {
	if groupId == "" {
		return errorx.ErrInvalidParam
	}
	if newModel.GroupId != "" && newModel.GroupId != groupId {
		// the group model's identity is immutable
		return errorx.ErrInvalidParam
	}
	newModel.GroupId = groupId

	var threadUuid string
	var avatarChanged bool

	err := g.repos.Transaction(func(txRepos *repository.Repositories) error {
		thread, err := txRepos.Thread.FindByGroupId(groupId)
		if err != nil {
			return err
		}
		if newModel.Revision < thread.GroupModel.Revision {
			return errorx.Newf(errorx.CodeConflict,
				"stale group revision %d, stored %d", newModel.Revision, thread.GroupModel.Revision)
		}

		threadUuid = thread.Uuid
		avatarChanged = thread.GroupModel.AvatarDiffers(&newModel)

		thread.GroupModel = newModel
		if err := txRepos.Thread.Save(thread); err != nil {
			return err
		}
		return txRepos.GroupMember.ReplaceForGroup(groupId, thread.Uuid, newModel.MemberUuids())
	})
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeConflict || errorx.IsNotFound(err) {
			return err
		}
		zap.L().Error("update group model", zap.Error(err), zap.String("groupId", groupId))
		return errorx.ErrServerBusy
	}

	if avatarChanged {
		ev := mq.NewThreadEvent(snowflake.GenerateID(), mq.EventAvatarChanged, threadUuid, groupId)
		if err := g.broker.Publish(ev); err != nil {
			zap.L().Error("publish avatar-changed event", zap.Error(err), zap.String("threadUuid", threadUuid))
		}
	}
	g.chatList.Enqueue(threadUuid, shouldUpdateChatListUI)
	g.invalidate(groupId)
	return nil
}

// FetchGroupThread returns the thread snapshot for a group, serving from the
// cache when possible.
func (g *GroupManager) FetchGroupThread(groupId string) (*respond.GroupThreadRespond, error) {
	cacheKey := threadCacheKey(groupId)

	cached, err := g.cache.Get(context.Background(), cacheKey)
	if err == nil && cached != "" {
		var rsp respond.GroupThreadRespond
		if err := json.Unmarshal([]byte(cached), &rsp); err == nil {
			return &rsp, nil
		}
		zap.L().Warn("unmarshal cached group thread, fallback to DB", zap.String("groupId", groupId))
	} else if err != nil {
		// cache trouble is never a reason to fail a read
		zap.L().Error("redis get group thread", zap.Error(err))
	}

	thread, err := g.repos.Thread.FindByGroupId(groupId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, err
		}
		zap.L().Error("find group thread", zap.Error(err), zap.String("groupId", groupId))
		return nil, errorx.ErrServerBusy
	}

	rsp := respond.NewGroupThreadRespond(thread)

	g.cache.SubmitTask(func() {
		raw, err := json.Marshal(rsp)
		if err != nil {
			zap.L().Error("marshal group thread for cache", zap.Error(err))
			return
		}
		if err := g.cache.Set(context.Background(), cacheKey, string(raw), threadCacheTTL); err != nil {
			zap.L().Error("set group thread cache", zap.Error(err))
		}
	})

	return rsp, nil
}

// UpdateDraft stores the composer state of a thread. Draft changes are
// enqueued as non-user-facing: alone they never force a chat-list rebuild,
// but they still collapse into a window that another update may have marked.
func (g *GroupManager) UpdateDraft(groupId, draft string, ranges []model.BodyRange, editTargetTimestamp *int64) error {
	encoded, err := model.EncodeBodyRanges(ranges)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeInvalidParam, "encode body ranges")
	}

	updates := map[string]interface{}{
		"message_draft":             draft,
		"message_draft_body_ranges": encoded,
	}
	if editTargetTimestamp != nil {
		updates["edit_target_timestamp"] = *editTargetTimestamp
	} else {
		updates["edit_target_timestamp"] = nil
	}

	threadUuid, err := g.updateColumns(groupId, updates)
	if err != nil {
		return err
	}
	g.chatList.Enqueue(threadUuid, false)
	return nil
}

// SetMentionNotificationMode sets how mentions notify for this thread.
func (g *GroupManager) SetMentionNotificationMode(groupId string, mode int8) error {
	if mode < mention_mode_enum.DEFAULT || mode > mention_mode_enum.NEVER {
		return errorx.ErrInvalidParam
	}
	_, err := g.updateColumns(groupId, map[string]interface{}{
		"mention_notification_mode": mode,
	})
	return err
}

// SetStoryViewMode sets who may see stories posted to this thread.
func (g *GroupManager) SetStoryViewMode(groupId string, mode int8) error {
	if mode < story_view_mode_enum.NONE || mode > story_view_mode_enum.DISABLED {
		return errorx.ErrInvalidParam
	}
	_, err := g.updateColumns(groupId, map[string]interface{}{
		"story_view_mode": mode,
	})
	return err
}

// SetVisible shows or hides the thread in the chat list. Visibility is by
// definition user-facing, so the refresh flag is set.
func (g *GroupManager) SetVisible(groupId string, visible bool) error {
	threadUuid, err := g.updateColumns(groupId, map[string]interface{}{
		"should_thread_be_visible": visible,
	})
	if err != nil {
		return err
	}
	g.chatList.Enqueue(threadUuid, true)
	return nil
}

// RecordInteraction assigns a new ordering key to the thread and returns it.
// The key only ever increases; an interaction reorders the chat list, so the
// refresh flag is set.
func (g *GroupManager) RecordInteraction(groupId string) (int64, error) {
	thread, err := g.repos.Thread.FindByGroupId(groupId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return 0, err
		}
		zap.L().Error("find group thread", zap.Error(err), zap.String("groupId", groupId))
		return 0, errorx.ErrServerBusy
	}

	rowId := snowflake.GenerateID()
	if err := g.repos.Thread.TouchLastInteraction(thread.Uuid, rowId); err != nil {
		zap.L().Error("touch last interaction", zap.Error(err), zap.String("threadUuid", thread.Uuid))
		return 0, errorx.ErrServerBusy
	}

	g.chatList.Enqueue(thread.Uuid, true)
	g.invalidate(groupId)
	return rowId, nil
}

// DeleteGroupThread soft-deletes the thread and removes its member mirror.
func (g *GroupManager) DeleteGroupThread(groupId string) error {
	var threadUuid string
	err := g.repos.Transaction(func(txRepos *repository.Repositories) error {
		thread, err := txRepos.Thread.FindByGroupId(groupId)
		if err != nil {
			return err
		}
		threadUuid = thread.Uuid
		if err := txRepos.Thread.SoftDeleteByGroupId(groupId); err != nil {
			return err
		}
		return txRepos.GroupMember.DeleteByGroupId(groupId)
	})
	if err != nil {
		if errorx.IsNotFound(err) {
			return err
		}
		zap.L().Error("delete group thread", zap.Error(err), zap.String("groupId", groupId))
		return errorx.ErrServerBusy
	}

	g.chatList.Enqueue(threadUuid, true)
	g.invalidate(groupId)
	return nil
}

// updateColumns loads the thread, applies the column updates and invalidates
// the cache. Returns the thread uuid for follow-up signals.
func (g *GroupManager) updateColumns(groupId string, updates map[string]interface{}) (string, error) {
	if groupId == "" {
		return "", errorx.ErrInvalidParam
	}

	thread, err := g.repos.Thread.FindByGroupId(groupId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return "", err
		}
		zap.L().Error("find group thread", zap.Error(err), zap.String("groupId", groupId))
		return "", errorx.ErrServerBusy
	}

	if err := g.repos.Thread.UpdateColumns(thread.Uuid, updates); err != nil {
		zap.L().Error("update thread columns", zap.Error(err), zap.String("threadUuid", thread.Uuid))
		return "", errorx.ErrServerBusy
	}

	g.invalidate(groupId)
	return thread.Uuid, nil
}

func (g *GroupManager) invalidate(groupId string) {
	g.cache.SubmitTask(func() {
		if err := g.cache.Delete(context.Background(), threadCacheKey(groupId)); err != nil {
			zap.L().Error("invalidate group thread cache", zap.Error(err), zap.String("groupId", groupId))
		}
	})
}
