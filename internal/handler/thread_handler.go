package handler

import (
	"github.com/gin-gonic/gin"

	"nimbus_chat_server/internal/dto/request"
	"nimbus_chat_server/internal/dto/respond"
	"nimbus_chat_server/internal/model"
	"nimbus_chat_server/internal/service"
)

// ThreadHandler exposes the group-thread operations over HTTP.
type ThreadHandler struct {
	svc service.ThreadService
}

func NewThreadHandler(svc service.ThreadService) *ThreadHandler {
	return &ThreadHandler{svc: svc}
}

// EnsureGroupThread creates the thread for a newly learned group, or returns
// the existing one unchanged.
func (h *ThreadHandler) EnsureGroupThread(c *gin.Context) {
	var req request.EnsureGroupThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	groupModel := model.GroupModel{
		GroupId:  req.GroupId,
		Name:     req.Name,
		Avatar:   req.Avatar,
		Revision: req.Revision,
	}
	if err := groupModel.SetMemberUuids(req.MemberUuids); err != nil {
		HandleParamError(c, err)
		return
	}

	thread, err := h.svc.EnsureGroupThread(groupModel)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.NewGroupThreadRespond(thread))
}

// GetGroupThread returns the thread snapshot for a group.
func (h *ThreadHandler) GetGroupThread(c *gin.Context) {
	groupId := c.Query("group_id")
	if groupId == "" {
		HandleParamError(c, nil)
		return
	}

	rsp, err := h.svc.FetchGroupThread(groupId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// UpdateGroupModel replaces the stored group model of a thread.
func (h *ThreadHandler) UpdateGroupModel(c *gin.Context) {
	var req request.UpdateGroupModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	newModel := model.GroupModel{
		GroupId:  req.GroupId,
		Name:     req.Name,
		Avatar:   req.Avatar,
		Revision: req.Revision,
	}
	if err := newModel.SetMemberUuids(req.MemberUuids); err != nil {
		HandleParamError(c, err)
		return
	}

	if err := h.svc.UpdateGroupModel(req.GroupId, newModel, req.ShouldUpdateChatListUi); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// UpdateDraft stores the composer state of a thread.
func (h *ThreadHandler) UpdateDraft(c *gin.Context) {
	var req request.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	if err := h.svc.UpdateDraft(req.GroupId, req.Draft, req.BodyRanges, req.EditTargetTimestamp); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// SetMentionNotificationMode sets how mentions notify for a thread.
func (h *ThreadHandler) SetMentionNotificationMode(c *gin.Context) {
	var req request.SetMentionNotificationModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	if err := h.svc.SetMentionNotificationMode(req.GroupId, req.Mode); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// SetStoryViewMode sets who may see stories posted to a thread.
func (h *ThreadHandler) SetStoryViewMode(c *gin.Context) {
	var req request.SetStoryViewModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	if err := h.svc.SetStoryViewMode(req.GroupId, req.Mode); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// SetVisible shows or hides the thread in the chat list.
func (h *ThreadHandler) SetVisible(c *gin.Context) {
	var req request.SetVisibleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	if err := h.svc.SetVisible(req.GroupId, req.Visible); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// RecordInteraction assigns a new chat-list ordering key to the thread and
// returns it.
func (h *ThreadHandler) RecordInteraction(c *gin.Context) {
	var req request.RecordInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	rowId, err := h.svc.RecordInteraction(req.GroupId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"last_interaction_row_id": rowId})
}

// DeleteGroupThread removes a group thread.
func (h *ThreadHandler) DeleteGroupThread(c *gin.Context) {
	var req request.DeleteGroupThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	if err := h.svc.DeleteGroupThread(req.GroupId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
