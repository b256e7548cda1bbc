package router

import (
	"github.com/gin-gonic/gin"

	"nimbus_chat_server/internal/infrastructure/middleware"
)

func (r *Router) registerThreadRoutes(engine *gin.Engine) {
	threadGroup := engine.Group("/thread", middleware.JWTAuth())
	{
		threadGroup.GET("/getGroupThread", r.handlers.Thread.GetGroupThread)
		threadGroup.POST("/ensureGroupThread", r.handlers.Thread.EnsureGroupThread)
		threadGroup.POST("/updateGroupModel", r.handlers.Thread.UpdateGroupModel)
		threadGroup.POST("/updateDraft", r.handlers.Thread.UpdateDraft)
		threadGroup.POST("/setMentionNotificationMode", r.handlers.Thread.SetMentionNotificationMode)
		threadGroup.POST("/setStoryViewMode", r.handlers.Thread.SetStoryViewMode)
		threadGroup.POST("/setVisible", r.handlers.Thread.SetVisible)
		threadGroup.POST("/recordInteraction", r.handlers.Thread.RecordInteraction)
		threadGroup.POST("/deleteGroupThread", r.handlers.Thread.DeleteGroupThread)
	}
}
