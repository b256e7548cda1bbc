package router

import (
	"github.com/gin-gonic/gin"

	"nimbus_chat_server/internal/infrastructure/middleware"
)

func (r *Router) registerWsRoutes(engine *gin.Engine) {
	engine.GET("/ws", middleware.JWTAuth(), r.gateway.HandleConnection)
}
