// Package https_server builds the configured gin engine.
package https_server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"nimbus_chat_server/internal/gateway/websocket"
	"nimbus_chat_server/internal/handler"
	"nimbus_chat_server/internal/infrastructure/logger"
	"nimbus_chat_server/internal/infrastructure/middleware"
	"nimbus_chat_server/internal/router"
)

// Init creates a blank gin engine, attaches the shared middlewares and
// registers every route.
func Init(handlers *handler.Handlers, gateway *websocket.Gateway) *gin.Engine {
	engine := gin.New()

	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))
	engine.Use(middleware.SecureHeaders())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	rt := router.NewRouter(handlers, gateway)
	rt.RegisterRoutes(engine)

	return engine
}
