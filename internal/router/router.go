// Package router wires the HTTP routes to their handlers.
package router

import (
	"github.com/gin-gonic/gin"

	"nimbus_chat_server/internal/gateway/websocket"
	"nimbus_chat_server/internal/handler"
)

// Router registers every route group on a gin engine.
type Router struct {
	handlers *handler.Handlers
	gateway  *websocket.Gateway
}

func NewRouter(handlers *handler.Handlers, gateway *websocket.Gateway) *Router {
	return &Router{handlers: handlers, gateway: gateway}
}

// RegisterRoutes attaches all route groups.
func (r *Router) RegisterRoutes(engine *gin.Engine) {
	r.registerAuthRoutes(engine)
	r.registerThreadRoutes(engine)
	r.registerWsRoutes(engine)
}
