package router

import "github.com/gin-gonic/gin"

func (r *Router) registerAuthRoutes(engine *gin.Engine) {
	authGroup := engine.Group("/auth")
	{
		authGroup.POST("/token", r.handlers.Auth.Token)
		authGroup.POST("/refresh", r.handlers.Auth.Refresh)
	}
}
