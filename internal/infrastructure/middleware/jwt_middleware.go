// Package middleware holds the gin middlewares shared by the HTTP routes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nimbus_chat_server/pkg/errorx"
	"nimbus_chat_server/pkg/util/jwt"
)

// JWTAuth validates the bearer access token and stores the client id in the
// request context for downstream handlers.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			// websocket clients cannot set headers, allow the query fallback
			authHeader = c.Query("token")
		} else {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				abortUnauthorized(c)
				return
			}
			authHeader = parts[1]
		}
		if authHeader == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := jwt.ParseToken(authHeader)
		if err != nil || claims.Subject != "access_token" {
			abortUnauthorized(c)
			return
		}

		c.Set("client_id", claims.ClientID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code": errorx.ErrUnauthorized.Code,
		"msg":  errorx.ErrUnauthorized.Msg,
		"data": nil,
	})
}
