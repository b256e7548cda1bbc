package handler

import (
	"github.com/gin-gonic/gin"

	"nimbus_chat_server/internal/dto/request"
	"nimbus_chat_server/internal/service"
)

// AuthHandler exposes token issuance over HTTP.
type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Token exchanges the shared client key for a token pair.
func (h *AuthHandler) Token(c *gin.Context) {
	var req request.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	rsp, err := h.svc.Token(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Refresh redeems a refresh token for a new token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req request.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	rsp, err := h.svc.Refresh(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}
