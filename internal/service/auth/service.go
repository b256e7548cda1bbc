// Package auth implements token issuance for the HTTP surface.
package auth

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"nimbus_chat_server/internal/config"
	myredis "nimbus_chat_server/internal/dao/redis"
	"nimbus_chat_server/internal/dto/request"
	"nimbus_chat_server/internal/dto/respond"
	"nimbus_chat_server/pkg/constants"
	"nimbus_chat_server/pkg/errorx"
	"nimbus_chat_server/pkg/util/jwt"
)

func refreshTokenKey(tokenID string) string {
	return "auth_refresh_" + tokenID
}

type authService struct {
	cache myredis.CacheService
	conf  *config.JWTConfig
}

// NewAuthService creates the auth service.
func NewAuthService(cache myredis.CacheService, conf *config.JWTConfig) *authService {
	return &authService{cache: cache, conf: conf}
}

// Token validates the shared client key against its configured bcrypt hash
// and issues a token pair.
func (s *authService) Token(req request.TokenRequest) (*respond.TokenRespond, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(s.conf.ClientKeyHash), []byte(req.ClientKey)); err != nil {
		return nil, errorx.ErrUnauthorized
	}
	return s.issue(req.ClientId)
}

// Refresh redeems a refresh token. The token's id must still be present in
// the cache; redeeming removes it, so every refresh token is single-use.
func (s *authService) Refresh(req request.RefreshRequest) (*respond.TokenRespond, error) {
	claims, err := jwt.ParseToken(req.RefreshToken)
	if err != nil || claims.Subject != "refresh_token" || claims.TokenID == "" {
		return nil, errorx.ErrUnauthorized
	}

	ctx := context.Background()
	stored, err := s.cache.Get(ctx, refreshTokenKey(claims.TokenID))
	if err != nil {
		zap.L().Error("redis get refresh token", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if stored != claims.ClientID {
		// unknown or already-redeemed token
		return nil, errorx.ErrUnauthorized
	}
	if err := s.cache.Delete(ctx, refreshTokenKey(claims.TokenID)); err != nil {
		zap.L().Error("redis delete refresh token", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	return s.issue(claims.ClientID)
}

func (s *authService) issue(clientID string) (*respond.TokenRespond, error) {
	accessToken, err := jwt.GenerateAccessToken(clientID)
	if err != nil {
		zap.L().Error("generate access token", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(clientID)
	if err != nil {
		zap.L().Error("generate refresh token", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	expiryHours := s.conf.RefreshTokenExpiry
	if expiryHours <= 0 {
		expiryHours = constants.REFRESH_TOKEN_EXPIRY_HOURS
	}
	ttl := time.Duration(expiryHours) * time.Hour
	if err := s.cache.Set(context.Background(), refreshTokenKey(tokenID), clientID, ttl); err != nil {
		zap.L().Error("redis set refresh token", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	return &respond.TokenRespond{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
