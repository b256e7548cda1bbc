// Package service aggregates the business-logic layer for injection.
package service

import (
	"nimbus_chat_server/internal/config"
	"nimbus_chat_server/internal/dao/mysql/repository"
	myredis "nimbus_chat_server/internal/dao/redis"
	"nimbus_chat_server/internal/mq"
	"nimbus_chat_server/internal/service/auth"
	"nimbus_chat_server/internal/service/chatlist"
	"nimbus_chat_server/internal/service/groupmgr"
)

// Services aggregates all service instances. The handler layer receives it
// via constructor injection.
type Services struct {
	Thread ThreadService
	Auth   AuthService
}

// NewServices builds every service with its dependencies.
func NewServices(
	repos *repository.Repositories,
	cache myredis.AsyncCacheService,
	broker mq.Broker,
	coalescer *chatlist.Coalescer,
	jwtConf *config.JWTConfig,
) *Services {
	return &Services{
		Thread: groupmgr.NewGroupManager(repos, cache, broker, coalescer),
		Auth:   auth.NewAuthService(cache, jwtConf),
	}
}
