package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"nimbus_chat_server/internal/config"
	dao "nimbus_chat_server/internal/dao/mysql"
	myredis "nimbus_chat_server/internal/dao/redis"
	"nimbus_chat_server/internal/gateway/websocket"
	"nimbus_chat_server/internal/handler"
	"nimbus_chat_server/internal/https_server"
	"nimbus_chat_server/internal/infrastructure/logger"
	"nimbus_chat_server/internal/mq"
	"nimbus_chat_server/internal/service"
	"nimbus_chat_server/internal/service/chatlist"
	"nimbus_chat_server/pkg/constants"
	"nimbus_chat_server/pkg/util/jwt"
	"nimbus_chat_server/pkg/util/snowflake"
)

func main() {
	conf := config.GetConfig()

	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("logger initialized")

	repos := dao.Init()
	zap.L().Info("database initialized")

	myredis.Init()
	zap.L().Info("redis initialized")

	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	snowflake.Init()

	var broker mq.Broker
	if conf.KafkaConfig.MessageMode == "kafka" {
		broker = mq.NewKafkaBroker(&conf.KafkaConfig)
	} else {
		broker = mq.NewChannelBroker()
	}
	zap.L().Info("thread-event broker initialized", zap.String("mode", conf.KafkaConfig.MessageMode))

	// chat-list refreshes collapse within the flush window; the coalescer
	// publishes one refresh event per affected thread per flush
	flushInterval := time.Duration(conf.ChatListConfig.FlushIntervalMs) * time.Millisecond
	if flushInterval <= 0 {
		flushInterval = constants.CHATLIST_FLUSH_INTERVAL_MS * time.Millisecond
	}
	coalescer := chatlist.NewCoalescer(flushInterval, func(threadUuid string) {
		ev := mq.NewThreadEvent(snowflake.GenerateID(), mq.EventChatListRefresh, threadUuid, "")
		if err := broker.Publish(ev); err != nil {
			zap.L().Error("publish chat-list refresh", zap.Error(err), zap.String("threadUuid", threadUuid))
		}
	})

	services := service.NewServices(repos, myredis.GetCacheService(), broker, coalescer, &conf.JWTConfig)
	zap.L().Info("service layer initialized")

	gateway := websocket.NewGateway()
	broker.Subscribe(gateway.Notify)

	go broker.Start()
	go coalescer.Start()
	go gateway.Start()

	handlers := handler.NewHandlers(services)
	if err := handler.InitTrans(); err != nil {
		zap.L().Fatal("init validator translations", zap.Error(err))
	}

	engine := https_server.Init(handlers, gateway)

	go func() {
		addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
		if err := engine.Run(addr); err != nil {
			zap.L().Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("shutting down...")

	coalescer.Close()
	if err := broker.Close(); err != nil {
		zap.L().Error("close broker", zap.Error(err))
	}
	gateway.Close()

	zap.L().Info("server stopped")
}
