package snowflake

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"nimbus_chat_server/internal/config"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// Init initializes the snowflake node. Call once at startup.
func Init() {
	nodeOnce.Do(func() {
		machineID := config.GetConfig().SnowflakeConfig.MachineID
		if machineID < 0 || machineID > 1023 {
			machineID = 1
			zap.L().Warn("Invalid MachineID in config, using default value 1")
		}
		var err error
		node, err = snowflake.NewNode(machineID)
		if err != nil {
			zap.L().Fatal("Failed to initialize snowflake node", zap.Error(err))
		}
		zap.L().Info("Snowflake node initialized", zap.Int64("machineID", machineID))
	})
}

// GenerateID returns a new snowflake ID. IDs are strictly increasing per
// node, which makes them usable as interaction ordering keys.
func GenerateID() int64 {
	if node == nil {
		Init()
	}
	return node.Generate().Int64()
}
