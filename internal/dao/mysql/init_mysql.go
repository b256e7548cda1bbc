// Package mysql initializes the database connection and the repository layer.
package mysql

import (
	"fmt"

	"nimbus_chat_server/internal/config"
	"nimbus_chat_server/internal/dao/mysql/repository"
	"nimbus_chat_server/internal/model"

	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Init opens the MySQL connection, migrates the schema and returns the
// repository aggregate. Fatal on failure; the server cannot run without its
// store.
func Init() *repository.Repositories {
	conf := config.GetConfig()

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.MysqlConfig.User,
		conf.MysqlConfig.Password,
		conf.MysqlConfig.Host,
		conf.MysqlConfig.Port,
		conf.MysqlConfig.DatabaseName,
	)

	db, err := gorm.Open(mysqldriver.Open(dsn), &gorm.Config{})
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	// AutoMigrate creates missing tables/columns and never drops data. The
	// obsolete thread columns stay in the schema so old rows keep decoding.
	err = db.AutoMigrate(
		&model.GroupThread{},
		&model.GroupMember{},
	)
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	return repository.NewRepositories(db)
}
