// Package database 负责创建服务用到的 MySQL 和 Redis 连接。
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"succession-go/pkg/log"
)

var DB *gorm.DB

// OpenMySQL 打开一个 GORM 连接并配置连接池。
// 名册表只会被读取，所以连接池保持得比较小。
func OpenMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// InitMySQL 初始化全局 MySQL 连接，失败时终止程序。
func InitMySQL(dsn string) {
	db, err := OpenMySQL(dsn)
	if err != nil {
		log.Fatal("failed to connect database", err)
	}
	DB = db
	log.Info("MySQL database connected successfully")
}
