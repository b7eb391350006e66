package client

import (
	"fmt"
	"time"

	"scoreboard/config"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// MySQLClient 以 gorm 連接 MySQL；MYSQL__DSN 未設定時為停用狀態
type MySQLClient struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewMySQLClient(logger *zap.Logger, config *config.Configuration) (*MySQLClient, func(), error) {
	mysqlClient := &MySQLClient{logger: logger}
	if config.MySQL.DSN == "" {
		logger.Info("MySQL disabled: MYSQL__DSN not set")
		return mysqlClient, func() {}, nil
	}
	db, err := mysqlClient.connectDB(config)
	if err != nil {
		logger.Error("failed to connect to MySQL", zap.Error(err))
		return nil, nil, err
	}
	logger.Info("Connected to MySQL")
	mysqlClient.db = db

	cleanup := func() {
		logger.Info("closing the MySQL resources")
		if err := mysqlClient.Close(); err != nil {
			logger.Error("failed to close MySQL client", zap.Error(err))
		}
	}
	return mysqlClient, cleanup, nil
}

func (client *MySQLClient) connectDB(config *config.Configuration) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(config.MySQL.DSN), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
		// 禁用外鍵約束
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database with GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	maxIdle, maxOpen := config.MySQL.MaxIdleConns, config.MySQL.MaxOpenConns
	if maxIdle <= 0 {
		maxIdle = 5
	}
	if maxOpen <= 0 {
		maxOpen = 20
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Close 關閉 MySQL 連線
func (client *MySQLClient) Close() error {
	if client.db == nil {
		return nil
	}
	sqlDB, err := client.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB 回傳 gorm 連線
func (client *MySQLClient) DB() *gorm.DB {
	if client == nil {
		return nil
	}
	return client.db
}

func (client *MySQLClient) Enabled() bool {
	return client.DB() != nil
}
