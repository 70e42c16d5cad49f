package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mungus451/starlight-v2-sub001/internal/shared/logs"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/serverconfig"
)

const slowQueryThreshold = 200 * time.Millisecond

// Open 按 engine.store 选择数据库：mysql 用于部署，sqlite 用于本地与单机演示。
func Open(cfg *serverconfig.Config) (*gorm.DB, error) {
	switch cfg.Engine.Store {
	case "", "mysql":
		return OpenMySQL(cfg.MySQL)
	case "sqlite":
		return OpenSQLite(cfg.SQLite.DSN)
	default:
		return nil, fmt.Errorf("unknown engine.store %q", cfg.Engine.Store)
	}
}

func OpenMySQL(cfg serverconfig.MySQLConfig) (*gorm.DB, error) {
	charset := cfg.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	// username:password@protocol(address)/dbname?charset=utf8mb4&parseTime=True&loc=Local
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		charset,
	)
	db, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConn)
	sqlDB.SetMaxIdleConns(cfg.MaxIdle)

	logs.Info("open mysql success",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.DBName),
		zap.String("user", cfg.User),
	)
	return db, nil
}

// OpenSQLite 打开 sqlite。sqlite 只允许单写连接，这里限制为 1 个连接，
// 事务之间天然串行。
func OpenSQLite(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	logs.Info("open sqlite success", zap.String("dsn", dsn))
	return db, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logs.NewGormLogger(logger.Warn, slowQueryThreshold),
	}
}
