package db

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Options struct {
	Driver   string
	DSN      string // mysql DSN or sqlite path
	LogLevel logger.LogLevel
}

// Open connects to mysql for deployments or sqlite for single-node/dev runs.
func Open(o Options) (*gorm.DB, error) {
	switch o.Driver {
	case DriverMySQL, "":
		return OpenGormWithDialector(mysql.Open(o.DSN), o.LogLevel)
	case DriverSQLite:
		gdb, err := OpenGormWithDialector(SQLite(o.DSN), o.LogLevel)
		if err != nil {
			return nil, err
		}
		// sqlite allows one writer; a single connection keeps :memory: dbs shared too
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return gdb, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", o.Driver)
	}
}

func OpenGormWithDialector(dial gorm.Dialector, lvl logger.LogLevel) (*gorm.DB, error) {
	if lvl == 0 {
		lvl = logger.Warn
	}
	cfg := &gorm.Config{
		Logger:               logger.Default.LogMode(lvl),
		DisableAutomaticPing: true,
	}
	gdb, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("gorm ping: %w", err)
	}
	return gdb, nil
}
