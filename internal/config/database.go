package config

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB is the shared database handle opened by InitDB.
var DB *gorm.DB

// InitDB opens the database selected by DB_DRIVER.
func InitDB(s *Settings) error {
	db, err := OpenDB(s.DBDriver, s.DBDSN)
	if err != nil {
		return err
	}
	DB = db
	Logger.Info("Database connected", zap.String("driver", s.DBDriver))
	return nil
}

// OpenDB opens a gorm connection for driver ("mysql", "postgres" or "sqlite").
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}
	return db, nil
}

// CloseDB closes the underlying *sql.DB of DB.
func CloseDB() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
