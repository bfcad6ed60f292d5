package config

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// DSN builds the data source name for the configured driver unless DB_DSN
// overrides it.
func DSN(s *Settings) string {
	if s.DBDSN != "" {
		return s.DBDSN
	}
	switch s.DBDriver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			s.DBHost, s.DBPort, s.DBUsername, s.DBPassword, s.DBDatabase)
	case "sqlite":
		return "file:agency.db?_pragma=foreign_keys(1)"
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			s.DBUsername, s.DBPassword, s.DBHost, s.DBPort, s.DBDatabase)
	}
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql", "":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
}

// OpenDB connects with gorm using the shared log writer. Driver errors are
// translated so constraint violations surface as gorm.ErrDuplicatedKey and
// gorm.ErrForeignKeyViolated.
func OpenDB(s *Settings) (*gorm.DB, error) {
	d, err := dialector(s.DBDriver, DSN(s))
	if err != nil {
		return nil, err
	}

	// In production, suppress SQL logs unless explicitly re-enabled via DEBUG_SQL=true.
	logLevel := logger.Info
	if s.Environment == "production" && !s.DebugSQL {
		logLevel = logger.Warn
	}

	return gorm.Open(d, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(
			log.New(LogWriter, "\r\n", log.LstdFlags),
			logger.Config{LogLevel: logLevel},
		),
	})
}

func InitDB(s *Settings) {
	var err error
	DB, err = OpenDB(s)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Printf("Database connected successfully (%s)", DB.Dialector.Name())
}
