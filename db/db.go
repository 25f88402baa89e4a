package db

import (
	"log"
	"promptgallery/config"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Instance *gorm.DB

func Init() {
	var (
		db  *gorm.DB
		err error
	)
	if config.MYSQL_DSN != "" {
		log.Println("Using MySQL database")
		db, err = Open(mysql.Open(config.MYSQL_DSN))
	} else if config.POSTGRES_DSN != "" {
		log.Println("Using PostgreSQL database")
		db, err = Open(postgres.Open(config.POSTGRES_DSN))
	} else {
		log.Printf("Using SQLite database: %s", config.SQLITE_FILE)
		db, err = OpenSQLite(config.SQLITE_FILE)
	}
	if err != nil || db == nil {
		panic(err)
	}
	Instance = db
}

func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}
	if !config.DEBUG_MODE {
		cfg.Logger = logger.Default.LogMode(logger.Error)
	}
	return gorm.Open(dialector, cfg)
}

// OpenSQLite opens a SQLite database with foreign keys enforced.
// Names starting with "file:" are taken as URIs, e.g. "file:test?mode=memory&cache=shared"
func OpenSQLite(file string) (*gorm.DB, error) {
	dsn := file
	if strings.Contains(dsn, "?") {
		dsn += "&_foreign_keys=on"
	} else {
		dsn += "?_foreign_keys=on"
	}
	db, err := Open(sqlite.Open(dsn))
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer, let the pool queue the rest
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// OpenMemory opens a private in-memory SQLite database
func OpenMemory() (*gorm.DB, error) {
	return OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
}
