package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/radioscan/p25rx/internal/logger"
)

// Store is the SQLite-backed archive of decoded messages and system labels.
// The decoder is its single writer, appending one row per dispatched message;
// readers are occasional queries over the recorded traffic.
type Store struct {
	db *gorm.DB

	// Messages records decoded data units.
	Messages *MessageRepository
	// Systems maps Network Access Codes to site labels.
	Systems *SystemRepository
}

// Open opens or creates the archive at path using the pure Go SQLite driver
// and prepares the schema.
func Open(path string, log *logger.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{
		// The archive write path sits behind the dispatch fan-out; query
		// logging there is noise, so gorm stays silent and errors surface
		// through the repositories.
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open archive %q: %w", path, err)
	}

	if err := tune(db); err != nil {
		return nil, fmt.Errorf("tune archive %q: %w", path, err)
	}

	if err := db.AutoMigrate(&MessageRecord{}, &System{}); err != nil {
		return nil, fmt.Errorf("migrate archive %q: %w", path, err)
	}

	if log != nil {
		log.Info("message archive opened", logger.String("path", path))
	}

	return &Store{
		db:       db,
		Messages: NewMessageRepository(db),
		Systems:  NewSystemRepository(db),
	}, nil
}

// tune applies the SQLite settings for a single append-heavy writer with
// concurrent readers.
func tune(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// One ingest goroutine owns all writes, so a single connection avoids
	// writer contention entirely.
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",   // readers never block the ingest path
		"PRAGMA synchronous=NORMAL", // safe with WAL, skips the per-insert fsync
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
