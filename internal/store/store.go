package store

import (
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"

	"github.com/i474232898/pincode-weather/internal/common"
	"github.com/i474232898/pincode-weather/internal/weather"
)

// MemoryURL selects the in-memory store instead of a database.
const MemoryURL = "memory"

// Backend is a weather.Store that holds resources to release on shutdown.
type Backend interface {
	weather.Store
	Close() error
}

// Open returns the store for databaseURL: MemoryURL for the in-memory store,
// a postgres URL or keyword DSN for PostgreSQL, anything else is a SQLite path.
func Open(databaseURL string) (Backend, error) {
	switch {
	case databaseURL == MemoryURL:
		return NewMemoryStore(), nil
	case isPostgres(databaseURL):
		return OpenSQL(postgres.Open(databaseURL))
	default:
		s, err := OpenSQL(sqlite.Open(databaseURL))
		if err != nil {
			return nil, err
		}
		// SQLite allows a single writer.
		sqlDB, err := s.db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return s, nil
	}
}

func isPostgres(dsn string) bool {
	if common.HasAnyPrefix(dsn, "postgres://", "postgresql://") {
		return true
	}
	// keyword/value form, e.g. "host=localhost user=postgres dbname=weather"
	return common.HasAny(dsn, "host=", "dbname=")
}
