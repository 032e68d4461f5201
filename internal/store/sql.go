package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/i474232898/pincode-weather/internal/weather"
)

// pincodeRecord maps a pincode to its geocoded coordinates.
type pincodeRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Pincode   string    `gorm:"not null;uniqueIndex"`
	Latitude  float64   `gorm:"not null"`
	Longitude float64   `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (pincodeRecord) TableName() string { return "pincodes" }

// weatherRecord holds the payload fetched for a (pincode, date) pair.
type weatherRecord struct {
	ID          uint           `gorm:"primaryKey"`
	Pincode     string         `gorm:"not null;uniqueIndex:ux_weather_pincode_date,priority:1"`
	Date        string         `gorm:"not null;uniqueIndex:ux_weather_pincode_date,priority:2"`
	WeatherInfo datatypes.JSON `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
}

func (weatherRecord) TableName() string { return "weather_data" }

// SQLStore is a GORM-backed implementation of weather.Store.
type SQLStore struct {
	db *gorm.DB
}

// OpenSQL connects through dialector and creates the schema if missing.
func OpenSQL(dialector gorm.Dialector) (*SQLStore, error) {
	return openSQL(dialector, log.New(os.Stdout, "\r\n", log.LstdFlags))
}

// newGormLogger reports slow queries and errors. A cache miss is not an error.
func newGormLogger(w gormlogger.Writer) gormlogger.Interface {
	return gormlogger.New(w, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func openSQL(dialector gorm.Dialector, w gormlogger.Writer) (*SQLStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(w),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&pincodeRecord{}, &weatherRecord{}); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// GetCoordinates returns the coordinates stored for pincode.
func (s *SQLStore) GetCoordinates(ctx context.Context, pincode string) (weather.Coordinates, error) {
	var rec pincodeRecord
	err := s.db.WithContext(ctx).Where("pincode = ?", pincode).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return weather.Coordinates{}, weather.ErrCacheMiss
	}
	if err != nil {
		return weather.Coordinates{}, err
	}

	return weather.Coordinates{Latitude: rec.Latitude, Longitude: rec.Longitude}, nil
}

// SaveCoordinates inserts coords for pincode. A concurrent writer that got
// there first wins; the conflicting insert is dropped.
func (s *SQLStore) SaveCoordinates(ctx context.Context, pincode string, coords weather.Coordinates) error {
	rec := pincodeRecord{
		Pincode:   pincode,
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
}

// GetWeather returns the payload stored for (pincode, date).
func (s *SQLStore) GetWeather(ctx context.Context, pincode, date string) (weather.Payload, error) {
	var rec weatherRecord
	err := s.db.WithContext(ctx).Where("pincode = ? AND date = ?", pincode, date).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, weather.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	return weather.Payload(rec.WeatherInfo), nil
}

// SaveWeather inserts payload for (pincode, date), keeping any existing row.
func (s *SQLStore) SaveWeather(ctx context.Context, pincode, date string, payload weather.Payload) error {
	rec := weatherRecord{
		Pincode:     pincode,
		Date:        date,
		WeatherInfo: datatypes.JSON(payload),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
}

// Stats counts the rows of both tables.
func (s *SQLStore) Stats(ctx context.Context) (weather.Stats, error) {
	var st weather.Stats

	db := s.db.WithContext(ctx)
	if err := db.Model(&pincodeRecord{}).Count(&st.Pincodes).Error; err != nil {
		return weather.Stats{}, fmt.Errorf("count pincodes: %w", err)
	}
	if err := db.Model(&weatherRecord{}).Count(&st.WeatherRecords).Error; err != nil {
		return weather.Stats{}, fmt.Errorf("count weather records: %w", err)
	}
	st.CollectedAt = time.Now().UTC()

	return st, nil
}

// Ping verifies the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
