// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package outbound

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Click is one followed outbound link.
type Click struct {
	ID        uint      `gorm:"primaryKey"`
	Broker    string    `gorm:"index;not null"`
	Locale    string    `gorm:"size:8"`
	Country   string    `gorm:"size:32"`
	URL       string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
}

// BrokerCount is the number of clicks on one broker.
type BrokerCount struct {
	Broker string `json:"broker"`
	Clicks int64  `json:"clicks"`
}

// Recorder stores followed links.
type Recorder interface {
	Record(ctx context.Context, c Click) error
	CountByBroker(ctx context.Context) ([]BrokerCount, error)
	Close() error
}

// NoopRecorder discards every click.
type NoopRecorder struct{}

func (NoopRecorder) Record(context.Context, Click) error { return nil }

func (NoopRecorder) CountByBroker(context.Context) ([]BrokerCount, error) { return nil, nil }

func (NoopRecorder) Close() error { return nil }

// Store records clicks in a sqlite database.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (creating if needed) the clicks database at path and migrates it.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create clicks database directory: %w", err)
		}
	}

	return openStore(path)
}

func openStore(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open clicks database: %w", err)
	}

	if err := db.AutoMigrate(&Click{}); err != nil {
		return nil, fmt.Errorf("failed to migrate clicks database: %w", err)
	}

	return &Store{db: db}, nil
}

// Record stores c. A zero CreatedAt is filled in by gorm.
func (s *Store) Record(ctx context.Context, c Click) error {
	c.ID = 0

	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}

	return nil
}

// CountByBroker returns the click totals, most clicked first.
func (s *Store) CountByBroker(ctx context.Context) ([]BrokerCount, error) {
	var counts []BrokerCount

	err := s.db.WithContext(ctx).
		Model(&Click{}).
		Select("broker, count(*) as clicks").
		Group("broker").
		Order("clicks desc, broker").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count clicks: %w", err)
	}

	return counts, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
