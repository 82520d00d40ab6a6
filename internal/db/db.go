// Package db stores the history of conversions run through the web surface.
package db

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MaxRecent caps the number of rows Recent returns
const MaxRecent = 200

// Conversion is one conversion attempt
type Conversion struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	Source         string    `json:"source"`
	InputSHA256    string    `gorm:"column:input_sha256;size:64" json:"input_sha256"`
	VlanCount      int       `json:"vlan_count"`
	DisabledPorts  int       `json:"disabled_ports"`
	ManagementVlan bool      `json:"management_vlan"`
	OutputBytes    int       `json:"output_bytes"`
	Error          string    `json:"error,omitempty"`
}

// Succeeded reports whether the conversion produced output
func (c Conversion) Succeeded() bool {
	return c.Error == ""
}

// Store wraps the sqlite database
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path and migrates the schema
func Open(path string) (*Store, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := gdb.AutoMigrate(&Conversion{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return &Store{db: gdb}, nil
}

// Record inserts a conversion and fills its ID and CreatedAt
func (s *Store) Record(c *Conversion) error {
	if err := s.db.Create(c).Error; err != nil {
		return fmt.Errorf("failed to record conversion: %w", err)
	}
	return nil
}

// Recent returns the latest conversions, newest first. limit is clamped to
// 1..MaxRecent.
func (s *Store) Recent(limit int) ([]Conversion, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > MaxRecent {
		limit = MaxRecent
	}
	var conversions []Conversion
	err := s.db.Order("created_at desc").Order("id desc").Limit(limit).Find(&conversions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return conversions, nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
