package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// LocalEntry is one persisted key of one profile in the device-local database.
type LocalEntry struct {
	Profile   string    `gorm:"primaryKey;size:64"`
	Key       string    `gorm:"primaryKey;column:entry_key;size:128"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (LocalEntry) TableName() string {
	return "local_entries"
}

// SQLite keeps state in a database file on the user's machine, namespaced by
// profile so several people can share one device.
type SQLite struct {
	db      *gorm.DB
	profile string
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path, profile string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&LocalEntry{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &SQLite{db: db, profile: profile}, nil
}

func (s *SQLite) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var entry LocalEntry
	err := s.db.WithContext(ctx).
		Where("profile = ? AND entry_key = ?", s.profile, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(entry.Value), true, nil
}

func (s *SQLite) Save(ctx context.Context, key string, data []byte) error {
	entry := LocalEntry{Profile: s.profile, Key: key, Value: string(data)}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where("profile = ? AND entry_key = ?", s.profile, key).
		Delete(&LocalEntry{}).Error
}

// Keys lists the keys stored for the profile.
func (s *SQLite) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).Model(&LocalEntry{}).
		Where("profile = ?", s.profile).
		Order("entry_key").
		Pluck("entry_key", &keys).Error
	return keys, err
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
