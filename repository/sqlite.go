package repository

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryDSN names a fresh private in-memory SQLite database with foreign
// keys enforced.
func MemoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
}

// OpenMemory opens and migrates a fresh in-memory SQLite database through the
// pure-Go driver. The pool is held to one connection: the database lives as
// long as that connection does and SQLite takes one writer at a time anyway.
func OpenMemory(cfg *gorm.Config) (*GormStore, error) {
	if cfg == nil {
		cfg = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	}
	cfg.TranslateError = true

	db, err := gorm.Open(sqlite.Open(MemoryDSN()), cfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	store := NewGormStore(db)
	if err := store.Migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return store, nil
}
