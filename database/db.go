// Package database keeps a queryable index of the loaded signals in SQLite.
// The default DSN is an in-memory database that is rebuilt on every load.
package database

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"signalboard/models"
)

// DefaultLimit caps Query results when the filter sets none.
const DefaultLimit = 50

// Index is the gorm-backed signal index.
type Index struct {
	db *gorm.DB
}

// Open connects to dsn and migrates the signal table.
func Open(dsn string) (*Index, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open signal index: %w", err)
	}
	if err := db.AutoMigrate(&models.SignalRow{}); err != nil {
		return nil, fmt.Errorf("migrate signal index: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the connection pool.
func (ix *Index) Close() error {
	sqlDB, err := ix.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Replace swaps the index contents for doc's signals in one transaction.
func (ix *Index) Replace(ctx context.Context, loadID string, doc *models.Document) error {
	rows := models.Rows(loadID, doc)
	return ix.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.SignalRow{}).Error; err != nil {
			return fmt.Errorf("clear signal index: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 500).Error; err != nil {
			return fmt.Errorf("insert signals: %w", err)
		}
		return nil
	})
}

// Filter narrows Query results. Empty fields do not filter.
type Filter struct {
	Theme        string
	RawLabel     string
	Priority     string
	TranscriptID string
	Search       string
	Limit        int
}

// Query returns indexed signals matching f in export order.
func (ix *Index) Query(ctx context.Context, f Filter) ([]models.SignalRow, error) {
	query := ix.db.WithContext(ctx).Model(&models.SignalRow{})

	if f.Theme != "" {
		query = query.Where("theme = ?", f.Theme)
	}
	if f.RawLabel != "" {
		query = query.Where("raw_label = ?", f.RawLabel)
	}
	if f.Priority != "" {
		query = query.Where("LOWER(priority) = ?", strings.ToLower(f.Priority))
	}
	if f.TranscriptID != "" {
		query = query.Where("transcript_id = ?", f.TranscriptID)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("(LOWER(ask) LIKE ? OR LOWER(evidence) LIKE ?)", like, like)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	var rows []models.SignalRow
	if err := query.Order("position ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	return rows, nil
}

// Count returns the number of indexed signals.
func (ix *Index) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := ix.db.WithContext(ctx).Model(&models.SignalRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count signals: %w", err)
	}
	return n, nil
}
