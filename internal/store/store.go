/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package store persists an optional journal of frame outcomes and finalized tracks to a SQLite
// database via GORM, gated by the db.enable configuration key per §2B/§6. Nothing in the frame
// processor depends on this journal to operate; it exists purely as an audit trail a later batch
// job or operator can query after the fact.
package store

/*****************************************************************************************************************/

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*****************************************************************************************************************/

// FrameRecord is one journaled frame outcome.
type FrameRecord struct {
	ID uint `gorm:"primarykey"`

	FilePath string `gorm:"index"`
	GID      string
	UID      string
	CID      string
	FrameNo  int

	State string
	Error string

	Width  int
	Height int
	FWHM   float64

	SourceCount  int
	MatchedCount int

	CreatedAt time.Time
}

/*****************************************************************************************************************/

// TrackRecord is one journaled finalized track.
type TrackRecord struct {
	ID string `gorm:"primarykey"`

	PointCount int
	FirstFile  string
	LastFile   string

	CreatedAt time.Time
}

/*****************************************************************************************************************/

// Store wraps a GORM handle to the journal database.
type Store struct {
	db *gorm.DB
}

/*****************************************************************************************************************/

// Open connects to the SQLite database at dsn, migrating the journal schema if necessary.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&FrameRecord{}, &TrackRecord{}); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

/*****************************************************************************************************************/

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

/*****************************************************************************************************************/

// RecordFrame inserts a journal row for one frame's final outcome.
func (s *Store) RecordFrame(rec FrameRecord) error {
	rec.CreatedAt = time.Now()

	return s.db.Create(&rec).Error
}

/*****************************************************************************************************************/

// RecordTrack inserts a journal row for one finalized track, or updates it if the ID is already
// present (a track is emitted exactly once, but the journal write should be idempotent against a
// retried Emit).
func (s *Store) RecordTrack(rec TrackRecord) error {
	rec.CreatedAt = time.Now()

	return s.db.Save(&rec).Error
}

/*****************************************************************************************************************/
