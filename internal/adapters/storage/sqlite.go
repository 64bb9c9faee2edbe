package storage

import (
	"errors"
	"time"

	"github.com/lcalzada-xor/vulnmap/internal/core/domain"
	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// SQLiteAdapter implements the repository ports using GORM and SQLite.
type SQLiteAdapter struct {
	db *gorm.DB
}

// AssetModel is the GORM model for assets.
type AssetModel struct {
	ID              string `gorm:"primaryKey"`
	Name            string `gorm:"not null"`
	Type            string `gorm:"index"`
	IPAddress       string `gorm:"not null"`
	MACAddress      string
	OperatingSystem string
	Description     string
	LastScannedAt   *time.Time
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time

	Links []LinkModel `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE"`
}

// VulnerabilityModel is the GORM model for the vulnerability catalog.
type VulnerabilityModel struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	Severity    string `gorm:"index"`
	CVSSScore   *float64
	CVSSVector  string
	Source      string
	References  string // JSON encoded []string
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time

	Links []LinkModel `gorm:"foreignKey:VulnerabilityID;constraint:OnDelete:CASCADE"`
}

// LinkModel is the GORM model for the asset-vulnerability join. The
// composite unique index is the race-breaker for the one-link-per-pair rule.
type LinkModel struct {
	ID               string `gorm:"primaryKey"`
	AssetID          string `gorm:"index;uniqueIndex:idx_links_pair;not null"`
	VulnerabilityID  string `gorm:"uniqueIndex:idx_links_pair;not null"`
	Status           string `gorm:"index"`
	Details          string
	RemediationNotes string
	LastSeenAt       time.Time `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time `gorm:"index"`

	Vulnerability VulnerabilityModel `gorm:"foreignKey:VulnerabilityID;references:ID"`
}

// NewSQLiteAdapter initializes the database and migrates the schema.
func NewSQLiteAdapter(path string) (*SQLiteAdapter, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Cascade delete needs FK enforcement in SQLite; WAL for concurrency
	db.Exec("PRAGMA foreign_keys = ON")
	db.Exec("PRAGMA journal_mode = WAL")

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&AssetModel{}, &VulnerabilityModel{}, &LinkModel{}, &UserModel{}, &AuditLogModel{}); err != nil {
		return nil, err
	}

	return &SQLiteAdapter{db: db}, nil
}

// Close closes the underlying database connection.
func (a *SQLiteAdapter) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translateError maps storage-native failure signals to domain errors so a
// lost check-then-insert race still surfaces as a conflict, never as a raw
// driver error.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return domain.ErrConflict
	}
	return err
}
