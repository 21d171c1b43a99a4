// Package history persists reconcile run outcomes so operators can audit
// what changed, when, and whether it was a dry run.
//
// The store is optional: apply runs degrade to a warning when it cannot be
// opened. It defaults to a local sqlite file; a shared mysql database is
// supported for teams running the tool from several hosts.
package history

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"campusctl/core/reconcile"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Run is one recorded apply invocation.
type Run struct {
	// ID is the run's unique identifier.
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// StartedAt is when the batch began.
	StartedAt time.Time `json:"started_at"`
	// FinishedAt is when the batch completed.
	FinishedAt time.Time `json:"finished_at"`
	// DryRun records whether mutations were simulated.
	DryRun bool `json:"dry_run"`
	// OK is the batch's aggregate success flag.
	OK bool `json:"ok"`
	// Units is the number of declared units in the batch.
	Units int `json:"units"`
	// Results holds the per-unit records.
	Results []UnitResult `gorm:"foreignKey:RunID" json:"results,omitempty"`
}

// UnitResult is the persisted outcome of one declared unit.
type UnitResult struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	RunID    string `gorm:"index;size:36" json:"-"`
	Position int    `json:"position"`
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Decision string `json:"decision"`
	Applied  bool   `json:"applied"`
	Skipped  bool   `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

// Store records and queries reconcile runs.
type Store struct {
	db *gorm.DB
}

// Open connects to the configured history database and migrates the schema.
func Open(cfg Config) (*Store, error) {
	// Suppress GORM logging; warnings surface through the main logger.
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	var db *gorm.DB
	var err error
	switch cfg.Driver {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.Path), gormConfig)
	case "mysql":
		db, err = gorm.Open(mysql.Open(mysqlDSN(cfg)), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported history driver %q (expected sqlite or mysql)", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if cfg.Driver == "mysql" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout(cfg))
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping history database: %w", err)
		}
	}

	if err := db.AutoMigrate(&Run{}, &UnitResult{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func mysqlDSN(cfg Config) string {
	// Special characters in the password must be URL encoded for the DSN.
	userInfo := url.UserPassword(cfg.User, cfg.Password).String()
	timeout := int(connectTimeout(cfg) / time.Second)
	return fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		userInfo, cfg.Host, cfg.Port, cfg.Name, timeout, timeout, timeout)
}

func connectTimeout(cfg Config) time.Duration {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return time.Duration(timeout) * time.Second
}

// Record persists one completed run with its per-unit results.
func (s *Store) Record(ctx context.Context, run Run) error {
	if err := s.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first, with their unit results
// preloaded.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []Run
	err := s.db.WithContext(ctx).
		Preload("Results", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load run history: %w", err)
	}
	return runs, nil
}

// FromBatch maps a batch result into a Run record.
func FromBatch(id string, batch reconcile.BatchResult, dryRun bool, started, finished time.Time) Run {
	run := Run{
		ID:         id,
		StartedAt:  started,
		FinishedAt: finished,
		DryRun:     dryRun,
		OK:         batch.OK,
		Units:      len(batch.Results),
		Results:    make([]UnitResult, 0, len(batch.Results)),
	}
	for i, r := range batch.Results {
		record := UnitResult{
			RunID:    id,
			Position: i,
			Kind:     r.Unit.Kind.String(),
			Name:     r.Unit.Name(),
			Decision: string(r.Decision.Type),
			Applied:  r.Applied,
			Skipped:  r.Skipped,
		}
		if r.Err != nil {
			record.Error = r.Err.Error()
		}
		run.Results = append(run.Results, record)
	}
	return run
}
