package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusctl/core/controller"
	"campusctl/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return &Store{db: gormDB}, mock
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	store, err := Open(Config{Driver: "postgres"})
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestFromBatch(t *testing.T) {
	started := time.Now().Add(-time.Second)
	finished := time.Now()

	batch := reconcile.BatchResult{
		OK: false,
		Results: []reconcile.Result{
			{
				Unit: reconcile.Unit{
					Kind:   controller.KindSite,
					Object: reconcile.Properties{"name": "site1"},
				},
				Decision: reconcile.Decision{Type: reconcile.ChangeUpdate},
				Applied:  true,
			},
			{
				Unit: reconcile.Unit{
					Kind:   controller.KindDevice,
					Object: reconcile.Properties{"name": "sw-01"},
				},
				Decision: reconcile.Decision{Type: reconcile.ChangeCreate},
				Err:      errors.New("boom"),
			},
		},
	}

	run := FromBatch("run-1", batch, true, started, finished)
	assert.Equal(t, "run-1", run.ID)
	assert.True(t, run.DryRun)
	assert.False(t, run.OK)
	assert.Equal(t, 2, run.Units)
	require.Len(t, run.Results, 2)

	assert.Equal(t, "site", run.Results[0].Kind)
	assert.Equal(t, "site1", run.Results[0].Name)
	assert.Equal(t, "update", run.Results[0].Decision)
	assert.True(t, run.Results[0].Applied)
	assert.Empty(t, run.Results[0].Error)

	assert.Equal(t, "device", run.Results[1].Kind)
	assert.Equal(t, 1, run.Results[1].Position)
	assert.False(t, run.Results[1].Applied)
	assert.Equal(t, "boom", run.Results[1].Error)
}

func TestRecord(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `runs`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `unit_results`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	run := Run{
		ID:        "run-1",
		StartedAt: time.Now(),
		OK:        true,
		Units:     1,
		Results: []UnitResult{
			{RunID: "run-1", Kind: "site", Name: "site1", Decision: "no-op"},
		},
	}
	err := store.Record(context.Background(), run)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecent(t *testing.T) {
	store, mock := setupMockStore(t)

	runRows := sqlmock.NewRows([]string{"id", "started_at", "finished_at", "dry_run", "ok", "units"}).
		AddRow("run-1", time.Now(), time.Now(), false, true, 1)
	mock.ExpectQuery("SELECT \\* FROM `runs`").WillReturnRows(runRows)

	resultRows := sqlmock.NewRows([]string{"id", "run_id", "position", "kind", "name", "decision", "applied", "skipped", "error"}).
		AddRow(1, "run-1", 0, "site", "site1", "update", true, false, "")
	mock.ExpectQuery("SELECT \\* FROM `unit_results`").WillReturnRows(resultRows)

	runs, err := store.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	require.Len(t, runs[0].Results, 1)
	assert.Equal(t, "update", runs[0].Results[0].Decision)
}
