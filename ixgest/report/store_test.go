package report

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/assocparse/db"
	"github.com/teranos/assocparse/errors"
	qtest "github.com/teranos/assocparse/internal/testing"
)

func sampleRun(t *testing.T) Run {
	t.Helper()
	r := New()
	r.AddLines(5)
	r.AddAssociations(2)
	r.AddSkipped("bad line")
	r.ObserveAssociation(association("MGI:1", "GO:1", "NCBITaxon:10090", "PMID:1"))
	r.Error("bad line", InvalidID, "MGI:1 2", "")
	r.Warning("other", InvalidTaxon, "NCBITaxon:1", "not in valid taxa")
	r.SetFormatVersion("2.2")

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return NewRun("mgi.gaf", "gaf", start, start.Add(2*time.Second), r.Summary())
}

func TestSaveRunWritesRunAndMessages(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	run := sampleRun(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO parse_runs`).
		WithArgs(run.ID, "mgi.gaf", "gaf", "2.2", run.StartedAt, run.FinishedAt,
			5, 2, 1, 1, 1, 1, 1, 0, 1, 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO parse_messages`).
		WithArgs(run.ID, 0, "ERROR", "Invalid identifier", "MGI:1 2", "bad line", "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO parse_messages`).
		WithArgs(run.ID, 1, "WARNING", "Invalid taxon", "NCBITaxon:1", "other", "not in valid taxa").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	store := NewSQLStore(sqlDB)
	require.NoError(t, store.SaveRun(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRunKeepsRecordedOrder(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	r := New()
	r.Warning("w1", InvalidTaxon, "NCBITaxon:1", "")
	r.Error("e1", InvalidID, "MGI:1 2", "")
	r.Warning("w2", WrongNumberOfColumns, "", "")
	run := NewRun("mgi.gaf", "gaf", time.Now(), time.Now(), r.Summary())

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO parse_runs`).WillReturnResult(sqlmock.NewResult(1, 1))
	for i, line := range []string{"w1", "e1", "w2"} {
		mock.ExpectExec(`INSERT INTO parse_messages`).
			WithArgs(run.ID, i, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), line, "").
			WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}
	mock.ExpectCommit()

	require.NoError(t, NewSQLStore(sqlDB).SaveRun(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRunRollsBackOnMessageFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	run := sampleRun(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO parse_runs`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO parse_messages`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = NewSQLStore(sqlDB).SaveRun(context.Background(), run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreRoundTrip(t *testing.T) {
	sqlDB := qtest.CreateTestDB(t)
	require.NoError(t, db.Migrate(sqlDB, nil))
	store := NewSQLStore(sqlDB)
	ctx := context.Background()

	first := sampleRun(t)
	second := sampleRun(t)
	second.StartedAt = second.StartedAt.Add(time.Hour)
	second.Source = "later.gaf"

	require.NoError(t, store.SaveRun(ctx, first))
	require.NoError(t, store.SaveRun(ctx, second))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "later.gaf", runs[0].Source, "newest run first")
	assert.Equal(t, first.ID, runs[1].ID)
	assert.Equal(t, 5, runs[1].LineCount)
	assert.Equal(t, 2, runs[1].AssociationCount)
	assert.Equal(t, 1, runs[1].SkippedLineCount)
	assert.Equal(t, 1, runs[1].ErrorCount)
	assert.Equal(t, 1, runs[1].WarningCount)
	assert.Equal(t, "2.2", runs[1].FormatVersion)

	limited, err := store.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	msgs, err := store.Messages(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, SeverityError, msgs[0].Level)
	assert.Equal(t, InvalidID, msgs[0].Type)
	assert.Equal(t, "MGI:1 2", msgs[0].Subject)
	assert.Equal(t, SeverityWarning, msgs[1].Level)
	assert.Equal(t, []int{0, 1}, []int{msgs[0].Seq, msgs[1].Seq})
}

func TestSQLStoreMessagesInterleaveSeverities(t *testing.T) {
	sqlDB := qtest.CreateTestDB(t)
	require.NoError(t, db.Migrate(sqlDB, nil))
	store := NewSQLStore(sqlDB)
	ctx := context.Background()

	r := New()
	r.Warning("first", InvalidTaxon, "NCBITaxon:1", "")
	r.Error("second", InvalidID, "MGI:1 2", "")
	run := NewRun("mgi.gaf", "gaf", time.Now(), time.Now(), r.Summary())
	require.NoError(t, store.SaveRun(ctx, run))

	msgs, err := store.Messages(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Line)
	assert.Equal(t, SeverityWarning, msgs[0].Level)
	assert.Equal(t, "second", msgs[1].Line)
}
