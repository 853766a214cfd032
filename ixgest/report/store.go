package report

import (
	"cmp"
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/assocparse/errors"
)

// Run is a finished parse run ready to be persisted
type Run struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Format     string    `json:"format"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Summary    Summary   `json:"summary"`
}

// NewRun creates a Run with a fresh identifier
func NewRun(source, format string, startedAt, finishedAt time.Time, summary Summary) Run {
	return Run{
		ID:         uuid.NewString(),
		Source:     source,
		Format:     format,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Summary:    summary,
	}
}

// RunRecord is a persisted run as listed back from the store
type RunRecord struct {
	ID               string    `json:"id"`
	Source           string    `json:"source"`
	Format           string    `json:"format"`
	FormatVersion    string    `json:"format_version,omitempty"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
	LineCount        int       `json:"line_count"`
	AssociationCount int       `json:"association_count"`
	SkippedLineCount int       `json:"skipped_line_count"`
	ErrorCount       int       `json:"error_count"`
	WarningCount     int       `json:"warning_count"`
}

// SQLStore persists run summaries and their messages.
// The schema is created by db.Migrate.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates a store over an open, migrated database
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// SaveRun writes the run row and every message in one transaction
func (s *SQLStore) SaveRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	sum := run.Summary
	counts := make(map[Severity]int, len(Levels))
	for _, g := range sum.Groups {
		counts[g.Level] = g.Count
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin save run")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO parse_runs (
			id, source, format, format_version, started_at, finished_at,
			line_count, association_count, skipped_line_count,
			subject_count, object_count, taxon_count, reference_count,
			fatal_count, error_count, warning_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Format, sum.FormatVersion, run.StartedAt, run.FinishedAt,
		sum.Counts.LineCount, sum.Counts.AssociationCount, sum.Counts.SkippedLineCount,
		sum.Statistics.SubjectCount, sum.Statistics.ObjectCount,
		sum.Statistics.TaxonCount, sum.Statistics.ReferenceCount,
		counts[SeverityFatal], counts[SeverityError], counts[SeverityWarning],
	)
	if err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "insert run %s", run.ID)
	}

	for seq, m := range recordedOrder(sum.Groups) {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO parse_messages (run_id, seq, level, category, subject, line, message)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, seq, string(m.Level), string(m.Type), m.Subject, m.Line, m.Message,
		)
		if err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "insert message %d of run %s", seq, run.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "commit run %s", run.ID)
	}
	return nil
}

// recordedOrder flattens the severity groups back into log order
func recordedOrder(groups []Group) []Message {
	var msgs []Message
	for _, g := range groups {
		msgs = append(msgs, g.Messages...)
	}
	slices.SortStableFunc(msgs, func(a, b Message) int { return cmp.Compare(a.Seq, b.Seq) })
	return msgs
}

// ListRuns returns the most recent runs, newest first
func (s *SQLStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, format, format_version, started_at, finished_at,
			line_count, association_count, skipped_line_count, error_count, warning_count
		FROM parse_runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(
			&r.ID, &r.Source, &r.Format, &r.FormatVersion, &r.StartedAt, &r.FinishedAt,
			&r.LineCount, &r.AssociationCount, &r.SkippedLineCount, &r.ErrorCount, &r.WarningCount,
		); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		runs = append(runs, r)
	}
	return runs, errors.Wrap(rows.Err(), "iterate runs")
}

// Messages returns the persisted messages of one run in recorded order
func (s *SQLStore) Messages(ctx context.Context, runID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, level, category, subject, line, message
		FROM parse_messages
		WHERE run_id = ?
		ORDER BY seq`, runID)
	if err != nil {
		return nil, errors.Wrapf(err, "query messages of run %s", runID)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		var level, category string
		if err := rows.Scan(&m.Seq, &level, &category, &m.Subject, &m.Line, &m.Message); err != nil {
			return nil, errors.Wrap(err, "scan message")
		}
		m.Level = Severity(level)
		m.Type = Category(category)
		msgs = append(msgs, m)
	}
	return msgs, errors.Wrap(rows.Err(), "iterate messages")
}
