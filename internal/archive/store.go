package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"census-reconciler/internal/review"
	"census-reconciler/internal/validate"
)

// ErrRunNotFound is returned when a run id is not in the archive.
var ErrRunNotFound = errors.New("run not found")

const timeLayout = time.RFC3339

// Run is the metadata of one reconciliation run.
type Run struct {
	ID            uuid.UUID
	StartedAt     time.Time
	IntakeFile    string
	WorkingFile   string
	OutputFile    string
	WindowStart   string
	WindowEnd     string
	RetirementAge int
	// Copied is the number of rows written to the working roster.
	Copied   int
	Findings int
	Skipped  int
}

// Store is a SQLite-backed run archive.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// single writer
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) initialize() error {
	runsTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		intake_file TEXT NOT NULL,
		working_file TEXT NOT NULL,
		output_file TEXT NOT NULL,
		window_start TEXT NOT NULL,
		window_end TEXT NOT NULL,
		retirement_age INTEGER NOT NULL,
		copied INTEGER NOT NULL,
		findings INTEGER NOT NULL,
		skipped INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`

	findingsTable := `
	CREATE TABLE IF NOT EXISTS findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		seq INTEGER NOT NULL,
		kind INTEGER NOT NULL,
		kind_name TEXT NOT NULL,
		sheet TEXT NOT NULL,
		cell TEXT NOT NULL,
		row_number INTEGER NOT NULL,
		employee_id TEXT NOT NULL,
		detail TEXT NOT NULL,
		brief TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
	CREATE INDEX IF NOT EXISTS idx_findings_employee ON findings(employee_id);
	`

	observationsTable := `
	CREATE TABLE IF NOT EXISTS observations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		seq INTEGER NOT NULL,
		sheet TEXT NOT NULL,
		body TEXT NOT NULL,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_observations_run ON observations(run_id);
	`

	for _, table := range []string{runsTable, findingsTable, observationsTable} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores run, its findings, and the reviewer observations in one
// transaction. rep may be nil.
func (s *Store) SaveRun(ctx context.Context, run Run, res *validate.Result, rep *review.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, intake_file, working_file, output_file,
			window_start, window_end, retirement_age, copied, findings, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.StartedAt.UTC().Format(timeLayout), run.IntakeFile, run.WorkingFile,
		run.OutputFile, run.WindowStart, run.WindowEnd, run.RetirementAge, run.Copied,
		run.Findings, run.Skipped,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if res != nil {
		for i, f := range res.Findings {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO findings (run_id, seq, kind, kind_name, sheet, cell, row_number,
					employee_id, detail, brief)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				run.ID.String(), i, int(f.Kind), f.Kind.String(), f.Sheet, f.Cell, f.Row,
				f.EmployeeID, f.Detail, f.Brief,
			)
			if err != nil {
				return fmt.Errorf("failed to insert finding: %w", err)
			}
		}
	}

	if rep != nil {
		for i, o := range rep.Observations {
			var errText sql.NullString
			if o.Err != nil {
				errText = sql.NullString{String: o.Err.Error(), Valid: true}
			}

			_, err = tx.ExecContext(ctx, `
				INSERT INTO observations (run_id, seq, sheet, body, error)
				VALUES (?, ?, ?, ?, ?)`,
				run.ID.String(), i, o.Sheet, o.Text, errText,
			)
			if err != nil {
				return fmt.Errorf("failed to insert observation: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

const runColumns = `id, started_at, intake_file, working_file, output_file,
	window_start, window_end, retirement_age, copied, findings, skipped`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run     Run
		id      string
		started string
	)

	err := sc.Scan(&id, &started, &run.IntakeFile, &run.WorkingFile, &run.OutputFile,
		&run.WindowStart, &run.WindowEnd, &run.RetirementAge, &run.Copied, &run.Findings, &run.Skipped)
	if err != nil {
		return Run{}, err
	}

	if run.ID, err = uuid.Parse(id); err != nil {
		return Run{}, fmt.Errorf("failed to parse run id %q: %w", id, err)
	}

	if run.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return Run{}, fmt.Errorf("failed to parse run time %q: %w", started, err)
	}

	return run, nil
}

// Run returns the metadata of one run.
func (s *Store) Run(ctx context.Context, id uuid.UUID) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id.String())

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	if err != nil {
		return Run{}, fmt.Errorf("failed to read run: %w", err)
	}

	return run, nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read run: %w", err)
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Findings returns the findings of a run in the order they were reported.
func (s *Store) Findings(ctx context.Context, id uuid.UUID) ([]validate.Finding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, sheet, cell, row_number, employee_id, detail, brief
		FROM findings WHERE run_id = ? ORDER BY seq`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var out []validate.Finding

	for rows.Next() {
		var (
			f    validate.Finding
			kind int
		)

		if err := rows.Scan(&kind, &f.Sheet, &f.Cell, &f.Row, &f.EmployeeID, &f.Detail, &f.Brief); err != nil {
			return nil, fmt.Errorf("failed to read finding: %w", err)
		}

		f.Kind = validate.Kind(kind)
		out = append(out, f)
	}

	return out, rows.Err()
}

// Observations returns the reviewer observations of a run in sheet order.
func (s *Store) Observations(ctx context.Context, id uuid.UUID) ([]review.Observation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sheet, body, error FROM observations WHERE run_id = ? ORDER BY seq`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	var out []review.Observation

	for rows.Next() {
		var (
			o       review.Observation
			errText sql.NullString
		)

		if err := rows.Scan(&o.Sheet, &o.Text, &errText); err != nil {
			return nil, fmt.Errorf("failed to read observation: %w", err)
		}

		if errText.Valid {
			o.Err = errors.New(errText.String)
		}

		out = append(out, o)
	}

	return out, rows.Err()
}
