// Package store is the SQLite persistence adapter. Reports and letters are
// stored as JSON documents with the columns the API queries by promoted to
// indexed fields.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
)

var tracer = otel.Tracer("store")

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id             TEXT PRIMARY KEY,
	primary_bureau TEXT NOT NULL DEFAULT '',
	created_at     TEXT NOT NULL,
	doc            TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS letters (
	id         TEXT PRIMARY KEY,
	report_id  TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL,
	created_at TEXT NOT NULL,
	doc        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_letters_report ON letters(report_id);
`

// SQLite implements port.ReportStore on a local SQLite database.
type SQLite struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the database at dsn and applies the schema.
func Open(dsn string, logger *zap.Logger) (*SQLite, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single writer; SQLite serializes writes anyway and this avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) SaveReport(ctx context.Context, report *domain.CreditReport) error {
	ctx, span := tracer.Start(ctx, "SQLite.SaveReport")
	defer span.End()

	doc, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	query, args, err := sq.
		Insert("reports").
		Columns("id", "primary_bureau", "created_at", "doc").
		Values(report.ID, report.PrimaryBureau, report.CreatedAt.Format(timeFormat), string(doc)).
		Suffix("ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, primary_bureau = excluded.primary_bureau").
		ToSql()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *SQLite) GetReport(ctx context.Context, reportID string) (*domain.CreditReport, error) {
	ctx, span := tracer.Start(ctx, "SQLite.GetReport")
	defer span.End()

	query, args, err := sq.
		Select("doc").
		From("reports").
		Where(sq.Eq{"id": reportID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var doc string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Resource: "report", ID: reportID}
		}
		return nil, err
	}

	var report domain.CreditReport
	if err := json.Unmarshal([]byte(doc), &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}

func (s *SQLite) ListReports(ctx context.Context, page, pageSize int) ([]domain.CreditReport, error) {
	ctx, span := tracer.Start(ctx, "SQLite.ListReports")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query, args, err := sq.
		Select("doc").
		From("reports").
		OrderBy("created_at DESC").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.CreditReport
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var r domain.CreditReport
		if err := json.Unmarshal([]byte(doc), &r); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *SQLite) SaveLetters(ctx context.Context, letters []domain.Letter) error {
	ctx, span := tracer.Start(ctx, "SQLite.SaveLetters")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, letter := range letters {
		doc, err := json.Marshal(letter)
		if err != nil {
			return fmt.Errorf("encode letter: %w", err)
		}

		query, args, err := sq.
			Insert("letters").
			Columns("id", "report_id", "status", "created_at", "doc").
			Values(letter.ID, letter.ReportID, string(letter.Status), letter.CreatedAt.Format(timeFormat), string(doc)).
			Suffix("ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, status = excluded.status").
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLite) GetLetter(ctx context.Context, letterID string) (*domain.Letter, error) {
	ctx, span := tracer.Start(ctx, "SQLite.GetLetter")
	defer span.End()

	query, args, err := sq.
		Select("doc").
		From("letters").
		Where(sq.Eq{"id": letterID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var doc string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Resource: "letter", ID: letterID}
		}
		return nil, err
	}

	var letter domain.Letter
	if err := json.Unmarshal([]byte(doc), &letter); err != nil {
		return nil, fmt.Errorf("decode letter: %w", err)
	}
	return &letter, nil
}

func (s *SQLite) ListLetters(ctx context.Context, reportID string) ([]domain.Letter, error) {
	ctx, span := tracer.Start(ctx, "SQLite.ListLetters")
	defer span.End()

	query, args, err := sq.
		Select("doc").
		From("letters").
		Where(sq.Eq{"report_id": reportID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var letters []domain.Letter
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var l domain.Letter
		if err := json.Unmarshal([]byte(doc), &l); err != nil {
			return nil, fmt.Errorf("decode letter: %w", err)
		}
		letters = append(letters, l)
	}
	return letters, rows.Err()
}

func (s *SQLite) UpdateLetterStatus(ctx context.Context, letterID string, status domain.LetterStatus) error {
	ctx, span := tracer.Start(ctx, "SQLite.UpdateLetterStatus")
	defer span.End()

	letter, err := s.GetLetter(ctx, letterID)
	if err != nil {
		return err
	}
	letter.Status = status

	doc, err := json.Marshal(letter)
	if err != nil {
		return fmt.Errorf("encode letter: %w", err)
	}

	query, args, err := sq.
		Update("letters").
		Set("status", string(status)).
		Set("doc", string(doc)).
		Where(sq.Eq{"id": letterID}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &domain.ErrNotFound{Resource: "letter", ID: letterID}
	}

	s.logger.Debug("letter status updated",
		zap.String("letter_id", letterID),
		zap.String("status", string(status)),
	)
	return nil
}

const timeFormat = "2006-01-02T15:04:05.000Z07:00"
