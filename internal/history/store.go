// Package history persists audit summaries so callers can track how an
// application's scores move between drafts. The audit engine never calls it.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/dshills/grantcritic/internal/schema"
)

// ErrNotFound is returned by Get when no record has the requested id.
var ErrNotFound = errors.New("history: record not found")

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const table = "audits"

// timeLayout is fixed-width so text timestamps sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var columns = []string{
	"id", "content_hash", "institute", "mechanism",
	"compliance_total", "alignment_total", "verdict", "passed",
	"engine_version", "policy_version", "fingerprint", "created_at",
}

// Record is one stored audit summary.
type Record struct {
	ID              string         `json:"id"`
	ContentHash     string         `json:"content_hash"`
	Institute       string         `json:"institute"`
	Mechanism       string         `json:"mechanism"`
	ComplianceTotal int            `json:"compliance_total"`
	AlignmentTotal  int            `json:"alignment_total"`
	Verdict         schema.Verdict `json:"verdict"`
	Passed          bool           `json:"passed"`
	EngineVersion   string         `json:"engine_version"`
	PolicyVersion   string         `json:"policy_version"`
	Fingerprint     string         `json:"fingerprint"`
	CreatedAt       time.Time      `json:"created_at"`
}

// NewRecord summarises a report for storage under a fresh id.
func NewRecord(r *schema.Report, now time.Time) Record {
	return Record{
		ID:              uuid.New().String(),
		ContentHash:     r.Input.ContentHash,
		Institute:       r.Result.Alignment.Institute,
		Mechanism:       string(r.Input.Project.Mechanism),
		ComplianceTotal: r.Result.Compliance.Total,
		AlignmentTotal:  r.Result.Alignment.Total,
		Verdict:         r.Result.Verdict,
		Passed:          r.Result.Passed,
		EngineVersion:   r.Result.EngineVersion,
		PolicyVersion:   r.Result.PolicyVersion,
		Fingerprint:     r.Fingerprint,
		CreatedAt:       now.UTC(),
	}
}

// Comparable reports whether a stored score was produced by an engine with
// the same major version as engineVersion. Unparseable versions never compare.
func Comparable(r Record, engineVersion string) bool {
	a, err := semver.NewVersion(r.EngineVersion)
	if err != nil {
		return false
	}
	b, err := semver.NewVersion(engineVersion)
	if err != nil {
		return false
	}
	return a.Major() == b.Major()
}

// Filter narrows List results. Zero fields are ignored.
type Filter struct {
	ContentHash string
	Institute   string
	Verdict     schema.Verdict
	Limit       int
}

// DefaultLimit caps List when Filter.Limit is zero.
const DefaultLimit = 20

const ddl = `CREATE TABLE IF NOT EXISTS audits (
	id               TEXT PRIMARY KEY,
	content_hash     TEXT NOT NULL,
	institute        TEXT NOT NULL,
	mechanism        TEXT NOT NULL,
	compliance_total INTEGER NOT NULL,
	alignment_total  INTEGER NOT NULL,
	verdict          TEXT NOT NULL,
	passed           BOOLEAN NOT NULL,
	engine_version   TEXT NOT NULL,
	policy_version   TEXT NOT NULL,
	fingerprint      TEXT NOT NULL,
	created_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audits_content_hash ON audits(content_hash);
CREATE INDEX IF NOT EXISTS idx_audits_created_at ON audits(created_at);`

type dialect struct {
	name        string
	driver      string
	placeholder sq.PlaceholderFormat
}

var (
	sqliteDialect   = dialect{name: "sqlite", driver: "sqlite", placeholder: sq.Question}
	postgresDialect = dialect{name: "postgres", driver: "postgres", placeholder: sq.Dollar}
)

// dialectFor picks the database from the DSN: postgres:// and postgresql://
// URLs use Postgres, anything else is a SQLite file path (an optional
// sqlite:// prefix is stripped).
func dialectFor(dsn string) (dialect, string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgresDialect, dsn
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqliteDialect, strings.TrimPrefix(dsn, "sqlite://")
	}
	return sqliteDialect, dsn
}

// Store reads and writes audit records.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open connects to the database named by dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("history: empty DSN")
	}
	d, source := dialectFor(dsn)
	db, err := openDB(d.driver, source)
	if err != nil {
		return nil, fmt.Errorf("history: open %s database: %w", d.name, err)
	}
	if d.name == "sqlite" {
		for _, p := range []string{
			"PRAGMA journal_mode = WAL",
			"PRAGMA busy_timeout = 5000",
		} {
			if _, err := db.ExecContext(ctx, p); err != nil {
				db.Close()
				return nil, fmt.Errorf("history: pragma %q: %w", p, err)
			}
		}
	}
	s := newStore(db, d)
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

func newStore(db *sql.DB, d dialect) *Store {
	return &Store{db: db, dialect: d}
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts a record.
func (s *Store) Save(ctx context.Context, r Record) error {
	if r.ID == "" {
		return errors.New("history: record has no id")
	}
	query, args, err := sq.Insert(table).
		Columns(columns...).
		Values(r.ID, r.ContentHash, r.Institute, r.Mechanism,
			r.ComplianceTotal, r.AlignmentTotal, string(r.Verdict), r.Passed,
			r.EngineVersion, r.PolicyVersion, r.Fingerprint, r.CreatedAt.UTC().Format(timeLayout)).
		PlaceholderFormat(s.dialect.placeholder).
		ToSql()
	if err != nil {
		return fmt.Errorf("history: build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("history: save %s: %w", r.ID, err)
	}
	return nil
}

// Get returns the record with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	query, args, err := sq.Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(s.dialect.placeholder).
		ToSql()
	if err != nil {
		return Record{}, fmt.Errorf("history: build select: %w", err)
	}
	r, err := scanRecord(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("history: get %s: %w", id, err)
	}
	return r, nil
}

// List returns records matching f, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Record, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	b := sq.Select(columns...).From(table)
	if f.ContentHash != "" {
		b = b.Where(sq.Eq{"content_hash": f.ContentHash})
	}
	if f.Institute != "" {
		b = b.Where(sq.Eq{"institute": f.Institute})
	}
	if f.Verdict != "" {
		b = b.Where(sq.Eq{"verdict": string(f.Verdict)})
	}
	query, args, err := b.OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		PlaceholderFormat(s.dialect.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("history: build list: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		r       Record
		verdict string
		created string
	)
	err := row.Scan(&r.ID, &r.ContentHash, &r.Institute, &r.Mechanism,
		&r.ComplianceTotal, &r.AlignmentTotal, &verdict, &r.Passed,
		&r.EngineVersion, &r.PolicyVersion, &r.Fingerprint, &created)
	if err != nil {
		return Record{}, err
	}
	r.Verdict = schema.Verdict(verdict)
	r.CreatedAt, err = time.Parse(timeLayout, created)
	if err != nil {
		return Record{}, fmt.Errorf("parsing created_at %q: %w", created, err)
	}
	return r, nil
}
