package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/snapview/internal/logging"
	"github.com/raysh454/snapview/internal/model"
	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNotFound is returned when a run id has no row.
var ErrNotFound = errors.New("run not found")

// Store journals pipeline runs in an embedded SQLite database. When a URL
// was captured before, the new row carries a text diff against the most
// recent previous capture of the same URL.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Open creates (or opens) the history database under storageRoot.
func Open(storageRoot string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = &logging.NoopLogger{}
	}

	if err := os.MkdirAll(storageRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}

	dbPath := filepath.Join(storageRoot, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	logger = logger.With(logging.Field{Key: "component", Value: "history"})
	logger.Info("history store opened", logging.Field{Key: "path", Value: dbPath})

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record journals one run and returns the stored row, including the computed
// diff against the previous capture of the same URL when one exists.
func (s *Store) Record(ctx context.Context, url string, req model.RunRequest, res *model.RunResult) (*model.RunRecord, error) {
	rec := &model.RunRecord{
		ID:             uuid.New().String(),
		URL:            url,
		ScreenshotPath: res.ScreenshotPath,
		PageText:       res.PageText,
		Contacts:       res.Contacts,
		Error:          res.Error,
		Cause:          res.Cause,
		CreatedAt:      time.Now().UTC(),
	}
	if req.Proxy != nil {
		rec.ProxyAddr = req.Proxy.Addr()
		rec.Protocol = req.Proxy.Protocol
	}

	// Diff against the latest earlier capture of the same URL. Failures here
	// must not lose the run row itself.
	if res.PageText != "" {
		prev, err := s.latestTextForURL(ctx, url)
		if err != nil {
			s.logger.Warn("loading previous capture for diff",
				logging.Field{Key: "url", Value: url},
				logging.Field{Key: "error", Value: err.Error()})
		} else if prev != "" {
			diffJSON, err := computeTextDiffJSON(prev, res.PageText)
			if err != nil {
				s.logger.Warn("computing text diff",
					logging.Field{Key: "url", Value: url},
					logging.Field{Key: "error", Value: err.Error()})
			} else {
				rec.TextDiff = diffJSON
			}
		}
	}

	contactsJSON, err := json.Marshal(rec.Contacts)
	if err != nil {
		return nil, fmt.Errorf("marshaling contacts: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO runs
		(id, url, proxy_addr, protocol, screenshot_path, page_text, contacts, error_kind, cause, text_diff, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.URL, rec.ProxyAddr, string(rec.Protocol), rec.ScreenshotPath,
		rec.PageText, string(contactsJSON), string(rec.Error), rec.Cause,
		rec.TextDiff, rec.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run row: %w", err)
	}

	s.logger.Info("run recorded",
		logging.Field{Key: "run_id", Value: rec.ID},
		logging.Field{Key: "url", Value: url},
		logging.Field{Key: "error_kind", Value: string(rec.Error)})
	return rec, nil
}

// Get returns one run by id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*model.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, selectCols+` FROM runs WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// List returns the most recent runs, newest first, up to limit.
func (s *Store) List(ctx context.Context, limit int) ([]*model.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, selectCols+` FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListByURL returns the runs for one URL, newest first, up to limit.
func (s *Store) ListByURL(ctx context.Context, url string, limit int) ([]*model.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, selectCols+` FROM runs WHERE url = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, url, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// latestTextForURL returns the page text of the most recent successful-text
// capture of url, or "" when none exists.
func (s *Store) latestTextForURL(ctx context.Context, url string) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT page_text FROM runs WHERE url = ? AND page_text != '' ORDER BY created_at DESC, rowid DESC LIMIT 1`, url,
	).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return text, err
}

const selectCols = `SELECT id, url, proxy_addr, protocol, screenshot_path, page_text, contacts, error_kind, cause, text_diff, created_at`

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*model.RunRecord, error) {
	var rec model.RunRecord
	var protocol, errorKind, contactsJSON string
	var createdAt int64

	err := row.Scan(&rec.ID, &rec.URL, &rec.ProxyAddr, &protocol, &rec.ScreenshotPath,
		&rec.PageText, &contactsJSON, &errorKind, &rec.Cause, &rec.TextDiff, &createdAt)
	if err != nil {
		return nil, err
	}

	rec.Protocol = model.Protocol(protocol)
	rec.Error = model.ErrorKind(errorKind)
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	rec.Contacts = model.Contacts{Emails: []string{}, Phones: []string{}}
	if err := json.Unmarshal([]byte(contactsJSON), &rec.Contacts); err != nil {
		return nil, fmt.Errorf("decoding contacts for run %s: %w", rec.ID, err)
	}
	if rec.Contacts.Emails == nil {
		rec.Contacts.Emails = []string{}
	}
	if rec.Contacts.Phones == nil {
		rec.Contacts.Phones = []string{}
	}
	return &rec, nil
}

func collectRecords(rows *sql.Rows) ([]*model.RunRecord, error) {
	out := make([]*model.RunRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
