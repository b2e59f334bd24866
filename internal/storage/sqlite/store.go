package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/augurlabs/AugurGo/internal/models"
)

// Store persists research results as an append-only log keyed by
// (user_id, market_id, created_at). Records are never updated or deleted;
// lookups take the most recent row per key.
type Store struct {
	db *sql.DB
}

// ResultRecord is one stored research run with its storage metadata.
type ResultRecord struct {
	RowID     int64
	ID        string
	UserID    string
	MarketID  string
	Result    models.MarketResearchResult
	CreatedAt time.Time
}

func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", p, err)
		}
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS research_results (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    market_id TEXT NOT NULL,
    question TEXT,
    verdict TEXT NOT NULL,
    confidence REAL NOT NULL,
    payload TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_user_market_created
    ON research_results(user_id, market_id, created_at);
`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Append inserts a new immutable record. A zero createdAt defaults to now.
func (s *Store) Append(ctx context.Context, userID string, result models.MarketResearchResult, createdAt time.Time) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(result.MarketID) == "" {
		return fmt.Errorf("market id is required")
	}
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO research_results (id, user_id, market_id, question, verdict, confidence, payload, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, result.ID, userID, result.MarketID, result.Question, string(result.Verdict),
		result.Confidence, string(payload), createdAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// Latest returns the most recent record for (userID, marketID), or nil
// when none exists.
func (s *Store) Latest(ctx context.Context, userID, marketID string) (*ResultRecord, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(marketID) == "" {
		return nil, fmt.Errorf("user id and market id are required")
	}
	row := s.db.QueryRowContext(ctx, `
SELECT rowid, id, user_id, market_id, payload, created_at
FROM research_results
WHERE user_id = ? AND market_id = ?
ORDER BY created_at DESC, rowid DESC
LIMIT 1
`, userID, marketID)

	rec, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest result: %w", err)
	}
	return rec, nil
}

// History lists records for a user, newest first, paginated by rowid
// cursor. A zero cursor starts from the top; marketID narrows to one
// market when non-empty.
func (s *Store) History(ctx context.Context, userID, marketID string, cursor int64, limit int) ([]ResultRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT rowid, id, user_id, market_id, payload, created_at
FROM research_results
WHERE user_id = ?
  AND (? = '' OR market_id = ?)
  AND (? = 0 OR rowid < ?)
ORDER BY rowid DESC
LIMIT ?
`, userID, marketID, marketID, cursor, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var records []ResultRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results rows: %w", err)
	}
	return records, nil
}

func scanRecord(scan func(dest ...any) error) (*ResultRecord, error) {
	var rec ResultRecord
	var payload, createdAt string
	if err := scan(&rec.RowID, &rec.ID, &rec.UserID, &rec.MarketID, &payload, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &rec.Result); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	rec.CreatedAt = t
	return &rec, nil
}
