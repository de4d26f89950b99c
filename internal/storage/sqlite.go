package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/veritas-news/veritas/internal/models"
)

// timeLayout is fixed-width so created_at sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore persists predictions in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS predictions (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	source TEXT NOT NULL,
	filename TEXT,
	image_md5 TEXT,
	extracted_text TEXT,
	text TEXT NOT NULL,
	verdict TEXT NOT NULL,
	reason TEXT,
	ocr_engine TEXT,
	translator TEXT,
	translation_fallback INTEGER NOT NULL DEFAULT 0,
	provider TEXT,
	model TEXT,
	duration_ms INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_predictions_created ON predictions(created_at);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, p *models.Prediction) error {
	const q = `
INSERT INTO predictions (id, created_at, source, filename, image_md5, extracted_text, text, verdict,
	reason, ocr_engine, translator, translation_fallback, provider, model, duration_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	text = excluded.text,
	verdict = excluded.verdict,
	reason = excluded.reason,
	duration_ms = excluded.duration_ms`

	fallback := 0
	if p.TranslationFallback {
		fallback = 1
	}
	_, err := s.db.ExecContext(ctx, q,
		p.ID, p.CreatedAt.UTC().Format(timeLayout), p.Source, p.Filename, p.ImageMD5,
		p.ExtractedText, p.Text, p.Verdict, p.Reason, p.OCREngine, p.Translator, fallback,
		p.Provider, p.Model, p.DurationMS)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}
	return nil
}

const selectColumns = `id, created_at, source, coalesce(filename,''), coalesce(image_md5,''),
	coalesce(extracted_text,''), text, verdict, coalesce(reason,''), coalesce(ocr_engine,''),
	coalesce(translator,''), translation_fallback, coalesce(provider,''), coalesce(model,''), duration_ms`

func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.Prediction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM predictions WHERE id = ?`, id)
	p, err := scanPrediction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load prediction: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*models.Prediction, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM predictions ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	var result []*models.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPrediction(sc scanner) (*models.Prediction, error) {
	var (
		p         models.Prediction
		createdAt string
		fallback  int
	)
	if err := sc.Scan(&p.ID, &createdAt, &p.Source, &p.Filename, &p.ImageMD5, &p.ExtractedText,
		&p.Text, &p.Verdict, &p.Reason, &p.OCREngine, &p.Translator, &fallback,
		&p.Provider, &p.Model, &p.DurationMS); err != nil {
		return nil, err
	}
	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	p.CreatedAt = ts
	p.TranslationFallback = fallback != 0
	return &p, nil
}
