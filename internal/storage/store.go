package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/veritas-news/veritas/internal/models"
)

// ErrNotFound is returned when no prediction has the requested ID.
var ErrNotFound = errors.New("prediction not found")

// Store keeps the history of predictions.
type Store interface {
	Save(ctx context.Context, p *models.Prediction) error
	Get(ctx context.Context, id string) (*models.Prediction, error)
	// List returns up to limit predictions, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*models.Prediction, error)
	Close() error
}

// Open returns an in-memory store for an empty dsn and a SQLite store otherwise.
// "memory" is accepted as an explicit alias for the in-memory store.
func Open(ctx context.Context, dsn string) (Store, error) {
	switch strings.TrimSpace(dsn) {
	case "", "memory":
		return NewMemoryStore(), nil
	default:
		s, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
