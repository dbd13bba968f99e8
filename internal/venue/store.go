package venue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store loads venues by id. Implementations return the decoded venue together
// with its raw document so handlers can serve the dataset without re-encoding.
type Store interface {
	Load(ctx context.Context, id string) (*Venue, []byte, error)
}

// SampleStore serves the built-in sample theatre under a single id.
type SampleStore struct {
	ID string
}

func (s SampleStore) Load(_ context.Context, id string) (*Venue, []byte, error) {
	if id != s.ID {
		return nil, nil, fmt.Errorf("%w: %s", ErrVenueNotFound, id)
	}
	v := NewSampleVenue(id)
	raw, err := Encode(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encode sample venue: %w", err)
	}
	return v, raw, nil
}

// FileStore reads <dir>/<id>.json.
type FileStore struct {
	Dir string
}

func (s FileStore) Load(_ context.Context, id string) (*Venue, []byte, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, nil, fmt.Errorf("%w: %q", ErrVenueNotFound, id)
	}
	raw, err := os.ReadFile(filepath.Join(s.Dir, id+".json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrVenueNotFound, id)
		}
		return nil, nil, fmt.Errorf("read venue file: %w", err)
	}
	v, err := Decode(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("decode venue %s: %w", id, err)
	}
	v.ID = id
	return v, raw, nil
}

// PostgresStore keeps venue documents in the venues table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Load(ctx context.Context, id string) (*Venue, []byte, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT document FROM venues WHERE id = $1`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("%w: %s", ErrVenueNotFound, id)
		}
		return nil, nil, fmt.Errorf("query venue: %w", err)
	}
	v, err := Decode(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("decode venue %s: %w", id, err)
	}
	v.ID = id
	return v, raw, nil
}

// Save upserts a venue document. The venue is validated before it is written.
func (s *PostgresStore) Save(ctx context.Context, id string, raw []byte) error {
	if _, err := Decode(raw); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO venues (id, document) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		id, raw)
	if err != nil {
		return fmt.Errorf("save venue: %w", err)
	}
	return nil
}

// Fallback tries each store in order and returns the first hit.
type Fallback []Store

func (f Fallback) Load(ctx context.Context, id string) (*Venue, []byte, error) {
	for _, s := range f {
		v, raw, err := s.Load(ctx, id)
		if err == nil {
			return v, raw, nil
		}
		if !errors.Is(err, ErrVenueNotFound) {
			return nil, nil, err
		}
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrVenueNotFound, id)
}
