// Package storage owns the durable workout collection. The whole collection
// is one JSON array held under a single key in a SQLite-backed key-value
// table; every operation is a read-modify-write over that one blob, executed
// inside a transaction so a failed write never leaves a partial state.
//
// There is no cross-process locking: two processes writing concurrently are
// last-write-wins over the whole collection. Single-device, single-process
// use is the design point.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/meltforce/stepup/internal/models"
)

// workoutsKey names the single store entry holding the workout collection.
const workoutsKey = "stepup_workouts"

// ErrNotFound is returned by GetByID when no record has the given id. It is
// not a storage failure; callers branch with errors.Is.
var ErrNotFound = errors.New("workout not found")

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store persists the workout collection.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (or creates) the store database at the given path. The schema
// must already be applied via RunMigrations.
func Open(path string, log *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging store db: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunMigrations applies all pending embedded migrations to the database at
// the given path.
func RunMigrations(dbPath string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+dbPath)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Save upserts a workout by id: an existing record with the same id is
// replaced entirely, otherwise the record is appended. On error the persisted
// collection is unchanged.
func (s *Store) Save(ctx context.Context, w models.Workout) error {
	return s.modify(ctx, func(workouts []models.Workout) []models.Workout {
		for i := range workouts {
			if workouts[i].ID == w.ID {
				workouts[i] = w
				return workouts
			}
		}
		return append(workouts, w)
	})
}

// Delete removes the workout with the given id. Deleting an id that is not
// present is a no-op success.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.modify(ctx, func(workouts []models.Workout) []models.Workout {
		out := workouts[:0]
		for _, w := range workouts {
			if w.ID != id {
				out = append(out, w)
			}
		}
		return out
	})
}

// List returns all stored workouts in storage order. A read failure is
// logged and reported as an empty collection so list views always render.
func (s *Store) List(ctx context.Context) []models.Workout {
	workouts, err := s.load(ctx, s.db)
	if err != nil {
		s.log.Warn("reading workout collection failed, treating as empty", "error", err)
		return nil
	}
	return workouts
}

// GetByID returns the workout with the given id, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (models.Workout, error) {
	workouts, err := s.load(ctx, s.db)
	if err != nil {
		return models.Workout{}, err
	}
	for _, w := range workouts {
		if w.ID == id {
			return w, nil
		}
	}
	return models.Workout{}, ErrNotFound
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) load(ctx context.Context, q querier) ([]models.Workout, error) {
	var raw string
	err := q.QueryRowContext(ctx, `SELECT value FROM store WHERE key = ?`, workoutsKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading workout collection: %w", err)
	}

	var workouts []models.Workout
	if err := json.Unmarshal([]byte(raw), &workouts); err != nil {
		return nil, fmt.Errorf("decoding workout collection: %w", err)
	}
	return workouts, nil
}

// modify runs a read-modify-write over the collection in one transaction.
func (s *Store) modify(ctx context.Context, fn func([]models.Workout) []models.Workout) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning store tx: %w", err)
	}
	defer tx.Rollback()

	workouts, err := s.load(ctx, tx)
	if err != nil {
		return err
	}

	workouts = fn(workouts)
	if workouts == nil {
		// The stored blob is always a JSON array, never null.
		workouts = []models.Workout{}
	}

	raw, err := json.Marshal(workouts)
	if err != nil {
		return fmt.Errorf("encoding workout collection: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO store (key, value) VALUES (?, ?)`,
		workoutsKey, string(raw)); err != nil {
		return fmt.Errorf("writing workout collection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing workout collection: %w", err)
	}
	return nil
}
