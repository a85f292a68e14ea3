// Package store persists plan snapshots and check-in history in SQLite.
package store

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
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"corehabit-api/internal/profile"
	"corehabit-api/internal/progression"
)

var (
	// ErrNotFound is returned when no plan has the requested id.
	ErrNotFound = errors.New("plan not found")
	// ErrConflict is returned when a plan changed since it was read.
	ErrConflict = errors.New("plan was modified concurrently")
)

// PlanRecord is a stored plan snapshot. Version starts at 1 and increases by
// one with every committed check-in.
type PlanRecord struct {
	ID        string              `json:"id"`
	Version   int                 `json:"version"`
	Profile   profile.UserProfile `json:"profile"`
	Plan      progression.Plan    `json:"plan"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CheckInRecord is one committed check-in cycle.
type CheckInRecord struct {
	ID          string                    `json:"id"`
	PlanID      string                    `json:"plan_id"`
	Version     int                       `json:"version"`
	CheckIn     progression.CheckIn       `json:"check_in"`
	Adjustments progression.Adjustments   `json:"adjustments"`
	Summary     progression.ChangeSummary `json:"summary"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// Store is a SQLite-backed plan repository.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" a single database and serializes writes.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		goal TEXT NOT NULL,
		version INTEGER NOT NULL,
		profile_json TEXT NOT NULL,
		plan_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS check_ins (
		id TEXT PRIMARY KEY,
		plan_id TEXT NOT NULL REFERENCES plans(id),
		version INTEGER NOT NULL,
		check_in_json TEXT NOT NULL,
		adjustments_json TEXT NOT NULL,
		summary_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_check_ins_plan ON check_ins(plan_id, version);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreatePlan stores the onboarding snapshot as version 1.
func (s *Store) CreatePlan(ctx context.Context, p profile.UserProfile, plan progression.Plan) (PlanRecord, error) {
	if err := plan.Validate(); err != nil {
		return PlanRecord{}, err
	}
	profileJSON, err := json.Marshal(p)
	if err != nil {
		return PlanRecord{}, fmt.Errorf("failed to encode profile: %w", err)
	}
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return PlanRecord{}, fmt.Errorf("failed to encode plan: %w", err)
	}

	now := s.now()
	rec := PlanRecord{
		ID:        uuid.NewString(),
		Version:   1,
		Profile:   p,
		Plan:      plan.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO plans (id, goal, version, profile_json, plan_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(plan.Goal), rec.Version, string(profileJSON), string(planJSON), formatTime(now), formatTime(now))
	if err != nil {
		return PlanRecord{}, fmt.Errorf("failed to insert plan: %w", err)
	}
	return rec, nil
}

// GetPlan returns the latest snapshot of a plan.
func (s *Store) GetPlan(ctx context.Context, id string) (PlanRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, version, profile_json, plan_json, created_at, updated_at FROM plans WHERE id = ?`, id)
	return scanPlan(row)
}

// CommitCheckIn replaces the plan with next and records the check-in in one
// transaction. It fails with ErrConflict if the stored version is no longer
// expectedVersion.
func (s *Store) CommitCheckIn(ctx context.Context, planID string, expectedVersion int, next progression.Plan, rec CheckInRecord) (PlanRecord, error) {
	if err := next.Validate(); err != nil {
		return PlanRecord{}, err
	}
	planJSON, err := json.Marshal(next)
	if err != nil {
		return PlanRecord{}, fmt.Errorf("failed to encode plan: %w", err)
	}
	checkInJSON, err := json.Marshal(rec.CheckIn)
	if err != nil {
		return PlanRecord{}, fmt.Errorf("failed to encode check-in: %w", err)
	}
	adjJSON, err := json.Marshal(rec.Adjustments)
	if err != nil {
		return PlanRecord{}, fmt.Errorf("failed to encode adjustments: %w", err)
	}
	summaryJSON, err := json.Marshal(rec.Summary)
	if err != nil {
		return PlanRecord{}, fmt.Errorf("failed to encode summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PlanRecord{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now()
	newVersion := expectedVersion + 1
	res, err := tx.ExecContext(ctx,
		`UPDATE plans SET plan_json = ?, goal = ?, version = ?, updated_at = ? WHERE id = ? AND version = ?`,
		string(planJSON), string(next.Goal), newVersion, formatTime(now), planID, expectedVersion)
	if err != nil {
		return PlanRecord{}, fmt.Errorf("failed to update plan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return PlanRecord{}, fmt.Errorf("failed to update plan: %w", err)
	}
	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM plans WHERE id = ?`, planID).Scan(&exists)
		if err != nil {
			return PlanRecord{}, fmt.Errorf("failed to check plan: %w", err)
		}
		if exists == 0 {
			return PlanRecord{}, ErrNotFound
		}
		return PlanRecord{}, ErrConflict
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO check_ins (id, plan_id, version, check_in_json, adjustments_json, summary_json, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, planID, newVersion, string(checkInJSON), string(adjJSON), string(summaryJSON), formatTime(now))
	if err != nil {
		return PlanRecord{}, fmt.Errorf("failed to insert check-in: %w", err)
	}

	row := tx.QueryRowContext(ctx,
		`SELECT id, version, profile_json, plan_json, created_at, updated_at FROM plans WHERE id = ?`, planID)
	out, err := scanPlan(row)
	if err != nil {
		return PlanRecord{}, err
	}
	if err := tx.Commit(); err != nil {
		return PlanRecord{}, fmt.Errorf("failed to commit check-in: %w", err)
	}
	return out, nil
}

// ListCheckIns returns a plan's check-ins, oldest first.
func (s *Store) ListCheckIns(ctx context.Context, planID string) ([]CheckInRecord, error) {
	if _, err := s.GetPlan(ctx, planID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, plan_id, version, check_in_json, adjustments_json, summary_json, created_at
		 FROM check_ins WHERE plan_id = ? ORDER BY version ASC`, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query check-ins: %w", err)
	}
	defer rows.Close()

	records := []CheckInRecord{}
	for rows.Next() {
		var rec CheckInRecord
		var checkInJSON, adjJSON, summaryJSON, created string
		if err := rows.Scan(&rec.ID, &rec.PlanID, &rec.Version, &checkInJSON, &adjJSON, &summaryJSON, &created); err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}
		if err := json.Unmarshal([]byte(checkInJSON), &rec.CheckIn); err != nil {
			return nil, fmt.Errorf("failed to decode check-in: %w", err)
		}
		if err := json.Unmarshal([]byte(adjJSON), &rec.Adjustments); err != nil {
			return nil, fmt.Errorf("failed to decode adjustments: %w", err)
		}
		if err := json.Unmarshal([]byte(summaryJSON), &rec.Summary); err != nil {
			return nil, fmt.Errorf("failed to decode summary: %w", err)
		}
		if rec.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read check-ins: %w", err)
	}
	return records, nil
}

func scanPlan(row *sql.Row) (PlanRecord, error) {
	var rec PlanRecord
	var profileJSON, planJSON, created, updated string
	err := row.Scan(&rec.ID, &rec.Version, &profileJSON, &planJSON, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return PlanRecord{}, ErrNotFound
	}
	if err != nil {
		return PlanRecord{}, fmt.Errorf("failed to get plan: %w", err)
	}
	if err := json.Unmarshal([]byte(profileJSON), &rec.Profile); err != nil {
		return PlanRecord{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	if err := json.Unmarshal([]byte(planJSON), &rec.Plan); err != nil {
		return PlanRecord{}, fmt.Errorf("failed to decode plan: %w", err)
	}
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return PlanRecord{}, err
	}
	if rec.UpdatedAt, err = parseTime(updated); err != nil {
		return PlanRecord{}, err
	}
	return rec, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}
