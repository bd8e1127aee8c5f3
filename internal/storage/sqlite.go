// Package storage provides SQLite-based persistence for simulated fight
// results. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/velachev/barrage/internal/core"
)

// Store manages the SQLite database connection for fight persistence.
type Store struct {
	db *sql.DB
}

// FightRecord represents one persisted simulation run.
type FightRecord struct {
	ID          int64
	EncounterID string
	Seed        int64
	Outcome     string
	Duration    float64 // simulated seconds
	Ticks       int64
	ShotsFired  int
	Culled      int
	Phases      int
	Damage      int
	PeakLive    int
	CreatedAt   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS fights (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			encounter_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			duration_secs REAL NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			shots_fired INTEGER NOT NULL DEFAULT 0,
			culled INTEGER NOT NULL DEFAULT 0,
			phases INTEGER NOT NULL DEFAULT 0,
			damage INTEGER NOT NULL DEFAULT 0,
			peak_live INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_fights_encounter ON fights(encounter_id);
		CREATE INDEX IF NOT EXISTS idx_fights_clears ON fights(encounter_id, outcome, duration_secs);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveFight records a finished simulation run.
// Returns the ID of the inserted record.
func (s *Store) SaveFight(stats core.FightStats) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO fights
		 (encounter_id, seed, outcome, duration_secs, ticks, shots_fired, culled, phases, damage, peak_live)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.Encounter,
		stats.Seed,
		string(stats.Outcome),
		stats.Duration,
		stats.Ticks,
		stats.ShotsFired,
		stats.Culled,
		stats.PhasesEntered,
		stats.DamageDealt,
		stats.PeakLive,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save fight: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const fightColumns = `id, encounter_id, seed, outcome, duration_secs, ticks,
	shots_fired, culled, phases, damage, peak_live, created_at`

// scanFight reads one fight row. The datetime arrives as either time.Time
// or string depending on the driver's column affinity.
func scanFight(rows *sql.Rows) (FightRecord, error) {
	var r FightRecord
	var createdAt any
	if err := rows.Scan(
		&r.ID,
		&r.EncounterID,
		&r.Seed,
		&r.Outcome,
		&r.Duration,
		&r.Ticks,
		&r.ShotsFired,
		&r.Culled,
		&r.Phases,
		&r.Damage,
		&r.PeakLive,
		&createdAt,
	); err != nil {
		return r, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	r.CreatedAt = parseTimestamp(createdAt)
	return r, nil
}

func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// RecentFights retrieves the most recent runs, newest first. An empty
// encounterID matches every encounter.
func (s *Store) RecentFights(encounterID string, limit int) ([]FightRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + fightColumns + ` FROM fights ORDER BY created_at DESC, id DESC LIMIT ?`
	args := []any{limit}
	if encounterID != "" {
		query = `SELECT ` + fightColumns + ` FROM fights WHERE encounter_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`
		args = []any{encounterID, limit}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query fights: %w", err)
	}
	defer rows.Close()

	var records []FightRecord
	for rows.Next() {
		r, err := scanFight(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// FastestClears retrieves cleared runs ordered by simulated duration,
// quickest first.
func (s *Store) FastestClears(encounterID string, limit int) ([]FightRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+fightColumns+`
		 FROM fights
		 WHERE encounter_id = ? AND outcome = ?
		 ORDER BY duration_secs ASC
		 LIMIT ?`,
		encounterID, string(core.OutcomeCleared), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query clears: %w", err)
	}
	defer rows.Close()

	var records []FightRecord
	for rows.Next() {
		r, err := scanFight(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// ListEncounters returns the distinct encounter IDs that have recorded
// fights, alphabetically.
func (s *Store) ListEncounters() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT encounter_id FROM fights ORDER BY encounter_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list encounters: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: cannot scan encounter id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return ids, nil
}

// EncounterStats contains aggregated statistics for one encounter.
type EncounterStats struct {
	EncounterID string
	Fights      int
	Clears      int
	BestClear   float64 // shortest cleared duration, 0 when no clears
	AvgShots    float64
	LastRun     time.Time
}

// GetEncounterStats retrieves aggregated statistics for one encounter.
func (s *Store) GetEncounterStats(encounterID string) (*EncounterStats, error) {
	stats := &EncounterStats{EncounterID: encounterID}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(MIN(CASE WHEN outcome = ? THEN duration_secs END), 0),
		        COALESCE(AVG(shots_fired), 0)
		 FROM fights WHERE encounter_id = ?`,
		string(core.OutcomeCleared), string(core.OutcomeCleared), encounterID,
	).Scan(&stats.Fights, &stats.Clears, &stats.BestClear, &stats.AvgShots)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get encounter stats: %w", err)
	}

	var lastRun any
	err = s.db.QueryRow(
		`SELECT created_at FROM fights WHERE encounter_id = ? ORDER BY created_at DESC LIMIT 1`,
		encounterID,
	).Scan(&lastRun)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last run: %w", err)
	}
	if err == nil {
		stats.LastRun = parseTimestamp(lastRun)
	}

	return stats, nil
}
