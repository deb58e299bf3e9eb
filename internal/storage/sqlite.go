// Package storage provides SQLite-based persistence for finished runs and
// saved sessions. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/sky-guardians/internal/sim"
)

// AllLevels selects runs of every level in the level-filtered queries.
const AllLevels = -1

// Store manages the SQLite database connection.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// RunRecord is one finished run.
type RunRecord struct {
	ID          int64   `db:"id"`
	RunID       string  `db:"run_id"`
	Level       int     `db:"level"`
	Hero        string  `db:"hero"`
	Outcome     string  `db:"outcome"`
	Wave        int     `db:"wave"`
	Lives       int     `db:"lives"`
	Kills       int     `db:"kills"`
	GoldEarned  float64 `db:"gold_earned"`
	DamageDealt float64 `db:"damage_dealt"`
	DurationMs  int64   `db:"duration_ms"`
	Admin       bool    `db:"admin"`
	CreatedUnix int64   `db:"created_at"`
}

// Duration returns how long the run lasted in simulated time.
func (r RunRecord) Duration() time.Duration {
	return time.Duration(r.DurationMs) * time.Millisecond
}

// CreatedAt returns when the run was recorded.
func (r RunRecord) CreatedAt() time.Time {
	return time.Unix(r.CreatedUnix, 0)
}

// Session is a saved, resumable run.
type Session struct {
	ID        string `db:"id"`
	Slot      string `db:"slot"`
	RunID     string `db:"run_id"`
	Level     int    `db:"level"`
	Hero      string `db:"hero"`
	Wave      int    `db:"wave"`
	Data      []byte `db:"data"`
	SavedUnix int64  `db:"saved_at"`
}

// SavedAt returns when the session was last written.
func (s Session) SavedAt() time.Time {
	return time.Unix(s.SavedUnix, 0)
}

// LevelStats contains aggregated statistics for a level.
type LevelStats struct {
	Level      int     `db:"level"`
	Runs       int     `db:"runs"`
	Victories  int     `db:"victories"`
	BestWave   int     `db:"best_wave"`
	AvgWave    float64 `db:"avg_wave"`
	TotalKills int64   `db:"total_kills"`
	LastUnix   int64   `db:"last_played"`
}

// LastPlayed returns when the level was last finished; the zero time if never.
func (s LevelStats) LastPlayed() time.Time {
	if s.LastUnix == 0 {
		return time.Time{}
	}
	return time.Unix(s.LastUnix, 0)
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

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			level INTEGER NOT NULL,
			hero TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			wave INTEGER NOT NULL,
			lives INTEGER NOT NULL,
			kills INTEGER NOT NULL,
			gold_earned REAL NOT NULL DEFAULT 0,
			damage_dealt REAL NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			admin INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level ON runs(level);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(level, wave DESC, kills DESC);

		CREATE TABLE IF NOT EXISTS saves (
			id TEXT PRIMARY KEY,
			slot TEXT NOT NULL UNIQUE,
			run_id TEXT NOT NULL,
			level INTEGER NOT NULL,
			hero TEXT NOT NULL DEFAULT '',
			wave INTEGER NOT NULL,
			data BLOB NOT NULL,
			saved_at INTEGER NOT NULL
		);
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

// SaveRun records a finished run and returns the ID of the inserted record.
// Recording the same run id twice is an error.
func (s *Store) SaveRun(r RunRecord) (int64, error) {
	if r.CreatedUnix == 0 {
		r.CreatedUnix = s.now().Unix()
	}
	res, err := s.db.NamedExec(
		`INSERT INTO runs
		 (run_id, level, hero, outcome, wave, lives, kills, gold_earned, damage_dealt, duration_ms, admin, created_at)
		 VALUES (:run_id, :level, :hero, :outcome, :wave, :lives, :kills, :gold_earned, :damage_dealt, :duration_ms, :admin, :created_at)`,
		r,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecordRun stores the summary of a finished run.
func (s *Store) RecordRun(sum sim.Summary) error {
	_, err := s.SaveRun(RunFromSummary(sum))
	return err
}

// RunFromSummary converts an engine summary into a run record.
func RunFromSummary(sum sim.Summary) RunRecord {
	return RunRecord{
		RunID:       sum.RunID,
		Level:       sum.Level,
		Hero:        sum.Hero,
		Outcome:     sum.View.String(),
		Wave:        sum.Wave,
		Lives:       sum.Lives,
		Kills:       sum.Kills,
		GoldEarned:  sum.GoldEarned,
		DamageDealt: sum.DamageDealt,
		DurationMs:  sum.Elapsed.Milliseconds(),
		Admin:       sum.Admin,
	}
}

// TopRuns retrieves the best runs on a level, furthest wave first and then
// most kills. Pass AllLevels to rank every level together.
func (s *Store) TopRuns(level, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []RunRecord
	err := s.db.Select(&runs,
		`SELECT * FROM runs
		 WHERE (? < 0 OR level = ?)
		 ORDER BY wave DESC, kills DESC, id ASC
		 LIMIT ?`,
		level, level, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return runs, nil
}

// RecentRuns retrieves the most recently recorded runs.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []RunRecord
	if err := s.db.Select(&runs, `SELECT * FROM runs ORDER BY id DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return runs, nil
}

// BestWave returns the furthest wave reached on a level.
// Returns 0 if the level was never played.
func (s *Store) BestWave(level int) (int, error) {
	var wave sql.NullInt64
	if err := s.db.Get(&wave, "SELECT MAX(wave) FROM runs WHERE level = ?", level); err != nil {
		return 0, fmt.Errorf("storage: cannot query best wave: %w", err)
	}
	if !wave.Valid {
		return 0, nil
	}
	return int(wave.Int64), nil
}

// LevelStats retrieves aggregated statistics for one level.
func (s *Store) LevelStats(level int) (*LevelStats, error) {
	stats := &LevelStats{}
	err := s.db.Get(stats,
		`SELECT ? AS level,
		        COUNT(*) AS runs,
		        COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0) AS victories,
		        COALESCE(MAX(wave), 0) AS best_wave,
		        COALESCE(AVG(wave), 0) AS avg_wave,
		        COALESCE(SUM(kills), 0) AS total_kills,
		        COALESCE(MAX(created_at), 0) AS last_played
		 FROM runs WHERE level = ?`,
		level, sim.ViewVictory.String(), level,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	return stats, nil
}

// AllLevelStats retrieves statistics for every level that has been played.
func (s *Store) AllLevelStats() (map[int]*LevelStats, error) {
	var rows []LevelStats
	err := s.db.Select(&rows,
		`SELECT level,
		        COUNT(*) AS runs,
		        SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END) AS victories,
		        MAX(wave) AS best_wave,
		        AVG(wave) AS avg_wave,
		        SUM(kills) AS total_kills,
		        MAX(created_at) AS last_played
		 FROM runs
		 GROUP BY level`,
		sim.ViewVictory.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all level stats: %w", err)
	}
	stats := make(map[int]*LevelStats, len(rows))
	for i := range rows {
		stats[rows[i].Level] = &rows[i]
	}
	return stats, nil
}

// ClearRuns deletes the recorded runs of a level, or of every level with
// AllLevels.
func (s *Store) ClearRuns(level int) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE (? < 0 OR level = ?)", level, level); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// SaveSession writes a save blob into a named slot, replacing whatever the
// slot held. It returns the session id.
func (s *Store) SaveSession(sess Session) (string, error) {
	if sess.Slot == "" {
		return "", errors.New("storage: save slot must not be empty")
	}
	sess.ID = uuid.NewString()
	sess.SavedUnix = s.now().Unix()
	_, err := s.db.NamedExec(
		`INSERT INTO saves (id, slot, run_id, level, hero, wave, data, saved_at)
		 VALUES (:id, :slot, :run_id, :level, :hero, :wave, :data, :saved_at)
		 ON CONFLICT(slot) DO UPDATE SET
		   id = excluded.id, run_id = excluded.run_id, level = excluded.level,
		   hero = excluded.hero, wave = excluded.wave, data = excluded.data,
		   saved_at = excluded.saved_at`,
		sess,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save session: %w", err)
	}
	return sess.ID, nil
}

// SaveEngine encodes a running engine and writes it into a slot.
func (s *Store) SaveEngine(slot string, e *sim.Engine) (string, error) {
	blob, err := sim.EncodeSave(e)
	if err != nil {
		return "", err
	}
	st := e.State()
	return s.SaveSession(Session{
		Slot:  slot,
		RunID: st.RunID,
		Level: st.LevelID,
		Hero:  st.HeroID,
		Wave:  st.Wave,
		Data:  blob,
	})
}

// LoadSession retrieves the session in a slot. It returns nil without an
// error when the slot is empty.
func (s *Store) LoadSession(slot string) (*Session, error) {
	var sess Session
	err := s.db.Get(&sess, "SELECT * FROM saves WHERE slot = ?", slot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load session: %w", err)
	}
	return &sess, nil
}

// Sessions lists saved sessions, newest first, without their blobs.
func (s *Store) Sessions() ([]Session, error) {
	var out []Session
	err := s.db.Select(&out,
		`SELECT id, slot, run_id, level, hero, wave, x'' AS data, saved_at
		 FROM saves ORDER BY saved_at DESC, slot ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list sessions: %w", err)
	}
	return out, nil
}

// DeleteSession empties a slot.
func (s *Store) DeleteSession(slot string) error {
	if _, err := s.db.Exec("DELETE FROM saves WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("storage: cannot delete session: %w", err)
	}
	return nil
}
