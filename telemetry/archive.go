package telemetry

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Archive is an append-only SQLite record of runs: stats windows,
// bookmarks and finished lifetimes. It does not hold simulation state.
// A nil *Archive is valid and discards everything.
type Archive struct {
	conn  *sqlx.DB
	runID int64
}

// OpenArchive opens or creates the database at path and registers a new run.
// Returns nil if path is empty (archive disabled).
func OpenArchive(path string, seed int64) (*Archive, error) {
	if path == "" {
		return nil, nil
	}

	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	a := &Archive{conn: conn}
	if err := a.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}

	res, err := conn.Exec("INSERT INTO runs (seed, started_at) VALUES (?, ?)",
		seed, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("register run: %w", err)
	}
	if a.runID, err = res.LastInsertId(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("register run: %w", err)
	}

	return a, nil
}

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed INTEGER NOT NULL,
		started_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS windows (
		run_id INTEGER NOT NULL,
		window_start INTEGER NOT NULL,
		window_end INTEGER NOT NULL,
		sim_time REAL NOT NULL,
		population INTEGER NOT NULL,
		food INTEGER NOT NULL,
		births INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		meals INTEGER NOT NULL,
		contests_hh INTEGER NOT NULL,
		contests_hd INTEGER NOT NULL,
		contests_dd INTEGER NOT NULL,
		matings INTEGER NOT NULL,
		avg_aggression REAL NOT NULL,
		std_aggression REAL NOT NULL,
		avg_speed REAL NOT NULL,
		avg_vision REAL NOT NULL,
		avg_mutation REAL NOT NULL,
		hawk_fraction REAL NOT NULL,
		energy_mean REAL NOT NULL,
		energy_p10 REAL NOT NULL,
		energy_p50 REAL NOT NULL,
		energy_p90 REAL NOT NULL,
		max_generation INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bookmarks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		type TEXT NOT NULL,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS lifetimes (
		run_id INTEGER NOT NULL,
		agent_id INTEGER NOT NULL,
		birth_tick INTEGER NOT NULL,
		death_tick INTEGER NOT NULL,
		generation INTEGER NOT NULL,
		aggression REAL NOT NULL,
		speed REAL NOT NULL,
		vision REAL NOT NULL,
		mutation_multiplier REAL NOT NULL,
		meals INTEGER NOT NULL,
		contests_won INTEGER NOT NULL,
		contests_lost INTEGER NOT NULL,
		children INTEGER NOT NULL,
		peak_energy REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_windows_run ON windows(run_id, window_end);
	CREATE INDEX IF NOT EXISTS idx_bookmarks_run ON bookmarks(run_id);
	CREATE INDEX IF NOT EXISTS idx_lifetimes_run ON lifetimes(run_id);
	`
	_, err := a.conn.Exec(schema)
	return err
}

// RunID returns the id assigned to this run.
func (a *Archive) RunID() int64 {
	if a == nil {
		return 0
	}
	return a.runID
}

type windowRow struct {
	RunID int64 `db:"run_id"`
	WindowStats
}

type bookmarkRow struct {
	RunID int64 `db:"run_id"`
	Bookmark
}

type lifetimeRow struct {
	RunID int64 `db:"run_id"`
	LifetimeRecord
}

// WriteWindow appends one stats window.
func (a *Archive) WriteWindow(stats WindowStats) error {
	if a == nil {
		return nil
	}
	_, err := a.conn.NamedExec(`INSERT INTO windows
		(run_id, window_start, window_end, sim_time, population, food,
		 births, deaths, meals, contests_hh, contests_hd, contests_dd, matings,
		 avg_aggression, std_aggression, avg_speed, avg_vision, avg_mutation, hawk_fraction,
		 energy_mean, energy_p10, energy_p50, energy_p90, max_generation)
		VALUES
		(:run_id, :window_start, :window_end, :sim_time, :population, :food,
		 :births, :deaths, :meals, :contests_hh, :contests_hd, :contests_dd, :matings,
		 :avg_aggression, :std_aggression, :avg_speed, :avg_vision, :avg_mutation, :hawk_fraction,
		 :energy_mean, :energy_p10, :energy_p50, :energy_p90, :max_generation)`,
		windowRow{RunID: a.runID, WindowStats: stats})
	if err != nil {
		return fmt.Errorf("archive window: %w", err)
	}
	return nil
}

// WriteBookmark appends one bookmark.
func (a *Archive) WriteBookmark(b Bookmark) error {
	if a == nil {
		return nil
	}
	_, err := a.conn.NamedExec(
		`INSERT INTO bookmarks (run_id, type, tick, description) VALUES (:run_id, :type, :tick, :description)`,
		bookmarkRow{RunID: a.runID, Bookmark: b})
	if err != nil {
		return fmt.Errorf("archive bookmark: %w", err)
	}
	return nil
}

// WriteLifetimes appends finished lives in a single transaction.
func (a *Archive) WriteLifetimes(records []LifetimeRecord) error {
	if a == nil || len(records) == 0 {
		return nil
	}

	tx, err := a.conn.Beginx()
	if err != nil {
		return fmt.Errorf("archive lifetimes: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamed(`INSERT INTO lifetimes
		(run_id, agent_id, birth_tick, death_tick, generation, aggression, speed, vision,
		 mutation_multiplier, meals, contests_won, contests_lost, children, peak_energy)
		VALUES
		(:run_id, :agent_id, :birth_tick, :death_tick, :generation, :aggression, :speed, :vision,
		 :mutation_multiplier, :meals, :contests_won, :contests_lost, :children, :peak_energy)`)
	if err != nil {
		return fmt.Errorf("archive lifetimes: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(lifetimeRow{RunID: a.runID, LifetimeRecord: r}); err != nil {
			return fmt.Errorf("archive lifetime %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("archive lifetimes: %w", err)
	}
	return nil
}

// Windows returns the stats windows recorded for a run, oldest first.
func (a *Archive) Windows(runID int64) ([]WindowStats, error) {
	var out []WindowStats
	err := a.conn.Select(&out, `SELECT window_start, window_end, sim_time, population, food,
		births, deaths, meals, contests_hh, contests_hd, contests_dd, matings,
		avg_aggression, std_aggression, avg_speed, avg_vision, avg_mutation, hawk_fraction,
		energy_mean, energy_p10, energy_p50, energy_p90, max_generation
		FROM windows WHERE run_id = ? ORDER BY window_end`, runID)
	if err != nil {
		return nil, fmt.Errorf("load windows: %w", err)
	}
	return out, nil
}

// Bookmarks returns the bookmarks recorded for a run in insertion order.
func (a *Archive) Bookmarks(runID int64) ([]Bookmark, error) {
	var out []Bookmark
	err := a.conn.Select(&out,
		`SELECT type, tick, description FROM bookmarks WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}
	return out, nil
}

// LifetimeCount returns how many finished lives a run recorded.
func (a *Archive) LifetimeCount(runID int64) (int, error) {
	var n int
	if err := a.conn.Get(&n, "SELECT COUNT(*) FROM lifetimes WHERE run_id = ?", runID); err != nil {
		return 0, fmt.Errorf("count lifetimes: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	if a == nil {
		return nil
	}
	return a.conn.Close()
}
