package recorder

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"CoinTicker/internal/model"
)

// SQLiteRecorder persists samples to a SQLite database.
type SQLiteRecorder struct {
	db    *sqlx.DB
	runID string
	mu    sync.Mutex
}

// sampleRow mirrors the samples table.
type sampleRow struct {
	RunID        string  `db:"run_id"`
	RecordedAt   int64   `db:"recorded_at"`
	Symbol       string  `db:"symbol"`
	UpdatedAt    int64   `db:"updated_at"`
	PriceUSD     float64 `db:"price_usd"`
	PriceEUR     float64 `db:"price_eur"`
	Change24hPct float64 `db:"change_24h_pct"`
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
// Rows written by this recorder are tagged with a fresh run id.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, runID: uuid.NewString()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logrus.WithField("run_id", r.runID).Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS samples (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			recorded_at    INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			updated_at     INTEGER NOT NULL,
			price_usd      REAL,
			price_eur      REAL,
			change_24h_pct REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_samples_symbol ON samples(symbol, id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RunID identifies the process run that wrote a row.
func (r *SQLiteRecorder) RunID() string { return r.runID }

func (r *SQLiteRecorder) RecordSample(s *model.PriceSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.NamedExec(`INSERT INTO samples
		(run_id, recorded_at, symbol, updated_at, price_usd, price_eur, change_24h_pct)
		VALUES (:run_id, :recorded_at, :symbol, :updated_at, :price_usd, :price_eur, :change_24h_pct)`,
		sampleRow{
			RunID:        r.runID,
			RecordedAt:   time.Now().Unix(),
			Symbol:       s.Symbol,
			UpdatedAt:    s.Timestamp.Unix(),
			PriceUSD:     s.PriceUSD,
			PriceEUR:     s.PriceEUR,
			Change24hPct: s.Change24hPct,
		})
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) Recent(symbol string, limit int) ([]model.PriceSample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rows []sampleRow
	err := r.db.Select(&rows, `SELECT run_id, recorded_at, symbol, updated_at, price_usd, price_eur, change_24h_pct
		FROM samples WHERE symbol = ? ORDER BY id DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("select recent samples: %w", err)
	}

	out := make([]model.PriceSample, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = model.PriceSample{
			Symbol:       row.Symbol,
			Timestamp:    time.Unix(row.UpdatedAt, 0).UTC(),
			PriceUSD:     row.PriceUSD,
			PriceEUR:     row.PriceEUR,
			Change24hPct: row.Change24hPct,
		}
	}
	return out, nil
}

func (r *SQLiteRecorder) Close() error {
	logrus.Info("closing sqlite recorder")
	return r.db.Close()
}
