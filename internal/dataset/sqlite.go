package dataset

import (
	"errors"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/joelkehle/topsis-agency/internal/topsis"
)

const sqliteSchema = `
CREATE TABLE criteria (
	position    INTEGER PRIMARY KEY,
	name        TEXT NOT NULL,
	weight      REAL NOT NULL,
	impact      TEXT NOT NULL,
	norm        REAL NOT NULL,
	ideal_best  REAL NOT NULL,
	ideal_worst REAL NOT NULL
);

CREATE TABLE alternatives (
	position         INTEGER PRIMARY KEY,
	identifier       TEXT NOT NULL,
	topsis_score     REAL NOT NULL,
	"rank"           INTEGER NOT NULL,
	separation_best  REAL NOT NULL,
	separation_worst REAL NOT NULL
);

CREATE TABLE criterion_values (
	alternative INTEGER NOT NULL,
	criterion   INTEGER NOT NULL,
	raw         TEXT NOT NULL,
	PRIMARY KEY (alternative, criterion)
);
`

func writeSQLiteFile(path string, table topsis.RawTable, res topsis.Result) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale sqlite file: %w", err)
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := WriteSQLite(db, table, res); err != nil {
		db.Close()
		return err
	}
	return db.Close()
}

// WriteSQLite stores one run in db: the criteria with their weight, impact and
// ideal values, the ranked alternatives, and every raw criterion cell.
func WriteSQLite(db *sqlx.DB, table topsis.RawTable, res topsis.Result) error {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for j, name := range table.Header[1:] {
		if _, err := tx.Exec(
			`INSERT INTO criteria (position, name, weight, impact, norm, ideal_best, ideal_worst) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			j+1, name, res.Weights[j], res.Impacts[j].String(), res.Norms[j], res.IdealBest[j], res.IdealWorst[j],
		); err != nil {
			return fmt.Errorf("insert criterion %d: %w", j+1, err)
		}
	}
	for i, rec := range table.Records {
		if _, err := tx.Exec(
			`INSERT INTO alternatives (position, identifier, topsis_score, "rank", separation_best, separation_worst) VALUES (?, ?, ?, ?, ?, ?)`,
			i+1, rec[0], res.Scores[i], res.Ranks[i], res.SeparationBest[i], res.SeparationWorst[i],
		); err != nil {
			return fmt.Errorf("insert alternative %d: %w", i+1, err)
		}
		for j, cell := range rec[1:] {
			if _, err := tx.Exec(
				`INSERT INTO criterion_values (alternative, criterion, raw) VALUES (?, ?, ?)`,
				i+1, j+1, cell,
			); err != nil {
				return fmt.Errorf("insert value %d/%d: %w", i+1, j+1, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
