// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package gazetteer

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jcodagnone/chorography/spatial"
)

// EraCount is the number of catalog gazetteers of an era.
type EraCount struct {
	Era   string `json:"era"`
	Count int    `json:"count"`
}

// RegionCount is the number of catalog gazetteers of a region.
type RegionCount struct {
	Region string `json:"region"`
	Count  int    `json:"count"`
}

// CatalogStats summarises the catalog mirror.
type CatalogStats struct {
	Total    int           `json:"total"`
	Located  int           `json:"located"`
	Cells    int           `json:"cells"`
	ByEra    []EraCount    `json:"by_era"`
	ByRegion []RegionCount `json:"by_region"`
	LoadedAt time.Time     `json:"loaded_at"`
}

// Repository mirrors the catalog into SQL for aggregate queries.
type Repository interface {
	// CreateSchema creates the gazetteers table
	CreateSchema() error

	// BulkInsertRecords inserts catalog records in a single transaction
	BulkInsertRecords(records []Record) error

	// Stats aggregates the mirrored catalog; topRegions bounds ByRegion
	Stats(topRegions int) (*CatalogStats, error)

	// DB returns the underlying database connection
	DB() *sql.DB
}

type sqlCatalogRepository struct {
	db *sql.DB
}

// NewRepository creates a catalog repository on db.
func NewRepository(db *sql.DB) Repository {
	return &sqlCatalogRepository{db: db}
}

// MirrorCatalog creates the schema and copies every catalog record into repo.
func MirrorCatalog(repo Repository, catalog *Catalog) error {
	if err := repo.CreateSchema(); err != nil {
		return fmt.Errorf("creating catalog schema: %w", err)
	}

	if err := repo.BulkInsertRecords(catalog.Records()); err != nil {
		return fmt.Errorf("mirroring catalog: %w", err)
	}

	return nil
}

func (r *sqlCatalogRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlCatalogRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS gazetteers (
			title VARCHAR PRIMARY KEY,
			author_era VARCHAR,
			edition VARCHAR,
			period VARCHAR,
			era INTEGER NOT NULL,
			region VARCHAR,
			x DOUBLE,
			y DOUBLE,
			sys_id VARCHAR,
			uri VARCHAR,
			h3_res5 UBIGINT,
			loaded_at TIMESTAMP NOT NULL
		);
	`)

	return err
}

func (r *sqlCatalogRepository) BulkInsertRecords(records []Record) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO gazetteers(
			title, author_era, edition, period, era, region,
			x, y, sys_id, uri, h3_res5, loaded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()

		return err
	}
	defer stmt.Close()

	loadedAt := clock.Now().UTC()

	for _, rec := range records {
		var cell any

		if p, ok := rec.Point(); ok {
			if c, err := p.Cell(spatial.CellResolution); err == nil {
				cell = int64(c)
			}
		}

		_, err := stmt.Exec(
			rec.Title,
			nullable(rec.AuthorEra),
			nullable(rec.Edition),
			nullable(rec.Period),
			int(rec.Era()),
			nullable(rec.Region),
			nullable(rec.X),
			nullable(rec.Y),
			nullable(rec.SysID),
			nullable(rec.URI),
			cell,
			loadedAt,
		)
		if err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("inserting %q: %w", rec.Title, err)
		}
	}

	return tx.Commit()
}

func (r *sqlCatalogRepository) Stats(topRegions int) (*CatalogStats, error) {
	stats := &CatalogStats{}

	var loadedAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT
			count(*),
			count(*) FILTER (WHERE x IS NOT NULL AND y IS NOT NULL),
			count(DISTINCT h3_res5),
			max(loaded_at)
		FROM gazetteers
	`).Scan(&stats.Total, &stats.Located, &stats.Cells, &loadedAt)
	if err != nil {
		return nil, fmt.Errorf("counting gazetteers: %w", err)
	}

	if loadedAt.Valid {
		stats.LoadedAt = loadedAt.Time
	}

	counts := make(map[Era]int)

	rows, err := r.db.Query(`SELECT era, count(*) FROM gazetteers GROUP BY era`)
	if err != nil {
		return nil, fmt.Errorf("counting eras: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var era, n int
		if err := rows.Scan(&era, &n); err != nil {
			return nil, err
		}

		counts[Era(era)] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, era := range Eras() {
		if n := counts[era]; n > 0 {
			stats.ByEra = append(stats.ByEra, EraCount{Era: era.String(), Count: n})
		}
	}

	if n := counts[EraUnknown]; n > 0 {
		stats.ByEra = append(stats.ByEra, EraCount{Era: "", Count: n})
	}

	regions, err := r.db.Query(fmt.Sprintf(`
		SELECT coalesce(region, ''), count(*) AS n
		FROM gazetteers
		GROUP BY 1
		ORDER BY n DESC, 1
		LIMIT %d
	`, max(topRegions, 0)))
	if err != nil {
		return nil, fmt.Errorf("counting regions: %w", err)
	}
	defer regions.Close()

	for regions.Next() {
		var rc RegionCount
		if err := regions.Scan(&rc.Region, &rc.Count); err != nil {
			return nil, err
		}

		stats.ByRegion = append(stats.ByRegion, rc)
	}

	return stats, regions.Err()
}
