// Package store builds and reads per-upload variant stores. Each ingested
// export becomes one self-contained DuckDB file holding a single metadata
// row and an rsid-indexed variants relation.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/biovault/biovault/internal/genotype"
)

// FileExt is the on-disk extension for store files. Files carrying it in
// the stores directory are treated as stores by the catalog scan.
const FileExt = ".duckdb"

// Metadata is the single ingestion-metadata row of a store, readable
// without touching the variants relation.
type Metadata struct {
	StoreID         string    `json:"storeId"`
	DisplayName     string    `json:"displayName"`
	SourceName      string    `json:"sourceName"`
	IngestedAt      time.Time `json:"ingestedAt"`
	TotalVariants   int       `json:"totalVariants"`
	RsIDCount       int       `json:"rsidCount"`
	ChromosomeCount int       `json:"chromosomeCount"`
	ParseErrorCount int       `json:"parseErrorCount"`
}

// Store is an open handle to one variant store file.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens an existing store file. The file must already exist: the
// driver would otherwise create an empty database at the path, leaving
// junk in the stores directory.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("store %q not found", path)
		}
		return nil, fmt.Errorf("stat store: %w", err)
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Metadata reads the store's ingestion-metadata row.
func (s *Store) Metadata() (Metadata, error) {
	var m Metadata
	var ingestedAt string
	err := s.db.QueryRow(`
		SELECT store_id, display_name, source_name, ingested_at,
		       total_variants, rsid_count, chromosome_count, parse_error_count
		FROM genome_metadata
	`).Scan(&m.StoreID, &m.DisplayName, &m.SourceName, &ingestedAt,
		&m.TotalVariants, &m.RsIDCount, &m.ChromosomeCount, &m.ParseErrorCount)
	if err != nil {
		return Metadata{}, fmt.Errorf("read store metadata: %w", err)
	}

	m.IngestedAt, err = time.Parse(time.RFC3339, ingestedAt)
	if err != nil {
		return Metadata{}, fmt.Errorf("parse ingested_at: %w", err)
	}
	return m, nil
}

// MatchableIdentifiers returns the distinct standard-prefixed identifiers
// in the store, sorted. Non-standard platform ids are never returned;
// they cannot be joined against the reference database.
func (s *Store) MatchableIdentifiers() ([]string, error) {
	rows, err := s.db.Query(
		"SELECT DISTINCT rsid FROM variants WHERE rsid LIKE ? ORDER BY rsid",
		genotype.MatchableIDPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("query identifiers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan identifier: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identifiers: %w", err)
	}
	return ids, nil
}

// GenotypesFor returns the user's genotype for each of the given
// identifiers, chunked to stay under the bound-parameter cap. Identifiers
// absent from the store are simply missing from the result.
func (s *Store) GenotypesFor(rsids []string) (map[string]string, error) {
	genotypes := make(map[string]string, len(rsids))

	const chunkSize = 999
	for start := 0; start < len(rsids); start += chunkSize {
		end := start + chunkSize
		if end > len(rsids) {
			end = len(rsids)
		}
		chunk := rsids[start:end]

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}

		rows, err := s.db.Query(fmt.Sprintf(
			"SELECT rsid, genotype FROM variants WHERE rsid IN (%s)", placeholders), args...)
		if err != nil {
			return nil, fmt.Errorf("query genotypes: %w", err)
		}
		for rows.Next() {
			var rsid, gt string
			if err := rows.Scan(&rsid, &gt); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan genotype: %w", err)
			}
			genotypes[rsid] = gt
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterate genotypes: %w", err)
		}
		rows.Close()
	}
	return genotypes, nil
}

// VariantCount returns the number of variant rows in the store.
func (s *Store) VariantCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM variants").Scan(&count)
	return count, err
}
