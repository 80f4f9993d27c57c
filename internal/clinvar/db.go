package clinvar

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
)

// MaxQueryIdentifiers is the upper bound on identifiers per lookup.
// Embedded SQL engines cap bound-parameter counts (historically 999);
// callers with larger identifier sets must chunk and concatenate.
const MaxQueryIdentifiers = 999

// DB wraps a read-only reference clinical-variant database. The expected
// schema is a single `variants` relation with the Match columns, indexed
// by rsid for exact-match lookup.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens the reference database at the given path, which must
// already exist; the driver would otherwise create an empty database at
// a mistyped path. Use an empty string for an in-memory database
// (tests).
func Open(path string) (*DB, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("reference database %q not found", path)
			}
			return nil, fmt.Errorf("stat reference database: %w", err)
		}
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open reference database: %w", err)
	}
	return &DB{db: db, path: path}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (d *DB) DB() *sql.DB {
	return d.db
}

// LookupByIdentifiers returns all reference rows whose rsid is in ids,
// ordered by significance severity then gene symbol. ids must not exceed
// MaxQueryIdentifiers; larger sets are the caller's responsibility to
// chunk. An empty id list returns no rows and no error.
func (d *DB) LookupByIdentifiers(ids []string) ([]Match, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxQueryIdentifiers {
		return nil, fmt.Errorf("identifier set too large: %d > %d", len(ids), MaxQueryIdentifiers)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`
		SELECT rsid, chrom, pos, ref, alt, gene, clnsig, clnrevstat, condition
		FROM variants
		WHERE rsid IN (%s)
		ORDER BY
		  CASE
		    WHEN lower(clnsig) LIKE '%%pathogenic%%' AND lower(clnsig) NOT LIKE '%%likely%%' THEN 1
		    WHEN lower(clnsig) LIKE '%%likely_pathogenic%%' THEN 2
		    WHEN lower(clnsig) LIKE '%%conflicting%%' THEN 3
		    WHEN lower(clnsig) LIKE '%%uncertain%%' THEN 4
		    WHEN lower(clnsig) LIKE '%%benign%%' THEN 5
		    ELSE 6
		  END,
		  gene`, placeholders)

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reference variants: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.RsID, &m.Chrom, &m.Pos, &m.Ref, &m.Alt,
			&m.Gene, &m.ClnSig, &m.ClnRevStat, &m.Condition); err != nil {
			return nil, fmt.Errorf("scan reference variant: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reference variants: %w", err)
	}
	return matches, nil
}

// VariantCount returns the total number of rows in the reference database.
func (d *DB) VariantCount() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM variants").Scan(&count)
	return count, err
}
