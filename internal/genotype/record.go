// Package genotype parses consumer genotyping exports (23andMe-style
// tab- or comma-delimited text, optionally zip-compressed) into variant
// records ready for bulk loading.
package genotype

import (
	"fmt"
	"sort"
)

// NoCall is the sentinel genotype a testing platform emits when it could
// not determine the allele pair at a position. No-call rows carry no
// information and are dropped during parsing.
const NoCall = "--"

// MatchableIDPrefix marks identifiers that can be joined against the
// reference clinical-variant database.
const MatchableIDPrefix = "rs"

// Record is a single variant call from an export file.
type Record struct {
	RsID       string // identifier; may be a non-standard platform id
	Chromosome string
	Position   int64 // 1-based, always > 0
	Genotype   string
}

// Matchable reports whether the record's identifier has the standard
// reference-style prefix and can be used as a join key.
func (r Record) Matchable() bool {
	return len(r.RsID) >= len(MatchableIDPrefix) && r.RsID[:len(MatchableIDPrefix)] == MatchableIDPrefix
}

// ParseError describes one malformed export line. Line counts data lines
// only; comments and blanks are excluded from the numbering.
type ParseError struct {
	Line    int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("Line %d: %s", e.Line, e.Message)
}

// ParsedFile is the aggregate result of parsing one export file.
// It is transient: it exists only between parsing and store building.
type ParsedFile struct {
	SourceName    string
	Records       []Record
	TotalVariants int          // accepted records
	RsIDCount     int          // accepted records with a standard identifier
	Errors        []ParseError // per-line parse errors, capped at MaxParseErrors
}

// Stats holds derived statistics about a parsed file, persisted into the
// store's metadata row.
type Stats struct {
	TotalVariants   int
	RsIDCount       int
	ChromosomeCount int
	Chromosomes     []string
	ErrorCount      int
}

// FileStats computes derived statistics for a parsed file.
func FileStats(p *ParsedFile) Stats {
	seen := make(map[string]bool)
	for _, r := range p.Records {
		seen[r.Chromosome] = true
	}
	chroms := make([]string, 0, len(seen))
	for c := range seen {
		chroms = append(chroms, c)
	}
	sort.Strings(chroms)

	return Stats{
		TotalVariants:   p.TotalVariants,
		RsIDCount:       p.RsIDCount,
		ChromosomeCount: len(chroms),
		Chromosomes:     chroms,
		ErrorCount:      len(p.Errors),
	}
}
