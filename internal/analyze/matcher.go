// Package analyze cross-references a variant store against the reference
// clinical-variant database and assembles the analysis result.
package analyze

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/biovault/biovault/internal/clinvar"
)

// ChunkSize is the number of identifiers sent per reference lookup.
// Embedded SQL engines cap bound parameters (historically 999), so an
// unchunked query over a large identifier set either fails outright or
// silently truncates. Chunking is a correctness requirement here, not a
// tuning knob.
const ChunkSize = clinvar.MaxQueryIdentifiers

// ReferenceLookup is the reference database operation the matcher
// consumes. Implemented by *clinvar.DB.
type ReferenceLookup interface {
	LookupByIdentifiers(ids []string) ([]clinvar.Match, error)
}

// Matcher runs the set-intersection lookup between a store's identifiers
// and the reference database.
type Matcher struct {
	logger *zap.Logger
}

// NewMatcher creates a matcher.
func NewMatcher() *Matcher {
	return &Matcher{logger: zap.NewNop()}
}

// SetLogger sets the logger for progress messages.
func (m *Matcher) SetLogger(l *zap.Logger) {
	m.logger = l
}

// Match queries the reference database for the given identifiers in
// chunks and concatenates the results. Result order is chunk-local: each
// chunk arrives sorted by significance then gene, but the concatenation
// is not globally re-sorted (the gene aggregator sorts its own output;
// raw match order carries no global guarantee).
//
// An empty identifier set yields an empty result. Any reference query
// error aborts the whole run; no partial match list is returned.
func (m *Matcher) Match(ids []string, ref ReferenceLookup) ([]clinvar.Match, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	m.logger.Info("matching against reference database",
		zap.Int("identifiers", len(ids)),
		zap.Int("chunks", (len(ids)+ChunkSize-1)/ChunkSize))

	var matches []clinvar.Match
	for start := 0; start < len(ids); start += ChunkSize {
		end := start + ChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk, err := ref.LookupByIdentifiers(ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("reference lookup: %w", err)
		}
		matches = append(matches, chunk...)
	}

	m.logger.Info("reference matching complete", zap.Int("matches", len(matches)))
	return matches, nil
}
