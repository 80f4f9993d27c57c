package analyze

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/biovault/biovault/internal/clinvar"
	"github.com/biovault/biovault/internal/report"
	"github.com/biovault/biovault/internal/store"
)

// Result is the outcome of one analysis run: the raw matches, the
// per-gene grouping, and run-level counters. Serializable as a whole for
// the presentation layer.
type Result struct {
	Matches             []clinvar.Match    `json:"matches"`
	GeneGroups          []report.GeneGroup `json:"geneGroups"`
	IdentifiersSearched int                `json:"rsidsSearched"`
	MatchesFound        int                `json:"matchesFound"`
}

// Run executes the full analysis pipeline against an open store: fetch
// identifiers, match against the reference database, attach the user's
// genotypes, and aggregate by gene. The pipeline is strictly sequential.
func Run(s *store.Store, ref ReferenceLookup, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ids, err := s.MatchableIdentifiers()
	if err != nil {
		return nil, fmt.Errorf("fetch store identifiers: %w", err)
	}

	matcher := NewMatcher()
	matcher.SetLogger(logger)
	matches, err := matcher.Match(ids, ref)
	if err != nil {
		return nil, err
	}

	if err := attachGenotypes(s, matches); err != nil {
		return nil, err
	}

	return &Result{
		Matches:             matches,
		GeneGroups:          report.Aggregate(matches),
		IdentifiersSearched: len(ids),
		MatchesFound:        len(matches),
	}, nil
}

// attachGenotypes fills each match's UserGenotype from the store so the
// report can show the user's actual allele pair next to the reference
// annotation.
func attachGenotypes(s *store.Store, matches []clinvar.Match) error {
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	var ids []string
	for _, m := range matches {
		if !seen[m.RsID] {
			seen[m.RsID] = true
			ids = append(ids, m.RsID)
		}
	}

	genotypes, err := s.GenotypesFor(ids)
	if err != nil {
		return fmt.Errorf("fetch user genotypes: %w", err)
	}
	for i := range matches {
		matches[i].UserGenotype = genotypes[matches[i].RsID]
	}
	return nil
}
