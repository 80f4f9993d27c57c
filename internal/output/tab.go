// Package output formats analysis results for the terminal and for
// machine consumption.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/biovault/biovault/internal/analyze"
	"github.com/biovault/biovault/internal/clinvar"
	"github.com/biovault/biovault/internal/report"
)

// TabWriter writes an analysis result in tab-delimited format: one line
// per gene group, followed by the raw matches.
type TabWriter struct {
	w *bufio.Writer
}

// NewTabWriter creates a tab-delimited result writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: bufio.NewWriter(w)}
}

var geneColumns = []string{
	"#Gene",
	"Significance",
	"Score",
	"Pathogenic",
	"Likely_pathogenic",
	"Uncertain",
	"Conflicting",
	"Variants",
	"Unique_ids",
	"Conditions",
	"Top_alleles",
}

var matchColumns = []string{
	"#Rsid",
	"Chrom",
	"Pos",
	"Ref",
	"Alt",
	"Gene",
	"Clnsig",
	"Review_status",
	"Genotype",
	"Condition",
}

// WriteResult writes the whole analysis result.
func (tw *TabWriter) WriteResult(r *analyze.Result) error {
	fmt.Fprintf(tw.w, "## %d identifiers searched, %d matches, %d genes\n",
		r.IdentifiersSearched, r.MatchesFound, len(r.GeneGroups))

	if _, err := tw.w.WriteString(strings.Join(geneColumns, "\t") + "\n"); err != nil {
		return err
	}
	for _, g := range r.GeneGroups {
		if err := tw.writeGene(g); err != nil {
			return err
		}
	}

	if _, err := tw.w.WriteString("\n" + strings.Join(matchColumns, "\t") + "\n"); err != nil {
		return err
	}
	for _, m := range r.Matches {
		if err := tw.writeMatch(m); err != nil {
			return err
		}
	}

	return tw.w.Flush()
}

func (tw *TabWriter) writeGene(g report.GeneGroup) error {
	alleles := make([]string, 0, len(g.Alleles))
	for _, a := range g.Alleles {
		alleles = append(alleles, fmt.Sprintf("%s>%s(%d)", a.Ref, a.Alt, a.Count))
	}

	fields := []string{
		g.Gene,
		g.MostSignificant,
		fmt.Sprintf("%d", g.SignificanceScore),
		fmt.Sprintf("%d", g.PathogenicCount),
		fmt.Sprintf("%d", g.LikelyPathogenicCount),
		fmt.Sprintf("%d", g.UncertainCount),
		fmt.Sprintf("%d", g.ConflictingCount),
		fmt.Sprintf("%d", g.TotalVariants),
		fmt.Sprintf("%d", g.UniqueRsIDs),
		orDash(strings.Join(g.Conditions, "; ")),
		orDash(strings.Join(alleles, "; ")),
	}
	_, err := tw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

func (tw *TabWriter) writeMatch(m clinvar.Match) error {
	fields := []string{
		m.RsID,
		m.Chrom,
		fmt.Sprintf("%d", m.Pos),
		orDash(m.Ref),
		orDash(m.Alt),
		orDash(m.Gene),
		orDash(m.ClnSig),
		orDash(m.ClnRevStat),
		orDash(m.UserGenotype),
		orDash(m.Condition),
	}
	_, err := tw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
