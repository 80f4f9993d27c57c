package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biovault/biovault/internal/analyze"
	"github.com/biovault/biovault/internal/clinvar"
	"github.com/biovault/biovault/internal/report"
)

func sampleResult() *analyze.Result {
	return &analyze.Result{
		Matches: []clinvar.Match{
			{RsID: "rs1", Chrom: "17", Pos: 100, Ref: "A", Alt: "G", Gene: "BRCA1",
				ClnSig: "Pathogenic", ClnRevStat: "criteria_provided", UserGenotype: "AG",
				Condition: "Breast_cancer"},
			{RsID: "rs2", Chrom: "17", Pos: 200, Gene: "BRCA1", ClnSig: "Benign"},
		},
		GeneGroups: []report.GeneGroup{
			{Gene: "BRCA1", MostSignificant: report.SignificancePathogenic,
				SignificanceScore: 1, PathogenicCount: 1, TotalVariants: 2, UniqueRsIDs: 2,
				Conditions: []string{"Breast cancer"},
				Alleles:    []report.AlleleCount{{Ref: "A", Alt: "G", Count: 1}}},
		},
		IdentifiersSearched: 3,
		MatchesFound:        2,
	}
}

func TestTabWriter_WriteResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTabWriter(&buf).WriteResult(sampleResult()))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Equal(t, "## 3 identifiers searched, 2 matches, 1 genes", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "#Gene\t"))

	geneRow := strings.Split(lines[2], "\t")
	assert.Equal(t, "BRCA1", geneRow[0])
	assert.Equal(t, "Pathogenic", geneRow[1])
	assert.Equal(t, "1", geneRow[2])
	assert.Equal(t, "A>G(1)", geneRow[len(geneRow)-1])

	// Empty fields render as a dash so columns stay aligned.
	assert.Contains(t, out, "rs2\t17\t200\t-\t-\tBRCA1\tBenign\t-\t-\t-")
}

func TestTabWriter_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTabWriter(&buf).WriteResult(&analyze.Result{}))
	assert.Contains(t, buf.String(), "## 0 identifiers searched, 0 matches, 0 genes")
}
