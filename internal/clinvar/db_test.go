package clinvar

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MissingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clinvar.duckdb")

	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	// A mistyped path must not leave an empty database behind.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

// openFixture opens an in-memory reference database and loads rows into it.
func openFixture(t *testing.T, rows []Match) *DB {
	t.Helper()

	d, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	_, err = d.DB().Exec(`CREATE TABLE variants (
		rsid VARCHAR, chrom VARCHAR, pos BIGINT, ref VARCHAR, alt VARCHAR,
		gene VARCHAR, clnsig VARCHAR, clnrevstat VARCHAR, condition VARCHAR
	)`)
	require.NoError(t, err)

	for _, m := range rows {
		_, err = d.DB().Exec(
			"INSERT INTO variants VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			m.RsID, m.Chrom, m.Pos, m.Ref, m.Alt, m.Gene, m.ClnSig, m.ClnRevStat, m.Condition)
		require.NoError(t, err)
	}
	return d
}

func TestLookupByIdentifiers(t *testing.T) {
	d := openFixture(t, []Match{
		{RsID: "rs1", Chrom: "17", Pos: 43045000, Ref: "A", Alt: "T", Gene: "BRCA1",
			ClnSig: "Pathogenic", ClnRevStat: "reviewed_by_expert_panel", Condition: "Breast_cancer"},
		{RsID: "rs3", Chrom: "17", Pos: 43046000, Ref: "C", Alt: "G", Gene: "BRCA1",
			ClnSig: "Benign", ClnRevStat: "criteria_provided", Condition: "not_provided"},
		{RsID: "rs999", Chrom: "2", Pos: 100, Ref: "G", Alt: "A", Gene: "MSH2",
			ClnSig: "Uncertain_significance"},
	})

	matches, err := d.LookupByIdentifiers([]string{"rs1", "rs2", "rs3"})
	require.NoError(t, err)
	require.Len(t, matches, 2, "rs2 has no reference row, rs999 was not asked for")

	assert.Equal(t, "rs1", matches[0].RsID, "pathogenic sorts before benign")
	assert.Equal(t, "Pathogenic", matches[0].ClnSig)
	assert.Equal(t, "BRCA1", matches[0].Gene)
	assert.Equal(t, int64(43045000), matches[0].Pos)
	assert.Equal(t, "rs3", matches[1].RsID)
}

func TestLookupByIdentifiers_SeverityThenGeneOrder(t *testing.T) {
	d := openFixture(t, []Match{
		{RsID: "rs1", Gene: "ZJX", ClnSig: "Uncertain_significance"},
		{RsID: "rs2", Gene: "ABC", ClnSig: "Uncertain_significance"},
		{RsID: "rs3", Gene: "MMM", ClnSig: "Likely_pathogenic"},
		{RsID: "rs4", Gene: "AAA", ClnSig: "Benign"},
	})

	matches, err := d.LookupByIdentifiers([]string{"rs1", "rs2", "rs3", "rs4"})
	require.NoError(t, err)
	require.Len(t, matches, 4)

	var genes []string
	for _, m := range matches {
		genes = append(genes, m.Gene)
	}
	assert.Equal(t, []string{"MMM", "ABC", "ZJX", "AAA"}, genes)
}

func TestLookupByIdentifiers_Empty(t *testing.T) {
	d := openFixture(t, nil)

	matches, err := d.LookupByIdentifiers(nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestLookupByIdentifiers_TooMany(t *testing.T) {
	d := openFixture(t, nil)

	ids := make([]string, MaxQueryIdentifiers+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("rs%d", i)
	}

	_, err := d.LookupByIdentifiers(ids)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identifier set too large")
}

func TestVariantCount(t *testing.T) {
	d := openFixture(t, []Match{
		{RsID: "rs1", Gene: "G", ClnSig: "Benign"},
		{RsID: "rs2", Gene: "G", ClnSig: "Benign"},
	})

	count, err := d.VariantCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
