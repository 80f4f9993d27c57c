package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biovault/biovault/internal/genotype"
)

func parsedFixture(t *testing.T) *genotype.ParsedFile {
	t.Helper()
	content := strings.Join([]string{
		"rs1\t1\t100\tAG",
		"rs2\t1\t200\tCT",
		"rs2\t1\t200\tCT", // duplicate identifier, distinct row
		"i4000\tMT\t300\tA", // non-standard id, stored but not matchable
		"rs3\tX\t400\tGG",
		"bad,line",
	}, "\n")
	return genotype.ParseText(content, "fixture.txt")
}

func buildFixture(t *testing.T, name string) (Metadata, string) {
	t.Helper()
	dir := t.TempDir()
	meta, err := Build(dir, parsedFixture(t), name, nil)
	require.NoError(t, err)
	return meta, filepath.Join(dir, meta.StoreID+FileExt)
}

func TestBuild_Metadata(t *testing.T) {
	meta, path := buildFixture(t, "My Genome")

	assert.True(t, strings.HasPrefix(meta.StoreID, "My_Genome_"), "storeID = %s", meta.StoreID)
	assert.Equal(t, "My Genome", meta.DisplayName)
	assert.Equal(t, "fixture.txt", meta.SourceName)
	assert.Equal(t, 5, meta.TotalVariants)
	assert.Equal(t, 4, meta.RsIDCount)
	assert.Equal(t, 3, meta.ChromosomeCount)
	assert.Equal(t, 1, meta.ParseErrorCount)
	assert.False(t, meta.IngestedAt.IsZero())

	_, err := os.Stat(path)
	require.NoError(t, err, "store file exists at the final path")
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "no temp file left behind")
}

func TestBuild_ProgressStages(t *testing.T) {
	dir := t.TempDir()
	var stages []string
	_, err := Build(dir, parsedFixture(t), "progress", func(stage string) {
		stages = append(stages, stage)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{StageMetadata, StageInsert, StageIndex, StageReady}, stages)
}

func TestBuild_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	parsed := genotype.ParseText("", "empty.txt")

	meta, err := Build(dir, parsed, "empty", nil)
	require.NoError(t, err, "an empty export is not an error")
	assert.Equal(t, 0, meta.TotalVariants)

	s, err := Open(filepath.Join(dir, meta.StoreID+FileExt))
	require.NoError(t, err)
	defer s.Close()

	count, err := s.VariantCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestOpen_MetadataRoundTrip(t *testing.T) {
	meta, path := buildFixture(t, "Round Trip")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Metadata()
	require.NoError(t, err)
	assert.Equal(t, meta.StoreID, got.StoreID)
	assert.Equal(t, meta.DisplayName, got.DisplayName)
	assert.Equal(t, meta.TotalVariants, got.TotalVariants)
	assert.Equal(t, meta.RsIDCount, got.RsIDCount)
	assert.True(t, meta.IngestedAt.Equal(got.IngestedAt))
}

func TestMatchableIdentifiers(t *testing.T) {
	_, path := buildFixture(t, "ids")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	ids, err := s.MatchableIdentifiers()
	require.NoError(t, err)
	// Distinct, rs-prefixed only, sorted.
	assert.Equal(t, []string{"rs1", "rs2", "rs3"}, ids)
}

func TestGenotypesFor(t *testing.T) {
	_, path := buildFixture(t, "genotypes")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	genotypes, err := s.GenotypesFor([]string{"rs1", "rs3", "rs404"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"rs1": "AG", "rs3": "GG"}, genotypes)
}

func TestGenotypesFor_ChunksLargeSets(t *testing.T) {
	dir := t.TempDir()

	var sb strings.Builder
	for i := 0; i < 1500; i++ {
		fmt.Fprintf(&sb, "rs%d\t1\t%d\tAG\n", i, 100+i)
	}
	parsed := genotype.ParseText(sb.String(), "large.txt")

	meta, err := Build(dir, parsed, "large", nil)
	require.NoError(t, err)

	s, err := Open(filepath.Join(dir, meta.StoreID+FileExt))
	require.NoError(t, err)
	defer s.Close()

	ids, err := s.MatchableIdentifiers()
	require.NoError(t, err)
	require.Len(t, ids, 1500)

	genotypes, err := s.GenotypesFor(ids)
	require.NoError(t, err)
	assert.Len(t, genotypes, 1500, "no identifier dropped across chunk boundaries")
}

func TestBuild_FailureLeavesNothingBehind(t *testing.T) {
	root := t.TempDir()
	blocked := filepath.Join(root, "stores")
	require.NoError(t, os.WriteFile(blocked, []byte("not a directory"), 0o644))

	_, err := Build(blocked, parsedFixture(t), "genome", nil)
	require.Error(t, err)

	// No store file and no temp file anywhere under the data root.
	var leftovers []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasSuffix(path, FileExt) || strings.HasSuffix(path, ".tmp") {
			leftovers = append(leftovers, path)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestOpen_MissingStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope"+FileExt)

	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	// Opening must not create an empty database at the path.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "My_Genome", sanitizeName("My Genome"))
	assert.Equal(t, "genome", sanitizeName("  "))
}
