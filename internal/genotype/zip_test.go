package genotype

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeZip creates a zip file with the given member names and contents.
func writeZip(t *testing.T, members map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "export.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestParse_ZipWithGenomeMember(t *testing.T) {
	path := writeZip(t, map[string]string{
		"readme.pdf":              "not this one",
		"genome_John_v5_Full.txt": "rs1\t1\t100\tAG\nrs2\t2\t200\tCT\n",
	})

	parsed, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 2, parsed.TotalVariants)
	assert.Equal(t, "export.zip", parsed.SourceName)
}

func TestParse_ZipTextExtensionFallback(t *testing.T) {
	path := writeZip(t, map[string]string{
		"data.txt": "rs1\t1\t100\tAG\n",
	})

	parsed, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 1, parsed.TotalVariants)
}

func TestParse_ZipExtensionlessMember(t *testing.T) {
	path := writeZip(t, map[string]string{
		"export_data": "rs1\t1\t100\tAG\n",
	})

	parsed, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 1, parsed.TotalVariants)
}

func TestParse_ZipNoDataMember(t *testing.T) {
	path := writeZip(t, map[string]string{
		"readme.pdf": "nope",
		"photo.jpeg": "nope",
	})

	_, err := Parse(path)
	require.Error(t, err)

	var noData *NoDataMemberError
	require.ErrorAs(t, err, &noData)
	assert.ElementsMatch(t, []string{"readme.pdf", "photo.jpeg"}, noData.Entries)
	assert.Contains(t, err.Error(), "readme.pdf")
}
