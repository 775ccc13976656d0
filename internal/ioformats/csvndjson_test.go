
package ioformats

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadMonomersCSV(t *testing.T) {
	path := writeFile(t, "in.csv", "id,Monomer\n1, styrene \n2,\n3,methyl methacrylate\n")
	got, err := ReadMonomers(path)
	require.NoError(t, err)
	require.Equal(t, []string{"styrene", "methyl methacrylate"}, got)
}

func TestReadMonomersCSVWithoutColumn(t *testing.T) {
	_, err := ReadMonomers(writeFile(t, "in.csv", "name\nstyrene\n"))
	require.Error(t, err)
}

func TestReadMonomersNDJSON(t *testing.T) {
	path := writeFile(t, "in.ndjson", "{\"monomer\":\"styrene\"}\n\nC=CC(=O)OC\n")
	got, err := ReadMonomers(path)
	require.NoError(t, err)
	require.Equal(t, []string{"styrene", "C=CC(=O)OC"}, got)
}

func TestReadMonomersUnknownExtension(t *testing.T) {
	got, err := ReadMonomers(writeFile(t, "in.txt", "monomer\nstyrene\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"styrene"}, got)

	got, err = ReadMonomers(writeFile(t, "list.txt", "styrene\nvinyl acetate\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"styrene", "vinyl acetate"}, got)
}

func TestReadMonomersCSVWithBOMAndComments(t *testing.T) {
	path := writeFile(t, "in.csv", "\ufeffmonomer,solvent\n# seeded from the lab sheet\nstyrene,bulk\nbutyl acrylate\n")
	got, err := ReadMonomers(path)
	require.NoError(t, err)
	require.Equal(t, []string{"styrene", "butyl acrylate"}, got)
}

func TestReadMonomersEmptyCSV(t *testing.T) {
	_, err := ReadMonomers(writeFile(t, "in.csv", ""))
	require.ErrorContains(t, err, "empty csv")
}

func TestReadMonomersNDJSONStringLines(t *testing.T) {
	path := writeFile(t, "in.jsonl", "\"C=C(C)C(=O)OC\"\n{\"monomer\":\"styrene\",\"note\":1}\n")
	got, err := ReadMonomers(path)
	require.NoError(t, err)
	require.Equal(t, []string{"C=C(C)C(=O)OC", "styrene"}, got)
}

func TestReadMonomersNDJSONObjectWithoutMonomer(t *testing.T) {
	_, err := ReadMonomers(writeFile(t, "in.ndjson", "styrene\n{\"name\":\"x\"}\n"))
	require.ErrorContains(t, err, "line 2")
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNDJSON(&buf, []map[string]int{{"a": 1}, {"b": 2}}))
	require.Equal(t, "{\"a\":1}\n{\"b\":2}\n", buf.String())
}
