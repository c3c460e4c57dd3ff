package records

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alunos.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("maps columns by header", func(t *testing.T) {
		path := writeCSV(t, "NomeDoAluno,NIS,CPF,INEP\nAna Silva,111,123.456.789-00,20\nBruno X,,,\n")

		students, err := Load(path)
		require.NoError(t, err)
		require.Len(t, students, 2)

		assert.Equal(t, Student{Name: "Ana Silva", NIS: "111", CPF: "123.456.789-00", INEP: "20"}, students[0])
		assert.Equal(t, Student{Name: "Bruno X"}, students[1])
	})

	t.Run("column order does not matter", func(t *testing.T) {
		path := writeCSV(t, "CPF,NomeDoAluno\n123,Carla Z\n")

		students, err := Load(path)
		require.NoError(t, err)
		require.Len(t, students, 1)
		assert.Equal(t, "Carla Z", students[0].Name)
		assert.Equal(t, "123", students[0].CPF)
	})

	t.Run("unknown columns are ignored", func(t *testing.T) {
		path := writeCSV(t, "NomeDoAluno,Turma,CPF\nAna Silva,3B,123\n")

		students, err := Load(path)
		require.NoError(t, err)
		require.Len(t, students, 1)
		assert.Equal(t, "123", students[0].CPF)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
	})

	t.Run("header without name column is an error", func(t *testing.T) {
		path := writeCSV(t, "CPF,NIS\n123,456\n")

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NomeDoAluno")
	})

	t.Run("row without a name is an error", func(t *testing.T) {
		path := writeCSV(t, "NomeDoAluno,CPF\nAna Silva,123\n,456\n")

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 3")
	})

	t.Run("empty file is an error", func(t *testing.T) {
		path := writeCSV(t, "")

		_, err := Load(path)
		assert.Error(t, err)
	})
}
