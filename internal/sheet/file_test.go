package sheet

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
)

func writeBook(t *testing.T, path string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "명부"))
	require.NoError(t, f.SetCellStr("명부", "A1", "사원번호"))
	require.NoError(t, f.SetCellStr("명부", "D1", "추계액"))
	require.NoError(t, f.SetCellStr("명부", "A2", "1001"))
	require.NoError(t, f.SetCellFloat("명부", "B2", 19850312, -1, 64))
	require.NoError(t, f.SetCellBool("명부", "C2", false))
	require.NoError(t, f.SetCellFormula("명부", "D2", "B2*2"))
	require.NoError(t, f.SaveAs(path))
}

func TestFileCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	writeBook(t, path)

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"명부"}, f.SheetNames())

	_, ok := f.Grid("없음")
	assert.False(t, ok)

	g, ok := f.Grid("명부")
	require.True(t, ok)

	assert.Equal(t, Str("1001"), g.Cell(1, 2).Computed)
	assert.Equal(t, Num(19850312), g.Cell(2, 2).Computed)
	assert.True(t, g.Cell(3, 2).Literal.IsFalse())

	formula := g.Cell(4, 2)
	assert.True(t, formula.Literal.IsFormula())
	assert.Equal(t, "=B2*2", formula.Literal.Text)

	cols, rows := g.Extent()
	assert.Equal(t, 4, cols)
	assert.Equal(t, 2, rows)
}

func TestFileWriteAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.xlsx")
	writeBook(t, path)

	f, err := Open(path)
	require.NoError(t, err)

	s, ok := f.Sheet("명부")
	require.True(t, ok)

	require.NoError(t, s.SetValue(5, 2, Str("20010101")))
	require.NoError(t, s.SetValue(6, 2, Formula("=D2-AA2")))
	require.NoError(t, s.SetValue(7, 3, Num(0.5)))

	cols, rows := s.Extent()
	assert.Equal(t, 7, cols)
	assert.Equal(t, 3, rows)

	out := filepath.Join(dir, "out.xlsx")
	require.NoError(t, f.SaveAs(out))
	require.NoError(t, f.Close())

	reopened, err := Open(out)
	require.NoError(t, err)
	defer reopened.Close()

	g, _ := reopened.Grid("명부")
	assert.Equal(t, Str("20010101"), g.Cell(5, 2).Computed)
	assert.Equal(t, "=D2-AA2", g.Cell(6, 2).Literal.Text)
	assert.Equal(t, Num(0.5), g.Cell(7, 3).Computed)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	data := "\xEF\xBB\xBF사원번호,퇴직금,퇴직일\n0042,\"1,500,000\",20240115\n1002,,FALSE\n"

	m, err := ReadCSV(strings.NewReader(data), "퇴직자")
	require.NoError(t, err)

	assert.Equal(t, Str("사원번호"), m.Cell(1, 1).Computed)
	assert.Equal(t, Str("0042"), m.Cell(1, 2).Computed)
	assert.Equal(t, Num(1500000), m.Cell(2, 2).Computed)
	assert.True(t, m.Cell(2, 3).IsBlank())
	assert.True(t, m.Cell(3, 3).Literal.IsFalse())
}

func TestReadCSVCP949(t *testing.T) {
	encoded, err := korean.EUCKR.NewEncoder().String("사원번호,퇴직일\n1001,20240115\n")
	require.NoError(t, err)

	m, err := ReadCSV(strings.NewReader(encoded), "퇴직자")
	require.NoError(t, err)

	assert.Equal(t, Str("사원번호"), m.Cell(1, 1).Computed)
	assert.Equal(t, Str("퇴직일"), m.Cell(2, 1).Computed)
	assert.Equal(t, Num(20240115), m.Cell(2, 2).Computed)
}
