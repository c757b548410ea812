package sheet

import (
	"fmt"
	"maps"
	"slices"

	"github.com/xuri/excelize/v2"
)

// Ref is a 1-based cell coordinate.
type Ref struct {
	Col int
	Row int
}

// String returns the A1-style cell name, e.g. "C5".
func (r Ref) String() string {
	name, err := excelize.CoordinatesToCellName(r.Col, r.Row)
	if err != nil {
		return fmt.Sprintf("R%dC%d", r.Row, r.Col)
	}

	return name
}

// ParseRef parses an A1-style cell name.
func ParseRef(name string) (Ref, error) {
	col, row, err := excelize.CellNameToCoordinates(name)
	if err != nil {
		return Ref{}, fmt.Errorf("failed to parse cell name %q: %w", name, err)
	}

	return Ref{Col: col, Row: row}, nil
}

// ColumnNumber converts a column letter such as "AA" to its 1-based number.
func ColumnNumber(letters string) (int, error) {
	n, err := excelize.ColumnNameToNumber(letters)
	if err != nil {
		return 0, fmt.Errorf("failed to parse column %q: %w", letters, err)
	}

	return n, nil
}

// ColumnName converts a 1-based column number to its letters.
func ColumnName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return fmt.Sprintf("C%d", col)
	}

	return name
}

// Grid is a read-only sheet.
type Grid interface {
	// Name returns the sheet name.
	Name() string
	// Cell returns both views of the cell at the 1-based coordinate.
	Cell(col, row int) Cell
	// Extent returns the number of used columns and rows.
	Extent() (cols, rows int)
}

// Sheet is a writable grid.
type Sheet interface {
	Grid
	// SetValue stores v at the coordinate. Formula values are stored as live formulas.
	SetValue(col, row int, v Value) error
}

// Workbook exposes the sheets of one workbook by name.
type Workbook interface {
	SheetNames() []string
	Grid(name string) (Grid, bool)
}

// Mem is an in-memory sheet.
type Mem struct {
	name  string
	cells map[Ref]Cell
}

// NewMem creates an empty in-memory sheet.
func NewMem(name string) *Mem {
	return &Mem{name: name, cells: make(map[Ref]Cell)}
}

// Name implements Grid.
func (m *Mem) Name() string {
	return m.name
}

// Cell implements Grid.
func (m *Mem) Cell(col, row int) Cell {
	return m.cells[Ref{Col: col, Row: row}]
}

// Extent implements Grid.
func (m *Mem) Extent() (int, int) {
	var cols, rows int

	for r := range m.cells {
		cols = max(cols, r.Col)
		rows = max(rows, r.Row)
	}

	return cols, rows
}

// SetValue implements Sheet. A formula written here has no computed value
// until the workbook is recalculated.
func (m *Mem) SetValue(col, row int, v Value) error {
	if col < 1 || row < 1 {
		return fmt.Errorf("invalid coordinate col=%d row=%d", col, row)
	}

	if v.IsFormula() {
		m.cells[Ref{Col: col, Row: row}] = Cell{Literal: v}
		return nil
	}

	m.cells[Ref{Col: col, Row: row}] = Plain(v)

	return nil
}

// Put stores a cell with independent views, e.g. a formula with a cached result.
func (m *Mem) Put(ref string, c Cell) {
	r, err := ParseRef(ref)
	if err != nil {
		panic(err)
	}

	m.cells[r] = c
}

// Set stores a plain value by cell name.
func (m *Mem) Set(ref string, v Value) {
	r, err := ParseRef(ref)
	if err != nil {
		panic(err)
	}

	_ = m.SetValue(r.Col, r.Row, v)
}

// Snapshot returns a copy of every stored cell.
func (m *Mem) Snapshot() map[Ref]Cell {
	return maps.Clone(m.cells)
}

// MemBook is an in-memory workbook.
type MemBook struct {
	order  []string
	sheets map[string]*Mem
}

// NewMemBook creates a workbook holding the given sheets in order.
func NewMemBook(sheets ...*Mem) *MemBook {
	b := &MemBook{sheets: make(map[string]*Mem)}
	for _, s := range sheets {
		b.Add(s)
	}

	return b
}

// Add appends a sheet, replacing any sheet with the same name.
func (b *MemBook) Add(s *Mem) {
	if _, ok := b.sheets[s.Name()]; !ok {
		b.order = append(b.order, s.Name())
	}

	b.sheets[s.Name()] = s
}

// SheetNames implements Workbook.
func (b *MemBook) SheetNames() []string {
	return slices.Clone(b.order)
}

// Grid implements Workbook.
func (b *MemBook) Grid(name string) (Grid, bool) {
	s, ok := b.sheets[name]
	if !ok {
		return nil, false
	}

	return s, true
}
