package sheet

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// File is a workbook on disk opened through excelize.
type File struct {
	path    string
	book    *excelize.File
	extents map[string]Ref
	cleanup func()
}

// Open opens an xlsx workbook. Legacy .xls files are converted into a
// temporary xlsx first; the temporary file is removed by Close.
func Open(path string) (*File, error) {
	openPath := path

	var cleanup func()

	if strings.EqualFold(filepath.Ext(path), ".xls") {
		converted, done, err := ConvertXLS(path)
		if err != nil {
			return nil, err
		}

		openPath, cleanup = converted, done
	}

	book, err := excelize.OpenFile(openPath)
	if err != nil {
		if cleanup != nil {
			cleanup()
		}

		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}

	return &File{
		path:    path,
		book:    book,
		extents: make(map[string]Ref),
		cleanup: cleanup,
	}, nil
}

// Path returns the path the workbook was opened from.
func (f *File) Path() string {
	return f.path
}

// SheetNames implements Workbook.
func (f *File) SheetNames() []string {
	return f.book.GetSheetList()
}

// Grid implements Workbook.
func (f *File) Grid(name string) (Grid, bool) {
	s, ok := f.Sheet(name)
	if !ok {
		return nil, false
	}

	return s, true
}

// Sheet returns a writable view of the named sheet.
func (f *File) Sheet(name string) (Sheet, bool) {
	idx, err := f.book.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, false
	}

	return &fileSheet{file: f, name: name}, true
}

// SaveAs writes the workbook to path.
func (f *File) SaveAs(path string) error {
	if err := f.book.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	return nil
}

// Close releases the workbook and removes any temporary conversion output.
func (f *File) Close() error {
	err := f.book.Close()

	if f.cleanup != nil {
		f.cleanup()
		f.cleanup = nil
	}

	return err
}

type fileSheet struct {
	file *File
	name string
}

func (s *fileSheet) Name() string {
	return s.name
}

func (s *fileSheet) Cell(col, row int) Cell {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Cell{}
	}

	book := s.file.book

	raw, err := book.GetCellValue(s.name, ref, excelize.Options{RawCellValue: true})
	if err != nil {
		return Cell{}
	}

	typ, err := book.GetCellType(s.name, ref)
	if err != nil {
		typ = excelize.CellTypeUnset
	}

	computed := decodeCell(raw, typ)
	literal := computed

	formula, err := book.GetCellFormula(s.name, ref)
	if err == nil && formula != "" {
		literal = Formula(formula)
	}

	return Cell{Computed: computed, Literal: literal}
}

func (s *fileSheet) Extent() (int, int) {
	if e, ok := s.file.extents[s.name]; ok {
		return e.Col, e.Row
	}

	rows, err := s.file.book.GetRows(s.name, excelize.Options{RawCellValue: true})
	if err != nil {
		return 0, 0
	}

	e := Ref{Row: len(rows)}
	for _, r := range rows {
		e.Col = max(e.Col, len(r))
	}

	s.file.extents[s.name] = e

	return e.Col, e.Row
}

func (s *fileSheet) SetValue(col, row int, v Value) error {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to address cell: %w", err)
	}

	book := s.file.book

	switch v.Kind {
	case KindFormula:
		err = book.SetCellFormula(s.name, ref, strings.TrimPrefix(v.Text, "="))
	case KindNumber:
		err = book.SetCellFloat(s.name, ref, v.Num, -1, 64)
	case KindBool:
		err = book.SetCellBool(s.name, ref, v.Bool)
	case KindTime:
		err = book.SetCellValue(s.name, ref, v.Time)
	case KindEmpty:
		err = book.SetCellValue(s.name, ref, nil)
	default:
		err = book.SetCellStr(s.name, ref, v.Text)
	}

	if err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", s.name, ref, err)
	}

	if e, ok := s.file.extents[s.name]; ok {
		s.file.extents[s.name] = Ref{Col: max(e.Col, col), Row: max(e.Row, row)}
	}

	return nil
}

// decodeCell turns a raw stored string into a typed value.
func decodeCell(raw string, typ excelize.CellType) Value {
	if raw == "" {
		return Empty
	}

	switch typ {
	case excelize.CellTypeBool:
		return Bool(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return Date(t)
			}
		}

		return Str(raw)
	case excelize.CellTypeError:
		return Value{Kind: KindError, Text: raw}
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return Str(raw)
	default:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return Num(f)
		}

		return Str(raw)
	}
}
