package sheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
)

// ConvertXLS copies every sheet of a legacy .xls workbook into a temporary
// xlsx file. The returned cleanup func removes that file and is safe to call
// more than once. Formulas are not carried over, only their displayed values.
func ConvertXLS(path string) (string, func(), error) {
	src, err := xls.Open(path, "utf-8")
	if err != nil {
		return "", nil, fmt.Errorf("failed to open xls %s: %w", path, err)
	}

	out := excelize.NewFile()
	defer out.Close()

	for i := range src.NumSheets() {
		ws := src.GetSheet(i)
		if ws == nil {
			continue
		}

		if err := addConvertedSheet(out, i, ws); err != nil {
			return "", nil, err
		}
	}

	tmp, err := os.CreateTemp("", "census-*.xlsx")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	tmpPath := tmp.Name()
	_ = tmp.Close()

	cleanup := func() { _ = os.Remove(tmpPath) }

	if err := out.SaveAs(tmpPath); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to save converted %s: %w", path, err)
	}

	return tmpPath, cleanup, nil
}

func addConvertedSheet(out *excelize.File, index int, ws *xls.WorkSheet) error {
	name := ws.Name
	if index == 0 {
		if err := out.SetSheetName(out.GetSheetName(0), name); err != nil {
			return fmt.Errorf("failed to name sheet %q: %w", name, err)
		}
	} else if _, err := out.NewSheet(name); err != nil {
		return fmt.Errorf("failed to add sheet %q: %w", name, err)
	}

	for r := 0; r <= int(ws.MaxRow); r++ {
		row := ws.Row(r)
		if row == nil {
			continue
		}

		for c := row.FirstCol(); c < row.LastCol(); c++ {
			text := row.Col(c)
			if text == "" {
				continue
			}

			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}

			if f, err := strconv.ParseFloat(text, 64); err == nil {
				err = out.SetCellFloat(name, ref, f, -1, 64)
				if err != nil {
					return fmt.Errorf("failed to write %s!%s: %w", name, ref, err)
				}

				continue
			}

			if err := out.SetCellStr(name, ref, text); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", name, ref, err)
			}
		}
	}

	return nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadCSV reads a CSV export into an in-memory sheet named name.
// UTF-8 (with or without BOM) and CP949 encoded files are accepted.
// Numeric fields become numbers, everything else stays text.
func LoadCSV(path, name string) (*Mem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv %s: %w", path, err)
	}

	return ReadCSV(bytes.NewReader(data), name)
}

// ReadCSV is LoadCSV over an arbitrary reader.
func ReadCSV(r io.Reader, name string) (*Mem, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := korean.EUCKR.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode csv as cp949: %w", err)
		}

		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	m := NewMem(name)

	for i, rec := range records {
		for j, field := range rec {
			v := csvValue(field)
			if v.IsEmpty() {
				continue
			}

			_ = m.SetValue(j+1, i+1, v)
		}
	}

	return m, nil
}

func csvValue(field string) Value {
	s := strings.TrimSpace(field)
	if s == "" {
		return Empty
	}

	if len(s) > 1 && s[0] == '0' && s[1] != '.' {
		return Str(s)
	}

	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
		return Num(f)
	}

	return Str(field)
}
