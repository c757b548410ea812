package sheet

import "iter"

// ScanUntilBlankKey yields row numbers starting at first and stops at the
// first row whose key column is blank or whitespace-only. A blank key in
// the middle of the data ends the range.
func ScanUntilBlankKey(g Grid, keyCol, first int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for row := first; ; row++ {
			if g.Cell(keyCol, row).IsBlank() {
				return
			}

			if !yield(row) {
				return
			}
		}
	}
}

// Bounded yields every cell of g within the first maxRows rows and maxCols
// columns, row by row, clipped to the used extent of the sheet.
func Bounded(g Grid, maxRows, maxCols int) iter.Seq2[Ref, Cell] {
	return func(yield func(Ref, Cell) bool) {
		cols, rows := g.Extent()
		rows = min(rows, maxRows)
		cols = min(cols, maxCols)

		for row := 1; row <= rows; row++ {
			for col := 1; col <= cols; col++ {
				if !yield(Ref{Col: col, Row: row}, g.Cell(col, row)) {
					return
				}
			}
		}
	}
}

// HeaderRow returns the display text of every used column in row,
// index 0 being column 1.
func HeaderRow(g Grid, row int) []string {
	cols, _ := g.Extent()
	headers := make([]string, cols)

	for col := 1; col <= cols; col++ {
		v, ok := g.Cell(col, row).Resolve()
		if ok {
			headers[col-1] = v.String()
		}
	}

	return headers
}
