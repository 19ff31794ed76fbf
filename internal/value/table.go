package value

import (
	"fmt"

	"github.com/ogma-lang/ogma/internal/types"
)

// Table is a dense, column-major matrix of entries with a header row
// (row 0). Tables are cheap to clone: a cloned Table shares its columns
// slice with the original; the mutating method (AddCol)
// allocates a fresh columns slice first. This is a simplified stand-in
// for the original's copy-on-write handle with a `get_mut` fast path for
// uniquely-owned tables — Go has no ownership/refcounting primitive
// equivalent to Rust's `Arc::get_mut`, so every mutation here always
// copies rather than attempting to detect unique ownership.
type Table struct {
	cols [][]Value // cols[c][r]; row 0 of every column is its header entry
}

// NewTable returns an empty table (no columns, zero rows).
func NewTable() *Table { return &Table{} }

func (*Table) Ty() types.Type  { return types.TyTab }
func (t *Table) isValue()      {}
func (t *Table) String() string {
	return fmt.Sprintf("<table %dx%d>", t.ColsLen(), t.RowsLen())
}

// ColsLen returns the number of columns.
func (t *Table) ColsLen() int { return len(t.cols) }

// RowsLen returns the number of rows, *including* the header row.
func (t *Table) RowsLen() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0])
}

// AddCol appends a new column built from entries (entries[0] is the
// header). Returns a new *Table; the receiver is left untouched.
func (t *Table) AddCol(entries []Value) *Table {
	cols := make([][]Value, len(t.cols), len(t.cols)+1)
	copy(cols, t.cols)
	cols = append(cols, entries)
	return &Table{cols: cols}
}

// ColIndex resolves a header name to a column index.
func (t *Table) ColIndex(name string) (int, bool) {
	for i, col := range t.cols {
		if len(col) > 0 {
			if s, ok := col[0].(Str); ok && string(s) == name {
				return i, true
			}
		}
	}
	return -1, false
}

// HeaderNames returns the header row entries, in column order.
func (t *Table) HeaderNames() []string {
	names := make([]string, len(t.cols))
	for i, col := range t.cols {
		if len(col) > 0 {
			names[i] = col[0].String()
		}
	}
	return names
}

// Entry returns the entry at [row, col] (row 0 is the header row).
func (t *Table) Entry(row, col int) (Value, bool) {
	if col < 0 || col >= len(t.cols) {
		return nil, false
	}
	c := t.cols[col]
	if row < 0 || row >= len(c) {
		return nil, false
	}
	return c[row], true
}

// TableRow is a cursor into a Table carrying a row index and a
// name->column-index cache so repeated `get`/`.` lookups on the same row
// don't re-scan the header.
type TableRow struct {
	Tbl   *Table
	Idx   int
	cache map[string]int
}

// NewTableRow builds a TableRow cursor at idx (idx is a row index
// including the header row offset — callers pass `nth+1` to skip it).
func NewTableRow(t *Table, idx int) TableRow {
	return TableRow{Tbl: t, Idx: idx, cache: map[string]int{}}
}

func (TableRow) Ty() types.Type { return types.TyTabRow }
func (TableRow) isValue()       {}
func (r TableRow) String() string {
	return fmt.Sprintf("<row %d>", r.Idx)
}

// Entry resolves colname on this row, consulting (and populating) the
// row's name->column-index cache so repeated lookups of the same
// column on the same row don't re-scan the header. headerOK is false
// when colname isn't a header in the table at all; inBounds is false
// when the row index is beyond the table's row count. The caller turns
// either failure into the domain-specific error it wants (get.go wraps
// these as header_not_found / row_out_of_bounds).
func (r TableRow) Entry(colname string) (v Value, headerOK, inBounds bool) {
	col, known := r.cache[colname]
	if !known {
		var found bool
		col, found = r.Tbl.ColIndex(colname)
		if !found {
			return nil, false, false
		}
		r.cache[colname] = col
	}
	v, inBounds = r.Tbl.Entry(r.Idx, col)
	return v, true, inBounds
}
