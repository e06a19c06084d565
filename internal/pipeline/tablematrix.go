package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// TableMatrix is the rectangular form of a parsed pipe table.
// Every row has exactly len(Header) cells after normalization,
// even when the source rows were ragged.
type TableMatrix struct {
	Header  []string
	Rows    [][]string
	Numeric []bool // per-column: true when every non-empty cell parses as a number
}

// Columns returns the number of columns in the matrix.
func (m *TableMatrix) Columns() int {
	return len(m.Header)
}

// ParseTableMatrix converts raw pipe-delimited lines into a TableMatrix.
// Returns ok == false when the lines are not a table (no separator row
// at index 1, or no splittable cells). Rejection is not an error: the
// caller treats the lines as ordinary prose.
func ParseTableMatrix(lines []string) (*TableMatrix, bool) {
	if len(lines) < 2 {
		return nil, false
	}

	if !isSeparatorRow(lines[1]) {
		return nil, false
	}

	header := splitPipeRow(lines[0])
	if len(header) == 0 {
		return nil, false
	}

	rows := make([][]string, 0, len(lines)-2)
	for _, line := range lines[2:] {
		if isSeparatorRow(line) {
			continue
		}
		rows = append(rows, splitPipeRow(line))
	}

	// Ragged normalization: pad every row (header included) to the
	// widest row seen, then synthesize names for the extra columns.
	maxCols := len(header)
	for _, row := range rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}

	originalHeaderCols := len(header)
	header = padRow(header, maxCols)
	for i := originalHeaderCols; i < maxCols; i++ {
		header[i] = fmt.Sprintf("Unnamed_%d", i)
	}
	header = uniqueNames(header)

	for i, row := range rows {
		rows[i] = padRow(row, maxCols)
	}

	return &TableMatrix{
		Header:  header,
		Rows:    rows,
		Numeric: classifyColumns(rows, maxCols),
	}, true
}

// isSeparatorRow reports whether the line is a table separator row:
// pipe-delimited cells containing only '-', ':' and whitespace, with
// at least one dash somewhere.
func isSeparatorRow(line string) bool {
	cells := splitPipeRow(line)
	if len(cells) == 0 {
		return false
	}
	sawDash := false
	for _, cell := range cells {
		for _, r := range cell {
			switch r {
			case '-':
				sawDash = true
			case ':', ' ', '\t':
			default:
				return false
			}
		}
	}
	return sawDash
}

// splitPipeRow splits a table line on unescaped pipes and strips
// whitespace from each cell. Leading and trailing empty cells produced
// by the outer pipes are dropped. Escaped pipes (\|) stay literal.
func splitPipeRow(line string) []string {
	var cells []string
	var cur strings.Builder
	escaped := false

	for _, r := range line {
		switch {
		case escaped:
			if r != '|' {
				cur.WriteRune('\\')
			}
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteRune('\\')
	}
	cells = append(cells, strings.TrimSpace(cur.String()))

	// Drop the empty outer cells from leading/trailing pipes.
	if len(cells) > 0 && cells[0] == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// padRow right-pads row with empty strings up to width.
func padRow(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}

// uniqueNames disambiguates duplicate column names by appending a
// numeric suffix to the second and later occurrences.
func uniqueNames(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		seen[name]++
		if seen[name] == 1 {
			out[i] = name
			continue
		}
		out[i] = fmt.Sprintf("%s_%d", name, seen[name])
	}
	return out
}

// classifyColumns marks a column numeric when every non-empty cell in
// it parses as a number. Empty cells do not block classification, but
// a column with no non-empty cells is not numeric.
func classifyColumns(rows [][]string, cols int) []bool {
	numeric := make([]bool, cols)
	for c := 0; c < cols; c++ {
		nonEmpty := 0
		allNumeric := true
		for _, row := range rows {
			cell := row[c]
			if cell == "" {
				continue
			}
			nonEmpty++
			if _, ok := parseNumber(cell); !ok {
				allNumeric = false
				break
			}
		}
		numeric[c] = allNumeric && nonEmpty > 0
	}
	return numeric
}

// parseNumber parses a cell as a number, tolerating both decimal-point
// ("1,234.56") and decimal-comma ("1.234,56") conventions.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case dots > 0 && commas > 0:
		// Both present: the rightmost separator is the decimal mark,
		// the other must form valid thousands groups ("12,34,5.6" is
		// not a number).
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			if !groupedThousands(s[:strings.IndexByte(s, ',')], ".") {
				return 0, false
			}
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			if !groupedThousands(s[:strings.IndexByte(s, '.')], ",") {
				return 0, false
			}
			s = strings.ReplaceAll(s, ",", "")
		}
	case commas == 1:
		// Lone comma is a decimal mark ("3,14").
		s = strings.Replace(s, ",", ".", 1)
	case commas > 1:
		// Repeated commas are thousands separators ("1,234,567").
		if !groupedThousands(s, ",") {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", "")
	case dots > 1:
		// Repeated dots are thousands separators ("1.234.567").
		if !groupedThousands(s, ".") {
			return 0, false
		}
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// groupedThousands reports whether the integer part is well-formed
// thousands grouping under sep: a leading group of one to three
// digits followed by groups of exactly three.
func groupedThousands(intPart, sep string) bool {
	for i, g := range strings.Split(intPart, sep) {
		if i == 0 {
			g = strings.TrimLeft(g, "+-")
			if len(g) < 1 || len(g) > 3 {
				return false
			}
			continue
		}
		if len(g) != 3 {
			return false
		}
	}
	return true
}
