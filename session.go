package mdreport

// session tracks document-scoped numbering for tables and figures.
// A fresh session is created per Assemble call; counters advance only
// when an element is actually placed in the output, so a table that
// fails to render never consumes a number.
type session struct {
	tables  int
	figures int
}

// nextTable returns the next 1-based table number.
func (s *session) nextTable() int {
	s.tables++
	return s.tables
}

// nextFigure returns the next 1-based figure number.
func (s *session) nextFigure() int {
	s.figures++
	return s.figures
}
