package pipeline

import "strings"

// TableBlock is one detected pipe table with its position in the
// source text. StartOffset and EndOffset are byte offsets delimiting
// the exact span to excise, including a trailing caption line when the
// recognizer consumed one.
type TableBlock struct {
	RawLines    []string
	StartOffset int
	EndOffset   int
	Caption     string
	Convention  CaptionConvention
	Matrix      *TableMatrix
}

// sourceLine is a line of the scanned text with its byte span.
// The span excludes the trailing newline.
type sourceLine struct {
	text  string
	start int
	end   int
}

// splitLines splits text into lines while tracking byte offsets.
func splitLines(text string) []sourceLine {
	var lines []sourceLine
	start := 0
	for {
		idx := strings.IndexByte(text[start:], '\n')
		if idx < 0 {
			lines = append(lines, sourceLine{text: text[start:], start: start, end: len(text)})
			return lines
		}
		end := start + idx
		lines = append(lines, sourceLine{text: text[start:end], start: start, end: end})
		start = end + 1
	}
}

// ScanTableBlocks walks the document text and locates every pipe table.
// Blocks are returned in strictly increasing StartOffset order with
// non-overlapping spans; reinsertion depends on that ordering.
//
// Candidate blocks that fail table parsing are left untouched in the
// prose stream: a run of pipe-containing lines with no separator row is
// prose, not an error. Lines inside fenced code blocks are opaque and
// never start a table.
func ScanTableBlocks(text string) []TableBlock {
	lines := splitLines(text)
	var blocks []TableBlock

	i := 0
	inFence := false
	for i < len(lines) {
		if strings.HasPrefix(strings.TrimSpace(lines[i].text), "```") {
			inFence = !inFence
			i++
			continue
		}
		if inFence || !strings.Contains(lines[i].text, "|") {
			i++
			continue
		}

		// Consume the run of consecutive pipe-containing lines.
		j := i
		for j < len(lines) && strings.Contains(lines[j].text, "|") {
			j++
		}

		raw := make([]string, 0, j-i)
		for _, ln := range lines[i:j] {
			raw = append(raw, ln.text)
		}

		matrix, ok := ParseTableMatrix(raw)
		if !ok {
			// Not a table. Re-scan from the next line so a valid
			// table starting inside the run is still found.
			i++
			continue
		}

		var before, after string
		if i > 0 {
			before = lines[i-1].text
		}
		if j < len(lines) {
			after = lines[j].text
		}

		match := RecognizeCaption(before, after)

		end := lines[j-1].end
		if match.ConsumedAfter {
			raw = append(raw, lines[j].text)
			end = lines[j].end
			j++
		}

		blocks = append(blocks, TableBlock{
			RawLines:    raw,
			StartOffset: lines[i].start,
			EndOffset:   end,
			Caption:     match.Caption,
			Convention:  match.Convention,
			Matrix:      matrix,
		})

		i = j
	}

	return blocks
}
