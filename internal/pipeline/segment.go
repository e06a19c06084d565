package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Placeholder delimiters. The bracket pair is chosen from a Unicode
// range that does not occur in ordinary prose; Segment still verifies
// this against each source text and falls back to UUID tokens if the
// source already contains the opening delimiter.
const (
	placeholderOpen  = "⟦TABLE:" // ⟦TABLE:
	placeholderClose = "⟧"       // ⟧
)

// placeholderPattern matches any placeholder token and captures its id.
var placeholderPattern = regexp.MustCompile(`\x{27e6}TABLE:([^\x{27e7}]+)\x{27e7}`)

// Sentinel errors for segmentation and reinsertion.
var (
	// ErrBlockOrder indicates overlapping or out-of-order table block
	// offsets: a scanner contract violation that would corrupt
	// document order if ignored.
	ErrBlockOrder = errors.New("table blocks overlap or are out of order")

	// ErrMissingArtifact indicates a placeholder had no artifact
	// mapping at reinsertion time. Assembly must abort rather than
	// leave the raw token in the output.
	ErrMissingArtifact = errors.New("no artifact for placeholder")
)

// PlacedTable pairs a placeholder id with the table block it replaced.
// Raw holds the exact excised source bytes, so reinserting Raw for
// every id reproduces the original text.
type PlacedTable struct {
	ID    string
	Raw   string
	Block TableBlock
}

// Placeholder returns the full placeholder token for the table.
func (p PlacedTable) Placeholder() string {
	return placeholderOpen + p.ID + placeholderClose
}

// Segment removes every table block span from text, substituting a
// unique placeholder token, and returns the prose-only text plus the
// ordered (placeholder, table) pairs.
//
// Ids are the block index in document order, so the first table gets
// the token ⟦TABLE:0⟧. When the source text itself contains the
// opening delimiter, ids switch to UUIDs so generated tokens cannot
// collide with legitimate content.
//
// Blocks must arrive sorted by StartOffset with non-overlapping spans;
// anything else returns ErrBlockOrder.
func Segment(text string, blocks []TableBlock) (string, []PlacedTable, error) {
	if len(blocks) == 0 {
		return text, nil, nil
	}

	useUUID := strings.Contains(text, placeholderOpen)

	var out strings.Builder
	out.Grow(len(text))
	placed := make([]PlacedTable, 0, len(blocks))

	prev := 0
	for i, block := range blocks {
		if block.StartOffset < prev || block.EndOffset < block.StartOffset || block.EndOffset > len(text) {
			return "", nil, fmt.Errorf("%w: block %d spans [%d,%d) after offset %d",
				ErrBlockOrder, i, block.StartOffset, block.EndOffset, prev)
		}

		id := strconv.Itoa(i)
		if useUUID {
			id = uuid.NewString()
		}

		out.WriteString(text[prev:block.StartOffset])
		out.WriteString(placeholderOpen + id + placeholderClose)
		placed = append(placed, PlacedTable{
			ID:    id,
			Raw:   text[block.StartOffset:block.EndOffset],
			Block: block,
		})
		prev = block.EndOffset
	}
	out.WriteString(text[prev:])

	return out.String(), placed, nil
}

// Reinsert replaces every placeholder token in content with its
// artifact reference, preserving all surrounding text byte-for-byte.
// The content may already have passed through an external prose
// converter; the tokens survive such conversion as plain text.
//
// A token whose id is missing from artifacts is fatal: the error names
// the id, and no output with a stray token is ever produced.
func Reinsert(content string, artifacts map[string]string) (string, error) {
	var missing string
	result := placeholderPattern.ReplaceAllStringFunc(content, func(token string) string {
		id := placeholderPattern.FindStringSubmatch(token)[1]
		ref, ok := artifacts[id]
		if !ok {
			if missing == "" {
				missing = id
			}
			return token
		}
		return ref
	})
	if missing != "" {
		return "", fmt.Errorf("%w: %q", ErrMissingArtifact, missing)
	}
	return result, nil
}
