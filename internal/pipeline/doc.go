// Package pipeline implements the document assembly core: pipe table
// detection and parsing, caption recognition, placeholder segmentation
// and reinsertion, figure handling, and prose conversion.
//
// The package operates purely on in-memory text. It performs no I/O
// and holds no state across invocations; per-document counters live in
// the caller's assembly session.
//
// # Flow
//
// Raw text passes through ScanTableBlocks, which locates every pipe
// table (tolerating ragged rows) with exact byte offsets. Segment
// excises those spans and substitutes placeholder tokens. The
// prose-only remainder goes through a ProseConverter, table matrices
// go to an artifact renderer, and Reinsert splices the rendered
// artifact references back at the original positions.
package pipeline
