package txtwriter

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// EncodingError reports a character that has no 7-bit ASCII encoding.
type EncodingError struct {
	// Path is the file being written, when known.
	Path string

	// Line and Column locate the character, both 1-based. Column counts bytes.
	Line   int
	Column int

	Rune rune
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	where := fmt.Sprintf("line %d, column %d", e.Line, e.Column)
	if e.Path != "" {
		where += " of " + e.Path
	}
	return fmt.Sprintf("cannot encode %q (U+%04X) as ASCII at %s", e.Rune, e.Rune, where)
}

// asciiEncoder is a transform.Transformer that copies 7-bit ASCII through
// and fails on the first byte outside it.
type asciiEncoder struct {
	line, col int
}

var _ transform.Transformer = (*asciiEncoder)(nil)

func newASCIIEncoder() *asciiEncoder {
	return &asciiEncoder{line: 1}
}

// Reset implements transform.Transformer.
func (e *asciiEncoder) Reset() {
	e.line, e.col = 1, 0
}

// Transform implements transform.Transformer.
func (e *asciiEncoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		b := src[nSrc]
		if b >= utf8.RuneSelf {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			r, _ := utf8.DecodeRune(src[nSrc:])
			return nDst, nSrc, &EncodingError{Line: e.line, Column: e.col + 1, Rune: r}
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}

		dst[nDst] = b
		nDst++
		nSrc++

		if b == '\n' {
			e.line++
			e.col = 0
		} else {
			e.col++
		}
	}
	return nDst, nSrc, nil
}
