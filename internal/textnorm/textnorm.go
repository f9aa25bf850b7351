// =============================================================================
// IN1888 Report Generator - Text Normalization
// =============================================================================
//
// Accent- and case-insensitive comparison keys. Used by the sheet resolver so
// that a requested "Transações" finds a sheet named "Transacoes" and the other
// way round.
//
// =============================================================================

package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold decomposes s (NFD), drops combining marks and lower-cases the result.
// Letters without a decomposition are kept as they are.
func Fold(s string) string {
	if s == "" {
		return ""
	}

	// transform.Chain is stateful, so a fresh chain is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Contains reports whether the folded form of s contains the folded form of sub.
func Contains(s, sub string) bool {
	return strings.Contains(Fold(s), Fold(sub))
}
