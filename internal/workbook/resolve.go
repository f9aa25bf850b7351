package workbook

import (
	"strings"

	"github.com/ginjaninja78/in1888-converter/internal/textnorm"
)

// ResolveSheet chooses which sheet to read.
//
// An exact, case-sensitive match on hint wins. Otherwise both the hint and
// each sheet name are folded (accents stripped, lower-cased) and the first
// sheet, in workbook order, whose folded name equals or contains the folded
// hint is returned. With no hint or no match the first sheet is used.
//
// The boolean reports whether the hint matched a sheet. It is false when the
// first-sheet fallback was taken. An empty names slice yields "", false.
func ResolveSheet(names []string, hint string) (string, bool) {
	if len(names) == 0 {
		return "", false
	}

	if hint != "" {
		for _, name := range names {
			if name == hint {
				return name, true
			}
		}

		want := textnorm.Fold(hint)
		for _, name := range names {
			folded := textnorm.Fold(name)
			if folded == want || strings.Contains(folded, want) {
				return name, true
			}
		}
	}

	return names[0], false
}
