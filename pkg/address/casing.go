package address

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	mcPrefix      = regexp.MustCompile(`\bMc([a-z])`)
	ordinalSuffix = regexp.MustCompile(`\b([0-9]+)([SNRT][tTdDhHrR])\b`)
)

// isCased reports whether r has an upper/lower distinction.
func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

// allUpper reports whether s has at least one cased rune and no lower-case one.
func allUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// titleWords upper-cases every cased rune that follows an uncased one and
// lower-cases the rest, so digits and apostrophes start a new word:
// "1ST" -> "1St", "O'NEIL" -> "O'Neil". The ordinal and Mc rules expect
// exactly this shape.
func titleWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevCased := false
	for _, r := range s {
		switch {
		case isCased(r) && prevCased:
			b.WriteRune(unicode.ToLower(r))
		case isCased(r):
			b.WriteRune(unicode.ToTitle(r))
		default:
			b.WriteRune(r)
		}
		prevCased = isCased(r)
	}
	return b.String()
}

// repairCase title-cases an ALL-CAPS value. A single word is only touched
// when singleWord is set, so codes like "NY" survive in street names. Values
// whose words carry at most two letters each ("US 101", "SR 9") are codes and
// are left alone.
func repairCase(s string, singleWord bool) string {
	if !allUpper(s) || shortWords(s) {
		return s
	}
	if !singleWord && !strings.Contains(s, " ") {
		return s
	}
	return fixMc(titleWords(s))
}

func shortWords(s string) bool {
	for _, w := range strings.Fields(s) {
		letters := 0
		for _, r := range w {
			if unicode.IsLetter(r) {
				letters++
			}
		}
		if letters > 2 {
			return false
		}
	}
	return true
}

// fixMc capitalizes the letter after a leading "Mc": "Mcdonald" -> "McDonald".
func fixMc(s string) string {
	return mcPrefix.ReplaceAllStringFunc(s, func(m string) string {
		return "Mc" + strings.ToUpper(m[2:])
	})
}

// fixOrdinals lower-cases ordinal suffixes, keeping the digits: "1ST" -> "1st".
func fixOrdinals(s string) string {
	return ordinalSuffix.ReplaceAllStringFunc(s, strings.ToLower)
}

// titleExpansion renders a table expansion ("BOULEVARD") as a word ("Boulevard").
func titleExpansion(s string) string {
	return titleWords(strings.ToLower(s))
}
