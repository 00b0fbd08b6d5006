// CLAUDE:SUMMARY Pre-clean of raw input before tagging: line-break markup to commas, non-ASCII dropped or accent-folded.
package address

import (
	"regexp"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var lineBreak = regexp.MustCompile(`(?i)<br\s*/?>`)

var asciiOnly = runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII }))

// foldToASCII builds a fresh chain per call; a Chain keeps buffers and must
// not be shared between goroutines.
func foldToASCII() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, asciiOnly)
}

// Clean turns <br> markup into commas and drops every rune outside ASCII
// (Montréal -> Montral). It never fails.
func Clean(s string) string {
	return clean(s, asciiOnly)
}

// Clean is the package Clean, folding accents first when FoldAccents is set
// (Montréal -> Montreal).
func (n *Normalizer) Clean(s string) string {
	if n.opts.FoldAccents {
		return clean(s, foldToASCII())
	}
	return clean(s, asciiOnly)
}

func clean(s string, t transform.Transformer) string {
	s = lineBreak.ReplaceAllString(s, ",")
	out, _, err := transform.String(t, s)
	if err != nil {
		// Only reachable on invalid UTF-8 that the transformer rejects; fall
		// back to a byte filter.
		b := make([]byte, 0, len(s))
		for i := 0; i < len(s); i++ {
			if s[i] <= unicode.MaxASCII {
				b = append(b, s[i])
			}
		}
		return string(b)
	}
	return out
}
