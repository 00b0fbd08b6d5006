// CLAUDE:SUMMARY Ordered rewrite steps (saint, abbreviation, directional, state route, street suffix) built on RE2 cores plus context guards.
package address

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Step is one named rewrite in a field pipeline.
type Step struct {
	Name  string
	Apply func(string) string
}

var (
	usVariant   = regexp.MustCompile(`\bU.[Ss].\B`)
	strayPeriod = regexp.MustCompile(`([a-zA-Z]{2,})\.`)
	multiSpace  = regexp.MustCompile(` {2,}`)
	stateRoute  = regexp.MustCompile(`(?i)\bS\.?R\b\.?`)
	saintAbbrev = regexp.MustCompile(`(?i)\bSt\.?`)
)

// guard decides whether the candidate s[start:end] may be rewritten. It
// stands in for the lookbehind/lookahead assertions RE2 does not support.
type guard func(s string, start, end int) bool

// rewrite replaces every match of re accepted by ok. Candidates are tried at
// each position; a rejected candidate ending in a period is retried without
// it, which is what a backtracking engine does with a trailing `\.?`.
func rewrite(s string, re *regexp.Regexp, ok guard, repl func(string) string) string {
	var b strings.Builder
	last, pos := 0, 0
	for pos < len(s) {
		loc := re.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		accepted := -1
		if end > start {
			for _, e := range periodCandidates(s, start, end) {
				if ok(s, start, e) {
					accepted = e
					break
				}
			}
		}
		if accepted < 0 {
			_, w := utf8.DecodeRuneInString(s[start:])
			pos = start + w
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(repl(s[start:accepted]))
		last, pos = accepted, accepted
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

func periodCandidates(s string, start, end int) []int {
	if end-start > 1 && s[end-1] == '.' {
		return []int{end, end - 1}
	}
	return []int{end}
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// wordStart reports whether a word boundary precedes s[i] in the full string.
func wordStart(s string, i int) bool {
	return i == 0 || !isWordByte(s[i-1])
}

// wordEnd reports whether there is an ASCII word boundary at s[i].
func wordEnd(s string, i int) bool {
	if i == 0 || i == len(s) {
		return i > 0 && isWordByte(s[i-1])
	}
	return isWordByte(s[i-1]) != isWordByte(s[i])
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// alternation builds a non-capturing group of keys, longest first, so the
// compiled pattern does not depend on map iteration order.
func alternation(keys []string, quote func(string) string) string {
	sorted := append([]string(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	parts := make([]string, len(sorted))
	for i, k := range sorted {
		parts[i] = quote(k)
	}
	return "(?:" + strings.Join(parts, "|") + ")"
}

// dottedLetters turns "NE" into `N\.?E` so "N.E." matches as well.
func dottedLetters(key string) string {
	letters := make([]string, 0, len(key))
	for _, r := range key {
		letters = append(letters, regexp.QuoteMeta(string(r)))
	}
	return strings.Join(letters, `\.?`)
}

func mapKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// saint rewrites "St" to "Saint" at the start of the value or before a
// known first name.
func (n *Normalizer) saint(s string) string {
	return rewrite(s, saintAbbrev, func(s string, start, end int) bool {
		if !wordStart(s, start) {
			return false
		}
		rest := s[end:]
		if start == 0 && strings.HasPrefix(rest, " ") {
			return true
		}
		if !strings.HasPrefix(rest, " ") {
			return false
		}
		for _, name := range n.saints {
			if hasPrefixFold(rest[1:], name) {
				return true
			}
		}
		return false
	}, func(string) string { return "Saint" })
}

// expandAbbrevs expands whole-word street and place-name abbreviations that
// are not followed by an apostrophe.
func (n *Normalizer) expandAbbrevs(s string) string {
	return rewrite(s, n.abbrevRe, func(s string, start, end int) bool {
		return wordStart(s, start) && (end == len(s) || s[end] != '\'')
	}, func(m string) string {
		return n.abbrevs[strings.ToUpper(strings.TrimRight(m, "."))]
	})
}

// expandDirections expands standalone compass abbreviations. It leaves
// "Avenue N" at the start of a value alone, never fires right after a period
// or apostrophe, and skips a letter that is glued to the next word or that
// names the street itself ("E Street").
func (n *Normalizer) expandDirections(s string) string {
	return rewrite(s, n.directionRe, func(s string, start, end int) bool {
		if !wordStart(s, start) {
			return false
		}
		if start > 0 && (s[start-1] == '.' || s[start-1] == '\'') {
			return false
		}
		if strings.EqualFold(s[:start], "Avenue ") {
			return false
		}
		rest := s[end:]
		if rest != "" && isLetter(rest[0]) {
			return false
		}
		if len(rest) > 1 && rest[0] == '.' && isLetter(rest[1]) {
			return false
		}
		if hasPrefixFold(rest, " Street") || hasPrefixFold(rest, " Avenue") {
			return false
		}
		return true
	}, func(m string) string {
		return n.directions[strings.ToUpper(strings.ReplaceAll(m, ".", ""))]
	})
}

// expandStateRoute turns "SR 9" into "State Route 9".
func expandStateRoute(s string) string {
	return rewrite(s, stateRoute, func(s string, start, end int) bool {
		rest := s[end:]
		return wordStart(s, start) && len(rest) > 1 && rest[0] == ' ' && rest[1] >= '0' && rest[1] <= '9'
	}, func(string) string { return "State Route" })
}

func squeeze(s string) string {
	return multiSpace.ReplaceAllString(s, " ")
}

func trimValue(s string) string {
	return squeeze(strings.Trim(s, " ."))
}

// streetSuffix turns a trailing "St" into "Street": before a directional,
// after an ordinal like "42nd", or at the very end. It is case-sensitive and
// runs after the Saint rule, so "St Mary St" becomes "Saint Mary Street".
func streetSuffix(s string) string {
	beforeDirection := func(start, end int) bool {
		rest := s[end:]
		return len(rest) > 1 && rest[0] == ' ' && strings.IndexByte("NESW", rest[1]) >= 0
	}
	afterOrdinal := func(start, end int) bool {
		if start < 4 || s[start-1] != ' ' || !wordEnd(s, end) {
			return false
		}
		return isOrdinalLetter(s[start-2]) && isOrdinalLetter(s[start-3]) && s[start-4] >= '0' && s[start-4] <= '9'
	}
	atEnd := func(_, end int) bool { return end == len(s) }
	alts := []func(start, end int) bool{beforeDirection, afterOrdinal, atEnd}

	var b strings.Builder
	last := 0
	for i := 0; i+1 < len(s); {
		if s[i] != 'S' || s[i+1] != 't' {
			i++
			continue
		}
		ends := []int{i + 2}
		if i+2 < len(s) && s[i+2] == '.' {
			ends = []int{i + 3, i + 2}
		}
		matched := -1
	search:
		for _, alt := range alts {
			for _, e := range ends {
				if alt(i, e) {
					matched = e
					break search
				}
			}
		}
		if matched < 0 {
			i++
			continue
		}
		b.WriteString(s[last:i])
		b.WriteString("Street")
		last, i = matched, matched
	}
	b.WriteString(s[last:])
	return strings.Trim(b.String(), ".")
}

func isOrdinalLetter(c byte) bool {
	return strings.IndexByte("thndstr", c) >= 0
}
