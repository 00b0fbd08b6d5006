// CLAUDE:SUMMARY Reconcile resolves an ambiguous token sequence into safe fields plus the fields whose sources conflict.
package address

import "strings"

// fieldLabels lists, per field, the labels that fold into it in assembly order.
var fieldLabels = func() map[Field][]Label {
	m := make(map[Field][]Label, len(AllFields))
	for f, order := range joinOrder {
		m[f] = order
	}
	for _, l := range Labels {
		f, ok := labelFields[l]
		if !ok {
			continue
		}
		if _, ordered := joinOrder[f]; !ordered {
			m[f] = append(m[f], l)
		}
	}
	return m
}()

// Reconcile resolves the ambiguous tagger path. Tokens are trimmed, exact
// repeats are dropped, discard labels go, consecutive runs of one label are
// joined, and any label still occurring more than once poisons its field.
// A poisoned field is reported in removed and contributes nothing, even
// through sibling labels that were unique. The result depends only on the
// order and content of tokens.
func Reconcile(tokens []Token) (Fields, []Field) {
	trimmed := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		t.Text = strings.Trim(t.Text, " .,#")
		if t.Text != "" {
			trimmed = append(trimmed, t)
		}
	}

	// Repeats are dropped before runs collapse so that "Suite 1220, Suite
	// 1220" reduces to one unit, while "Walla Walla" stays a two-word city.
	kept := dropRepeats(trimmed)
	kept = dropDiscarded(kept)
	kept = collapseRuns(kept)
	kept = dropRepeats(kept)

	counts := make(map[Label]int, len(kept))
	for _, t := range kept {
		counts[t.Label]++
	}
	poisoned := make(map[Field]bool)
	var removed []Field
	for _, t := range kept {
		if counts[t.Label] < 2 {
			continue
		}
		f := labelFields[t.Label]
		if !poisoned[f] {
			poisoned[f] = true
			removed = append(removed, f)
		}
	}

	safe := make(map[Label]string, len(kept))
	for _, t := range kept {
		if counts[t.Label] == 1 {
			safe[t.Label] = t.Text
		}
	}
	out := make(Fields)
	for _, f := range AllFields {
		if poisoned[f] {
			continue
		}
		var parts []string
		for _, l := range fieldLabels[f] {
			if v, ok := safe[l]; ok {
				parts = append(parts, v)
			}
		}
		out.Set(f, strings.Join(parts, " "))
	}
	return out, removed
}

// dropRepeats removes a token identical to one seen earlier, unless it
// extends an unbroken run of identical tokens that is being kept.
func dropRepeats(tokens []Token) []Token {
	seen := make(map[Token]bool, len(tokens))
	out := make([]Token, 0, len(tokens))
	prevKept := false
	for i, t := range tokens {
		run := i > 0 && tokens[i-1] == t && prevKept
		if seen[t] && !run {
			prevKept = false
			continue
		}
		seen[t] = true
		prevKept = true
		out = append(out, t)
	}
	return out
}

func dropDiscarded(tokens []Token) []Token {
	out := tokens[:0:0]
	for _, t := range tokens {
		if _, ok := labelFields[t.Label]; ok {
			out = append(out, t)
		}
	}
	return out
}

// collapseRuns joins adjacent tokens with the same label.
func collapseRuns(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if n := len(out); n > 0 && out[n-1].Label == t.Label {
			out[n-1].Text += " " + t.Text
			continue
		}
		out = append(out, t)
	}
	return out
}
