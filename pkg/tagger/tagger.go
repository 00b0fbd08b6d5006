// CLAUDE:SUMMARY Tagger contract: raw address string in, Resolved or Ambiguous tagging out.
package tagger

import (
	"context"
	"errors"

	"github.com/hazyhaar/addrnorm/pkg/address"
)

// ErrEmpty is returned for input with no taggable words.
var ErrEmpty = errors.New("tagger: empty input")

// Tagger segments a cleaned address string into labeled tokens.
type Tagger interface {
	Tag(ctx context.Context, raw string) (address.Tagging, error)
}

// Func adapts a plain function to Tagger.
type Func func(ctx context.Context, raw string) (address.Tagging, error)

// Tag calls f.
func (f Func) Tag(ctx context.Context, raw string) (address.Tagging, error) {
	return f(ctx, raw)
}

// classify turns a token sequence into a tagging. A label split across two
// or more non-consecutive runs cannot be folded safely, so the tokens go to
// reconciliation instead.
func classify(tokens []address.Token) address.Tagging {
	if repeated(tokens) {
		return address.Ambiguous(tokens)
	}
	return address.Resolved(address.Fold(tokens))
}

func repeated(tokens []address.Token) bool {
	seen := make(map[address.Label]bool, len(tokens))
	for i, t := range tokens {
		if i > 0 && tokens[i-1].Label == t.Label {
			continue
		}
		if seen[t.Label] {
			return true
		}
		seen[t.Label] = true
	}
	return false
}
