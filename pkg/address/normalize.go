// CLAUDE:SUMMARY Normalizer: compiled matchers over immutable tables, per-field rewrite pipelines, and the Normalize entry point.
package address

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

// Options tune the behaviors that historically varied between deployments.
type Options struct {
	// CitySingleWord title-cases a single ALL-CAPS city ("BOSTON" -> "Boston").
	CitySingleWord bool `yaml:"city_single_word"`
	// StateSingleWord title-cases an ALL-CAPS state that resolves to no code.
	StateSingleWord bool `yaml:"state_single_word"`
	// FoldAccents strips diacritics in Clean instead of dropping the letter.
	FoldAccents bool `yaml:"fold_accents"`
}

// DefaultOptions returns the options Default is built with.
func DefaultOptions() Options {
	return Options{CitySingleWord: true}
}

// Normalizer rewrites canonical fields. It holds only read-only data and is
// safe for concurrent use.
type Normalizer struct {
	opts       Options
	abbrevs    map[string]string
	directions map[string]string
	states     map[string]string
	saints     []string

	abbrevRe    *regexp.Regexp
	directionRe *regexp.Regexp

	street []Step
	city   []Step
}

// New compiles the matchers for t. The tables are copied; later changes to t
// have no effect on the returned Normalizer.
func New(t Tables, opts Options) (*Normalizer, error) {
	n := &Normalizer{
		opts:       opts,
		abbrevs:    make(map[string]string, len(t.Names)+len(t.Streets)),
		directions: make(map[string]string, len(t.Directions)),
		states:     make(map[string]string, len(t.States)),
	}
	// Street expansions win over place-name ones for the same key.
	for _, m := range []map[string]string{t.Names, t.Streets} {
		for k, v := range m {
			n.abbrevs[strings.ToUpper(k)] = titleExpansion(v)
		}
	}
	for k, v := range t.Directions {
		n.directions[strings.ToUpper(k)] = titleExpansion(v)
	}
	for k, v := range t.States {
		n.states[strings.ToUpper(k)] = strings.ToUpper(v)
	}
	for _, s := range t.Saints {
		if s = strings.TrimSpace(s); s != "" {
			n.saints = append(n.saints, s)
		}
	}
	if len(n.abbrevs) == 0 || len(n.directions) == 0 {
		return nil, fmt.Errorf("address: abbreviation and direction tables must not be empty")
	}

	var err error
	n.abbrevRe, err = regexp.Compile(`(?i)\b` + alternation(mapKeys(n.abbrevs), regexp.QuoteMeta) + `\b\.?`)
	if err != nil {
		return nil, fmt.Errorf("address: compile abbreviations: %w", err)
	}
	n.directionRe, err = regexp.Compile(`(?i)\b` + alternation(mapKeys(n.directions), dottedLetters) + `\b\.?`)
	if err != nil {
		return nil, fmt.Errorf("address: compile directions: %w", err)
	}

	n.city = n.steps(opts.CitySingleWord)
	n.street = append(n.steps(false), Step{Name: "street-suffix", Apply: streetSuffix})
	return n, nil
}

// steps is the shared abbreviation pipeline. Order matters: "St" must become
// "Saint" before abbreviations expand and before the street suffix runs.
func (n *Normalizer) steps(singleWord bool) []Step {
	return []Step{
		{Name: "casing", Apply: func(s string) string { return fixMc(repairCase(s, singleWord)) }},
		{Name: "us", Apply: func(s string) string { return strings.ReplaceAll(s, "U.S.", "US") }},
		{Name: "ordinal", Apply: func(s string) string { return squeeze(fixOrdinals(s)) }},
		{Name: "saint", Apply: n.saint},
		{Name: "abbreviation", Apply: n.expandAbbrevs},
		{Name: "directional", Apply: n.expandDirections},
		{Name: "us-variants", Apply: func(s string) string { return usVariant.ReplaceAllString(s, "US") }},
		{Name: "stray-period", Apply: func(s string) string { return strayPeriod.ReplaceAllString(s, "$1") }},
		{Name: "state-route", Apply: expandStateRoute},
		{Name: "trim", Apply: trimValue},
	}
}

var (
	defaultOnce sync.Once
	defaultNorm *Normalizer
)

// Default returns the process-wide Normalizer built from DefaultTables and
// DefaultOptions. The built-in tables always compile; a failure here is a bug.
func Default() *Normalizer {
	defaultOnce.Do(func() {
		n, err := New(DefaultTables(), DefaultOptions())
		if err != nil {
			panic(err)
		}
		defaultNorm = n
	})
	return defaultNorm
}

// Options returns the options n was built with.
func (n *Normalizer) Options() Options { return n.opts }

// StreetSteps returns the names of the street pipeline steps, in order.
func (n *Normalizer) StreetSteps() []string { return stepNames(n.street) }

// CitySteps returns the names of the city pipeline steps, in order.
func (n *Normalizer) CitySteps() []string { return stepNames(n.city) }

func stepNames(steps []Step) []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	return names
}

func run(steps []Step, s string) string {
	for _, st := range steps {
		s = st.Apply(s)
	}
	return s
}

// Street normalizes a street value.
func (n *Normalizer) Street(v string) string { return run(n.street, v) }

// City normalizes a city value.
func (n *Normalizer) City(v string) string { return run(n.city, v) }

// State resolves a state or province to its two-letter code when it can.
// Anything else comes back unchanged for the caller's validator to judge.
func (n *Normalizer) State(v string) string {
	v = strings.TrimSpace(v)
	s := strings.TrimSuffix(strings.ReplaceAll(v, ".", ""), ", USA")
	if code, ok := n.states[strings.ToUpper(s)]; ok {
		return code
	}
	if utf8.RuneCountInString(s) == 2 {
		return strings.ToUpper(s)
	}
	if n.opts.StateSingleWord {
		return repairCase(v, true)
	}
	return v
}

// trimUnit strips spaces, hashes and periods around a unit designator.
func trimUnit(v string) string { return strings.Trim(v, " #.") }

var zipZeroPlus4 = regexp.MustCompile(`^([0-9]{5})-?0000$`)

// trimZip drops an all-zero ZIP+4 extension.
func trimZip(v string) string {
	return zipZeroPlus4.ReplaceAllString(strings.TrimSpace(v), "$1")
}

// Field normalizes v as field f.
func (n *Normalizer) Field(f Field, v string) string {
	switch f {
	case Street:
		return n.Street(v)
	case City:
		return n.City(v)
	case State:
		return n.State(v)
	case Unit:
		return trimUnit(v)
	case PostalCode:
		return trimZip(v)
	default:
		return strings.TrimSpace(v)
	}
}

// Normalize turns a tagging into canonical fields plus the fields removed as
// unresolvable. Only the Ambiguous variant can produce removed fields. The
// returned slice is never nil.
func (n *Normalizer) Normalize(t Tagging) (Fields, []Field) {
	var (
		in      Fields
		removed []Field
	)
	switch v := t.(type) {
	case Resolved:
		in = Fields(v)
	case Ambiguous:
		in, removed = Reconcile(v)
	}
	if removed == nil {
		removed = []Field{}
	}
	out := make(Fields, len(in))
	for _, f := range in.Keys() {
		out.Set(f, n.Field(f, in[f]))
	}
	return out, removed
}
