// CLAUDE:SUMMARY Deterministic rule-based tagger for single-line US and Canadian addresses.
package tagger

import (
	"context"
	"regexp"
	"strings"

	"github.com/hazyhaar/addrnorm/pkg/address"
)

var (
	houseNumber = regexp.MustCompile(`^[0-9]+(?:[A-Za-z]|-[0-9]+)?$`)
	fraction    = regexp.MustCompile(`^[0-9]/[0-9]$`)
	zip5        = regexp.MustCompile(`^[0-9]{5}(?:-?[0-9]{4})?$`)
	canadaFSA   = regexp.MustCompile(`^[A-Za-z][0-9][A-Za-z]$`)
	canadaLDU   = regexp.MustCompile(`^[0-9][A-Za-z][0-9]$`)
	canadaFull  = regexp.MustCompile(`^[A-Za-z][0-9][A-Za-z]-?[0-9][A-Za-z][0-9]$`)
)

var occupancyWords = map[string]bool{
	"APT": true, "APARTMENT": true, "SUITE": true, "STE": true, "UNIT": true,
	"RM": true, "ROOM": true, "FL": true, "FLOOR": true, "#": true,
}

var countryPhrases = map[string]bool{
	"US": true, "USA": true, "AMERICA": true, "UNITED STATES": true,
	"UNITED STATES OF AMERICA": true, "CANADA": true,
}

// Rules is a heuristic tagger. It reads the address right to left (country,
// postal code, state, city) and then parses what is left as recipient lines,
// the street line and unit designators. It is safe for concurrent use.
type Rules struct {
	states      map[string]bool
	streetTypes map[string]bool
	directions  map[string]bool
}

// NewRules builds a tagger that recognizes the states, street types and
// directions in t.
func NewRules(t address.Tables) *Rules {
	r := &Rules{
		states:      make(map[string]bool, 2*len(t.States)),
		streetTypes: map[string]bool{"ST": true, "STREET": true},
		directions:  make(map[string]bool, 2*len(t.Directions)),
	}
	for k, v := range t.States {
		r.states[strings.ToUpper(k)] = true
		r.states[strings.ToUpper(v)] = true
	}
	for k, v := range t.Streets {
		r.streetTypes[strings.ToUpper(k)] = true
		r.streetTypes[strings.ToUpper(v)] = true
	}
	for k, v := range t.Directions {
		r.directions[strings.ToUpper(k)] = true
		r.directions[strings.ToUpper(v)] = true
	}
	return r
}

// Tag labels raw and classifies the result.
func (r *Rules) Tag(ctx context.Context, raw string) (address.Tagging, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tokens := r.Tokens(raw)
	if len(tokens) == 0 {
		return nil, ErrEmpty
	}
	return classify(tokens), nil
}

func bare(w string) string {
	return strings.ToUpper(strings.ReplaceAll(w, ".", ""))
}

func (r *Rules) isType(w string) bool      { return r.streetTypes[bare(w)] }
func (r *Rules) isDirection(w string) bool { return r.directions[bare(w)] }

func isBoxStart(ws []string, i int) bool {
	return i+2 < len(ws) && bare(ws[i]) == "PO" && bare(ws[i+1]) == "BOX"
}

func isOccupancy(w string) bool {
	return occupancyWords[bare(w)] || (len(w) > 1 && w[0] == '#')
}

// labeling holds one label slot per word, grouped by comma-separated segment.
type labeling struct {
	segs   [][]string
	labels [][]address.Label
}

func (l *labeling) mark(seg, from, to int, label address.Label) {
	for i := from; i < to; i++ {
		l.labels[seg][i] = label
	}
}

// Tokens splits raw on commas and whitespace and labels every word. Words
// keep their punctuation; the normalizer deals with it.
func (r *Rules) Tokens(raw string) []address.Token {
	l := &labeling{}
	for _, part := range strings.Split(raw, ",") {
		if ws := strings.Fields(part); len(ws) > 0 {
			l.segs = append(l.segs, ws)
			l.labels = append(l.labels, make([]address.Label, len(ws)))
		}
	}
	if len(l.segs) == 0 {
		return nil
	}

	seg, end := r.tail(l)
	r.head(l, seg, end)

	var out []address.Token
	for s, ws := range l.segs {
		for i, w := range ws {
			out = append(out, address.Token{Text: w, Label: l.labels[s][i]})
		}
	}
	return out
}

// tail labels a trailing unit, country, postal code, state and city from the right. It
// returns the unlabeled prefix as segment index and word count.
func (r *Rules) tail(l *labeling) (int, int) {
	seg := len(l.segs) - 1
	end := len(l.segs[seg])
	settle := func() {
		for end == 0 && seg > 0 {
			seg--
			end = len(l.segs[seg])
		}
	}

	// A unit after the postal code: "NV 46895 Unit B", "..., Apt 3".
	if n := trailingUnit(l.segs[seg][:end]); n > 0 && (n < end || seg > 0) {
		r.units(l, seg, end-n, end, address.OccupancyIdentifier)
		end -= n
		settle()
	}
	// A country never consumes the whole input.
	if n := phraseAtEnd(l.segs[seg][:end], 4, func(p string) bool { return countryPhrases[p] }); n > 0 && (n < end || seg > 0) {
		l.mark(seg, end-n, end, address.CountryName)
		end -= n
		settle()
	}
	n := postalWords(l.segs[seg][:end])
	hasPostal := n > 0
	if hasPostal {
		l.mark(seg, end-n, end, address.ZipCode)
		end -= n
		settle()
	}
	n = phraseAtEnd(l.segs[seg][:end], 4, func(p string) bool { return r.states[p] })
	if n == 0 || n == end && seg == 0 {
		return seg, end
	}
	// Without a postal code, "100 Oak Ct" ends in a street type, not Connecticut.
	if !hasPostal && n == 1 && r.isType(l.segs[seg][end-1]) {
		return seg, end
	}
	l.mark(seg, end-n, end, address.StateName)
	end -= n

	if end > 0 {
		// City shares the state's segment unless that is the street line.
		if seg == 0 || houseNumber.MatchString(l.segs[seg][0]) {
			return seg, end
		}
		l.mark(seg, 0, end, address.PlaceName)
		end = 0
		settle()
		return seg, end
	}
	settle()
	if end == 0 {
		return seg, end
	}
	ws := l.segs[seg]
	if houseNumber.MatchString(ws[0]) || isBoxStart(ws, 0) || isOccupancy(ws[0]) || seg == 0 && r.hasType(ws) {
		return seg, end
	}
	l.mark(seg, 0, end, address.PlaceName)
	end = 0
	settle()
	return seg, end
}

// phraseAtEnd returns the length of the longest phrase of up to limit words
// ending ws that ok accepts, or 0.
func phraseAtEnd(ws []string, limit int, ok func(string) bool) int {
	for n := min(limit, len(ws)); n > 0; n-- {
		parts := make([]string, n)
		for i, w := range ws[len(ws)-n:] {
			parts[i] = bare(w)
		}
		if ok(strings.Join(parts, " ")) {
			return n
		}
	}
	return 0
}

// trailingUnit reports how many trailing words form an occupancy designator.
// Words ending in a postal code never do, so "FL 33101" stays a state.
func trailingUnit(ws []string) int {
	n := len(ws)
	switch {
	case n == 0 || postalWords(ws) > 0:
		return 0
	case len(ws[n-1]) > 1 && ws[n-1][0] == '#':
		return 1
	case n >= 2 && occupancyWords[bare(ws[n-2])]:
		return 2
	}
	return 0
}

// postalWords reports how many trailing words form a ZIP or Canadian code.
func postalWords(ws []string) int {
	n := len(ws)
	switch {
	case n == 0:
		return 0
	case zip5.MatchString(ws[n-1]) || canadaFull.MatchString(ws[n-1]):
		return 1
	case n >= 2 && canadaFSA.MatchString(ws[n-2]) && canadaLDU.MatchString(ws[n-1]):
		return 2
	}
	return 0
}

func (r *Rules) hasType(ws []string) bool {
	for _, w := range ws[1:] {
		if r.isType(w) {
			return true
		}
	}
	return false
}

// head labels the unlabeled prefix: segments before the street line are
// recipients, the street line is parsed, and anything after it is a unit or
// place name.
func (r *Rules) head(l *labeling, last, end int) {
	if end == 0 && last == 0 {
		return
	}
	bound := func(s int) int {
		if s == last {
			return end
		}
		return len(l.segs[s])
	}

	street := -1
	for s := 0; s <= last && street < 0; s++ {
		if ws := l.segs[s][:bound(s)]; len(ws) > 0 && (houseNumber.MatchString(ws[0]) || isBoxStart(ws, 0)) {
			street = s
		}
	}
	for s := 0; s <= last && street < 0; s++ {
		if ws := l.segs[s][:bound(s)]; len(ws) > 1 && r.hasType(ws) {
			street = s
		}
	}
	if street < 0 {
		street = 0
	}

	for s := 0; s <= last; s++ {
		ws := l.segs[s][:bound(s)]
		switch {
		case s < street:
			r.units(l, s, 0, len(ws), address.Recipient)
		case s == street:
			rest := r.streetLine(l, s, ws)
			r.units(l, s, rest, len(ws), address.PlaceName)
		default:
			r.units(l, s, 0, len(ws), address.PlaceName)
		}
	}
}

// streetLine labels house number, directionals, name and type. It returns
// the index of the first word it left unlabeled.
func (r *Rules) streetLine(l *labeling, s int, ws []string) int {
	i := 0
	if isBoxStart(ws, 0) {
		l.mark(s, 0, 2, address.USPSBoxType)
		l.mark(s, 2, 3, address.USPSBoxID)
		return 3
	}
	if i < len(ws) && houseNumber.MatchString(ws[i]) {
		l.mark(s, i, i+1, address.AddressNumber)
		i++
		if i < len(ws) && fraction.MatchString(ws[i]) {
			l.mark(s, i, i+1, address.AddressNumberSuffix)
			i++
		}
	}

	stop := len(ws)
	for j := i + 1; j < len(ws); j++ {
		if isOccupancy(ws[j]) || isBoxStart(ws, j) {
			stop = j
			break
		}
	}
	if i >= stop {
		return i
	}

	// "N Spring St" has a pre-directional; in "N St" the letter is the name.
	if r.isDirection(ws[i]) && i+1 < stop && (!r.isType(ws[i+1]) || i+2 < stop && r.isType(ws[i+2])) {
		l.mark(s, i, i+1, address.StreetNamePreDirectional)
		i++
	}

	name := i
	typ := -1
	for j := name + 1; j < stop; j++ {
		if r.isType(ws[j]) {
			typ = j
			break
		}
	}
	// In "Spring Hill Rd" only the last of adjacent type words is the type.
	for typ >= 0 && typ+1 < stop && r.isType(ws[typ+1]) {
		typ++
	}
	if typ < 0 {
		last := stop
		if stop-name > 1 && r.isDirection(ws[stop-1]) {
			last = stop - 1
			l.mark(s, last, stop, address.StreetNamePostDirectional)
		}
		l.mark(s, name, last, address.StreetName)
		return stop
	}
	l.mark(s, name, typ, address.StreetName)
	l.mark(s, typ, typ+1, address.StreetNamePostType)
	next := typ + 1
	if next < stop && r.isDirection(ws[next]) {
		l.mark(s, next, next+1, address.StreetNamePostDirectional)
		next++
	}
	return next
}

// units labels occupancy and PO box words in ws[from:to]; every other word
// gets fallback.
func (r *Rules) units(l *labeling, s, from, to int, fallback address.Label) {
	ws := l.segs[s][:to]
	for i := from; i < to; {
		switch {
		case isBoxStart(ws, i):
			l.mark(s, i, i+2, address.USPSBoxType)
			l.mark(s, i+2, i+3, address.USPSBoxID)
			i += 3
		case occupancyWords[bare(ws[i])] && i+1 < to:
			l.mark(s, i, i+1, address.OccupancyType)
			l.mark(s, i+1, i+2, address.OccupancyIdentifier)
			i += 2
		case len(ws[i]) > 1 && ws[i][0] == '#':
			l.mark(s, i, i+1, address.OccupancyIdentifier)
			i++
		default:
			l.mark(s, i, i+1, fallback)
			i++
		}
	}
}
