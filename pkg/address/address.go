// CLAUDE:SUMMARY Core address types: canonical fields, tagger labels, tokens, and the Resolved/Ambiguous tagging union.
package address

// Field is a canonical output field. The set is closed.
type Field string

const (
	HouseNumber Field = "house_number"
	Street      Field = "street"
	Unit        Field = "unit"
	City        Field = "city"
	State       Field = "state"
	PostalCode  Field = "postal_code"
)

// AllFields lists the canonical fields in output order.
var AllFields = []Field{HouseNumber, Street, Unit, City, State, PostalCode}

var osmKeys = map[Field]string{
	HouseNumber: "addr:housenumber",
	Street:      "addr:street",
	Unit:        "addr:unit",
	City:        "addr:city",
	State:       "addr:state",
	PostalCode:  "addr:postcode",
}

// OSMKey returns the OpenStreetMap tag used when serializing the field.
func (f Field) OSMKey() string {
	return osmKeys[f]
}

// Valid reports whether f is one of the canonical fields.
func (f Field) Valid() bool {
	_, ok := osmKeys[f]
	return ok
}

// Token is one labeled substring emitted by a tagger.
type Token struct {
	Text  string `json:"text"`
	Label Label  `json:"label"`
}

// Fields maps canonical fields to values. Absent fields are omitted, never empty.
type Fields map[Field]string

// Set stores v under f, or deletes f when v is empty. Fields outside the
// canonical set are ignored.
func (fs Fields) Set(f Field, v string) {
	if !f.Valid() {
		return
	}
	if v == "" {
		delete(fs, f)
		return
	}
	fs[f] = v
}

// Keys returns the present fields in canonical order.
func (fs Fields) Keys() []Field {
	keys := make([]Field, 0, len(fs))
	for _, f := range AllFields {
		if _, ok := fs[f]; ok {
			keys = append(keys, f)
		}
	}
	return keys
}

// Tagging is the tagger's result: either Resolved or Ambiguous.
type Tagging interface {
	tagging()
}

// Resolved is the unambiguous path: every label appeared in a single run and
// values are already folded into canonical fields.
type Resolved Fields

// Ambiguous is the fallback path: some label repeated, so the raw token
// sequence is handed over for reconciliation.
type Ambiguous []Token

func (Resolved) tagging()  {}
func (Ambiguous) tagging() {}
