// CLAUDE:SUMMARY Wire schema: OSM-keyed address records, the Unparseable error record, correlation ids and boundary validation.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hazyhaar/addrnorm/pkg/address"
)

// Unparseable is the error carried by records with at most one field.
const Unparseable = "Unparseable"

// ID is the caller's correlation id: a JSON integer or string, echoed back
// verbatim. The zero value encodes as 0.
type ID string

var integer = regexp.MustCompile(`^-?[0-9]+$`)

// UnmarshalJSON accepts integers and strings. Strings are re-encoded so that
// equal values compare equal.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("@id: %w", err)
		}
		canon, _ := json.Marshal(s)
		*id = ID(canon)
	case integer.Match(b):
		*id = ID(b)
	default:
		return fmt.Errorf("@id must be an integer or a string, got %s", b)
	}
	return nil
}

// MarshalJSON writes the id as received.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("0"), nil
	}
	return []byte(id), nil
}

func (id ID) key() string {
	if id == "" {
		return "0"
	}
	return string(id)
}

// AddressInput is one address to parse.
type AddressInput struct {
	Address string `json:"address" validate:"max=4096"`
	ID      ID     `json:"@id"`
}

// AddressReturn is a parsed address keyed by OpenStreetMap tags.
type AddressReturn struct {
	HouseNumber string   `json:"addr:housenumber,omitempty"`
	Street      string   `json:"addr:street,omitempty"`
	Unit        string   `json:"addr:unit,omitempty"`
	City        string   `json:"addr:city,omitempty"`
	State       string   `json:"addr:state,omitempty" validate:"omitempty,state_code"`
	PostCode    string   `json:"addr:postcode,omitempty" validate:"omitempty,postcode"`
	Removed     []string `json:"@removed"`
	ID          ID       `json:"@id"`
}

// ErrorReturn replaces an AddressReturn that carries too little to be useful.
type ErrorReturn struct {
	Address string `json:"address"`
	ID      ID     `json:"@id"`
	Error   string `json:"error"`
}

// Meta accompanies every response.
type Meta struct {
	Version string `json:"version"`
	Status  string `json:"status"`
}

type envelope struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

func (r *AddressReturn) slot(f address.Field) *string {
	switch f {
	case address.HouseNumber:
		return &r.HouseNumber
	case address.Street:
		return &r.Street
	case address.Unit:
		return &r.Unit
	case address.City:
		return &r.City
	case address.State:
		return &r.State
	case address.PostalCode:
		return &r.PostCode
	}
	return nil
}

func (r *AddressReturn) populated() int {
	n := 0
	for _, f := range address.AllFields {
		if *r.slot(f) != "" {
			n++
		}
	}
	return n
}

var (
	stateCode = regexp.MustCompile(`^[A-Z]{2}$`)
	postCode  = regexp.MustCompile(`^[0-9]{5}(?:-[0-9]{4})?$`)
	osmFields = func() map[string]address.Field {
		m := make(map[string]address.Field, len(address.AllFields))
		for _, f := range address.AllFields {
			m[f.OSMKey()] = f
		}
		return m
	}()
)

// newValidator returns a validator that reports fields by their JSON name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(v.RegisterValidation("state_code", func(fl validator.FieldLevel) bool {
		return stateCode.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("postcode", func(fl validator.FieldLevel) bool {
		return postCode.MatchString(fl.Field().String())
	}))
	return v
}

// record builds the response for one input. Fields the validator rejects are
// dropped and listed in @removed after the reconciler's own removals. A
// record left with at most one field becomes an ErrorReturn.
func record(v *validator.Validate, in AddressInput, fields address.Fields, removed []address.Field) any {
	out := AddressReturn{ID: in.ID, Removed: make([]string, 0, len(removed))}
	for _, f := range removed {
		out.Removed = append(out.Removed, f.OSMKey())
	}
	for _, f := range fields.Keys() {
		if p := out.slot(f); p != nil {
			*p = fields[f]
		}
	}

	var verrs validator.ValidationErrors
	if err := v.Struct(out); errors.As(err, &verrs) {
		for _, fe := range verrs {
			f, ok := osmFields[fe.Field()]
			if !ok {
				continue
			}
			*out.slot(f) = ""
			out.Removed = appendUnique(out.Removed, fe.Field())
		}
	}

	if out.populated() <= 1 {
		return ErrorReturn{Address: in.Address, ID: in.ID, Error: Unparseable}
	}
	return out
}

func appendUnique(list []string, s string) []string {
	for _, x := range list {
		if x == s {
			return list
		}
	}
	return append(list, s)
}
