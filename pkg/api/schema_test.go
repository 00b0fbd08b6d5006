package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/addrnorm/pkg/address"
)

func TestIDRoundTrip(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"@id": 7}`, `7`},
		{`{"@id": "abc"}`, `"abc"`},
		{`{"@id": "1"}`, `"1"`},
		{`{}`, `0`},
	}
	for _, tt := range tests {
		var in AddressInput
		require.NoError(t, json.Unmarshal([]byte(tt.in), &in), tt.in)
		got, err := json.Marshal(in.ID)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(got), tt.in)
	}
}

func TestIDRejectsOtherTypes(t *testing.T) {
	for _, raw := range []string{`{"@id": 1.5}`, `{"@id": true}`, `{"@id": [1]}`} {
		var in AddressInput
		assert.Error(t, json.Unmarshal([]byte(raw), &in), raw)
	}
}

func TestIDKeysDistinguishTypes(t *testing.T) {
	var a, b AddressInput
	require.NoError(t, json.Unmarshal([]byte(`{"@id": 1}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"@id": "1"}`), &b))
	assert.NotEqual(t, a.ID.key(), b.ID.key())
	assert.Equal(t, "0", ID("").key())
}

func TestRecord(t *testing.T) {
	v := newValidator()
	in := AddressInput{Address: "x", ID: "3"}
	fields := address.Fields{
		address.HouseNumber: "200", address.Street: "North Spring Street",
		address.State: "CA", address.PostalCode: "90012",
	}
	got := record(v, in, fields, []address.Field{address.City})
	want := AddressReturn{
		HouseNumber: "200", Street: "North Spring Street", State: "CA", PostCode: "90012",
		Removed: []string{"addr:city"}, ID: "3",
	}
	assert.Equal(t, want, got)
}

func TestRecordDropsInvalidFields(t *testing.T) {
	v := newValidator()
	fields := address.Fields{
		address.HouseNumber: "350", address.Street: "Bay Street", address.City: "Toronto",
		address.State: "Ontario", address.PostalCode: "M5H 2S6",
	}
	got, ok := record(v, AddressInput{}, fields, nil).(AddressReturn)
	require.True(t, ok)
	assert.Empty(t, got.State)
	assert.Empty(t, got.PostCode)
	assert.ElementsMatch(t, []string{"addr:state", "addr:postcode"}, got.Removed)
}

func TestRecordUnparseable(t *testing.T) {
	v := newValidator()
	in := AddressInput{Address: "Reno", ID: "9"}
	got := record(v, in, address.Fields{address.Street: "Reno"}, nil)
	assert.Equal(t, ErrorReturn{Address: "Reno", ID: "9", Error: Unparseable}, got)

	// A second field that fails validation does not count.
	got = record(v, in, address.Fields{address.Street: "Reno", address.PostalCode: "nope"}, nil)
	assert.IsType(t, ErrorReturn{}, got)
}

func TestAddressReturnJSON(t *testing.T) {
	b, err := json.Marshal(AddressReturn{HouseNumber: "89", Street: "Broadway", Removed: []string{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"addr:housenumber":"89","addr:street":"Broadway","@removed":[],"@id":0}`, string(b))
}
