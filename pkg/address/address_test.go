package address

import (
	"reflect"
	"testing"
)

func TestFieldsSetAndKeys(t *testing.T) {
	fs := Fields{}
	fs.Set(PostalCode, "90012")
	fs.Set(Street, "Spring Street")
	fs.Set(HouseNumber, "200")
	fs.Set(Field("country"), "US")
	fs.Set(Unit, "")

	want := []Field{HouseNumber, Street, PostalCode}
	if got := fs.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	fs.Set(Street, "")
	if _, ok := fs[Street]; ok {
		t.Error("Set with an empty value kept the field")
	}
	if len(fs.Keys()) != 2 {
		t.Errorf("Keys() = %v, want two fields", fs.Keys())
	}
}

func TestFieldValid(t *testing.T) {
	for _, f := range AllFields {
		if !f.Valid() {
			t.Errorf("%s.Valid() = false", f)
		}
	}
	if Field("country").Valid() {
		t.Error(`Field("country").Valid() = true`)
	}
}

func TestNormalizeDropsUnknownFields(t *testing.T) {
	got, _ := Default().Normalize(Resolved{
		HouseNumber:      "12",
		Street:           "OAK ST",
		Field("country"): "USA",
	})
	want := Fields{HouseNumber: "12", Street: "Oak Street"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}
}
