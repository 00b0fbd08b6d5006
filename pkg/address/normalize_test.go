package address

import (
	"reflect"
	"strings"
	"testing"
)

func TestStreet(t *testing.T) {
	n := Default()
	tests := []struct {
		input, want string
	}{
		{"N. Spring St", "North Spring Street"},
		{"St Mary St", "Saint Mary Street"},
		{"MAPLE RD", "Maple Road"},
		{"Broadway", "Broadway"},
		{"W 1ST ST", "West 1st Street"},
		{"1ST AVE", "1st Avenue"},
		{"Avenue N", "Avenue N"},
		{"E Street", "E Street"},
		{"SR 9", "State Route 9"},
		{"U.S. 1", "US 1"},
		{"US 101", "US 101"},
		{"CR 12", "CR 12"},
		{"MCDONALD AVE", "McDonald Avenue"},
		{"Mcdonald Ave", "McDonald Avenue"},
		{"MT VERNON BLVD", "Mount Vernon Boulevard"},
		{"O'Neil St.", "O'Neil Street"},
		{"42nd St NW", "42nd Street Northwest"},
		{"Main  St", "Main Street"},
		{"", ""},
	}
	for _, tt := range tests {
		got := n.Street(tt.input)
		if got != tt.want {
			t.Errorf("Street(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStreetWholeWordOnly(t *testing.T) {
	n := Default()
	for _, input := range []string{"1ST", "21ST", "W 1ST"} {
		got := n.Street(input)
		if strings.Contains(got, "Street") || strings.Contains(got, "Saint") {
			t.Errorf("Street(%q) = %q, ordinal suffix was expanded", input, got)
		}
	}
	if got := n.Street("1ST"); got != "1st" {
		t.Errorf("Street(%q) = %q, want %q", "1ST", got, "1st")
	}
}

func TestCity(t *testing.T) {
	n := Default()
	tests := []struct {
		input, want string
	}{
		{"Los Angeles", "Los Angeles"},
		{"LOS ANGELES", "Los Angeles"},
		{"COUNTRYSIDE", "Countryside"},
		{"Ft. Worth", "Fort Worth"},
		{"St Louis", "Saint Louis"},
		{"MCALLEN", "McAllen"},
	}
	for _, tt := range tests {
		got := n.City(tt.input)
		if got != tt.want {
			t.Errorf("City(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCitySingleWordOption(t *testing.T) {
	n, err := New(DefaultTables(), Options{CitySingleWord: false})
	if err != nil {
		t.Fatal(err)
	}
	if got := n.City("BOSTON"); got != "BOSTON" {
		t.Errorf("City(%q) = %q, want unchanged", "BOSTON", got)
	}
	if got := n.City("NEW YORK"); got != "New York" {
		t.Errorf("City(%q) = %q, want %q", "NEW YORK", got, "New York")
	}
}

func TestState(t *testing.T) {
	n := Default()
	tests := []struct {
		input, want string
	}{
		{"California", "CA"},
		{"calif.", "CA"},
		{"N.Y.", "NY"},
		{"ny", "NY"},
		{"California, USA", "CA"},
		{"Quebec", "QC"},
		{"Narnia", "Narnia"},
		{"NARNIA", "NARNIA"},
	}
	for _, tt := range tests {
		got := n.State(tt.input)
		if got != tt.want {
			t.Errorf("State(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStateSingleWordOption(t *testing.T) {
	n, err := New(DefaultTables(), Options{StateSingleWord: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := n.State("NARNIA"); got != "Narnia" {
		t.Errorf("State(%q) = %q, want %q", "NARNIA", got, "Narnia")
	}
	if got := n.State("TEXAS"); got != "TX" {
		t.Errorf("State(%q) = %q, want %q", "TEXAS", got, "TX")
	}
}

func TestOptions(t *testing.T) {
	opts := Options{StateSingleWord: true, FoldAccents: true}
	n, err := New(DefaultTables(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := n.Options(); got != opts {
		t.Errorf("Options() = %+v, want %+v", got, opts)
	}
	if got := Default().Options(); got != DefaultOptions() {
		t.Errorf("Default().Options() = %+v, want %+v", got, DefaultOptions())
	}
}

func TestFieldUnitAndPostalCode(t *testing.T) {
	n := Default()
	tests := []struct {
		field       Field
		input, want string
	}{
		{Unit, "#5.", "5"},
		{Unit, " Apt 3 ", "Apt 3"},
		{PostalCode, "90012-0000", "90012"},
		{PostalCode, "900120000", "90012"},
		{PostalCode, "24680-0198", "24680-0198"},
		{PostalCode, "H2X 1Y4", "H2X 1Y4"},
		{HouseNumber, " 200 ", "200"},
	}
	for _, tt := range tests {
		got := n.Field(tt.field, tt.input)
		if got != tt.want {
			t.Errorf("Field(%s, %q) = %q, want %q", tt.field, tt.input, got, tt.want)
		}
	}
}

func TestIdempotent(t *testing.T) {
	n := Default()
	streets := []string{
		"N. Spring St", "St Mary St", "MAPLE RD", "W 1ST ST", "Avenue N", "E Street",
		"SR 9", "MCDONALD AVE", "MT VERNON BLVD", "O'Neil St.", "42nd St NW",
		"U.S. 1", "US 101",
	}
	for _, s := range streets {
		once := n.Street(s)
		if twice := n.Street(once); twice != once {
			t.Errorf("Street(Street(%q)) = %q, want %q", s, twice, once)
		}
	}
	for _, c := range []string{"LOS ANGELES", "Ft. Worth", "COUNTRYSIDE", "St Louis"} {
		once := n.City(c)
		if twice := n.City(once); twice != once {
			t.Errorf("City(City(%q)) = %q, want %q", c, twice, once)
		}
	}
}

func TestDeterministic(t *testing.T) {
	a, err := New(DefaultTables(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(DefaultTables(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if a.abbrevRe.String() != b.abbrevRe.String() || a.directionRe.String() != b.directionRe.String() {
		t.Fatal("compiled patterns differ between builds")
	}
	for _, s := range []string{"N. Spring St", "NE 5TH ST SE", "CTR PLZ", "S.E. Main St."} {
		if x, y := a.Street(s), b.Street(s); x != y {
			t.Errorf("Street(%q) = %q and %q across builds", s, x, y)
		}
	}
}

func TestSteps(t *testing.T) {
	n := Default()
	street := n.StreetSteps()
	if len(street) != 11 || street[len(street)-1] != "street-suffix" {
		t.Errorf("StreetSteps() = %v, want 11 steps ending in street-suffix", street)
	}
	city := n.CitySteps()
	if !reflect.DeepEqual(city, street[:10]) {
		t.Errorf("CitySteps() = %v, want %v", city, street[:10])
	}
	if street[3] != "saint" || street[4] != "abbreviation" {
		t.Errorf("saint must run before abbreviation, got %v", street)
	}
}

func TestNewRejectsEmptyTables(t *testing.T) {
	if _, err := New(Tables{}, DefaultOptions()); err == nil {
		t.Error("New(empty tables) succeeded, want error")
	}
}

func TestNormalizeResolved(t *testing.T) {
	n := Default()
	tests := []struct {
		name string
		in   Resolved
		want Fields
	}{
		{
			name: "spring street",
			in: Resolved{
				HouseNumber: "200", Street: "N. Spring St", City: "Los Angeles",
				State: "California", PostalCode: "90012",
			},
			want: Fields{
				HouseNumber: "200", Street: "North Spring Street", City: "Los Angeles",
				State: "CA", PostalCode: "90012",
			},
		},
		{
			name: "broadway",
			in:   Resolved{HouseNumber: "89", Street: "Broadway", City: "New York", State: "NY", PostalCode: "10006"},
			want: Fields{HouseNumber: "89", Street: "Broadway", City: "New York", State: "NY", PostalCode: "10006"},
		},
		{
			name: "all caps",
			in:   Resolved{HouseNumber: "345", Street: "MAPLE RD", City: "COUNTRYSIDE", State: "PA", PostalCode: "24680-0198"},
			want: Fields{HouseNumber: "345", Street: "Maple Road", City: "Countryside", State: "PA", PostalCode: "24680-0198"},
		},
		{
			name: "saint",
			in:   Resolved{HouseNumber: "890", Street: "St Mary St", City: "Metropolis", State: "GA", PostalCode: "86420"},
			want: Fields{HouseNumber: "890", Street: "Saint Mary Street", City: "Metropolis", State: "GA", PostalCode: "86420"},
		},
		{
			name: "empty after normalization",
			in:   Resolved{Street: "Main St", Unit: "#"},
			want: Fields{Street: "Main Street"},
		},
	}
	for _, tt := range tests {
		got, removed := n.Normalize(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: Normalize() = %v, want %v", tt.name, got, tt.want)
		}
		if removed == nil || len(removed) != 0 {
			t.Errorf("%s: removed = %#v, want empty non-nil", tt.name, removed)
		}
	}
}

func TestNormalizeAmbiguous(t *testing.T) {
	n := Default()
	got, removed := n.Normalize(Ambiguous{
		{"200", AddressNumber},
		{"Spring", StreetName},
		{"Hill", StreetName},
		{"St", StreetNamePostType},
		{"Los Angeles", PlaceName},
		{"Pasadena", PlaceName},
		{"CA", StateName},
	})
	want := Fields{HouseNumber: "200", Street: "Spring Hill Street", State: "CA"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(removed, []Field{City}) {
		t.Errorf("removed = %v, want [city]", removed)
	}
}
