package address

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"123 Main St<br/>Springfield", "123 Main St,Springfield"},
		{"123 Main St<br />Springfield", "123 Main St,Springfield"},
		{"123 Main St<BR>Springfield", "123 Main St,Springfield"},
		{"Montréal, QC", "Montral, QC"},
		{"12 Elm\tSt\n", "12 Elm\tSt\n"},
		{"Café ☕ 5", "Caf  5"},
		{"", ""},
	}
	for _, tt := range tests {
		got := Clean(tt.input)
		if got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCleanFoldAccents(t *testing.T) {
	n, err := New(DefaultTables(), Options{FoldAccents: true})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		input, want string
	}{
		{"Montréal, QC", "Montreal, QC"},
		{"Trois-Rivières", "Trois-Rivieres"},
		{"1 Rue Saint-André<br>", "1 Rue Saint-Andre,"},
		{"東京 5", " 5"},
	}
	for _, tt := range tests {
		got := n.Clean(tt.input)
		if got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
	if got := Default().Clean("Montréal"); got != "Montral" {
		t.Errorf("Default().Clean(%q) = %q, want %q", "Montréal", got, "Montral")
	}
}
