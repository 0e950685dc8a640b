package textnorm

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Wilfredo León", "wilfredo leon"},
		{"Earvin N'Gapeth", "earvin n'gapeth"},
		{"Türkiye", "turkiye"},
		{"ZAKSA Kędzierzyn-Koźle", "zaksa kedzierzyn-kozle"},
		{"Šimon", "simon"},
		{"", ""},
		{"plain ascii", "plain ascii"},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		s, substr string
		want      bool
	}{
		{"Wilfredo León", "leon", true},
		{"Wilfredo León", "LEÓN", true},
		{"Zehra Güneş", "gunes", true},
		{"Kamil Semeniuk", "leon", false},
		{"anything", "", true},
	}
	for _, tt := range tests {
		if got := Contains(tt.s, tt.substr); got != tt.want {
			t.Errorf("Contains(%q, %q) = %v, want %v", tt.s, tt.substr, got, tt.want)
		}
	}
}
