package entity

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Drape Studio", "drape-studio"},
		{"  Maison  Rideaux  ", "maison-rideaux"},
		{"Café Décor", "cafe-decor"},
		{"Blinds & Shades Ltd.", "blinds-shades-ltd"},
		{"UPPER case", "upper-case"},
		{"---already---slugged---", "already-slugged"},
		{"2nd Avenue Curtains", "2nd-avenue-curtains"},
		{"!!!", ""},
	}

	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
