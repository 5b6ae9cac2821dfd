package cmd

import "testing"

func TestNormalizeCell(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"$1,234.565", "1234.56"},
		{"$1,234.575", "1234.58"},
		{" $ 5", "5.00"},
		{"$-4.95", "-4.95"},
		{"2023-06-01", "2023-06-01"},
		{"XIC.TO", "XIC.TO"},
		{"1234.5", "1234.5"},
		{"$not a number", "$not a number"},
		{"", ""},
	}
	for _, c := range cases {
		if got := normalizeCell(c.in); got != c.want {
			t.Errorf("normalizeCell(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
