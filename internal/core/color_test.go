package core

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"red", ColorRed},
		{"grey", ColorGray},
		{"#cd3131", ColorRed},
		{"#ffffff", ColorBrightWhite},
		{"#ff8700", ColorOrange},
		{"#875f00", ColorBrown},
		{"#zzzzzz", ColorDefault},
		{"plaid", ColorDefault},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseColor(tt.in); got != tt.want {
				t.Errorf("ParseColor(%q) = %d, expected %d", tt.in, got, tt.want)
			}
		})
	}
}
