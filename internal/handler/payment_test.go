package handler

import "testing"

func TestValidPhoneNumber(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"0912345678", true},
		{"0000000000", true},
		{"091234567", false},   // too short
		{"09123456789", false}, // too long
		{"09123456a8", false},  // non-digit
		{"+251912345", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := validPhoneNumber(tc.phone); got != tc.want {
			t.Errorf("validPhoneNumber(%q) = %v, want %v", tc.phone, got, tc.want)
		}
	}
}
