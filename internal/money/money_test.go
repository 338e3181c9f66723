package money

import (
	"math"
	"testing"
)

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{3500, "$3,500"},
		{1000000, "$1,000,000"},
		{1234.56, "$1,235"},
		{math.NaN(), "$0"},
		{math.Inf(1), "$0"},
	}
	for _, tc := range cases {
		if got := FormatUSD(tc.in); got != tc.want {
			t.Fatalf("FormatUSD(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
