package duration

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseValid(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1h 30m", "1.5"},
		{"30m", "0.5"},
		{"2h", "2"},
		{"0h 0m", "0"},
		{"45m", "0.75"},
		{"1H 15M", "1.25"},
		{"  2h5m ", "2.08"},
		{"90h", "90"},
		{"30m 1h", "1.5"},
		{"1 h 30 m", "1.5"},
		{"10m", "0.17"},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", c.in, err)
		}
		want := decimal.RequireFromString(c.want)
		if !got.Equal(want) {
			t.Errorf("Parse(%q) = %s, want %s", c.in, got, want)
		}
	}
}

func TestParseInvalidFormat(t *testing.T) {
	for _, in := range []string{"", "abc", "1.5", "  ", "ninety"} {
		if _, err := Parse(in); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("Parse(%q): expected ErrInvalidFormat, got %v", in, err)
		}
	}
}

func TestParseInvalidMinutes(t *testing.T) {
	for _, in := range []string{"1h 90m", "60m", "2h 60m", "120m"} {
		if _, err := Parse(in); !errors.Is(err, ErrInvalidMinutes) {
			t.Errorf("Parse(%q): expected ErrInvalidMinutes, got %v", in, err)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.5", "1h 30m"},
		{"0", "0h 0m"},
		{"2", "2h 0m"},
		{"0.75", "0h 45m"},
		{"10.25", "10h 15m"},
	}
	for _, c := range cases {
		if got := Format(decimal.RequireFromString(c.in)); got != c.want {
			t.Errorf("Format(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}
