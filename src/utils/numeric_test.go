package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1234.56", 1234.56},
		{"₹1,234.56", 1234.56},
		{"Rs. 2,500", 2500},
		{"$99.90", 99.9},
		{"1,23,456.78", 123456.78}, // Indian grouping
		{"(150.25)", -150.25},
		{"-42", -42},
		{"(-42)", 42},
		{"#DIV/0!", 0},
		{"#N/A", 0},
		{"#VALUE!", 0},
		{"", 0},
		{"garbage", 0},
		{"\"785.10\"", 785.10},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseAmount(c.in), "input %q", c.in)
	}
}

func TestSafePercent(t *testing.T) {
	assert.Equal(t, 50.0, SafePercent(1, 2))
	assert.Equal(t, 0.0, SafePercent(1, 0))
	assert.Equal(t, 0.0, SafePercent(0, 0))
}

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 1.23, RoundFloat(1.2345, 2))
	assert.Equal(t, -1.24, RoundFloat(-1.235, 2))
}
