package utils

import "testing"

func TestCitySlug(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Montréal", "montreal"},
		{"Trois-Rivières", "trois-rivieres"},
		{"Québec", "quebec"},
		{"St. John's", "st-johns"},
		{"  Greater Sudbury  ", "greater-sudbury"},
		{"", ""},
	}

	for _, tc := range testCases {
		if got := CitySlug(tc.input); got != tc.expected {
			t.Errorf("CitySlug(%q) = %q; want %q", tc.input, got, tc.expected)
		}
	}
}
