package normalize

import "testing"

func TestParsePrice(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{"English Price", "$12.99", 12.99, true},
		{"French Price", "12,99 $", 12.99, true},
		{"French With Thousands", "$ 1 234,50", 1234.50, true},
		{"NBSP Thousands", "1 234,50 $", 1234.50, true},
		{"English Thousands", "$1,079.00", 1079.00, true},
		{"Embedded In Label", "Prix en liquidation 24,99 $", 24.99, true},
		{"Integer Price", "99 $", 99.0, true},
		{"Dot Grouping French", "1.234,50", 1234.50, true},
		{"Empty String", "", 0, false},
		{"No Number", "Prix non disponible", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, ok := ParsePrice(tc.input)
			if ok != tc.ok {
				t.Fatalf("ParsePrice(%q) ok = %v; want %v", tc.input, ok, tc.ok)
			}
			if ok && result != tc.expected {
				t.Errorf("ParsePrice(%q) = %f; want %f", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParsePriceIsPure(t *testing.T) {
	for _, input := range []string{"12,99 $", "$1,079.00", "garbage"} {
		a, okA := ParsePrice(input)
		b, okB := ParsePrice(input)
		if a != b || okA != okB {
			t.Errorf("ParsePrice(%q) is not stable across calls", input)
		}
	}
}

func TestDiscountPercent(t *testing.T) {
	testCases := []struct {
		name     string
		regular  float64
		sale     float64
		expected int
		ok       bool
	}{
		{"Half Off", 49.99, 24.99, 50, true},
		{"Rounded", 100, 66.60, 33, true},
		{"No Discount", 50, 50, 0, true},
		{"Sale Above Regular", 24.99, 49.99, 0, false},
		{"Zero Regular", 0, 10, 0, false},
		{"Zero Sale", 10, 0, 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, ok := DiscountPercent(tc.regular, tc.sale)
			if ok != tc.ok {
				t.Fatalf("DiscountPercent(%v, %v) ok = %v; want %v", tc.regular, tc.sale, ok, tc.ok)
			}
			if ok && result != tc.expected {
				t.Errorf("DiscountPercent(%v, %v) = %d; want %d", tc.regular, tc.sale, result, tc.expected)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	got := CleanText("  Ensemble\n\tde clés   SAE ")
	want := "Ensemble de clés SAE"
	if got != want {
		t.Errorf("CleanText = %q; want %q", got, want)
	}
}
