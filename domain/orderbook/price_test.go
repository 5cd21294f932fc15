package orderbook

import "testing"

func TestParsePriceRoundsToNearestCent(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"100.00", 10000},
		{"10.05", 1005},
		{"99.50", 9950},
		{"0.01", 1},
		{"1.006", 101}, // rounds up, never truncates
		{"1.004", 100}, // rounds down
		{"123.456", 12346},
		{"50", 5000},
	}
	for _, c := range cases {
		got, err := ParsePrice(c.in)
		if err != nil {
			t.Errorf("ParsePrice(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParsePrice(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParsePriceRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "abc", "-1.00", "0", "0.00", "NaN", "Inf"} {
		if _, err := ParsePrice(in); err == nil {
			t.Errorf("ParsePrice(%q) should fail", in)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(10005); got != "100.05" {
		t.Errorf("FormatPrice(10005) = %q, want %q", got, "100.05")
	}
	if got := FormatPrice(50); got != "0.50" {
		t.Errorf("FormatPrice(50) = %q, want %q", got, "0.50")
	}
}
