package normalize

import "testing"

func TestDate_KnownFormats(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-03-01", "2024-03-01"},
		{"2024-03-01T10:30:00Z", "2024-03-01"},
		{"2024-03-01T10:30:00", "2024-03-01"},
		{"2024/03/01", "2024-03-01"},
		{"03/01/2024", "2024-03-01"},
		{"Mar 1, 2024", "2024-03-01"},
		{"March 1, 2024", "2024-03-01"},
		{"1 Mar 2024", "2024-03-01"},
		{"1 March 2024", "2024-03-01"},
		{"Fri, 01 Mar 2024 10:30:00 GMT", "2024-03-01"},
		{"  2024-03-01  ", "2024-03-01"},
	}

	for _, c := range cases {
		got, ok := Date(c.in)
		if !ok {
			t.Errorf("Date(%q) should parse", c.in)
			continue
		}
		if got != c.want {
			t.Errorf("Date(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDate_Total(t *testing.T) {
	// Any input must yield either a valid date or false, never a panic.
	for _, in := range []string{"", "not a date", "yesterday", "13/45/9999", "2024-13-40", "🗞️"} {
		got, ok := Date(in)
		if ok {
			t.Errorf("Date(%q) unexpectedly parsed to %q", in, got)
		}
		if got != "" {
			t.Errorf("Date(%q) should return empty string on failure, got %q", in, got)
		}
	}
}

func TestDate_Idempotent(t *testing.T) {
	first, ok := Date("March 1, 2024")
	if !ok {
		t.Fatal("Expected date to parse")
	}
	second, ok := Date(first)
	if !ok {
		t.Fatal("Canonical form should parse")
	}
	if first != second {
		t.Errorf("Date should be idempotent: %q != %q", first, second)
	}
}

func TestIsNormalized(t *testing.T) {
	if !IsNormalized("2024-03-01") {
		t.Error("Canonical date should report normalized")
	}
	for _, in := range []string{"March 1, 2024", "2024-3-1", "2024-03-01T00:00:00Z", "garbage", ""} {
		if IsNormalized(in) {
			t.Errorf("IsNormalized(%q) should be false", in)
		}
	}
}
