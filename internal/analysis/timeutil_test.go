package analysis

import "testing"

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name string
		sec  int
		want string
	}{
		{"zero", 0, "00:00"},
		{"under a minute", 59, "00:59"},
		{"exact minute", 60, "01:00"},
		{"typical", 754, "12:34"},
		{"last second before an hour", 3599, "59:59"},
		{"exact hour", 3600, "01:00:00"},
		{"over an hour", 3725, "01:02:05"},
		{"negative clamps to zero", -5, "00:00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatTimestamp(tc.sec); got != tc.want {
				t.Errorf("FormatTimestamp(%d) = %q, want %q", tc.sec, got, tc.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{"mm:ss", "12:34", 754, false},
		{"hh:mm:ss", "01:02:05", 3725, false},
		{"unpadded", "2:05", 125, false},
		{"zero", "00:00", 0, false},
		{"bare seconds", "42", 0, true},
		{"garbage", "abc", 0, true},
		{"empty", "", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimestamp(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseTimestamp(%q) expected error, got %d", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseTimestamp(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	for _, sec := range []int{0, 1, 59, 60, 119, 3599, 3600, 7322} {
		got, err := ParseTimestamp(FormatTimestamp(sec))
		if err != nil {
			t.Fatalf("round trip of %d failed: %v", sec, err)
		}
		if got != sec {
			t.Errorf("round trip of %d produced %d", sec, got)
		}
	}
}
