package clock

import (
	"testing"
	"time"
)

func TestLayoutForLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"", Layout24h},
		{"C", Layout24h},
		{"POSIX", Layout24h},
		{"en_US.UTF-8", Layout12h},
		{"en_US", Layout12h},
		{"en_us.utf8", Layout12h},
		{"en_GB.UTF-8", Layout24h},
		{"de_DE.UTF-8", Layout24h},
		{"fr_FR@euro", Layout24h},
		{"en_AU.UTF-8", Layout12h},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			if got := LayoutForLocale(tt.locale); got != tt.want {
				t.Errorf("LayoutForLocale(%q) = %q, want %q", tt.locale, got, tt.want)
			}
		})
	}
}

func TestClock_FormatMatchesLayout(t *testing.T) {
	instants := []time.Time{
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 13, 45, 9, 0, time.UTC),
		time.Date(2025, 12, 31, 23, 59, 59, 999, time.UTC),
	}

	for _, layout := range []string{Layout24h, Layout12h} {
		c := New(layout)
		for _, ts := range instants {
			want := ts.Local().Format(layout)
			if got := c.Format(ts); got != want {
				t.Errorf("Format(%v) with %q = %q, want %q", ts, layout, got, want)
			}
		}
	}
}

func TestClock_Now(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 9, 5, 7, 0, time.Local)
	c := New("").WithNow(func() time.Time { return fixed })

	if c.Layout() != Layout24h {
		t.Errorf("empty layout should default to 24h, got %q", c.Layout())
	}
	if got := c.Now(); got != "09:05:07" {
		t.Errorf("Now() = %q, want 09:05:07", got)
	}

	c12 := New(Layout12h).WithNow(func() time.Time { return fixed })
	if got := c12.Now(); got != "9:05:07 AM" {
		t.Errorf("Now() = %q, want 9:05:07 AM", got)
	}
}
