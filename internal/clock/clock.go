// Package clock formats the wall-clock time for the dashboard header.
package clock

import (
	"strings"
	"time"
)

const (
	// Layout24h is the default layout for most locales.
	Layout24h = "15:04:05"

	// Layout12h is used by locales that write times with AM/PM.
	Layout12h = "3:04:05 PM"
)

// twelveHourLocales lists language_TERRITORY prefixes that default to a
// 12-hour clock.
var twelveHourLocales = []string{
	"en_US", "en_CA", "en_AU", "en_NZ", "en_PH", "en_IN",
	"es_US", "es_MX", "ar_EG", "hi_IN", "ko_KR", "zh_TW",
}

// LayoutForLocale returns the time layout for a POSIX locale string
// such as "en_US.UTF-8". Empty, "C" and "POSIX" use the 24-hour layout.
func LayoutForLocale(locale string) string {
	name := locale
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	for _, prefix := range twelveHourLocales {
		if strings.EqualFold(name, prefix) {
			return Layout12h
		}
	}
	return Layout24h
}

// Clock renders the current time with a fixed layout.
type Clock struct {
	layout string
	now    func() time.Time
}

// New creates a clock using layout. An empty layout means 24-hour.
func New(layout string) Clock {
	if layout == "" {
		layout = Layout24h
	}
	return Clock{layout: layout, now: time.Now}
}

// WithNow returns a copy of the clock reading time from now.
func (c Clock) WithNow(now func() time.Time) Clock {
	c.now = now
	return c
}

// Layout returns the configured layout.
func (c Clock) Layout() string {
	return c.layout
}

// Format renders t in local time.
func (c Clock) Format(t time.Time) string {
	return t.Local().Format(c.layout)
}

// Now renders the current time.
func (c Clock) Now() string {
	return c.Format(c.now())
}
