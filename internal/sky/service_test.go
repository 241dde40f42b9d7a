package sky

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/litescript/skydeck/internal/geo"
)

type fakeSun struct {
	window SunWindow
	err    error
	calls  int
	day    time.Time
}

func (f *fakeSun) Window(ctx context.Context, c geo.Coords, day time.Time) (SunWindow, error) {
	f.calls++
	f.day = day
	return f.window, f.err
}

type fakeMoon struct {
	info  MoonInfo
	err   error
	calls int
}

func (f *fakeMoon) Phase(ctx context.Context, t time.Time) (MoonInfo, error) {
	f.calls++
	return f.info, f.err
}

var london = geo.Coords{Latitude: 51.5074, Longitude: -0.1278}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestService_Refresh(t *testing.T) {
	sun := &fakeSun{window: testWindow}
	moon := &fakeMoon{info: MoonInfo{Phase: "Full Moon", Illumination: 1}}

	tests := []struct {
		name string
		now  time.Time
		want Theme
	}{
		{"dawn", testWindow.Sunrise.Add(-time.Minute), ThemeDawn},
		{"day", testWindow.Sunrise.Add(time.Hour), ThemeDay},
		{"dusk", testWindow.Sunset.Add(time.Minute), ThemeDusk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(geo.StaticLocator{Coords: london}, sun, moon, nil).WithClock(fixedNow(tt.now))
			r := svc.Refresh(context.Background())

			if !r.Located {
				t.Fatal("expected Located")
			}
			if r.Theme != tt.want {
				t.Errorf("Theme = %s, want %s", r.Theme, tt.want)
			}
			if r.Weather.URL != "https://forecast7.com/en/51.51n-0.13/" {
				t.Errorf("Weather.URL = %q", r.Weather.URL)
			}
			if r.Moon.Label() != "Full Moon" {
				t.Errorf("Moon = %q", r.Moon.Label())
			}
			if r.Offline() {
				t.Errorf("unexpected offline report: sun=%v moon=%v", r.SunErr, r.MoonErr)
			}
		})
	}
}

func TestService_LocationUnavailableIsSilent(t *testing.T) {
	sun := &fakeSun{window: testWindow}
	moon := &fakeMoon{info: MoonInfo{Phase: "Full Moon"}}
	svc := NewService(geo.Disabled{}, sun, moon, nil)

	r := svc.Refresh(context.Background())

	if r.Located {
		t.Error("Located should be false")
	}
	if r.SunErr != nil || r.MoonErr != nil {
		t.Errorf("location failure should not surface errors: %v / %v", r.SunErr, r.MoonErr)
	}
	if sun.calls != 0 || moon.calls != 0 {
		t.Errorf("services called after failed locate: sun=%d moon=%d", sun.calls, moon.calls)
	}
	if r.Weather.URL != "" {
		t.Errorf("weather link set without location: %q", r.Weather.URL)
	}
}

func TestService_SunFailureFallsBackToEstimate(t *testing.T) {
	sun := &fakeSun{err: errors.New("connection refused")}
	moon := &fakeMoon{info: MoonInfo{Phase: "New Moon"}}

	// 02:00 UTC in London in June is before sunrise (~03:43 UTC)
	now := time.Date(2024, 6, 21, 2, 0, 0, 0, time.UTC)
	svc := NewService(geo.StaticLocator{Coords: london}, sun, moon, nil).WithClock(fixedNow(now))

	r := svc.Refresh(context.Background())

	if r.SunErr == nil {
		t.Error("SunErr should record the fetch failure")
	}
	if !r.SunKnown() || !r.Sun.Estimated {
		t.Fatalf("expected estimated sun window, got %+v", r.Sun)
	}
	if r.Theme != ThemeDawn {
		t.Errorf("Theme = %s, want dawn from estimate", r.Theme)
	}
	if !r.Offline() {
		t.Error("report should be offline")
	}
}

func TestService_EstimateUsesObserverDay(t *testing.T) {
	tests := []struct {
		name    string
		coords  geo.Coords
		now     time.Time
		wantDay time.Time
		want    Theme
	}{
		{
			name:    "sydney 08:00 local",
			coords:  geo.Coords{Latitude: -33.87, Longitude: 151.21},
			now:     time.Date(2024, 6, 20, 22, 0, 0, 0, time.UTC),
			wantDay: time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
			want:    ThemeDay,
		},
		{
			name:    "new york 21:00 local",
			coords:  geo.Coords{Latitude: 40.71, Longitude: -74.01},
			now:     time.Date(2024, 6, 21, 1, 0, 0, 0, time.UTC),
			wantDay: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
			want:    ThemeDusk,
		},
		{
			name:    "new york 06:00 local",
			coords:  geo.Coords{Latitude: 40.71, Longitude: -74.01},
			now:     time.Date(2024, 6, 21, 10, 0, 0, 0, time.UTC),
			wantDay: time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
			want:    ThemeDay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sun := &fakeSun{err: errors.New("connection refused")}
			moon := &fakeMoon{info: MoonInfo{Phase: "New Moon"}}
			svc := NewService(geo.StaticLocator{Coords: tt.coords}, sun, moon, nil).WithClock(fixedNow(tt.now))

			r := svc.Refresh(context.Background())

			if !sun.day.Equal(tt.wantDay) || !r.Day.Equal(tt.wantDay) {
				t.Errorf("requested day %s, report day %s, want %s",
					sun.day.Format(time.DateOnly), r.Day.Format(time.DateOnly), tt.wantDay.Format(time.DateOnly))
			}
			if !r.Sun.Estimated {
				t.Fatalf("expected estimated window, got %+v", r.Sun)
			}
			if r.Theme != tt.want {
				t.Errorf("Theme = %s, want %s (window %s to %s)", r.Theme, tt.want,
					r.Sun.Sunrise.Format(time.RFC3339), r.Sun.Sunset.Format(time.RFC3339))
			}
		})
	}
}

func TestService_SunFailureWithoutEstimate(t *testing.T) {
	sun := &fakeSun{err: errors.New("timeout")}
	moon := &fakeMoon{info: MoonInfo{Phase: "New Moon"}}
	svalbard := geo.Coords{Latitude: 78.2, Longitude: 15.6}
	now := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)

	svc := NewService(geo.StaticLocator{Coords: svalbard}, sun, moon, nil).WithClock(fixedNow(now))
	r := svc.Refresh(context.Background())

	if r.SunKnown() {
		t.Errorf("midnight sun should leave window unknown, got %+v", r.Sun)
	}
	if r.Theme != ThemeDay {
		t.Errorf("Theme = %s, want day when unknown", r.Theme)
	}
	if r.SunErr == nil {
		t.Error("SunErr should be set")
	}
}

func TestService_MoonFailureFallsBackToEstimate(t *testing.T) {
	sun := &fakeSun{window: testWindow}
	moon := &fakeMoon{err: errors.New("503")}
	now := time.Date(2024, 4, 23, 23, 49, 0, 0, time.UTC)

	svc := NewService(geo.StaticLocator{Coords: london}, sun, moon, nil).WithClock(fixedNow(now))
	r := svc.Refresh(context.Background())

	if r.MoonErr == nil {
		t.Error("MoonErr should be set")
	}
	if r.Moon.Label() != "Full Moon (est.)" {
		t.Errorf("Moon label = %q, want Full Moon (est.)", r.Moon.Label())
	}
}

func TestService_CancelledContextSkipsEstimates(t *testing.T) {
	sun := &fakeSun{err: context.Canceled}
	moon := &fakeMoon{err: context.Canceled}

	svc := NewService(geo.StaticLocator{Coords: london}, sun, moon, nil)
	r := svc.Refresh(context.Background())

	if r.SunKnown() || r.MoonKnown() {
		t.Errorf("cancelled refresh should not estimate: sun=%+v moon=%+v", r.Sun, r.Moon)
	}
}
