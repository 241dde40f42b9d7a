package summary

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/litescript/skydeck/internal/clock"
	"github.com/litescript/skydeck/internal/geo"
	"github.com/litescript/skydeck/internal/sky"
	"github.com/litescript/skydeck/internal/state"
	"github.com/litescript/skydeck/internal/tasks"
)

var (
	testNow   = time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	testClock = clock.New(clock.Layout24h)
)

func testSnapshot() state.Snapshot {
	c := geo.Coords{Latitude: 51.5074, Longitude: -0.1278}
	r := sky.Report{
		Located: true,
		Coords:  c,
		Weather: sky.NewWeatherLink(c),
		Sun: sky.SunWindow{
			Sunrise:   time.Date(2025, 6, 1, 3, 46, 0, 0, time.UTC),
			Sunset:    time.Date(2025, 6, 1, 20, 11, 0, 0, time.UTC),
			Estimated: true,
		},
		SunErr: errors.New("fetch sun times: timeout"),
		Theme:  sky.ThemeDay,
		Moon:   sky.MoonInfo{Phase: "Waxing Crescent", Illumination: 0.3},
	}
	return state.Snapshot{Report: &r, Theme: sky.ThemeDay}
}

func TestBuild(t *testing.T) {
	e := Build(testNow, testClock, testSnapshot(), nil)

	if e.Tasks == nil {
		t.Error("Tasks should be an empty list, not nil")
	}
	if e.Sky == nil {
		t.Fatal("expected sky section")
	}
	if e.Sky.WeatherURL != "https://forecast7.com/en/51.51n-0.13/" {
		t.Errorf("WeatherURL = %q", e.Sky.WeatherURL)
	}
	if !e.Sky.SunEstimated || e.Sky.Theme != "day" {
		t.Errorf("sky = %+v", e.Sky)
	}
	if len(e.Sky.Errors) != 1 || !strings.Contains(e.Sky.Errors[0], "timeout") {
		t.Errorf("Errors = %v", e.Sky.Errors)
	}
}

func TestBuild_NoLocation(t *testing.T) {
	e := Build(testNow, testClock, state.Snapshot{}, []tasks.Task{{Text: "A"}})
	if e.Sky != nil {
		t.Errorf("Sky = %+v, want nil", e.Sky)
	}
	if len(e.Tasks) != 1 {
		t.Errorf("Tasks = %v", e.Tasks)
	}
}

func TestWriteJSON(t *testing.T) {
	e := Build(testNow, testClock, testSnapshot(), []tasks.Task{{Text: "Buy milk"}})

	var buf bytes.Buffer
	if err := e.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"timestamp", "clock", "sky", "tasks"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if !strings.Contains(buf.String(), `"text": "Buy milk"`) {
		t.Errorf("task not serialized with storage field names:\n%s", buf.String())
	}
}

func TestWriteText(t *testing.T) {
	items := []tasks.Task{{Text: "A", Done: true}, {Text: "B"}}
	e := Build(testNow, testClock, testSnapshot(), items)

	var buf bytes.Buffer
	WriteText(&buf, e, testClock, PlainStyles())
	out := buf.String()

	for _, want := range []string{
		"skydeck @ ",
		"Weather   https://forecast7.com/en/51.51n-0.13/",
		"Theme     day",
		"(est.)",
		"Moon      Waxing Crescent",
		"offline: fetch sun times: timeout",
		"Tasks (1 open)",
		"   0 [x] A",
		"   1 [ ] B",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteJSON_UnknownSunOmitsTimes(t *testing.T) {
	snap := testSnapshot()
	snap.Report.Sun = sky.SunWindow{}

	var buf bytes.Buffer
	if err := Build(testNow, testClock, snap, nil).WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	for _, key := range []string{`"sunrise"`, `"sunset"`, "0001-01-01"} {
		if strings.Contains(buf.String(), key) {
			t.Errorf("output contains %s for an unknown window:\n%s", key, buf.String())
		}
	}

	buf.Reset()
	if err := Build(testNow, testClock, testSnapshot(), nil).WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"sunrise": "2025-06-01T03:46:00Z"`) {
		t.Errorf("known sunrise missing:\n%s", buf.String())
	}
}

func TestWriteText_Unavailable(t *testing.T) {
	snap := testSnapshot()
	snap.Report.Sun = sky.SunWindow{}
	snap.Report.Moon = sky.MoonInfo{}

	var buf bytes.Buffer
	WriteText(&buf, Build(testNow, testClock, snap, nil), testClock, PlainStyles())

	if n := strings.Count(buf.String(), "unavailable"); n != 2 {
		t.Errorf("got %d unavailable markers, want 2:\n%s", n, buf.String())
	}
	if !strings.Contains(buf.String(), "Nothing to do") {
		t.Error("empty task list not reported")
	}
}
