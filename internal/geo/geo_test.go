package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/litescript/skydeck/internal/config"
)

func TestIPLocator_Locate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ip":"203.0.113.7","city":"Lisbon","latitude":38.7223,"longitude":-9.1393}`))
	}))
	defer srv.Close()

	loc := NewIPLocator(WithURL(srv.URL))
	got, err := loc.Locate(context.Background())
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got.Latitude != 38.7223 || got.Longitude != -9.1393 {
		t.Errorf("Locate = %+v", got)
	}
}

func TestIPLocator_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{}`},
		{"rate limited", http.StatusOK, `{"error":true,"reason":"RateLimited"}`},
		{"missing coords", http.StatusOK, `{"ip":"203.0.113.7"}`},
		{"bad json", http.StatusOK, `not json`},
		{"out of range", http.StatusOK, `{"latitude":123,"longitude":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewIPLocator(WithURL(srv.URL)).Locate(context.Background())
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("err = %v, want ErrUnavailable", err)
			}
		})
	}
}

func TestStaticLocator(t *testing.T) {
	want := Coords{Latitude: 1.5, Longitude: -2.25}
	got, err := StaticLocator{Coords: want}.Locate(context.Background())
	if err != nil || got != want {
		t.Errorf("Locate = %+v, %v", got, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (StaticLocator{Coords: want}).Locate(ctx); err == nil {
		t.Error("expected error on cancelled context")
	}
}

func TestDisabled(t *testing.T) {
	if _, err := (Disabled{}).Locate(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestFromConfig(t *testing.T) {
	lat, lon := 10.0, 20.0

	cfg := config.Default()
	if _, ok := FromConfig(cfg).(*IPLocator); !ok {
		t.Error("default config should use IP lookup")
	}

	cfg.Location.Latitude, cfg.Location.Longitude = &lat, &lon
	static, ok := FromConfig(cfg).(StaticLocator)
	if !ok {
		t.Fatal("fixed coordinates should use StaticLocator")
	}
	if static.Coords != (Coords{Latitude: 10, Longitude: 20}) {
		t.Errorf("static coords = %+v", static.Coords)
	}

	cfg.Location.Enabled = false
	if _, ok := FromConfig(cfg).(Disabled); !ok {
		t.Error("disabled location should use Disabled")
	}
}

func TestCoords_String(t *testing.T) {
	c := Coords{Latitude: 40.7128, Longitude: -74.006}
	if got := c.String(); got != "40.71, -74.01" {
		t.Errorf("String() = %q", got)
	}
}
