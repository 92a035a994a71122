package diseasesh

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"nathanbeddoewebdev/covidash/internal/domain"
	"nathanbeddoewebdev/covidash/internal/retry"

	"github.com/google/go-cmp/cmp"
)

// --- Test helpers ---

// newTestClient creates a Client pointed at the given test server.
func newTestClient(t *testing.T, serverURL string, opts ...Option) *Client {
	t.Helper()
	return New(append([]Option{WithBaseURL(serverURL)}, opts...)...)
}

// newRouteServer serves a fixed JSON body per request path and records
// the last request it saw.
func newRouteServer(t *testing.T, routes map[string]any, last *http.Request) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if last != nil {
			*last = *r
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Country not found or doesn't have any historical data"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("failed to encode test response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newStatusServer always answers with the given status and raw body.
func newStatusServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// --- Snapshot tests ---

func TestWorldwide_HappyPath(t *testing.T) {
	srv := newRouteServer(t, map[string]any{
		"/v3/covid-19/all": map[string]any{
			"updated":           1677000000000,
			"cases":             678801612,
			"todayCases":        1200,
			"deaths":            6791786,
			"todayDeaths":       12,
			"recovered":         651560209,
			"todayRecovered":    900,
			"active":            20449617,
			"critical":          39563,
			"population":        7944935131,
			"affectedCountries": 231,
		},
	}, nil)
	c := newTestClient(t, srv.URL)

	got, err := c.Worldwide(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := &domain.Snapshot{
		Scope:             domain.ScopeWorldwide,
		Cases:             678801612,
		Deaths:            6791786,
		Recovered:         651560209,
		TodayCases:        1200,
		TodayDeaths:       12,
		TodayRecovered:    900,
		Active:            20449617,
		Critical:          39563,
		Population:        7944935131,
		AffectedCountries: 231,
		UpdatedAt:         time.UnixMilli(1677000000000).UTC(),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Worldwide mismatch (-want +got):\n%s", diff)
	}
}

func TestCountry_EscapesName(t *testing.T) {
	var last http.Request
	srv := newRouteServer(t, map[string]any{
		"/v3/covid-19/countries/S. Korea": map[string]any{
			"country":   "S. Korea",
			"cases":     30000000,
			"deaths":    34000,
			"recovered": 29000000,
		},
	}, &last)
	c := newTestClient(t, srv.URL)

	got, err := c.Country(context.Background(), "S. Korea")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Scope != "S. Korea" {
		t.Errorf("expected scope %q, got %q", "S. Korea", got.Scope)
	}
	if got.Cases != 30000000 || got.Deaths != 34000 || got.Recovered != 29000000 {
		t.Errorf("unexpected totals: %+v", got)
	}
	if last.URL.EscapedPath() != "/v3/covid-19/countries/S.%20Korea" {
		t.Errorf("expected escaped path, got %q", last.URL.EscapedPath())
	}
}

func TestCountry_EmptyName(t *testing.T) {
	c := New()
	if _, err := c.Country(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty country name")
	}
}

func TestCountry_NotFound(t *testing.T) {
	srv := newRouteServer(t, map[string]any{}, nil)
	c := newTestClient(t, srv.URL)

	_, err := c.Country(context.Background(), "Atlantis")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

// --- Countries tests ---

func TestCountries_HappyPath(t *testing.T) {
	srv := newRouteServer(t, map[string]any{
		"/v3/covid-19/countries": []any{
			map[string]any{
				"country":     "Afghanistan",
				"continent":   "Asia",
				"countryInfo": map[string]any{"_id": 4, "iso2": "AF", "iso3": "AFG"},
			},
			map[string]any{"country": ""},
			map[string]any{
				"country":     "Albania",
				"continent":   "Europe",
				"countryInfo": map[string]any{"_id": 8, "iso2": "AL", "iso3": "ALB"},
			},
		},
	}, nil)
	c := newTestClient(t, srv.URL)

	got, err := c.Countries(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []domain.CountrySummary{
		{Country: "Afghanistan", ISO2: "AF", ISO3: "AFG", Continent: "Asia"},
		{Country: "Albania", ISO2: "AL", ISO3: "ALB", Continent: "Europe"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Countries mismatch (-want +got):\n%s", diff)
	}
}

// --- History tests ---

func TestWorldwideHistory_AllDays(t *testing.T) {
	var last http.Request
	srv := newRouteServer(t, map[string]any{
		"/v3/covid-19/historical/all": map[string]any{
			"cases":     map[string]any{"1/22/20": 557, "1/23/20": 657},
			"deaths":    map[string]any{"1/22/20": 17, "1/23/20": 18},
			"recovered": map[string]any{"1/22/20": 0, "1/23/20": 0},
		},
	}, &last)
	c := newTestClient(t, srv.URL)

	got, err := c.WorldwideHistory(context.Background(), 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if q := last.URL.Query().Get("lastdays"); q != "all" {
		t.Errorf("expected lastdays=all, got %q", q)
	}

	want := &domain.RawTimeline{
		Cases:     map[string]float64{"1/22/20": 557, "1/23/20": 657},
		Deaths:    map[string]float64{"1/22/20": 17, "1/23/20": 18},
		Recovered: map[string]float64{"1/22/20": 0, "1/23/20": 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WorldwideHistory mismatch (-want +got):\n%s", diff)
	}
}

func TestCountryHistory_UnwrapsTimeline(t *testing.T) {
	var last http.Request
	srv := newRouteServer(t, map[string]any{
		"/v3/covid-19/historical/Italy": map[string]any{
			"country":  "Italy",
			"province": []string{"mainland"},
			"timeline": map[string]any{
				"cases":     map[string]any{"3/9/23": 25603510},
				"deaths":    map[string]any{"3/9/23": 188322},
				"recovered": map[string]any{"3/9/23": 0},
			},
		},
	}, &last)
	c := newTestClient(t, srv.URL)

	got, err := c.CountryHistory(context.Background(), "Italy", 30)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if q := last.URL.Query().Get("lastdays"); q != "30" {
		t.Errorf("expected lastdays=30, got %q", q)
	}
	if got.Cases["3/9/23"] != 25603510 || got.Deaths["3/9/23"] != 188322 {
		t.Errorf("unexpected timeline: %+v", got)
	}
}

// --- Error mapping tests ---

func TestErrors_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"not found", http.StatusNotFound, `{"message":"Country not found"}`, domain.ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, ``, domain.ErrRateLimited},
		{"bad gateway", http.StatusBadGateway, `upstream down`, domain.ErrUnavailable},
		{"malformed", http.StatusOK, `{not json`, domain.ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newStatusServer(t, tt.status, tt.body, nil)
			c := newTestClient(t, srv.URL)

			_, err := c.Worldwide(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestErrors_MessageIncluded(t *testing.T) {
	srv := newStatusServer(t, http.StatusNotFound, `{"message":"Country not found or doesn't have any historical data"}`, nil)
	c := newTestClient(t, srv.URL)

	_, err := c.CountryHistory(context.Background(), "Nowhere", 0)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if want := "doesn't have any historical data"; !contains(err.Error(), want) {
		t.Errorf("expected error to contain %q, got %q", want, err.Error())
	}
}

func TestRetry_TransientErrorsRetried(t *testing.T) {
	var hits int32
	srv := newStatusServer(t, http.StatusServiceUnavailable, ``, &hits)
	c := newTestClient(t, srv.URL, WithRetry(retry.Config{MaxAttempts: 3}))

	_, err := c.Worldwide(context.Background())
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Errorf("expected 3 requests, got %d", got)
	}
}

func TestRetry_DefaultIsSingleAttempt(t *testing.T) {
	var hits int32
	srv := newStatusServer(t, http.StatusServiceUnavailable, ``, &hits)
	c := newTestClient(t, srv.URL)

	if _, err := c.Worldwide(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("expected 1 request, got %d", got)
	}
}

func TestRequest_ContextCanceled(t *testing.T) {
	srv := newRouteServer(t, map[string]any{"/v3/covid-19/all": map[string]any{}}, nil)
	c := newTestClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Worldwide(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWithBaseURL_TrimsTrailingSlash(t *testing.T) {
	c := New(WithBaseURL("http://example.test/"))
	if c.baseURL != "http://example.test" {
		t.Errorf("expected trimmed base URL, got %q", c.baseURL)
	}
	c = New(WithBaseURL("   "))
	if c.baseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %q", c.baseURL)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
