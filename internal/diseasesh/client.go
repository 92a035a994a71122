// Package diseasesh implements domain.Provider against the disease.sh
// COVID-19 API (https://disease.sh/docs).
package diseasesh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"nathanbeddoewebdev/covidash/internal/domain"
	"nathanbeddoewebdev/covidash/internal/retry"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the public disease.sh host.
	DefaultBaseURL = "https://disease.sh"
	defaultTimeout = 30 * time.Second
	apiPrefix      = "/v3/covid-19"

	// maxErrorBody bounds how much of a failed response is read for the
	// error message.
	maxErrorBody = 4 << 10
)

// The historical endpoints return years of per-day entries per dataset.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Compile-time check that Client satisfies domain.Provider.
var _ domain.Provider = (*Client)(nil)

// Client talks to the disease.sh REST API. All calls are read-only and
// unauthenticated.
type Client struct {
	baseURL string
	client  *http.Client
	retry   retry.Config
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different host (tests, mirrors).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			c.baseURL = u
		}
	}
}

// WithTimeout sets the per-request HTTP timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithRetry sets the retry policy applied to every request.
func WithRetry(cfg retry.Config) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// New creates a Client with the given options applied over the defaults.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		retry:   retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- API response types ---

// apiSnapshot maps the totals object shared by /all and /countries/{name}.
type apiSnapshot struct {
	Updated           int64  `json:"updated"`
	Country           string `json:"country"`
	Cases             int64  `json:"cases"`
	TodayCases        int64  `json:"todayCases"`
	Deaths            int64  `json:"deaths"`
	TodayDeaths       int64  `json:"todayDeaths"`
	Recovered         int64  `json:"recovered"`
	TodayRecovered    int64  `json:"todayRecovered"`
	Active            int64  `json:"active"`
	Critical          int64  `json:"critical"`
	Population        int64  `json:"population"`
	AffectedCountries int64  `json:"affectedCountries"`
}

// apiCountry is a single element of the /countries list.
type apiCountry struct {
	Country     string `json:"country"`
	Continent   string `json:"continent"`
	CountryInfo struct {
		ISO2 string `json:"iso2"`
		ISO3 string `json:"iso3"`
	} `json:"countryInfo"`
}

// apiCountryHistory is the /historical/{name} response.
type apiCountryHistory struct {
	Country  string             `json:"country"`
	Timeline domain.RawTimeline `json:"timeline"`
}

// apiError is the body disease.sh returns alongside 4xx responses.
type apiError struct {
	Message string `json:"message"`
}

// --- HTTP helpers ---

// getJSON issues a GET for path (relative to the API prefix) and decodes
// the JSON response into out. Non-2xx statuses are mapped to domain
// sentinels; the request is retried according to the client's policy.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return retry.Do(ctx, c.retry, retry.IsRetryable, func() error {
		start := time.Now()
		err := c.doGet(ctx, u, out)
		log.WithFields(log.Fields{
			"url":     u,
			"elapsed": time.Since(start).Round(time.Millisecond),
			"err":     err,
		}).Debug("disease.sh request")
		return err
	})
}

func (c *Client) doGet(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("diseasesh: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("diseasesh: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("diseasesh: failed to decode response: %w: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}

// statusError maps an HTTP status to a domain sentinel, keeping the API's
// message where one was sent.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := strings.TrimSpace(string(body))
	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		msg = apiErr.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, msg)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %d %s", domain.ErrUnavailable, resp.StatusCode, msg)
	}
	return fmt.Errorf("diseasesh: unexpected status %d: %s", resp.StatusCode, msg)
}

func historyQuery(lastDays int) url.Values {
	q := url.Values{}
	if lastDays <= 0 {
		q.Set("lastdays", "all")
	} else {
		q.Set("lastdays", strconv.Itoa(lastDays))
	}
	return q
}

func countryPath(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("diseasesh: country name is required")
	}
	return url.PathEscape(name), nil
}

// --- Provider implementation ---

// Worldwide returns the current global totals.
func (c *Client) Worldwide(ctx context.Context) (*domain.Snapshot, error) {
	var out apiSnapshot
	if err := c.getJSON(ctx, "/all", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to load worldwide totals: %w", err)
	}
	snap := toDomainSnapshot(domain.ScopeWorldwide, out)
	return &snap, nil
}

// Countries returns every country the API reports on, in API order.
func (c *Client) Countries(ctx context.Context) ([]domain.CountrySummary, error) {
	var out []apiCountry
	if err := c.getJSON(ctx, "/countries", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}

	countries := make([]domain.CountrySummary, 0, len(out))
	for _, ac := range out {
		if strings.TrimSpace(ac.Country) == "" {
			continue
		}
		countries = append(countries, domain.CountrySummary{
			Country:   ac.Country,
			ISO2:      ac.CountryInfo.ISO2,
			ISO3:      ac.CountryInfo.ISO3,
			Continent: ac.Continent,
		})
	}
	return countries, nil
}

// Country returns the current totals for a single country.
func (c *Client) Country(ctx context.Context, name string) (*domain.Snapshot, error) {
	path, err := countryPath(name)
	if err != nil {
		return nil, err
	}

	var out apiSnapshot
	if err := c.getJSON(ctx, "/countries/"+path, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to load totals for %q: %w", name, err)
	}
	snap := toDomainSnapshot(domain.Scope(name), out)
	return &snap, nil
}

// WorldwideHistory returns global cumulative counts by date.
func (c *Client) WorldwideHistory(ctx context.Context, lastDays int) (*domain.RawTimeline, error) {
	var out domain.RawTimeline
	if err := c.getJSON(ctx, "/historical/all", historyQuery(lastDays), &out); err != nil {
		return nil, fmt.Errorf("failed to load worldwide history: %w", err)
	}
	return &out, nil
}

// CountryHistory returns a country's cumulative counts by date.
func (c *Client) CountryHistory(ctx context.Context, name string, lastDays int) (*domain.RawTimeline, error) {
	path, err := countryPath(name)
	if err != nil {
		return nil, err
	}

	var out apiCountryHistory
	if err := c.getJSON(ctx, "/historical/"+path, historyQuery(lastDays), &out); err != nil {
		return nil, fmt.Errorf("failed to load history for %q: %w", name, err)
	}
	return &out.Timeline, nil
}

// --- Conversion helpers ---

// toDomainSnapshot converts an API totals object to a domain.Snapshot.
func toDomainSnapshot(scope domain.Scope, s apiSnapshot) domain.Snapshot {
	snap := domain.Snapshot{
		Scope:             scope,
		Cases:             s.Cases,
		Deaths:            s.Deaths,
		Recovered:         s.Recovered,
		TodayCases:        s.TodayCases,
		TodayDeaths:       s.TodayDeaths,
		TodayRecovered:    s.TodayRecovered,
		Active:            s.Active,
		Critical:          s.Critical,
		Population:        s.Population,
		AffectedCountries: s.AffectedCountries,
	}
	if s.Updated > 0 {
		snap.UpdatedAt = time.UnixMilli(s.Updated).UTC()
	}
	return snap
}
