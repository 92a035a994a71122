package dashboard

import (
	"context"
	"sync"

	"nathanbeddoewebdev/covidash/internal/domain"
)

// mockProvider is a domain.Provider that serves canned data and counts
// calls per endpoint.
type mockProvider struct {
	mu    sync.Mutex
	calls map[string]int

	worldwide    *domain.Snapshot
	countries    []domain.CountrySummary
	country      map[string]*domain.Snapshot
	worldHistory *domain.RawTimeline
	history      map[string]*domain.RawTimeline
	err          error
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		calls: map[string]int{},
		worldwide: &domain.Snapshot{
			Scope:     domain.ScopeWorldwide,
			Cases:     678801612,
			Deaths:    6791786,
			Recovered: 651560209,
		},
		countries: []domain.CountrySummary{
			{Country: "Italy", Continent: "Europe"},
			{Country: "Japan", Continent: "Asia"},
		},
		country: map[string]*domain.Snapshot{
			"Italy": {Scope: "Italy", Cases: 25603510, Deaths: 188322, Recovered: 25014986},
			"Japan": {Scope: "Japan", Cases: 33320438, Deaths: 72997, Recovered: 21624586},
		},
		worldHistory: &domain.RawTimeline{
			Cases: map[string]float64{"1/22/20": 557, "1/23/20": 657},
		},
		history: map[string]*domain.RawTimeline{
			"Italy": {
				Cases:     map[string]float64{"1/22/20": 0, "1/23/20": 2},
				Deaths:    map[string]float64{"1/22/20": 0, "1/23/20": 0},
				Recovered: map[string]float64{"1/22/20": 0, "1/23/20": 0},
			},
		},
	}
}

func (m *mockProvider) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[name]++
}

func (m *mockProvider) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockProvider) Worldwide(_ context.Context) (*domain.Snapshot, error) {
	m.record("worldwide")
	if m.err != nil {
		return nil, m.err
	}
	return m.worldwide, nil
}

func (m *mockProvider) Countries(_ context.Context) ([]domain.CountrySummary, error) {
	m.record("countries")
	if m.err != nil {
		return nil, m.err
	}
	return m.countries, nil
}

func (m *mockProvider) Country(_ context.Context, name string) (*domain.Snapshot, error) {
	m.record("country:" + name)
	if m.err != nil {
		return nil, m.err
	}
	snap, ok := m.country[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return snap, nil
}

func (m *mockProvider) WorldwideHistory(_ context.Context, _ int) (*domain.RawTimeline, error) {
	m.record("history:worldwide")
	if m.err != nil {
		return nil, m.err
	}
	return m.worldHistory, nil
}

func (m *mockProvider) CountryHistory(_ context.Context, name string, _ int) (*domain.RawTimeline, error) {
	m.record("history:" + name)
	if m.err != nil {
		return nil, m.err
	}
	raw, ok := m.history[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return raw, nil
}
