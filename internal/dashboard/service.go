package dashboard

import (
	"context"
	"errors"
	"fmt"

	"nathanbeddoewebdev/covidash/internal/domain"
	"nathanbeddoewebdev/covidash/internal/series"

	log "github.com/sirupsen/logrus"
)

// Service issues the dashboard's data loads against a provider. It holds no
// cached results: every call is a fresh network request.
type Service struct {
	provider domain.Provider
}

// NewService returns a Service backed by provider.
func NewService(provider domain.Provider) *Service {
	return &Service{provider: provider}
}

// LoadCountryList fetches the list used to populate the country picker.
func (s *Service) LoadCountryList(ctx context.Context) ([]domain.CountrySummary, error) {
	countries, err := s.provider.Countries(ctx)
	if err != nil {
		logFailure("countries", domain.ScopeWorldwide, err)
		return nil, err
	}
	log.WithField("count", len(countries)).Debug("loaded country list")
	return countries, nil
}

// LoadSnapshot fetches the current totals for scope.
func (s *Service) LoadSnapshot(ctx context.Context, scope domain.Scope) (*domain.Snapshot, error) {
	var (
		snap *domain.Snapshot
		err  error
	)
	if scope.IsWorldwide() {
		snap, err = s.provider.Worldwide(ctx)
	} else {
		snap, err = s.provider.Country(ctx, scope.Country())
	}
	if err != nil {
		logFailure("snapshot", scope, err)
		return nil, err
	}
	return snap, nil
}

// LoadHistoricalSeries fetches the full historical range for scope and
// reshapes it for the chart.
func (s *Service) LoadHistoricalSeries(ctx context.Context, scope domain.Scope) (*domain.HistoricalSeries, error) {
	return s.LoadHistory(ctx, scope, 0)
}

// LoadHistory is LoadHistoricalSeries limited to the last lastDays days
// (all days when lastDays <= 0).
func (s *Service) LoadHistory(ctx context.Context, scope domain.Scope, lastDays int) (*domain.HistoricalSeries, error) {
	var (
		raw *domain.RawTimeline
		err error
	)
	if scope.IsWorldwide() {
		raw, err = s.provider.WorldwideHistory(ctx, lastDays)
	} else {
		raw, err = s.provider.CountryHistory(ctx, scope.Country(), lastDays)
	}
	if err != nil {
		logFailure("series", scope, err)
		return nil, err
	}

	hs, err := series.For(scope, raw)
	if err != nil {
		err = fmt.Errorf("failed to build series for %s: %w", scope.DisplayName(), err)
		logFailure("series", scope, err)
		return nil, err
	}
	return hs, nil
}

// logFailure records a failed load. Cancellations are expected when a
// selection is superseded and are logged at debug level only.
func logFailure(what string, scope domain.Scope, err error) {
	entry := log.WithFields(log.Fields{
		"load":  what,
		"scope": scope.DisplayName(),
		"err":   err,
	})
	if errors.Is(err, context.Canceled) {
		entry.Debug("load canceled")
		return
	}
	entry.Warn("load failed")
}
