package domain

import "context"

// Provider is the read-only statistics source the dashboard consumes.
type Provider interface {
	// Worldwide returns the current global totals.
	Worldwide(ctx context.Context) (*Snapshot, error)

	// Countries returns every country the API reports on.
	Countries(ctx context.Context) ([]CountrySummary, error)

	// Country returns the current totals for a single country.
	Country(ctx context.Context, name string) (*Snapshot, error)

	// WorldwideHistory returns global cumulative counts by date.
	// lastDays <= 0 requests the full range.
	WorldwideHistory(ctx context.Context, lastDays int) (*RawTimeline, error)

	// CountryHistory returns a country's cumulative counts by date.
	// lastDays <= 0 requests the full range.
	CountryHistory(ctx context.Context, name string, lastDays int) (*RawTimeline, error)
}
