package tui

import (
	"context"
	"errors"
	"os"

	"nathanbeddoewebdev/covidash/internal/domain"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ErrAborted is returned when the user cancels an interactive prompt.
var ErrAborted = errors.New("country selection aborted by user")

// CountryLister fetches the selectable countries.
type CountryLister interface {
	LoadCountryList(ctx context.Context) ([]domain.CountrySummary, error)
}

// SelectScopeForm fetches the country list behind a spinner and asks the
// user to pick a scope. Worldwide is always offered first, so a failed
// country fetch still leaves a usable choice.
func SelectScopeForm(lister CountryLister) (domain.Scope, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	var countries []domain.CountrySummary
	fetchErr := spinner.New().
		Title("Fetching countries...").
		Accessible(accessible).
		ActionWithErr(func(ctx context.Context) error {
			var err error
			countries, err = lister.LoadCountryList(ctx)
			return err
		}).
		Run()
	if fetchErr != nil {
		if errors.Is(fetchErr, huh.ErrUserAborted) || errors.Is(fetchErr, context.Canceled) {
			return "", ErrAborted
		}
		// The list is optional; fall through with worldwide only.
		countries = nil
	}

	selected := string(domain.ScopeWorldwide)
	options := buildScopeOptions(countries)

	selectField := huh.NewSelect[string]().
		Title("Select a country").
		Options(options...).
		Value(&selected).
		Height(min(max(len(options), 5), 15))

	if err := runForm(accessible, huh.NewGroup(selectField)); err != nil {
		return "", err
	}
	return domain.ParseScope(selected), nil
}

func buildScopeOptions(countries []domain.CountrySummary) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(countries)+1)
	options = append(options, huh.NewOption(domain.ScopeWorldwide.DisplayName(), string(domain.ScopeWorldwide)))
	for _, c := range countries {
		if c.Country == "" {
			continue
		}
		options = append(options, huh.NewOption(countryOptionLabel(c), c.Country))
	}
	return options
}

func countryOptionLabel(c domain.CountrySummary) string {
	switch {
	case c.Continent != "" && c.ISO2 != "":
		return c.Country + " (" + c.ISO2 + ", " + c.Continent + ")"
	case c.Continent != "":
		return c.Country + " (" + c.Continent + ")"
	case c.ISO2 != "":
		return c.Country + " (" + c.ISO2 + ")"
	}
	return c.Country
}

func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}
