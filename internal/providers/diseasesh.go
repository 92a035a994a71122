package providers

import (
	"nathanbeddoewebdev/covidash/internal/config"
	"nathanbeddoewebdev/covidash/internal/diseasesh"
	"nathanbeddoewebdev/covidash/internal/domain"
	"nathanbeddoewebdev/covidash/internal/retry"
)

// RegisterDiseaseSh registers the disease.sh client factory with the
// global registry.
func RegisterDiseaseSh() {
	Register(Default, func(cfg *config.Config) (domain.Provider, error) {
		return NewDiseaseSh(cfg), nil
	})
}

// NewDiseaseSh builds a disease.sh client from the base-url,
// request-timeout and retry-attempts settings.
func NewDiseaseSh(cfg *config.Config) *diseasesh.Client {
	return diseasesh.New(
		diseasesh.WithBaseURL(cfg.APIBaseURL()),
		diseasesh.WithTimeout(cfg.Timeout()),
		diseasesh.WithRetry(retry.WithAttempts(cfg.Attempts())),
	)
}
