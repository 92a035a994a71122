package domain

import "strings"

// Scope is the reporting granularity the dashboard is showing: either the
// worldwide sentinel or a single country name.
type Scope string

// ScopeWorldwide is the sentinel scope covering all countries.
const ScopeWorldwide Scope = "worldwide"

// IsWorldwide reports whether s is the worldwide sentinel. An empty scope
// is treated as worldwide.
func (s Scope) IsWorldwide() bool {
	v := strings.ToLower(strings.TrimSpace(string(s)))
	return v == "" || v == string(ScopeWorldwide)
}

// DisplayName returns the human-facing label for the scope.
func (s Scope) DisplayName() string {
	if s.IsWorldwide() {
		return "Worldwide"
	}
	return strings.TrimSpace(string(s))
}

// Country returns the trimmed country name, or "" for the worldwide scope.
func (s Scope) Country() string {
	if s.IsWorldwide() {
		return ""
	}
	return strings.TrimSpace(string(s))
}

// ParseScope normalizes user input into a Scope.
func ParseScope(v string) Scope {
	s := Scope(strings.TrimSpace(v))
	if s.IsWorldwide() {
		return ScopeWorldwide
	}
	return s
}
