package telemetry

import (
	"fmt"
)

// API is an abstraction over logging/metrics so that tests can assert on what
// a component reported.
type API interface {
	// ReportBroken reports a component that failed in a way that should be
	// looked at.
	//
	// `id` names the component, not the line that broke. Keep it to
	// `<struct or intf>.<method>`, all lowercase, dashes inside method names
	// (ex. `client.fetch`, `stage.character-stats`). ScopedAPI adds the
	// package prefix.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something that is not broken but may be worth a
	// look, `id` follows the same rules as ReportBroken.
	ReportWarning(id string, params ...any)

	// ReportDebug reports information that is dropped outside of verbose mode.
	ReportDebug(msg string, params ...any)

	// ReportCount reports the count of an event at the current time. Counts are
	// points over time, they should not be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI attaches a namespace to everything reported through it, like a
// sub-logger with a prefix.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(fmt.Sprintf("%s: %s", s.namespace, msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(fmt.Sprintf("%s: %s", s.namespace, id), count)
}
