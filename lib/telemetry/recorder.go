package telemetry

import (
	"strings"
	"sync"
)

type Report struct {
	Kind   string
	Id     string
	Params []any
}

// Recorder is an API that keeps every report in memory, tests use it to check
// that failures were reported.
type Recorder struct {
	lock    sync.Mutex
	reports []Report
}

func (r *Recorder) add(kind, id string, params []any) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.reports = append(r.reports, Report{Kind: kind, Id: id, Params: params})
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add("broken", id, params)
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add("warning", id, params)
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.add("debug", msg, params)
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.add("count", id, []any{count})
}

// Reports returns a copy of the reports of the given kind whose id ends with
// suffix, an empty suffix matches everything.
func (r *Recorder) Reports(kind, suffix string) []Report {
	r.lock.Lock()
	defer r.lock.Unlock()

	var out []Report
	for _, report := range r.reports {
		if report.Kind != kind {
			continue
		}
		if !strings.HasSuffix(report.Id, suffix) {
			continue
		}
		out = append(out, report)
	}
	return out
}
