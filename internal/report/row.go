// Package report turns aggregate buckets into tabular report rows and
// renders them as CSV, HTML, XLSX and styled terminal output.
package report

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/skarev/cistat/internal/aggregate"
)

// Header is the canonical column order shared by every output format.
var Header = []string{
	"date",
	"builds",
	"environment",
	"stability",
	"failure_percentage",
	"scenarios_total",
	"scenarios_passed",
	"scenarios_failed",
	"scenarios_skipped",
	"steps_total",
	"steps_passed",
	"steps_failed",
	"steps_skipped",
	"failed_scenarios",
}

// Row is one report line: the totals for a (date, environment) bucket.
type Row struct {
	Date              string
	Builds            string
	Environment       string
	Stability         float64
	FailurePercentage float64
	ScenariosTotal    int
	ScenariosPassed   int
	ScenariosFailed   int
	ScenariosSkipped  int
	StepsTotal        int
	StepsPassed       int
	StepsFailed       int
	StepsSkipped      int
	FailedScenarios   string
}

// LatestDate returns the most recent date present in the aggregate, or ""
// when the aggregate is empty. Dates are YYYY-MM-DD so string order is
// chronological order.
func LatestDate(buckets map[aggregate.Key]*aggregate.Bucket) string {
	latest := ""
	for key := range buckets {
		if key.Date > latest {
			latest = key.Date
		}
	}
	return latest
}

// BuildRows produces one row per environment bucket on the given date,
// sorted by environment for deterministic output. Build numbers are sorted
// ascending; failed scenario names are deduplicated and sorted.
func BuildRows(buckets map[aggregate.Key]*aggregate.Bucket, date string) []Row {
	var rows []Row
	for key, bucket := range buckets {
		if key.Date != date {
			continue
		}
		rows = append(rows, buildRow(key, bucket))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Environment < rows[j].Environment })
	return rows
}

func buildRow(key aggregate.Key, bucket *aggregate.Bucket) Row {
	builds := append([]int(nil), bucket.Builds...)
	sort.Ints(builds)
	parts := make([]string, len(builds))
	for i, b := range builds {
		parts[i] = strconv.Itoa(b)
	}

	sc, st := bucket.Scenarios, bucket.Steps
	return Row{
		Date:              key.Date,
		Builds:            strings.Join(parts, ", "),
		Environment:       key.Env,
		Stability:         percentage(sc.Passed, sc.Total),
		FailurePercentage: percentage(sc.Failed, sc.Total),
		ScenariosTotal:    sc.Total,
		ScenariosPassed:   sc.Passed,
		ScenariosFailed:   sc.Failed,
		ScenariosSkipped:  sc.Skipped,
		StepsTotal:        st.Total,
		StepsPassed:       st.Passed,
		StepsFailed:       st.Failed,
		StepsSkipped:      st.Skipped,
		FailedScenarios:   joinUnique(bucket.FailedScenarios),
	}
}

// percentage returns part/total × 100 rounded to two decimals, 0 when
// total is 0.
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}

func joinUnique(names []string) string {
	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}
	sort.Strings(unique)
	return strings.Join(unique, "; ")
}

// Fields returns the row's values in Header order, formatted as strings.
func (r Row) Fields() []string {
	return []string{
		r.Date,
		r.Builds,
		r.Environment,
		formatPercent(r.Stability),
		formatPercent(r.FailurePercentage),
		strconv.Itoa(r.ScenariosTotal),
		strconv.Itoa(r.ScenariosPassed),
		strconv.Itoa(r.ScenariosFailed),
		strconv.Itoa(r.ScenariosSkipped),
		strconv.Itoa(r.StepsTotal),
		strconv.Itoa(r.StepsPassed),
		strconv.Itoa(r.StepsFailed),
		strconv.Itoa(r.StepsSkipped),
		r.FailedScenarios,
	}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
