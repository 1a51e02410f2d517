// Package aggregate folds per-build console-log extractions into running
// totals keyed by calendar date and deployment environment.
package aggregate

import (
	"github.com/sirupsen/logrus"

	"github.com/skarev/cistat/internal/jenkins"
	"github.com/skarev/cistat/pkg/consolelog"
)

// Canonical environment bucket labels. Anything the classifier reports
// other than prod or preprod — including "unknown" — is folded into
// EnvRanManually.
const (
	EnvProd        = "prod"
	EnvPreprod     = "preprod"
	EnvRanManually = "ran_manually"
)

// Source provides a job's build history. *jenkins.Client satisfies it;
// tests use an in-memory fake.
type Source interface {
	LatestBuildNumber() (int, error)
	BuildInfo(number int) (jenkins.BuildInfo, error)
	ConsoleText(number int) (string, error)
}

// Key identifies one aggregate bucket: a calendar date (YYYY-MM-DD) plus a
// normalized environment label. A flat composite key keeps iteration
// simple and makes bucket creation explicit.
type Key struct {
	Date string
	Env  string
}

// Bucket accumulates results across all builds sharing a Key.
type Bucket struct {
	Builds          []int
	Scenarios       consolelog.Counts
	Steps           consolelog.Counts
	FailedScenarios []string
}

// Aggregator drives extraction over a window of recent builds.
type Aggregator struct {
	source Source
	log    *logrus.Entry
}

// New creates an Aggregator reading from source.
func New(source Source) *Aggregator {
	return &Aggregator{
		source: source,
		log:    logrus.WithField("component", "aggregate"),
	}
}

// NormalizeEnvironment maps a raw classifier label onto a bucket label.
// Only prod and preprod pass through.
func NormalizeEnvironment(env string) string {
	switch env {
	case EnvProd, EnvPreprod:
		return env
	default:
		return EnvRanManually
	}
}

// LastN aggregates the n most recent builds, iterating build numbers
// descending from the latest. Builds whose metadata or console text cannot
// be fetched are skipped entirely; gaps reduce coverage but never abort
// the run. If even the latest build number cannot be determined the result
// is empty — the caller decides what "no data" means.
func (a *Aggregator) LastN(n int) map[Key]*Bucket {
	buckets := make(map[Key]*Bucket)

	latest, err := a.source.LatestBuildNumber()
	if err != nil {
		a.log.WithError(err).Error("failed to get latest build info")
		return buckets
	}

	for number := latest; number > latest-n; number-- {
		info, err := a.source.BuildInfo(number)
		if err != nil {
			a.log.WithField("build", number).WithError(err).Debug("skipping build: no metadata")
			continue
		}
		date := info.Time().Format("2006-01-02")

		console, err := a.source.ConsoleText(number)
		if err != nil {
			a.log.WithField("build", number).WithError(err).Debug("skipping build: no console text")
			continue
		}

		env := NormalizeEnvironment(consolelog.ExtractEnvironment(console))
		summary, _ := consolelog.ExtractSummary(console)
		failures := consolelog.ExtractFailures(console)

		key := Key{Date: date, Env: env}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &Bucket{}
			buckets[key] = bucket
		}
		bucket.Builds = append(bucket.Builds, number)
		addCounts(&bucket.Scenarios, summary.Scenarios)
		addCounts(&bucket.Steps, summary.Steps)
		bucket.FailedScenarios = append(bucket.FailedScenarios, failures...)

		a.log.WithFields(logrus.Fields{
			"build": number,
			"date":  date,
			"env":   env,
		}).Debug("aggregated build")
	}

	return buckets
}

func addCounts(dst *consolelog.Counts, src consolelog.Counts) {
	dst.Total += src.Total
	dst.Passed += src.Passed
	dst.Failed += src.Failed
	dst.Skipped += src.Skipped
}
