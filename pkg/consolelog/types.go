// Package consolelog extracts structured test results from raw CI console
// logs: summary counts, failing scenario names, and the deployment
// environment a build ran against. Extraction is best-effort by design —
// the logs are unstructured free text, so missing or malformed fields
// yield zero values instead of errors.
package consolelog

// Counts holds the result counters parsed from one summary line.
type Counts struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// Summary holds the two summary lines of one build. The runner prints the
// scenario-level line before the step-level line, so the two are told
// apart by position, not content.
type Summary struct {
	Scenarios Counts
	Steps     Counts
}
