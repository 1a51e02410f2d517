package consolelog

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingIntRe = regexp.MustCompile(`^\d+`)
	parenRe      = regexp.MustCompile(`\((.*?)\)`)
	countPairRe  = regexp.MustCompile(`(\d+) (\w+)`)

	// A summary line starts with either a bracketed ISO-8601 timestamp
	// ending in "Z]" or a bare HH:MM:SS time, followed by a count
	// expression like "42 scenarios (5 failed, 30 passed, 7 skipped)".
	summaryLineRe = regexp.MustCompile(`(?m)^(?:\[(\d{4}-\d{2}-\d{2}.*?)Z\]|\b(\d{2}:\d{2}:\d{2}))\s+(\d+ \w+ \(.*\))`)

	// The failure block runs from "Failures:" to the next step-timing
	// stamp. RE2 has no lookahead, so the stamp is consumed by the match;
	// only the captured region in between is used.
	failureBlockRe = regexp.MustCompile(`(?s)Failures:(.*?)\d+m\d+\.\d+s \(executing steps: `)
	scenarioNameRe = regexp.MustCompile(`Scenario: (.*?)\s*#`)
)

// ParseCountLine parses a single line of the form
// "<total> <word> (<n1> <label1>, <n2> <label2>, ...)" into Counts.
// The leading integer is the total, 0 if absent. Labels inside the
// parentheses are matched case-insensitively against failed, passed and
// skipped; the last occurrence of a label wins and unknown labels are
// ignored. Malformed input never errors — absent fields stay zero.
func ParseCountLine(line string) Counts {
	var c Counts
	if m := leadingIntRe.FindString(line); m != "" {
		c.Total, _ = strconv.Atoi(m)
	}

	group := parenRe.FindStringSubmatch(line)
	if group == nil {
		return c
	}
	for _, pair := range countPairRe.FindAllStringSubmatch(group[1], -1) {
		n, _ := strconv.Atoi(pair[1])
		switch strings.ToLower(pair[2]) {
		case "failed":
			c.Failed = n
		case "passed":
			c.Passed = n
		case "skipped":
			c.Skipped = n
		}
	}
	return c
}

// ExtractSummary scans a full console log for timestamp-prefixed summary
// lines, in document order. The first match is the scenario summary and
// the second the step summary (positional convention — the runner always
// prints scenarios first). Fewer than two matches means the build has no
// usable summary: ok is false and the Summary is zero.
func ExtractSummary(console string) (summary Summary, ok bool) {
	matches := summaryLineRe.FindAllStringSubmatch(console, -1)
	if len(matches) < 2 {
		return Summary{}, false
	}
	return Summary{
		Scenarios: ParseCountLine(matches[0][3]),
		Steps:     ParseCountLine(matches[1][3]),
	}, true
}

// ExtractFailures returns the failing scenario names listed between the
// "Failures:" marker and the next step-timing stamp, trimmed, in document
// order. Duplicates are kept — deduplication is a reporting concern.
// A log without the marker simply has no failures: the result is nil.
func ExtractFailures(console string) []string {
	block := failureBlockRe.FindStringSubmatch(console)
	if block == nil {
		return nil
	}
	var names []string
	for _, m := range scenarioNameRe.FindAllStringSubmatch(block[1], -1) {
		names = append(names, strings.TrimSpace(m[1]))
	}
	return names
}
