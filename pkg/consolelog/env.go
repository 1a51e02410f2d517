package consolelog

import (
	"regexp"
	"strings"
)

// EnvUnknown is returned when no environment rule matches.
const EnvUnknown = "unknown"

// envRules are tried in priority order; the first match wins. Keeping the
// fallback chain in a table makes adding or reordering a rule a data
// change rather than new branching.
var envRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Started by timer with parameters: \{[^}]*ENV=([^,}]+)`),
	regexp.MustCompile(`(?i)ENV=([A-Za-z0-9_]+)`),
	regexp.MustCompile(`(?i)Environment[:=]\s*([A-Za-z0-9_]+)`),
	regexp.MustCompile(`(?i)Run environment:\s*([A-Za-z0-9_]+)`),
}

// ExtractEnvironment infers the deployment environment label from console
// text. The captured value is lower-cased and trimmed. Returns EnvUnknown
// when nothing matches; mapping unexpected labels onto a reporting bucket
// is the caller's policy, not this package's.
func ExtractEnvironment(console string) string {
	for _, rule := range envRules {
		if m := rule.FindStringSubmatch(console); m != nil {
			return strings.ToLower(strings.TrimSpace(m[1]))
		}
	}
	return EnvUnknown
}
