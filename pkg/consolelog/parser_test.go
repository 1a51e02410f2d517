package consolelog

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseCountLine_AllLabels(t *testing.T) {
	got := ParseCountLine("42 scenarios (5 failed, 30 passed, 7 skipped)")
	want := Counts{Total: 42, Failed: 5, Passed: 30, Skipped: 7}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParseCountLine_EmptyGroup(t *testing.T) {
	got := ParseCountLine("10 steps ()")
	want := Counts{Total: 10}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParseCountLine_NoLeadingTotal(t *testing.T) {
	got := ParseCountLine("scenarios (2 passed)")
	if got.Total != 0 {
		t.Errorf("expected total 0, got %d", got.Total)
	}
	if got.Passed != 2 {
		t.Errorf("expected 2 passed, got %d", got.Passed)
	}
}

func TestParseCountLine_LastOccurrenceWins(t *testing.T) {
	got := ParseCountLine("9 scenarios (1 passed, 3 passed)")
	if got.Passed != 3 {
		t.Errorf("expected last occurrence to win (3), got %d", got.Passed)
	}
}

func TestParseCountLine_UnknownLabelsIgnored(t *testing.T) {
	got := ParseCountLine("8 scenarios (2 pending, 6 passed)")
	want := Counts{Total: 8, Passed: 6}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParseCountLine_CaseInsensitiveLabels(t *testing.T) {
	got := ParseCountLine("4 scenarios (1 FAILED, 3 Passed)")
	want := Counts{Total: 4, Failed: 1, Passed: 3}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParseCountLine_Garbage(t *testing.T) {
	if got := ParseCountLine("no counts here"); got != (Counts{}) {
		t.Errorf("expected zero counts, got %+v", got)
	}
}

func TestExtractSummary_BracketedTimestamps(t *testing.T) {
	console := strings.Join([]string{
		"some build noise",
		"[2024-05-01T10:00:00.123Z] 12 scenarios (2 failed, 10 passed)",
		"[2024-05-01T10:00:00.456Z] 96 steps (4 failed, 90 passed, 2 skipped)",
		"trailer",
	}, "\n")

	summary, ok := ExtractSummary(console)
	if !ok {
		t.Fatal("expected a summary")
	}
	if summary.Scenarios != (Counts{Total: 12, Failed: 2, Passed: 10}) {
		t.Errorf("unexpected scenario counts: %+v", summary.Scenarios)
	}
	if summary.Steps != (Counts{Total: 96, Failed: 4, Passed: 90, Skipped: 2}) {
		t.Errorf("unexpected step counts: %+v", summary.Steps)
	}
}

func TestExtractSummary_BareClockTimestamps(t *testing.T) {
	console := "10:01:02 3 scenarios (3 passed)\n10:01:03 9 steps (9 passed)\n"

	summary, ok := ExtractSummary(console)
	if !ok {
		t.Fatal("expected a summary")
	}
	if summary.Scenarios.Total != 3 || summary.Steps.Total != 9 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestExtractSummary_FirstTwoMatchesArePositional(t *testing.T) {
	// Three matching lines: the third must be ignored.
	console := strings.Join([]string{
		"10:00:00 1 scenarios (1 passed)",
		"10:00:01 2 steps (2 passed)",
		"10:00:02 3 widgets (3 passed)",
	}, "\n")

	summary, ok := ExtractSummary(console)
	if !ok {
		t.Fatal("expected a summary")
	}
	if summary.Scenarios.Total != 1 || summary.Steps.Total != 2 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestExtractSummary_FewerThanTwoMatches(t *testing.T) {
	for _, console := range []string{
		"",
		"nothing relevant at all",
		"10:00:00 5 scenarios (5 passed)", // only one summary line
	} {
		if summary, ok := ExtractSummary(console); ok || summary != (Summary{}) {
			t.Errorf("ExtractSummary(%q) = %+v, %v; want zero, false", console, summary, ok)
		}
	}
}

func TestExtractFailures(t *testing.T) {
	console := strings.Join([]string{
		"Failures:",
		"",
		"1) Scenario: Login with bad password # features/login.feature:12",
		"   Step failed",
		"2) Scenario: Checkout times out # features/checkout.feature:30",
		"",
		"1m23.456s (executing steps: 1m20.001s)",
		"Scenario: After the stamp # not part of the block",
	}, "\n")

	got := ExtractFailures(console)
	want := []string{"Login with bad password", "Checkout times out"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractFailures_DuplicatesKept(t *testing.T) {
	console := "Failures:\n" +
		"Scenario: Flaky one # a.feature:1\n" +
		"Scenario: Flaky one # a.feature:1\n" +
		"0m59.999s (executing steps: 0m58.000s)"

	got := ExtractFailures(console)
	if len(got) != 2 {
		t.Fatalf("expected duplicates kept, got %v", got)
	}
}

func TestExtractFailures_NoMarker(t *testing.T) {
	if got := ExtractFailures("all green, nothing failed"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
