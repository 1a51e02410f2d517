package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRows() []Row {
	return []Row{
		{
			Date:              "2024-05-02",
			Builds:            "101, 102",
			Environment:       "prod",
			Stability:         95.0,
			FailurePercentage: 5.0,
			ScenariosTotal:    40,
			ScenariosPassed:   38,
			ScenariosFailed:   2,
			StepsTotal:        200,
			StepsPassed:       190,
			StepsFailed:       6,
			StepsSkipped:      4,
			FailedScenarios:   "Checkout; Login",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testRows()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(Header, ","), lines[0])
	assert.Contains(t, lines[1], `"101, 102"`)
	assert.Contains(t, lines[1], "95.00")
	assert.Contains(t, lines[1], "Checkout; Login")
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, testRows()))

	out := buf.String()
	assert.Contains(t, out, "<th>stability</th>")
	assert.Contains(t, out, "<td>95.00</td>")
	assert.Contains(t, out, "<td>Checkout; Login</td>")
}

func TestWriteHTML_EscapesContent(t *testing.T) {
	rows := testRows()
	rows[0].FailedScenarios = `Checkout <script>alert("x")</script>`

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, rows))
	assert.NotContains(t, buf.String(), "<script>")
}

func TestRenderTerminal_MonoContainsAllFigures(t *testing.T) {
	out := RenderTerminal(testRows(), MonoTheme(), 80)

	assert.Contains(t, out, "2024-05-02 · Prod")
	assert.Contains(t, out, "builds: 101, 102")
	assert.Contains(t, out, "stability: 95.00%")
	assert.Contains(t, out, "failures: 5.00%")
	assert.Contains(t, out, "scenarios: 40 total · 38 passed · 2 failed · 0 skipped")
	assert.Contains(t, out, "steps: 200 total · 190 passed · 6 failed · 4 skipped")
	assert.Contains(t, out, "· Checkout")
	assert.Contains(t, out, "· Login")
}

func TestRenderTerminal_TruncatesLongNames(t *testing.T) {
	rows := testRows()
	rows[0].FailedScenarios = strings.Repeat("very long scenario name ", 20)

	out := RenderTerminal(rows, MonoTheme(), 40)
	var sawBullet bool
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "    · ") {
			continue
		}
		sawBullet = true
		assert.LessOrEqual(t, runewidth.StringWidth(line), 40, "scenario line too wide: %q", line)
	}
	assert.True(t, sawBullet, "expected at least one scenario line")
}

func TestRenderTerminal_Empty(t *testing.T) {
	assert.Equal(t, "", RenderTerminal(nil, MonoTheme(), 80))
}
