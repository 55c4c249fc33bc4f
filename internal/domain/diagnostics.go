package domain

import (
	"regexp"
	"strconv"
	"strings"

	m "github.com/mouse-blink/testforge/internal/model"
)

var (
	// Foo.cs(12,5): error CS0103: The name 'bar' does not exist [/src/App.csproj]
	buildDiagnosticPattern = regexp.MustCompile(
		`^\s*(.+?)\((\d+),(\d+)\):\s*(error|warning)\s+([A-Za-z]+\d+)\s*:\s*(.*?)(?:\s+\[[^\[\]]+\])?\s*$`)
	// "   3 Error(s)" / "0 Warning(s)" summaries printed by MSBuild.
	buildSummaryPattern = regexp.MustCompile(`(?i)^\s*\d+\s+(error|warning)\(s\)\s*$`)
	// Passed Ns.Class.Method [3 ms] / Failed! - Failed: 1, Passed: 2 ...
	testStatusPattern    = regexp.MustCompile(`^\s*(Passed|Failed|Skipped)(!)?(?:\s+(.*))?$`)
	// Failed!  - Failed: 1, Passed: 2, Skipped: 0, Total: 3, Duration: 9 ms
	testRunTotalsPattern = regexp.MustCompile(`Failed:\s*(\d+),\s*Passed:\s*(\d+),\s*Skipped:\s*(\d+)`)
	testNamePattern      = regexp.MustCompile(`^([\w.+<>\x60,]+(?:\(.*\))?)\s*(?:\[[^\]]*\])?\s*$`)
)

const (
	messageMarker    = "Message:"
	stackTraceMarker = "Stack Trace:"
)

// ParseBuildOutput converts compiler output into a RunOutcome. It never fails:
// unrecognized lines are skipped, and the raw output is kept.
func ParseBuildOutput(code int, stdout, stderr string) m.RunOutcome {
	outcome := m.RunOutcome{ReturnCode: code, Stdout: stdout, Stderr: stderr}
	collector := newDiagnosticCollector()

	for _, line := range outputLines(stdout, stderr) {
		collector.addBuildLine(line)
	}

	outcome.Diagnostics = collector.records

	return outcome
}

// ParseTestOutput converts test-runner output into a RunOutcome with per-case
// counts, failure details and any build diagnostics the runner printed.
func ParseTestOutput(code int, stdout, stderr string) m.RunOutcome {
	outcome := m.RunOutcome{ReturnCode: code, Stdout: stdout, Stderr: stderr}
	collector := newDiagnosticCollector()
	parser := testOutputParser{collector: collector}

	for _, line := range outputLines(stdout, stderr) {
		parser.feed(line)
	}

	parser.flush()

	outcome.Counts = parser.counts
	if parser.sawTotals {
		outcome.Counts = parser.totals
	}
	outcome.Diagnostics = collector.records

	return outcome
}

// ParseBuildDiagnostic parses a single `<path>(<line>,<col>): error <code>: <msg>`
// line.
func ParseBuildDiagnostic(line string) (m.DiagnosticRecord, bool) {
	match := buildDiagnosticPattern.FindStringSubmatch(line)
	if match == nil {
		return m.DiagnosticRecord{}, false
	}

	lineNo, _ := strconv.Atoi(match[2])
	column, _ := strconv.Atoi(match[3])

	return m.DiagnosticRecord{
		File:     strings.TrimSpace(match[1]),
		Line:     lineNo,
		Column:   column,
		Code:     match[5],
		Message:  strings.TrimSpace(match[6]),
		Severity: m.Severity(match[4]),
	}, true
}

type diagnosticCollector struct {
	records []m.DiagnosticRecord
	seen    map[m.DiagnosticRecord]struct{}
}

func newDiagnosticCollector() *diagnosticCollector {
	return &diagnosticCollector{seen: make(map[m.DiagnosticRecord]struct{})}
}

// add appends a record unless an identical one was already collected; MSBuild
// repeats every diagnostic in its closing summary.
func (c *diagnosticCollector) add(record m.DiagnosticRecord) {
	if _, ok := c.seen[record]; ok {
		return
	}

	c.seen[record] = struct{}{}
	c.records = append(c.records, record)
}

// addBuildLine records line if it is a build diagnostic or mentions an error.
// It reports whether the line was consumed.
func (c *diagnosticCollector) addBuildLine(line string) bool {
	if record, ok := ParseBuildDiagnostic(line); ok {
		c.add(record)
		return true
	}

	if buildSummaryPattern.MatchString(line) {
		return false
	}

	if strings.Contains(strings.ToLower(line), "error") {
		c.add(m.DiagnosticRecord{Message: strings.TrimSpace(line), Severity: m.SeverityError})
		return true
	}

	return false
}

type testOutputParser struct {
	collector   *diagnosticCollector
	counts      m.TestCounts
	// totals sums the per-assembly summary lines. They win over the per-case
	// tally whenever the runner printed one.
	totals      m.TestCounts
	sawTotals   bool
	currentTest string
	inMessage   bool
	message     []string
}

func (p *testOutputParser) feed(line string) {
	if match := testStatusPattern.FindStringSubmatch(line); match != nil {
		p.flush()

		if match[2] != "" && p.addTotals(match[3]) {
			return
		}

		p.tally(match[1])

		if match[2] == "" {
			p.currentTest = testName(match[3])
		}

		return
	}

	if idx := strings.Index(line, messageMarker); idx >= 0 {
		p.flush()
		p.inMessage = true

		if rest := strings.TrimSpace(line[idx+len(messageMarker):]); rest != "" {
			p.message = append(p.message, rest)
		}

		return
	}

	if p.inMessage {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.Contains(line, stackTraceMarker) {
			p.flush()
			return
		}

		p.message = append(p.message, trimmed)

		return
	}

	if record, ok := ParseBuildDiagnostic(line); ok {
		p.collector.add(record)
	}
}

func (p *testOutputParser) addTotals(rest string) bool {
	match := testRunTotalsPattern.FindStringSubmatch(rest)
	if match == nil {
		return false
	}

	failed, _ := strconv.Atoi(match[1])
	passed, _ := strconv.Atoi(match[2])
	skipped, _ := strconv.Atoi(match[3])

	p.totals.Failed += failed
	p.totals.Passed += passed
	p.totals.Skipped += skipped
	p.sawTotals = true

	return true
}

func (p *testOutputParser) tally(status string) {
	switch status {
	case "Passed":
		p.counts.Passed++
	case "Failed":
		p.counts.Failed++
	case "Skipped":
		p.counts.Skipped++
	}
}

// flush closes an open failure message and attaches it to the nearest
// preceding test name.
func (p *testOutputParser) flush() {
	if !p.inMessage {
		return
	}

	p.inMessage = false

	if len(p.message) == 0 {
		return
	}

	p.collector.add(m.DiagnosticRecord{
		Test:     p.currentTest,
		Message:  strings.Join(p.message, "\n"),
		Severity: m.SeverityError,
	})
	p.message = nil
}

// testName extracts "Ns.Class.Method" from the remainder of a per-case line.
func testName(rest string) string {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return ""
	}

	if match := testNamePattern.FindStringSubmatch(rest); match != nil {
		return match[1]
	}

	return rest
}

func outputLines(stdout, stderr string) []string {
	var lines []string

	for _, chunk := range []string{stdout, stderr} {
		if chunk == "" {
			continue
		}

		chunk = strings.ReplaceAll(chunk, "\r\n", "\n")
		lines = append(lines, strings.Split(chunk, "\n")...)
	}

	return lines
}
