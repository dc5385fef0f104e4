package framework

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Failed  bool
	Skipped bool
	// Group is true if the test ran subtests. A group's own status does not reflect its
	// subtests, which have results of their own.
	Group bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Counts returns the number of tests that passed, failed, and were skipped. A group that
// failed on its own counts as a failure; otherwise only tests without subtests are counted.
func (r Results) Counts() (passed, failed, skipped int) {
	for _, t := range r.Tests {
		switch {
		case t.Failed:
			failed++
		case t.Skipped:
			skipped++
		case !t.Group:
			passed++
		}
	}
	return
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// PrintResults writes a summary of the test run to standard output.
func PrintResults(results Results) {
	WriteResults(color.Output, results)
}

func WriteResults(out io.Writer, results Results) {
	passed, failed, skipped := results.Counts()
	if results.OK() {
		fmt.Fprintln(out, color.GreenString("All tests passed"), fmt.Sprintf("(%d passed, %d skipped)", passed, skipped))
		return
	}
	fmt.Fprintln(out, color.RedString("FAILED TESTS (%d):", failed))
	for _, f := range results.Failures {
		fmt.Fprintf(out, "  * %s\n", f.TestID)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(out, "      %s\n", line)
			}
		}
	}
	fmt.Fprintf(out, "(%d passed, %d failed, %d skipped)\n", passed, failed, skipped)
}
