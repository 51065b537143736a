package adimport

import (
	"fmt"
	"io"

	"github.com/heartmarshall/adcatalog-backend/internal/domain"
)

// Reporter receives run diagnostics as they happen.
type Reporter interface {
	Loaded(rows int, source string, delimiter rune)
	Skipped(line int, reason string)
	Imported(line int, outcome domain.ImportOutcome, title string)
}

// WriterReporter prints diagnostics as plain text lines.
// Skips go to Err, everything else to Out.
type WriterReporter struct {
	Out io.Writer
	Err io.Writer
}

func (w WriterReporter) Loaded(rows int, source string, delimiter rune) {
	fmt.Fprintf(w.Out, "Loaded %d rows from %s\n", rows, source)
	fmt.Fprintf(w.Out, "Detected delimiter: '%c'\n", delimiter)
}

func (w WriterReporter) Skipped(line int, reason string) {
	fmt.Fprintf(w.Err, "[line %d] %s → skipped\n", line, reason)
}

func (w WriterReporter) Imported(line int, outcome domain.ImportOutcome, title string) {
	fmt.Fprintf(w.Out, "[line %d] %s: %s\n", line, outcome, title)
}

// Summary writes the final counts line and, for a dry run, the no-writes notice.
func Summary(w io.Writer, res Result) {
	fmt.Fprintf(w, "Done. Created: %d, Updated: %d, Skipped: %d\n", res.Created, res.Updated, res.Skipped)
	if res.DryRun {
		fmt.Fprintln(w, "Dry run: no database writes were made.")
	}
}

// discardReporter drops every diagnostic.
type discardReporter struct{}

func (discardReporter) Loaded(int, string, rune)                  {}
func (discardReporter) Skipped(int, string)                       {}
func (discardReporter) Imported(int, domain.ImportOutcome, string) {}
