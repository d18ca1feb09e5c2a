package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/quantmind-br/listaudit/internal/analyzer"
	"github.com/quantmind-br/listaudit/internal/domain"
	"gopkg.in/yaml.v3"
)

// Supported report formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Writer renders analysis reports
type Writer struct {
	out    io.Writer
	format string
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	Output io.Writer
	Format string
}

// NewWriter creates a new report writer. Output defaults to stdout and
// Format to text.
func NewWriter(opts WriterOptions) *Writer {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}

	return &Writer{
		out:    opts.Output,
		format: opts.Format,
	}
}

// Write renders report in the configured format
func (w *Writer) Write(report *analyzer.Report) error {
	switch w.format {
	case FormatText:
		return w.writeText(report)
	case FormatJSON:
		return w.writeJSON(report)
	case FormatYAML:
		return w.writeYAML(report)
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, w.format)
	}
}

func (w *Writer) writeText(report *analyzer.Report) error {
	ew := &errWriter{w: w.out}

	ew.printf("Allow lists: %d\n", report.Counts.AllowLists)
	ew.printf("Unique entries in allow lists: %d\n", report.Counts.AllowDomains)
	ew.printf("Block lists: %d\n", report.Counts.BlockLists)
	ew.printf("Unique entries in block lists: %d\n", report.Counts.BlockDomains)

	for _, entry := range report.Unmatched {
		ew.printf("Domains in %s not in any block list:\n", entry.List)
		for _, d := range entry.Domains {
			ew.printf("- %s\n", d)
		}
	}

	for _, rel := range report.Subsets {
		ew.printf("%s is a subset of %s\n", rel.Subset, rel.Superset)
	}

	return ew.err
}

func (w *Writer) writeJSON(report *analyzer.Report) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(normalize(report))
}

func (w *Writer) writeYAML(report *analyzer.Report) error {
	enc := yaml.NewEncoder(w.out)
	enc.SetIndent(2)
	if err := enc.Encode(normalize(report)); err != nil {
		return err
	}
	return enc.Close()
}

// normalize replaces nil slices so structured formats print empty lists
func normalize(report *analyzer.Report) *analyzer.Report {
	r := *report
	if r.Unmatched == nil {
		r.Unmatched = []analyzer.UnmatchedEntries{}
	}
	if r.Subsets == nil {
		r.Subsets = []analyzer.SubsetRelation{}
	}
	return &r
}

// errWriter keeps the first write error and drops later writes
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
