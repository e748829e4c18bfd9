// Package report prints summaries of generation runs and validations.
package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/bagtoad/scenegen/internal/dataset"
	"github.com/bagtoad/scenegen/internal/validator"
)

// PrintManifest writes the files produced by a run and their total size.
func PrintManifest(w io.Writer, m *dataset.Manifest) {
	written := m.Written()
	failed := m.Failed()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Dataset Summary ===")
	fmt.Fprintf(w, "Output directory:    %s\n", m.Dir)
	fmt.Fprintf(w, "Image size:          %dx%d\n", m.Width, m.Height)
	fmt.Fprintf(w, "Images written:      %d\n", len(written))
	if len(failed) > 0 {
		fmt.Fprintf(w, "Images failed:       %d\n", len(failed))
	}

	if len(m.Entries) == 0 {
		fmt.Fprintln(w, "\nNo images generated.")
		return
	}

	fmt.Fprintln(w)
	for _, e := range m.Entries {
		name := filepath.Base(e.Path)
		if !e.OK() {
			fmt.Fprintf(w, "  FAILED %-22s %s\n", name, e.Error)
			continue
		}
		fmt.Fprintf(w, "  %-22s %-13s (%s)\n", name, e.Mode, KB(e.Bytes))
	}
	fmt.Fprintf(w, "\nTotal size:          %s (%.2f MB)\n", KB(m.TotalBytes), float64(m.TotalBytes)/1024/1024)
	fmt.Fprintln(w)
}

// PrintValidation writes per-file status and the overall verdict.
func PrintValidation(w io.Writer, r *validator.Result) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "=== Validating %s ===\n", r.Dir)
	for _, f := range r.Files {
		switch {
		case !f.Exists:
			fmt.Fprintf(w, "  missing  %s\n", f.Name)
		case f.DecodeErr != nil:
			fmt.Fprintf(w, "  ok       %-22s (%s, unreadable header)\n", f.Name, KB(f.Size))
		default:
			fmt.Fprintf(w, "  ok       %-22s (%s, %dx%d)\n", f.Name, KB(f.Size), f.Width, f.Height)
		}
	}

	fmt.Fprintln(w)
	if r.Complete {
		fmt.Fprintf(w, "All %d required files present.\n", len(r.Files))
		return
	}
	fmt.Fprintf(w, "Missing %d of %d required files:\n", len(r.Missing), len(r.Files))
	for _, name := range r.Missing {
		fmt.Fprintf(w, "  - %s\n", name)
	}
}

// KB formats a byte count in kilobytes with one decimal.
func KB(n int64) string {
	return fmt.Sprintf("%.1f KB", float64(n)/1024)
}
