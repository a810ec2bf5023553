package validation

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes a human-readable summary of r: one table row per region,
// followed by the failing cases.
func WriteText(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "run %s (%s)\n", r.RunID, r.Duration.Round(time.Microsecond))
	if r.Source != "" {
		fmt.Fprintf(tw, "source: %s\n", r.Source)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "\tregion\tcases\tchecks\tmax %\tmean %\tp95 %\ttol %\t")
	for _, rr := range r.Regions {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.2e\t%.2e\t%.2e\t%.2f\t\n",
			mark(rr.Passed), rr.Name, len(rr.Cases), rr.Summary.Count,
			rr.Summary.Max, rr.Summary.Mean, rr.Summary.P95, rr.Tolerance)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, rr := range r.Regions {
		for _, c := range rr.Cases {
			if c.Passed() {
				continue
			}
			if c.Error != "" {
				fmt.Fprintf(w, "\n✗ %s/%s: %s\n", rr.Name, c.Name, c.Error)
				continue
			}
			for _, ch := range c.Checks {
				if !ch.Within {
					fmt.Fprintf(w, "\n✗ %s/%s %s: computed %.9g, reference %.9g (%.4f%% > %.2f%%)\n",
						rr.Name, c.Name, ch.Property, ch.Computed, ch.Reference, ch.RelErr, rr.Tolerance)
				}
			}
		}
	}

	if r.Passed {
		_, err := fmt.Fprintln(w, "\nPASS")
		return err
	}
	_, err := fmt.Fprintln(w, "\nFAIL")
	return err
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
