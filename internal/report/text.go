package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteText writes the plain text report
func WriteText(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	rule := strings.Repeat("-", 40)

	fmt.Fprintf(bw, "Task report from %s to %s:\n%s\n\n",
		r.Start.Format(displayDate), r.End.Format(displayDate), strings.Repeat("=", 40))

	for _, t := range r.Tasks {
		due := "No due date"
		if d := dueDate(t); d != "" {
			due = "Due: " + d
		}
		fmt.Fprintf(bw, "Task: %s\n", t.Title)
		fmt.Fprintf(bw, "Status: %s | %s\n", status(t), due)
		if t.Details != "" {
			fmt.Fprintf(bw, "  Details: %s\n", t.Details)
		}
		if t.Tags != "" {
			fmt.Fprintf(bw, "  Tags: %s\n", t.Tags)
		}
		fmt.Fprintln(bw, rule)
	}
	return bw.Flush()
}
