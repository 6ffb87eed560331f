package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tgienger/zt/internal/models"
	"github.com/tgienger/zt/internal/report"
)

func newReportCmd(stdout io.Writer, opts *options) *cobra.Command {
	var from, to, out, format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the tasks due in a date range",
		Long: "Export the planner tasks due between --from and --to (inclusive) as a\n" +
			"text, Excel or PDF file. The format follows the --out extension unless\n" +
			"--format is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			end := time.Now()
			start := end.AddDate(0, 0, -7)

			var err error
			if from != "" {
				if start, err = time.ParseInLocation(models.DateLayout, from, time.Local); err != nil {
					return fmt.Errorf("--from: %q is not a date (YYYY-MM-DD)", from)
				}
			}
			if to != "" {
				if end, err = time.ParseInLocation(models.DateLayout, to, time.Local); err != nil {
					return fmt.Errorf("--to: %q is not a date (YYYY-MM-DD)", to)
				}
			}

			a, err := open(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := report.Load(a.db, start, end)
			if errors.Is(err, report.ErrNoTasks) {
				fmt.Fprintln(stdout, "No tasks are due in the selected period.")
				return nil
			}
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = filepath.Join(a.cfg.Report.Dir, report.DefaultFilename(start, end))
			}
			written, err := report.NewExporter(a.cfg.Report.PDFFont).Export(r, path, format)
			if err != nil {
				a.log.Errorw("export report", "path", path, "error", err)
				return err
			}
			a.log.Infow("report exported", "path", written, "tasks", len(r.Tasks))

			fmt.Fprintf(stdout, "%d tasks written to %s\n", len(r.Tasks), written)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first due date, YYYY-MM-DD (default a week ago)")
	cmd.Flags().StringVar(&to, "to", "", "last due date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default in the report dir)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "txt, xlsx or pdf (default from the extension)")
	return cmd
}
