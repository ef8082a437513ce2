package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/meridian-tax/caseflow/internal/model"
	"github.com/meridian-tax/caseflow/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show raw record counts by source and status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx, "pipeline")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		counts, err := st.CountRecordsByStatus(ctx)
		if err != nil {
			return eris.Wrap(err, "status")
		}

		formatStatusCounts(os.Stdout, counts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// formatStatusCounts writes a per-source status table to w, with a
// totals row at the bottom.
func formatStatusCounts(out io.Writer, counts store.StatusCounts) {
	var pending, processing, completed, failed int

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SOURCE\tPENDING\tPROCESSING\tCOMPLETED\tFAILED\tTOTAL")
	for _, source := range model.AllSourceTypes {
		byStatus := counts[source]
		p := byStatus[model.RecordStatusPending]
		pr := byStatus[model.RecordStatusProcessing]
		c := byStatus[model.RecordStatusCompleted]
		f := byStatus[model.RecordStatusFailed]
		pending += p
		processing += pr
		completed += c
		failed += f

		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n", source, p, pr, c, f, p+pr+c+f)
	}
	_, _ = fmt.Fprintf(w, "total\t%d\t%d\t%d\t%d\t%d\n",
		pending, processing, completed, failed, pending+processing+completed+failed)
	_ = w.Flush()
}
