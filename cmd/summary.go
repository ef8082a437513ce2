package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/meridian-tax/caseflow/internal/calc"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary <case-ref>",
	Short: "Show the derived financial summary for a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx, "pipeline")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		data, err := loadCaseData(ctx, st, args[0])
		if err != nil {
			return err
		}
		if data == nil {
			return eris.Errorf("case not found: %s", args[0])
		}

		if summaryJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(data.Summary)
		}

		formatCaseSummary(os.Stdout, data.Summary)
		return nil
	},
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "print the summary as JSON")
	rootCmd.AddCommand(summaryCmd)
}

// formatCaseSummary writes a human-readable summary to w. Dollar
// amounts use US digit grouping.
func formatCaseSummary(out io.Writer, s *calc.CaseSummary) {
	p := message.NewPrinter(language.AmericanEnglish)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Case:\t%s\n", s.CaseRef)
	_, _ = fmt.Fprintf(w, "Monthly income:\t%s\n", p.Sprintf("$%.2f", s.TotalMonthlyIncome))
	_, _ = fmt.Fprintf(w, "Other monthly income:\t%s\n", p.Sprintf("$%.2f", s.OtherMonthlyIncome))
	_, _ = fmt.Fprintf(w, "Monthly expenses:\t%s\n", p.Sprintf("$%.2f", s.TotalMonthlyExpenses))
	_, _ = fmt.Fprintf(w, "Disposable income:\t%s\n", p.Sprintf("$%.2f", s.DisposableIncome))
	_, _ = fmt.Fprintf(w, "Account balance:\t%s\n", p.Sprintf("$%.2f", s.TotalAccountBalance))
	_, _ = fmt.Fprintf(w, "Total equity:\t%s\n", p.Sprintf("$%.2f", s.TotalEquity))
	_ = w.Flush()

	if len(s.Years) == 0 {
		return
	}

	_, _ = fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "YEAR\tWAGES\tSE INCOME\tWITHHOLDING\tSE TAX\tBALANCE\tFILED\tCSED\tSTATUTE")
	for _, y := range s.Years {
		filed := "no"
		if y.ReturnFiled {
			filed = "yes"
		}

		csed, statuteStatus := "", ""
		if y.Statute != nil {
			csed = y.Statute.Expiration.Format("2006-01-02")
			statuteStatus = string(y.Statute.Status)
		}

		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			y.TaxYear,
			p.Sprintf("%.2f", y.WageIncome),
			p.Sprintf("%.2f", y.SelfEmploymentIncome),
			p.Sprintf("%.2f", y.Withholding),
			p.Sprintf("%.2f", y.SelfEmploymentTax),
			p.Sprintf("%.2f", y.AccountBalance),
			filed,
			csed,
			statuteStatus,
		)
	}
	_ = w.Flush()
}
