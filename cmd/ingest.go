package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/meridian-tax/caseflow/internal/model"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <case-ref> <source-type> <file>",
	Short: "Ingest a document file into a case",
	Long:  "Reads a JSON document from a file (or stdin when file is \"-\") and runs it through the pipeline synchronously. Source type is one of: account_transcript, wage_and_income, return_transcript, interview.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		source, ok := model.ParseSourceType(args[1])
		if !ok {
			return eris.Errorf("unknown source type %q", args[1])
		}

		payload, err := readDocument(args[2])
		if err != nil {
			return err
		}

		env, err := initPipeline(ctx, "pipeline")
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Processor.Submit(ctx, args[0], source, payload)
		if err != nil {
			return eris.Wrap(err, "ingest")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// readDocument reads the payload from a file path, or stdin for "-".
func readDocument(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, eris.Wrap(err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read document file")
	}
	return data, nil
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
