package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/guardian/modeljobs/common/models"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file>",
	Short: "Normalise a raw backend submission record",
	Long: `Normalise a raw backend submission record, written as JSON.

The launch configuration is pulled out of the entrypoint and redacted, exactly as
the webapp does before showing a job.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNormalize(cmd.OutOrStdout(), args[0])
	},
}

func runNormalize(out io.Writer, fileName string) error {
	raw, readErr := readObjectFile(fileName)
	if readErr != nil {
		return readErr
	}

	normalised, err := models.NormalizeSubmissionResponse(raw)
	if err != nil {
		return err
	}
	content, marshalErr := json.MarshalIndent(normalised, "", "  ")
	if marshalErr != nil {
		return errors.Wrap(marshalErr, "could not serialise result")
	}
	fmt.Fprintln(out, string(content))
	return nil
}
