package main

import (
	"fmt"
	"io"
	"os"

	"github.com/guardian/modeljobs/common/modelinfo"
	"github.com/spf13/cobra"
)

var maxPositionsCmd = &cobra.Command{
	Use:   "max-positions <config.json|model directory>",
	Short: "Print the maximum sequence length of a pretrained model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMaxPositions(cmd.OutOrStdout(), args[0])
	},
}

func runMaxPositions(out io.Writer, target string) error {
	statInfo, statErr := os.Stat(target)
	if statErr != nil {
		return statErr
	}

	var model *modelinfo.LoadedModel
	if statInfo.IsDir() {
		loaded, loadErr := modelinfo.LoadModelDirectory(target)
		if loadErr != nil {
			return loadErr
		}
		model = loaded
	} else {
		config, loadErr := modelinfo.LoadPretrainedConfigFile(target)
		if loadErr != nil {
			return loadErr
		}
		model = modelinfo.NewLoadedModel(target, config)
	}

	maxPositions, err := modelinfo.GetMaxPositionEmbeddings(model)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, maxPositions)
	return nil
}
