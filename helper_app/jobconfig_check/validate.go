package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/guardian/modeljobs/common/models"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a job request",
	Long: `Validate a job request, written as JSON or YAML.

Every problem is listed with the path of the field that caused it.

Examples:
  jobconfig_check validate request.json
  jobconfig_check validate request.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), args[0])
	},
}

/**
reads a JSON or YAML object from the file, picking the format by extension
*/
func readObjectFile(fileName string) (map[string]interface{}, error) {
	content, readErr := ioutil.ReadFile(fileName)
	if readErr != nil {
		return nil, errors.Wrapf(readErr, "could not read %s", fileName)
	}

	var rtn map[string]interface{}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &rtn); err != nil {
			return nil, errors.Wrapf(err, "%s is not valid yaml", fileName)
		}
	default:
		if err := json.Unmarshal(content, &rtn); err != nil {
			return nil, errors.Wrapf(err, "%s is not valid json", fileName)
		}
	}
	if rtn == nil {
		return nil, errors.Errorf("%s does not contain an object", fileName)
	}
	return rtn, nil
}

func runValidate(out io.Writer, fileName string) error {
	raw, readErr := readObjectFile(fileName)
	if readErr != nil {
		return readErr
	}

	req, decodeErr := models.DecodeJobCreate(raw)
	if decodeErr != nil {
		var verr *models.ValidationError
		if errors.As(decodeErr, &verr) {
			fmt.Fprintf(out, "%s: %d problem(s)\n", fileName, len(verr.Errors))
			for _, fe := range verr.Errors {
				fmt.Fprintf(out, "  %s: %s\n", fe.Field, fe.Constraint)
			}
		}
		return decodeErr
	}

	fmt.Fprintf(out, "%s: OK, %s job %q\n", fileName, req.Type(), req.Name)
	return nil
}
