package main

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"os/exec"

	"github.com/guardian/modeljobs/common/models"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

/**
runs the given command with its output going straight to ours, so that it shows up in the pod logs.
returns the exit code to pass on
*/
func RunCommand(cmd *exec.Cmd) (int, error) {
	log.Print("DEBUG: exec command is ", cmd)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	completeErr := cmd.Run()
	if completeErr != nil {
		exitErr, isExitError := completeErr.(*exec.ExitError)
		if isExitError {
			log.Print("Failure code: ", exitErr)
			return exitErr.ExitCode(), completeErr
		}
		log.Print("Could not run subprocess: ", completeErr)
		return 1, completeErr
	}
	return 0, nil
}

/**
reads the result object that the job wrote out
*/
func ReadResultFile(fileName string) (*models.JobResultObject, error) {
	content, readErr := ioutil.ReadFile(fileName)
	if readErr != nil {
		return nil, errors.Wrapf(readErr, "could not read %s", fileName)
	}
	var raw map[string]interface{}
	if unmarshalErr := json.Unmarshal(content, &raw); unmarshalErr != nil {
		return nil, errors.Wrapf(unmarshalErr, "%s is not valid json", fileName)
	}
	return models.JobResultObjectFromMap(raw)
}
