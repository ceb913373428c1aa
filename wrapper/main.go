package main

import (
	"context"
	"flag"
	"os"
	"os/exec"
	"strconv"

	"github.com/krateoplatformops/plumbing/env"
	log "github.com/sirupsen/logrus"
)

func GetMaxRetries() int {
	stringVal := env.String("MAX_RETRIES", "10")
	value, err := strconv.ParseInt(stringVal, 10, 16)
	if err != nil {
		log.Fatalf("Invalid value for MAX_RETRIES (not an integer): %s", err)
	}
	return int(value)
}

/**
runs the job command given on the commandline, then reports whatever it wrote to the result file back to the webapp.
we expect the following environment variables to be set:
JOB_ID={uuid-string}
WEBAPP_BASE={url-string}  [url to contact main webapp]
RESULT_FILE={path} [defaults to results.json]
MAX_RETRIES={count}
*/
func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		log.Fatal("Usage: wrapper <command> [args...]")
	}

	maxTries := GetMaxRetries()
	log.Printf("Max retries set to %d", maxTries)
	resultFile := env.String("RESULT_FILE", "results.json")
	jobId := os.Getenv("JOB_ID")

	cmd := exec.Command(flag.Arg(0), flag.Args()[1:]...)
	exitCode, runErr := RunCommand(cmd)
	if runErr != nil {
		log.Printf("ERROR: job command failed: %s", runErr)
	}

	result, readErr := ReadResultFile(resultFile)
	if readErr != nil {
		log.Printf("WARNING: no result to report: %s", readErr)
	} else if !result.IsEmpty() {
		sendUrl := os.Getenv("WEBAPP_BASE") + "/api/result?jobId=" + jobId
		sendErr := SendToWebapp(context.Background(), sendUrl, result, maxTries)
		if sendErr != nil {
			log.Fatalf("Could not send results to %s: %s", sendUrl, sendErr)
		}
	}
	os.Exit(exitCode)
}
