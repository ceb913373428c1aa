package helpers

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

/**
sets the level and output format of the standard logger
*/
func SetupLogging(conf LoggingConfig) error {
	level, levelErr := log.ParseLevel(conf.Level)
	if levelErr != nil {
		return errors.Wrapf(levelErr, "invalid log level '%s'", conf.Level)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	switch strings.ToLower(conf.Format) {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return errors.Errorf("invalid log format '%s', expected text or json", conf.Format)
	}
	return nil
}
