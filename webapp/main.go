package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v7"
	"github.com/guardian/modeljobs/common/helpers"
	"github.com/guardian/modeljobs/webapp/jobrunner"
	"github.com/guardian/modeljobs/webapp/jobs"
	"github.com/guardian/modeljobs/webapp/results"
	log "github.com/sirupsen/logrus"
)

const statusPollInterval = 15 * time.Second

type MyHttpApp struct {
	healthcheck HealthcheckHandler
	jobs        jobs.JobsEndpoints
	results     results.ResultsEndpoints
}

func SetupRedis(config *helpers.Config) (*redis.Client, error) {
	log.Printf("Connecting to Redis on %s", config.Redis.Address)
	client := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Address,
		Password: config.Redis.Password,
		DB:       config.Redis.DBNum,
	})

	_, err := client.Ping().Result()
	if err != nil {
		log.Printf("Could not contact Redis: %s", err)
		return nil, err
	}
	log.Printf("Done.")
	return client, nil
}

func main() {
	var app MyHttpApp
	configFile := flag.String("config", "config/serverconfig.yaml", "server configuration file")
	flag.Parse()

	/*
		read in config and establish connection to persistence layer
	*/
	log.Printf("Reading config from %s", *configFile)
	config, configReadErr := helpers.ReadConfig(*configFile)
	if configReadErr != nil {
		log.Fatal("No configuration, can't continue: ", configReadErr)
	}
	if logErr := helpers.SetupLogging(config.Logging); logErr != nil {
		log.Fatal("Bad logging configuration: ", logErr)
	}

	redisClient, redisErr := SetupRedis(config)
	if redisErr != nil {
		log.Fatal("Could not connect to redis")
	}

	k8Client, k8Err := jobrunner.ClientForConfig(config.Kubernetes)
	if k8Err != nil {
		log.Fatal("Could not connect to kubernetes: ", k8Err)
	}
	config.Kubernetes.Namespace = jobrunner.GetMyNamespace(config.Kubernetes)
	log.Printf("Launching jobs into namespace %s", config.Kubernetes.Namespace)

	launcher := jobrunner.NewJobLauncher(k8Client, config.Kubernetes)
	runner := jobrunner.NewJobRunner(redisClient, launcher)
	runner.StartPolling(statusPollInterval)
	defer runner.StopPolling()

	app.healthcheck.redisClient = redisClient
	app.jobs = jobs.NewJobsEndpoints(redisClient, runner)
	app.results = results.NewResultsEndpoints(redisClient)

	http.Handle("/default", http.NotFoundHandler())
	http.Handle("/healthcheck", app.healthcheck)

	app.jobs.WireUp("/api/job")
	app.results.WireUp("/api/result")

	log.Printf("Starting server on port %d", config.Server.Port)
	startServerErr := http.ListenAndServe(fmt.Sprintf(":%d", config.Server.Port), nil)

	if startServerErr != nil {
		log.Fatal(startServerErr)
	}
}
