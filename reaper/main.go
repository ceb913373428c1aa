package main

import (
	"context"
	"flag"
	"time"

	"github.com/go-redis/redis/v7"
	"github.com/guardian/modeljobs/common/helpers"
	"github.com/guardian/modeljobs/webapp/jobrunner"
	log "github.com/sirupsen/logrus"
)

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
	maxAgeHours := flag.Int64("maxage", 36, "delete the kubernetes jobs of model jobs that finished longer than this many hours ago")
	dryRun := flag.Bool("dryrun", true, "don't actually delete anything")
	configFile := flag.String("config", "config/serverconfig.yaml", "server configuration file")
	purgeRecords := flag.Bool("purge", false, "remove the job records as well as the kubernetes jobs")

	flag.Parse()

	log.Printf("Reading config from %s", *configFile)
	config, configReadErr := helpers.ReadConfig(*configFile)
	if configReadErr != nil {
		log.Fatal("No configuration, can't continue")
	}
	if logErr := helpers.SetupLogging(config.Logging); logErr != nil {
		log.Fatal(logErr)
	}

	log.Printf("Dryrun is %t", *dryRun)
	redisClient, redisErr := SetupRedis(config)
	if redisErr != nil {
		log.Fatal("Could not connect to redis")
	}

	k8Client, k8Err := jobrunner.ClientForConfig(config.Kubernetes)
	if k8Err != nil {
		log.Fatalf("ERROR: Can't establish communication with Kubernetes: %s", k8Err)
	}
	launcher := jobrunner.NewJobLauncher(k8Client, config.Kubernetes)

	startTime := time.Now()
	log.Printf("Reaping of old jobs starting at %s", startTime)

	cutoffTime := startTime.Add(-time.Duration(*maxAgeHours) * time.Hour)
	log.Printf("Cutoff time is %s", cutoffTime)

	reaper := Reaper{
		redisClient:  redisClient,
		backend:      launcher,
		cutoffTime:   cutoffTime,
		dryRun:       *dryRun,
		purgeRecords: *purgeRecords,
	}
	removed, reapErr := reaper.Run(context.Background())
	if reapErr != nil {
		log.Fatal(reapErr)
	}
	log.Printf("Reaping completed in %s, %d jobs removed", time.Since(startTime), removed)
}
