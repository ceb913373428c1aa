package main

import (
	"net/http"
	"testing"

	"github.com/alicebob/miniredis"
	"github.com/go-redis/redis/v7"
	"github.com/guardian/modeljobs/common/helpers"
)

func TestHealthcheckHandler(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	toTest := HealthcheckHandler{redisClient: client}

	mockWriter := helpers.NewMockResponseWriter()
	toTest.ServeHTTP(mockWriter, &http.Request{Method: "GET", RequestURI: "/healthcheck"})
	if mockWriter.StatusCode() != 200 {
		t.Errorf("Got status %d with redis up, expected 200", mockWriter.StatusCode())
	}

	s.Close()
	mockWriter = helpers.NewMockResponseWriter()
	toTest.ServeHTTP(mockWriter, &http.Request{Method: "GET", RequestURI: "/healthcheck"})
	if mockWriter.StatusCode() != 500 {
		t.Errorf("Got status %d with redis down, expected 500", mockWriter.StatusCode())
	}
}
