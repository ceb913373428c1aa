package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var retryDelay = 1 * time.Second

/**
posts `data` as json to the webapp, retrying up to `maxTries` times while the webapp is unavailable
*/
func SendToWebapp(ctx context.Context, forUrl string, data interface{}, maxTries int) error {
	byteData, marshalErr := json.Marshal(data)
	if marshalErr != nil {
		log.Print("ERROR: Could not marshal data for webapp send: ", marshalErr)
		return marshalErr
	}

	for attempt := 1; ; attempt++ {
		req, reqErr := http.NewRequestWithContext(ctx, "POST", forUrl, bytes.NewReader(byteData))
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Content-Type", "application/json")

		response, err := http.DefaultClient.Do(req)
		if err != nil {
			log.Print("ERROR: Could not send data to webapp: ", err)
			return err
		}
		responseContent, _ := ioutil.ReadAll(response.Body)
		response.Body.Close()

		switch response.StatusCode {
		case 200, 201:
			return nil
		case 500, 502, 503, 504:
			log.Printf("WARNING: server said %s", string(responseContent))
			log.Printf("WARNING: Webapp is not accessible on attempt %d (got a %d response)", attempt, response.StatusCode)
			if attempt >= maxTries {
				return errors.New("Webapp was not accessible")
			}
			time.Sleep(retryDelay)
		default:
			log.Printf("ERROR: Webapp returned a fatal error (got a %d response): %s", response.StatusCode, string(responseContent))
			return errors.Errorf("Got a fatal error %d, see logs", response.StatusCode)
		}
	}
}
