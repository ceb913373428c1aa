package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v7"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const maxMergeRetries = 5

func jobResultKey(jobId uuid.UUID) string {
	return fmt.Sprintf("modeljobs:JobResult:%s", jobId)
}

func (r *JobResultObject) Store(jobId uuid.UUID, redisClient redis.Cmdable) error {
	content, marshalErr := json.Marshal(r)
	if marshalErr != nil {
		return errors.Wrap(marshalErr, "could not marshal job result")
	}
	if _, setErr := redisClient.Set(jobResultKey(jobId), string(content), -1).Result(); setErr != nil {
		log.Printf("Could not save result for job %s: %s", jobId, setErr)
		return errors.Wrapf(setErr, "could not save result for job %s", jobId)
	}
	return nil
}

/**
returns the stored result for the job, or nil, nil if nothing has been stored yet
*/
func JobResultForId(jobId uuid.UUID, redisClient redis.Cmdable) (*JobResultObject, error) {
	content, getErr := redisClient.Get(jobResultKey(jobId)).Result()
	if getErr == redis.Nil {
		return nil, nil
	}
	if getErr != nil {
		return nil, errors.Wrapf(getErr, "could not retrieve result for job %s", jobId)
	}
	return jobResultFromStored(content)
}

func jobResultFromStored(content string) (*JobResultObject, error) {
	var raw map[string]interface{}
	if unmarshalErr := json.Unmarshal([]byte(content), &raw); unmarshalErr != nil {
		log.Printf("Could not unmarshal result from store: %s. Offending data was: %s", unmarshalErr, content)
		return nil, errors.Wrap(unmarshalErr, "corrupted job result")
	}
	return JobResultObjectFromMap(raw)
}

/**
merges `update` into the stored result for the job and returns the new stored value.
The read-modify-write runs under WATCH so concurrent updaters of one job can't lose each other's writes;
if the key changes underneath us the whole thing is retried, up to maxMergeRetries times.
*/
func MergeJobResult(ctx context.Context, redisClient *redis.Client, jobId uuid.UUID, update *JobResultObject) (*JobResultObject, error) {
	key := jobResultKey(jobId)
	client := redisClient.WithContext(ctx)

	var merged *JobResultObject
	txn := func(tx *redis.Tx) error {
		current := NewJobResultObject()
		content, getErr := tx.Get(key).Result()
		switch {
		case getErr == redis.Nil:
		case getErr != nil:
			return getErr
		default:
			stored, parseErr := jobResultFromStored(content)
			if parseErr != nil {
				return parseErr
			}
			current = stored
		}

		updated, mergeErr := MergeJobResults(current, update)
		if mergeErr != nil {
			return mergeErr
		}
		newContent, marshalErr := json.Marshal(updated)
		if marshalErr != nil {
			return marshalErr
		}
		_, pipeErr := tx.TxPipelined(func(pipe redis.Pipeliner) error {
			pipe.Set(key, string(newContent), -1)
			return nil
		})
		if pipeErr == nil {
			merged = updated
		}
		return pipeErr
	}

	for attempt := 0; attempt < maxMergeRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		err := client.Watch(txn, key)
		if err == nil {
			return merged, nil
		}
		if err == redis.TxFailedErr {
			log.Warnf("Result for job %s changed while merging, retrying (attempt %d)", jobId, attempt+1)
			continue
		}
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "could not merge result for job %s", jobId)
	}
	return nil, errors.Errorf("gave up merging result for job %s after %d attempts", jobId, maxMergeRetries)
}
