package models

import (
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v7"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	REDIDX_JOB_CTIME  = "modeljobs:jobrecord:ctimeindex"
	REDIDX_JOB_STATUS = "modeljobs:jobrecord:statusindex"
)

func jobRecordKey(forId uuid.UUID) string {
	return fmt.Sprintf("modeljobs:JobRecord:%s", forId)
}

func statusIndexKey(status JobStatus) string {
	return fmt.Sprintf("%s:%s", REDIDX_JOB_STATUS, status)
}

/**
saves the record and keeps the creation-time and status indices up to date
*/
func (r JobResponse) Store(redisClient redis.Cmdable) error {
	content, marshalErr := json.Marshal(r)
	if marshalErr != nil {
		log.Printf("Could not marshal data for job record %s: %s", r.Id, marshalErr)
		return errors.Wrap(marshalErr, "could not marshal job record")
	}

	score := float64(r.CreatedAt.UnixNano())
	p := redisClient.TxPipeline()
	p.Set(jobRecordKey(r.Id), string(content), -1)
	p.ZAdd(REDIDX_JOB_CTIME, &redis.Z{Score: score, Member: r.Id.String()})
	//a record only lives in the index for its current status
	for _, s := range knownJobStatuses {
		if s != r.Status {
			p.ZRem(statusIndexKey(s), r.Id.String())
		}
	}
	p.ZAdd(statusIndexKey(r.Status), &redis.Z{Score: score, Member: r.Id.String()})

	if _, err := p.Exec(); err != nil {
		log.Printf("Could not save data for job record %s: %s", r.Id, err)
		return errors.Wrapf(err, "could not save job record %s", r.Id)
	}
	return nil
}

/**
removes the record and its index entries
*/
func (r JobResponse) Remove(redisClient redis.Cmdable) error {
	p := redisClient.TxPipeline()
	p.Del(jobRecordKey(r.Id))
	p.ZRem(REDIDX_JOB_CTIME, r.Id.String())
	for _, s := range knownJobStatuses {
		p.ZRem(statusIndexKey(s), r.Id.String())
	}
	_, err := p.Exec()
	return errors.Wrapf(err, "could not remove job record %s", r.Id)
}

/**
get the job record with the given id.
returns:
 - nil, nil if there is no such record
 - nil, error if the retrieve fails
 - ptr to JobResponse, nil if the retrieve succeeds
*/
func JobRecordForId(forId uuid.UUID, redisClient redis.Cmdable) (*JobResponse, error) {
	content, getErr := redisClient.Get(jobRecordKey(forId)).Result()
	if getErr == redis.Nil {
		return nil, nil
	}
	if getErr != nil {
		log.Printf("Could not retrieve job record with id %s: %s", forId, getErr)
		return nil, errors.Wrapf(getErr, "could not retrieve job record %s", forId)
	}

	var r JobResponse
	if unmarshalErr := json.Unmarshal([]byte(content), &r); unmarshalErr != nil {
		log.Printf("Could not unmarshal data from store: %s. Offending data was: %s", unmarshalErr, content)
		return nil, errors.Wrap(unmarshalErr, "corrupted job record")
	}
	return &r, nil
}

/**
lists job records newest first, optionally only those with the given status.
limit <= 0 means everything
*/
func ListJobRecords(redisClient redis.Cmdable, maybeStatus *JobStatus, limit int64) ([]JobResponse, error) {
	indexName := REDIDX_JOB_CTIME
	if maybeStatus != nil {
		indexName = statusIndexKey(*maybeStatus)
	}

	stop := limit - 1
	if limit <= 0 {
		stop = -1
	}
	idList, rangeErr := redisClient.ZRevRange(indexName, 0, stop).Result()
	if rangeErr != nil {
		log.Printf("Could not read job index %s: %s", indexName, rangeErr)
		return nil, errors.Wrap(rangeErr, "could not read job index")
	}
	if len(idList) == 0 {
		return []JobResponse{}, nil
	}

	pipe := redisClient.Pipeline()
	defer pipe.Close()
	cmds := make([]*redis.StringCmd, len(idList))
	for i, idStr := range idList {
		cmds[i] = pipe.Get(fmt.Sprintf("modeljobs:JobRecord:%s", idStr))
	}
	//redis.Nil from a missing record is reported per-command below
	_, execErr := pipe.Exec()
	if execErr != nil && execErr != redis.Nil {
		return nil, errors.Wrap(execErr, "could not retrieve job records")
	}

	rtn := make([]JobResponse, 0, len(cmds))
	for _, cmd := range cmds {
		content, getErr := cmd.Result()
		if getErr != nil {
			log.Printf("WARNING ListJobRecords could not %s: %s", cmd.String(), getErr)
			continue
		}
		var r JobResponse
		if unmarshalErr := json.Unmarshal([]byte(content), &r); unmarshalErr != nil {
			log.Printf("ERROR ListJobRecords could not parse content from datastore for %s: %s", cmd.String(), unmarshalErr)
			continue
		}
		rtn = append(rtn, r)
	}
	return rtn, nil
}
