package jobrunner

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	corev1 "k8s.io/client-go/kubernetes/typed/core/v1"
)

/**
extract the logs for the pod identified by the `podInfo` parameter and return as a string.
this kinda assumes that the logs are not huge, i.e. not tens/hundreds of megs in size
*/
func extractLogs(ctx context.Context, podInfo *v1.Pod, podClient corev1.PodInterface) (string, error) {
	opts := v1.PodLogOptions{}
	req := podClient.GetLogs(podInfo.Name, &opts)
	podLogStream, streamErr := req.Stream(ctx)
	if streamErr != nil {
		log.Printf("ERROR extractLogs could not open log stream: %s", streamErr)
		return "", errors.Wrapf(streamErr, "could not open logs for %s", podInfo.Name)
	}
	defer podLogStream.Close()
	buf := new(bytes.Buffer)
	_, copyErr := io.Copy(buf, podLogStream)
	if copyErr != nil {
		log.Printf("ERROR extractLogs could not stream log content for %s: %s", podInfo.Name, copyErr)
	}
	return buf.String(), nil
}

/**
gets the logs for all pods associated with the given job id and concatenates them.
pods whose logs can't be read are skipped
*/
func (l *JobLauncher) JobLogs(ctx context.Context, jobId uuid.UUID) (string, error) {
	listOpts := metav1.ListOptions{
		LabelSelector: fmt.Sprintf("%s=%s", LABEL_JOB_ID, jobId),
	}
	podList, listErr := l.podClient.List(ctx, listOpts)
	if listErr != nil {
		log.Printf("ERROR JobLogs could not list pods for job %s: %s", jobId, listErr)
		return "", errors.Wrapf(listErr, "could not list pods for %s", jobId)
	}

	var content string
	for i := range podList.Items {
		logContent, getLogErr := extractLogs(ctx, &podList.Items[i], l.podClient)
		if getLogErr != nil {
			log.Printf("ERROR JobLogs could not get pod logs: %s", getLogErr)
			continue
		}
		content += logContent
	}
	return content, nil
}
