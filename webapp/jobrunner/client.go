package jobrunner

// see https://github.com/kubernetes/client-go/blob/master/examples/in-cluster-client-configuration/main.go

import (
	"io/ioutil"
	"os"
	"reflect"
	"strings"

	"github.com/guardian/modeljobs/common/helpers"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	v1batch "k8s.io/api/batch/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

const namespaceFile = "/var/run/secrets/kubernetes.io/serviceaccount/namespace"

/**
initialise connection to Kubernetes from a pod within the cluster
*/
func InClusterClient() (*kubernetes.Clientset, error) {
	config, err := rest.InClusterConfig()
	if err != nil {
		log.Print("Could not establish cluster connection: ", err)
		return nil, errors.Wrap(err, "no in-cluster config")
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		log.Print("Could not establish cluster connection: ", err)
		return nil, errors.Wrap(err, "could not connect to cluster")
	}

	return clientset, nil
}

/**
initialise a connection to Kubernetes from outside the cluster. This requires a kubeconfig file (e.g. for kubectl)
to describe how to connect and authorise to the cluster
*/
func OutOfClusterClient(kubeConfigPath string) (*kubernetes.Clientset, error) {
	config, err := clientcmd.BuildConfigFromFlags("", kubeConfigPath)
	if err != nil {
		log.Print("Could not build out-of-cluster config: ", err)
		return nil, errors.Wrapf(err, "could not read kubeconfig %s", kubeConfigPath)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		log.Print("Could not establish cluster connection: ", err)
		return nil, errors.Wrap(err, "could not connect to cluster")
	}

	return clientset, nil
}

/**
connects out-of-cluster if a kubeconfig is configured, otherwise in-cluster
*/
func ClientForConfig(conf helpers.KubernetesConfig) (*kubernetes.Clientset, error) {
	if conf.KubeConfig != "" {
		return OutOfClusterClient(conf.KubeConfig)
	}
	return InClusterClient()
}

/**
determine the namespace to launch jobs in. Inside a cluster this is the namespace we are running in,
otherwise the configured one
*/
func GetMyNamespace(conf helpers.KubernetesConfig) string {
	content, readErr := ioutil.ReadFile(namespaceFile)
	if readErr != nil {
		if !os.IsNotExist(readErr) {
			log.Warnf("Could not read in k8s namespace: %s", readErr)
		}
		return conf.Namespace
	}
	return strings.TrimSpace(string(content))
}

/**
Loads up a job manifest to use as the basis of launched jobs
*/
func LoadFromTemplate(fileName string) (*v1batch.Job, error) {
	bytes, readErr := ioutil.ReadFile(fileName)
	if readErr != nil {
		return nil, errors.Wrapf(readErr, "could not read job template %s", fileName)
	}
	return parseJobTemplate(bytes, fileName)
}

func parseJobTemplate(content []byte, fileName string) (*v1batch.Job, error) {
	//THIS is the right way to read k8s manifests.... https://github.com/kubernetes/client-go/issues/193
	decode := scheme.Codecs.UniversalDeserializer()

	obj, _, err := decode.Decode(content, nil, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse job template %s", fileName)
	}

	switch typed := obj.(type) {
	case *v1batch.Job:
		if len(typed.Spec.Template.Spec.Containers) == 0 {
			return nil, errors.Errorf("job template %s has no containers", fileName)
		}
		return typed, nil
	default:
		log.Printf("Expected to get a job from template %s but got %s instead", fileName, reflect.TypeOf(obj).String())
		return nil, errors.New("Wrong manifest type")
	}
}
