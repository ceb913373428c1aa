package helpers

import (
	"io/ioutil"
	"strconv"

	"github.com/krateoplatformops/plumbing/env"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DBNum    int    `yaml:"dbNum"`
}

/**
where and how jobs are launched on the cluster
*/
type KubernetesConfig struct {
	Namespace      string `yaml:"namespace"`
	KubeConfig     string `yaml:"kubeconfig"` //leave blank when running in-cluster
	Image          string `yaml:"image"`
	TemplatePath   string `yaml:"templatePath"`
	ServiceAccount string `yaml:"serviceAccount"`
	SecretName     string `yaml:"secretName"` //secret holding the provider keys named by secret_key_name
	WrapperPath    string `yaml:"wrapperPath"` //result reporter in the job image. Jobs run unwrapped if blank
	WebappBase     string `yaml:"webappBase"`  //how jobs reach us to report results
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` //"text" or "json"
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type Config struct {
	Redis      RedisConfig      `yaml:"redis"`
	Kubernetes KubernetesConfig `yaml:"kubernetes"`
	Logging    LoggingConfig    `yaml:"logging"`
	Server     ServerConfig     `yaml:"server"`
}

func ReadConfig(configFile string) (*Config, error) {
	configBytes, readErr := ioutil.ReadFile(configFile)
	if readErr != nil {
		log.Printf("Could not read config from '%s': %s\n", configFile, readErr)
		return nil, errors.Wrapf(readErr, "could not read %s", configFile)
	}
	return ParseConfig(configBytes)
}

/**
parses yaml config content, fills in defaults and then applies any overrides from the environment
*/
func ParseConfig(content []byte) (*Config, error) {
	conf := Config{
		Redis:      RedisConfig{Address: "localhost:6379"},
		Kubernetes: KubernetesConfig{Namespace: "default", TemplatePath: "config/jobtemplate.yaml"},
		Logging:    LoggingConfig{Level: "info", Format: "text"},
		Server:     ServerConfig{Port: 9000},
	}

	err := yaml.Unmarshal(content, &conf)
	if err != nil {
		log.Printf("Could not understand config: %s\n", err)
		return nil, errors.Wrap(err, "invalid config")
	}
	if overrideErr := conf.applyEnvironment(); overrideErr != nil {
		return nil, overrideErr
	}
	return &conf, nil
}

/**
every setting can be overridden from the environment, which is how the deployment manifests configure us
*/
func (c *Config) applyEnvironment() error {
	c.Redis.Address = env.String("REDIS_ADDRESS", c.Redis.Address)
	c.Redis.Password = env.String("REDIS_PASSWORD", c.Redis.Password)
	dbNum, dbErr := strconv.Atoi(env.String("REDIS_DB", strconv.Itoa(c.Redis.DBNum)))
	if dbErr != nil {
		return errors.Wrap(dbErr, "REDIS_DB is not a number")
	}
	c.Redis.DBNum = dbNum

	c.Kubernetes.Namespace = env.String("JOB_NAMESPACE", c.Kubernetes.Namespace)
	c.Kubernetes.KubeConfig = env.String("KUBECONFIG", c.Kubernetes.KubeConfig)
	c.Kubernetes.Image = env.String("JOB_IMAGE", c.Kubernetes.Image)
	c.Kubernetes.TemplatePath = env.String("JOB_TEMPLATE", c.Kubernetes.TemplatePath)
	c.Kubernetes.ServiceAccount = env.String("JOB_SERVICE_ACCOUNT", c.Kubernetes.ServiceAccount)
	c.Kubernetes.SecretName = env.String("JOB_SECRET_NAME", c.Kubernetes.SecretName)
	c.Kubernetes.WrapperPath = env.String("JOB_WRAPPER", c.Kubernetes.WrapperPath)
	c.Kubernetes.WebappBase = env.String("WEBAPP_BASE", c.Kubernetes.WebappBase)

	c.Logging.Level = env.String("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = env.String("LOG_FORMAT", c.Logging.Format)

	port, portErr := strconv.Atoi(env.String("PORT", strconv.Itoa(c.Server.Port)))
	if portErr != nil {
		return errors.Wrap(portErr, "PORT is not a number")
	}
	c.Server.Port = port
	return nil
}
