package modelinfo

import (
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"

	"github.com/guardian/modeljobs/common/models"
	"github.com/pkg/errors"
)

const (
	DefaultMaxPositionEmbeddings = 512
	MaxPositionEmbeddingsAttr    = "max_position_embeddings"
	configFileName               = "config.json"
)

/**
PretrainedConfig gives access to the named attributes of a model's configuration
*/
type PretrainedConfig interface {
	Attribute(name string) (interface{}, bool)
}

/**
PretrainedModel is a loaded model. Config may return nil if the model was loaded without one
*/
type PretrainedModel interface {
	Config() PretrainedConfig
}

/**
ConfigAttributes is a PretrainedConfig held as a plain mapping, the way it appears in a model's config.json
*/
type ConfigAttributes map[string]interface{}

func (c ConfigAttributes) Attribute(name string) (interface{}, bool) {
	value, haveValue := c[name]
	return value, haveValue
}

type LoadedModel struct {
	Name   string
	config PretrainedConfig
}

func NewLoadedModel(name string, config PretrainedConfig) *LoadedModel {
	return &LoadedModel{Name: name, config: config}
}

func (m *LoadedModel) Config() PretrainedConfig {
	if m == nil || isNil(m.config) {
		return nil
	}
	return m.config
}

/**
returns the maximum input length, in tokens, that the model supports. This is read from the
max_position_embeddings attribute of its config, or is DefaultMaxPositionEmbeddings if the config doesn't say.
An attribute that is present but null counts as not saying.
Whole-number values are returned as they are; checking that they make sense is up to the caller.
*/
func GetMaxPositionEmbeddings(model PretrainedModel) (int, error) {
	if isNil(model) {
		return 0, models.NewInvalidArgument("model", "The pre-trained model cannot be None")
	}
	config := model.Config()
	if isNil(config) {
		return 0, models.NewInvalidArgument("model.config", "The pre-trained model's config cannot be None")
	}

	value, haveValue := config.Attribute(MaxPositionEmbeddingsAttr)
	if !haveValue || isNil(value) {
		return DefaultMaxPositionEmbeddings, nil
	}
	return intFromAttribute(value)
}

/**
the number of input tokens to keep: `requested` bounded by the model's capacity. requested <= 0 means "as many as the model takes"
*/
func TruncationLength(model PretrainedModel, requested int) (int, error) {
	capacity, err := GetMaxPositionEmbeddings(model)
	if err != nil {
		return 0, err
	}
	if requested <= 0 || requested > capacity {
		return capacity, nil
	}
	return requested, nil
}

func intFromAttribute(value interface{}) (int, error) {
	if number, isNumber := value.(json.Number); isNumber {
		if asInt, err := number.Int64(); err == nil {
			return int(asInt), nil
		}
		asFloat, err := number.Float64()
		if err != nil {
			return 0, errors.Wrapf(err, "%s is not a number", MaxPositionEmbeddingsAttr)
		}
		value = asFloat
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, errors.Errorf("%s is not a whole number: %v", MaxPositionEmbeddingsAttr, f)
		}
		return int(f), nil
	default:
		return 0, errors.Errorf("%s should be a number, got %T", MaxPositionEmbeddingsAttr, value)
	}
}

/**
interfaces holding a typed nil pointer are not == nil, so look inside
*/
func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Interface, reflect.Slice, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

/**
reads a model config in the config.json format. Numbers are kept exact
*/
func LoadPretrainedConfig(from io.Reader) (ConfigAttributes, error) {
	decoder := json.NewDecoder(from)
	decoder.UseNumber()
	var attrs ConfigAttributes
	if err := decoder.Decode(&attrs); err != nil {
		return nil, errors.Wrap(err, "could not parse model config")
	}
	if attrs == nil {
		return nil, errors.New("model config is not a json object")
	}
	return attrs, nil
}

func LoadPretrainedConfigFile(path string) (ConfigAttributes, error) {
	f, openErr := os.Open(path)
	if openErr != nil {
		return nil, errors.Wrapf(openErr, "could not open model config %s", path)
	}
	defer f.Close()
	return LoadPretrainedConfig(f)
}

/**
loads the config of a model saved in `dir`. The model is named after the directory
*/
func LoadModelDirectory(dir string) (*LoadedModel, error) {
	config, err := LoadPretrainedConfigFile(filepath.Join(dir, configFileName))
	if err != nil {
		return nil, err
	}
	return NewLoadedModel(filepath.Base(dir), config), nil
}
