package models

import (
	"encoding/json"
	"sort"

	mapset "github.com/deckarep/golang-set"
	"github.com/pkg/errors"
)

type TaskType string

const (
	TASK_SUMMARIZATION   TaskType = "summarization"
	TASK_TRANSLATION     TaskType = "translation"
	TASK_TEXT_GENERATION TaskType = "text-generation"
)

/**
describes the analytic task a job performs. The language fields only apply to translation.
*/
type TaskDefinition struct {
	Task           TaskType `json:"task"`
	SourceLanguage string   `json:"source_language,omitempty"`
	TargetLanguage string   `json:"target_language,omitempty"`
}

func SummarizationTaskDefinition() TaskDefinition {
	return TaskDefinition{Task: TASK_SUMMARIZATION}
}

/**
builds a TaskDefinition from its raw mapping. A nil mapping gives the default summarization task.
*/
func TaskDefinitionFromMap(mapData map[string]interface{}) (TaskDefinition, error) {
	if mapData == nil {
		return SummarizationTaskDefinition(), nil
	}

	var td TaskDefinition
	if decodeErr := CustomisedMapStructureDecode("TaskDefinition", mapData, &td); decodeErr != nil {
		return TaskDefinition{}, decodeErr
	}
	return td, td.Validate()
}

func (t TaskDefinition) Validate() error {
	verrs := newValidationErrors("TaskDefinition")
	switch t.Task {
	case TASK_SUMMARIZATION, TASK_TEXT_GENERATION:
		if t.SourceLanguage != "" || t.TargetLanguage != "" {
			verrs.add("", "languages only apply to the '%s' task", TASK_TRANSLATION)
		}
	case TASK_TRANSLATION:
		if t.SourceLanguage == "" {
			verrs.add("source_language", "field required for the '%s' task", TASK_TRANSLATION)
		}
		if t.TargetLanguage == "" {
			verrs.add("target_language", "field required for the '%s' task", TASK_TRANSLATION)
		}
	default:
		verrs.add("task", "input should be '%s', '%s' or '%s'", TASK_SUMMARIZATION, TASK_TRANSLATION, TASK_TEXT_GENERATION)
	}
	return verrs.err()
}

var knownMetrics = mapset.NewSet("rouge", "meteor", "bertscore", "bleu", "comet", "g_eval_summarization", "token_length")

/**
a set of metric names. It is backed by a golang-set and serialises as a sorted json array so that
identical sets always produce identical output.
*/
type MetricSet struct {
	set mapset.Set
}

func NewMetricSet(names ...string) MetricSet {
	s := mapset.NewThreadUnsafeSet()
	for _, n := range names {
		s.Add(n)
	}
	return MetricSet{set: s}
}

func (m MetricSet) Len() int {
	if m.set == nil {
		return 0
	}
	return m.set.Cardinality()
}

func (m MetricSet) Contains(name string) bool {
	return m.set != nil && m.set.Contains(name)
}

func (m MetricSet) Equal(other MetricSet) bool {
	if m.Len() != other.Len() {
		return false
	}
	if m.Len() == 0 {
		return true
	}
	return m.set.Equal(other.set)
}

/**
returns the metric names in sorted order
*/
func (m MetricSet) Names() []string {
	rtn := make([]string, 0, m.Len())
	if m.set == nil {
		return rtn
	}
	for _, entry := range m.set.ToSlice() {
		rtn = append(rtn, entry.(string))
	}
	sort.Strings(rtn)
	return rtn
}

/**
returns the names in this set that are not known metrics
*/
func (m MetricSet) Unknown() []string {
	rtn := make([]string, 0)
	for _, n := range m.Names() {
		if !knownMetrics.Contains(n) {
			rtn = append(rtn, n)
		}
	}
	return rtn
}

func (m MetricSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Names())
}

func (m *MetricSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*m = NewMetricSet(names...)
	return nil
}

/**
interprets a raw json value (a list of strings) as a MetricSet
*/
func metricSetFromValue(value interface{}) (MetricSet, error) {
	list, isList := value.([]interface{})
	if !isList {
		if strList, isStrList := value.([]string); isStrList {
			return NewMetricSet(strList...), nil
		}
		return MetricSet{}, errors.Errorf("input should be a valid set, got %T", value)
	}
	names := make([]string, len(list))
	for i, entry := range list {
		str, isStr := entry.(string)
		if !isStr {
			return MetricSet{}, errors.Errorf("entry %d should be a valid string, got %T", i, entry)
		}
		names[i] = str
	}
	return NewMetricSet(names...), nil
}

/**
MetricsProvider maps a task definition onto the metrics that apply to it.
*/
type MetricsProvider interface {
	MetricsForTask(task TaskDefinition) (MetricSet, error)
}

type defaultTaskMetrics struct{}

/**
the built-in task-to-metrics mapping
*/
var DefaultTaskMetrics MetricsProvider = defaultTaskMetrics{}

func (defaultTaskMetrics) MetricsForTask(task TaskDefinition) (MetricSet, error) {
	switch task.Task {
	case TASK_SUMMARIZATION:
		return NewMetricSet("rouge", "meteor", "bertscore"), nil
	case TASK_TRANSLATION:
		return NewMetricSet("bleu", "meteor", "comet"), nil
	case TASK_TEXT_GENERATION:
		return NewMetricSet("rouge", "meteor"), nil
	default:
		return MetricSet{}, errors.Errorf("no default metrics for task '%s'", task.Task)
	}
}
