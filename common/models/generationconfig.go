package models

/**
a limited set of generation parameters, roughly a subset of what HF transformers supports
*/
type GenerationConfig struct {
	MaxNewTokens     int     `json:"max_new_tokens"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"top_p"`
}

const (
	MaxNewTokensLimit = 32768
)

func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		MaxNewTokens:     1024,
		FrequencyPenalty: 0.0,
		Temperature:      0.5,
		TopP:             0.5,
	}
}

/**
layers the given mapping over the defaults. Unknown keys are rejected.
*/
func GenerationConfigFromMap(mapData map[string]interface{}) (GenerationConfig, error) {
	gc := DefaultGenerationConfig()
	if mapData == nil {
		return gc, nil
	}
	if decodeErr := CustomisedMapStructureDecode("GenerationConfig", mapData, &gc); decodeErr != nil {
		return GenerationConfig{}, decodeErr
	}
	return gc, gc.Validate()
}

func (g GenerationConfig) Validate() error {
	verrs := newValidationErrors("GenerationConfig")
	if g.MaxNewTokens < 1 || g.MaxNewTokens > MaxNewTokensLimit {
		verrs.add("max_new_tokens", "input should be between 1 and %d", MaxNewTokensLimit)
	}
	if g.FrequencyPenalty < -2.0 || g.FrequencyPenalty > 2.0 {
		verrs.add("frequency_penalty", "input should be between -2.0 and 2.0")
	}
	if g.Temperature < 0.0 || g.Temperature > 2.0 {
		verrs.add("temperature", "input should be between 0.0 and 2.0")
	}
	if g.TopP < 0.0 || g.TopP > 1.0 {
		verrs.add("top_p", "input should be between 0.0 and 1.0")
	}
	return verrs.err()
}
