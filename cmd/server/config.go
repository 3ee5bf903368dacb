package main

import (
	"fmt"
	"os"

	"github.com/askpane/askpane/internal/models"
	"github.com/askpane/askpane/internal/session"
	"github.com/askpane/askpane/internal/services"
	"gopkg.in/yaml.v3"
)

type fetcherConfig interface {
	fetcher(systemPrompt string) (session.Fetcher, error)
}

type config struct {
	Port           string        `yaml:"port"`
	Greeting       string        `yaml:"greeting"`
	FallbackNotice string        `yaml:"fallbackNotice"`
	SystemPrompt   string        `yaml:"systemPrompt"`
	Models         []modelConfig `yaml:"models"`
	DefaultModel   string        `yaml:"defaultModel"`
	Answer         fetcherConfig `yaml:"answer"`
}

type modelConfig struct {
	ID        string `yaml:"id"`
	Label     string `yaml:"label"`
	Hint      string `yaml:"hint"`
	Reasoning bool   `yaml:"reasoning"`
}

type answerdConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type openAIConfig struct {
	APIKey         string `yaml:"apiKey"`
	Model          string `yaml:"model"`
	ReasoningModel string `yaml:"reasoningModel"`
}

type ollamaConfig struct {
	Host           string `yaml:"host"`
	Model          string `yaml:"model"`
	ReasoningModel string `yaml:"reasoningModel"`
}

func (c *config) UnmarshalYAML(value *yaml.Node) error {
	var rawConfig struct {
		Port           string         `yaml:"port"`
		Greeting       string         `yaml:"greeting"`
		FallbackNotice string         `yaml:"fallbackNotice"`
		SystemPrompt   string         `yaml:"systemPrompt"`
		Models         []modelConfig  `yaml:"models"`
		DefaultModel   string         `yaml:"defaultModel"`
		Answer         map[string]any `yaml:"answer"`
	}

	if err := value.Decode(&rawConfig); err != nil {
		return err
	}

	c.Port = rawConfig.Port
	c.Greeting = rawConfig.Greeting
	c.FallbackNotice = rawConfig.FallbackNotice
	c.SystemPrompt = rawConfig.SystemPrompt
	c.Models = rawConfig.Models
	c.DefaultModel = rawConfig.DefaultModel

	provider, ok := rawConfig.Answer["provider"].(string)
	if !ok {
		return fmt.Errorf("answer provider is required")
	}

	answerRawYAML, err := yaml.Marshal(rawConfig.Answer)
	if err != nil {
		return err
	}

	var answer fetcherConfig
	switch provider {
	case "answerd":
		answer = &answerdConfig{}
	case "openai":
		answer = &openAIConfig{}
	case "ollama":
		answer = &ollamaConfig{}
	default:
		return fmt.Errorf("unknown answer provider: %s", provider)
	}

	if err := yaml.Unmarshal(answerRawYAML, answer); err != nil {
		return err
	}

	c.Answer = answer

	return nil
}

// catalog converts the configured model list into registry options, falling back to
// a built-in two-entry catalog (standard plus extended reasoning) when the config
// names none. The default model, when set, is moved to the front so it becomes the
// registry default.
func (c config) catalog() ([]models.ModelOption, error) {
	opts := make([]models.ModelOption, len(c.Models))
	for i, mc := range c.Models {
		opts[i] = models.ModelOption{
			ID:               mc.ID,
			Label:            mc.Label,
			Hint:             mc.Hint,
			ReasoningEnabled: mc.Reasoning,
		}
	}

	if len(opts) == 0 {
		opts = []models.ModelOption{
			{
				ID:    "standard",
				Label: "Standard",
				Hint:  "Fast answers",
			},
			{
				ID:               "extended",
				Label:            "Extended reasoning",
				Hint:             "Slower, more thorough",
				ReasoningEnabled: true,
			},
		}
	}

	if c.DefaultModel == "" {
		return opts, nil
	}

	for i, opt := range opts {
		if opt.ID == c.DefaultModel {
			opts[0], opts[i] = opts[i], opts[0]
			return opts, nil
		}
	}
	return nil, fmt.Errorf("default model %q is not in the catalog", c.DefaultModel)
}

func (a answerdConfig) fetcher(string) (session.Fetcher, error) {
	if a.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	return services.NewAnswerd(a.Endpoint), nil
}

func (o openAIConfig) fetcher(systemPrompt string) (session.Fetcher, error) {
	if o.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	apiKey := o.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return services.NewOpenAI(apiKey, o.Model, o.ReasoningModel, systemPrompt), nil
}

func (o ollamaConfig) fetcher(systemPrompt string) (session.Fetcher, error) {
	if o.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	host := o.Host
	if host == "" {
		host = os.Getenv("OLLAMA_HOST")
	}
	return services.NewOllama(host, o.Model, o.ReasoningModel, systemPrompt), nil
}
