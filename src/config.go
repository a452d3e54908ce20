package src

import (
	"career_assistant/src/model"
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogConfig       model.LogConfig       `envconfig:""`
	LLMConfig       model.LLMConfig       `envconfig:""`
	EmbeddingConfig model.EmbeddingConfig `envconfig:""`
	StorageConfig   model.StorageConfig   `envconfig:""`
	RetrievalConfig model.RetrievalConfig `envconfig:""`
	NotifyConfig    model.NotifyConfig    `envconfig:""`
}

func LoadConfig() (*Config, error) {
	var config Config
	err := envconfig.Process("", &config)
	if err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}

	return &config, nil
}

// LoadFileConfig reads the prompts file. A missing file yields an empty
// FileConfig so the built-in prompts are used.
func LoadFileConfig(path string) (*model.FileConfig, error) {
	var config model.FileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &config, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}

	return &config, nil
}
