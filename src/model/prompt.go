package model

// PromptConfig is the prompts section of config.yaml.
// Empty fields fall back to the built-in templates.
type PromptConfig struct {
	System   string `yaml:"system"`
	Question string `yaml:"question"`
	Condense string `yaml:"condense"`
}

// FileConfig represents the structure of config.yaml
type FileConfig struct {
	Prompts PromptConfig `yaml:"prompts"`
}
