package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where discover looks for configuration, relative to
// the working directory.
const DefaultConfigPath = ".scout/discovery.yaml"

// DefaultKeywords seed a run when neither the CLI nor the config file
// provides any.
var DefaultKeywords = []string{
	"autonomous AI agent",
	"LangChain agent",
	"CrewAI agent",
	"AutoGPT alternative",
	"AI agent framework",
	"multi-agent system",
	"LLM agent open source",
	"AI workflow automation agent",
}

// Config holds resolved pipeline settings. Zero values are filled in by
// DefaultConfig; everything here is safe to use after LoadConfig.
type Config struct {
	Keywords   []string
	MaxResults int

	RelevanceThreshold  float64
	AutoVerifyThreshold float64

	ResearchCap    int
	ScrapeCap      int
	SourcesPerLead int
	PerQueryCap    int

	MarkdownPromptLimit int

	OutreachEnabled bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Keywords:            append([]string(nil), DefaultKeywords...),
		MaxResults:          50,
		RelevanceThreshold:  0.6,
		AutoVerifyThreshold: 0.9,
		ResearchCap:         30,
		ScrapeCap:           20,
		SourcesPerLead:      3,
		PerQueryCap:         20,
		MarkdownPromptLimit: 5000,
		OutreachEnabled:     true,
	}
}

// configFile is the YAML representation. Pointer fields distinguish
// "absent" from "explicitly zero/false" so a config file only overrides
// what it actually sets.
type configFile struct {
	Keywords   []string `yaml:"keywords,omitempty"`
	MaxResults *int     `yaml:"max_results,omitempty"`

	RelevanceThreshold  *float64 `yaml:"relevance_threshold,omitempty"`
	AutoVerifyThreshold *float64 `yaml:"auto_verify_threshold,omitempty"`

	ResearchCap    *int `yaml:"research_cap,omitempty"`
	ScrapeCap      *int `yaml:"scrape_cap,omitempty"`
	SourcesPerLead *int `yaml:"sources_per_lead,omitempty"`
	PerQueryCap    *int `yaml:"per_query_cap,omitempty"`

	MarkdownPromptLimit *int `yaml:"markdown_prompt_limit,omitempty"`

	OutreachEnabled *bool `yaml:"outreach_enabled,omitempty"`
}

// LoadConfig reads path and layers it over the defaults. A missing file is
// not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if len(file.Keywords) > 0 {
		cfg.Keywords = file.Keywords
	}
	if file.MaxResults != nil {
		cfg.MaxResults = *file.MaxResults
	}
	if file.RelevanceThreshold != nil {
		cfg.RelevanceThreshold = *file.RelevanceThreshold
	}
	if file.AutoVerifyThreshold != nil {
		cfg.AutoVerifyThreshold = *file.AutoVerifyThreshold
	}
	if file.ResearchCap != nil {
		cfg.ResearchCap = *file.ResearchCap
	}
	if file.ScrapeCap != nil {
		cfg.ScrapeCap = *file.ScrapeCap
	}
	if file.SourcesPerLead != nil {
		cfg.SourcesPerLead = *file.SourcesPerLead
	}
	if file.PerQueryCap != nil {
		cfg.PerQueryCap = *file.PerQueryCap
	}
	if file.MarkdownPromptLimit != nil {
		cfg.MarkdownPromptLimit = *file.MarkdownPromptLimit
	}
	if file.OutreachEnabled != nil {
		cfg.OutreachEnabled = *file.OutreachEnabled
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive (got %d)", c.MaxResults)
	}
	if c.RelevanceThreshold < 0 || c.RelevanceThreshold > 1 {
		return fmt.Errorf("relevance_threshold must be in [0,1] (got %.2f)", c.RelevanceThreshold)
	}
	if c.AutoVerifyThreshold < 0 || c.AutoVerifyThreshold > 1 {
		return fmt.Errorf("auto_verify_threshold must be in [0,1] (got %.2f)", c.AutoVerifyThreshold)
	}
	return nil
}

// WriteExample writes a commented starter config to path, creating parent
// directories as needed. Refuses to overwrite an existing file.
func WriteExample(path string) error {
	if path == "" {
		path = DefaultConfigPath
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	example := `# scout discovery configuration
#
# keywords:
#   - "autonomous AI agent"
#   - "LangChain agent"
# max_results: 50
# relevance_threshold: 0.6
# auto_verify_threshold: 0.9
# research_cap: 30
# scrape_cap: 20
# sources_per_lead: 3
# per_query_cap: 20
# outreach_enabled: true
`
	return os.WriteFile(path, []byte(example), 0o644)
}
