package core

import (
	"log"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "pipelinepage.config.yml"

type Config struct {
	OutputDir      string `yaml:"outputDir" env:"PIPELINEPAGE_OUTPUT_DIR"`
	CacheEnabled   bool   `yaml:"cache" env:"PIPELINEPAGE_CACHE"`
	DebugHeaders   bool   `yaml:"debugHeaders" env:"PIPELINEPAGE_DEBUG_HEADERS"`
	DebugLogs      bool   `yaml:"debugLogs" env:"PIPELINEPAGE_DEBUG_LOGS"`
	DefaultVariant string `yaml:"defaultVariant" env:"PIPELINEPAGE_DEFAULT_VARIANT"`
	TemplatesDir   string `yaml:"templatesDir" env:"PIPELINEPAGE_TEMPLATES_DIR"`
}

func defaultConfig() Config {
	return Config{
		OutputDir:      "./cache",
		DefaultVariant: string(DefaultVariant),
	}
}

// LoadConfig reads the YAML file at path and applies environment overrides.
// A missing or unreadable file yields defaults. Environment values that do
// not parse are logged and leave the field as loaded from the file.
func LoadConfig(path string) Config {
	cfg := defaultConfig()

	if data, err := os.ReadFile(path); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			cfg = fileCfg
		}
	}

	if err := env.Parse(&cfg); err != nil {
		log.Printf("config: ignoring invalid environment override: %v", err)
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "./cache"
	}
	if cfg.DefaultVariant == "" {
		cfg.DefaultVariant = string(DefaultVariant)
	}

	return cfg
}

// Variant resolves the configured default variant, falling back to the
// built-in default when the configured name is unknown.
func (c Config) Variant() Variant {
	v, err := ParseVariant(c.DefaultVariant)
	if err != nil {
		return DefaultVariant
	}
	return v
}
