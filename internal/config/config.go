package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

const DefaultAnalyzeURL = "http://localhost:8000/analyze-sentiment/"

type Config struct {
	Environment string `validate:"oneof=development production test"`
	Port        string `validate:"required,numeric"`
	LogLevel    string
	OpenAI      OpenAIConfig
	Processing  ProcessingConfig
	OCR         OCRConfig
	Unidoc      UnidocConfig
}

type OpenAIConfig struct {
	APIKey     string
	BaseURL    string `validate:"omitempty,url"`
	ModelText  string `validate:"required"`
	ModelImage string `validate:"required"`
}

type ProcessingConfig struct {
	Concurrency     int `validate:"min=1,max=64"`
	MaxUploadMB     int `validate:"min=1"`
	PromptCharLimit int `validate:"min=1"`
}

type OCRConfig struct {
	Enabled  bool
	Language string `validate:"required_if=Enabled true"`
}

// UnidocConfig holds the metered key unioffice needs to open documents.
// Without it .docx files are read straight from their XML parts.
type UnidocConfig struct {
	LicenseAPIKey string `validate:"omitempty,alphanum"`
}

// ClientConfig drives the reviewer CLI.
type ClientConfig struct {
	AnalyzeURL string `yaml:"analyze_url" validate:"required,url"`
	LogLevel   string `yaml:"log_level"`
}

var validate = validator.New()

func Load() *Config {
	return &Config{
		Environment: getEnv("ENV", "development"),
		Port:        getEnv("PORT", "8000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		OpenAI: OpenAIConfig{
			APIKey:     getEnv("OPENAI_API_KEY", ""),
			BaseURL:    getEnv("OPENAI_BASE_URL", ""),
			ModelText:  getEnv("OPENAI_MODEL_TEXT", "gpt-4o-mini"),
			ModelImage: getEnv("OPENAI_MODEL_IMAGE", "gpt-4o-mini"),
		},
		Processing: ProcessingConfig{
			Concurrency:     getEnvInt("PROCESSING_CONCURRENCY", 5),
			MaxUploadMB:     getEnvInt("MAX_UPLOAD_MB", 32),
			PromptCharLimit: getEnvInt("PROMPT_CHAR_LIMIT", 4000),
		},
		OCR: OCRConfig{
			Enabled:  getEnvBool("OCR_ENABLED", false),
			Language: getEnv("OCR_LANGUAGE", "eng"),
		},
		Unidoc: UnidocConfig{
			LicenseAPIKey: getEnv("UNIDOC_LICENSE_API_KEY", ""),
		},
	}
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func LoadClient() *ClientConfig {
	return &ClientConfig{
		AnalyzeURL: getEnv("ANALYZE_URL", DefaultAnalyzeURL),
		LogLevel:   getEnv("LOG_LEVEL", "warn"),
	}
}

func (c *ClientConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid client configuration: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return b
}
