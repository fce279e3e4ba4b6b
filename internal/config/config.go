package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	Provider       string
	GeminiKey      string
	GeminiModel    string
	OpenAIKey      string
	OpenAIEndpoint string
	OpenAIModel    string
	Database       string
	UploadDir      string
	OutputDir      string
}

// Load reads configuration from the environment, providing sensible defaults.
func Load() Config {
	// Load .env file if it exists (useful for development)
	_ = godotenv.Load()
	cfg := Config{
		Provider:       getEnv("AI_PROVIDER", "gemini"),
		GeminiKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIEndpoint: getEnv("OPENAI_API_ENDPOINT", "https://api.openai.com/v1"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		Database:       getEnv("DATABASE_PATH", "./data/materials.db"),
		UploadDir:      getEnv("UPLOAD_DIR", "./static/uploads"),
		OutputDir:      getEnv("OUTPUT_DIR", "./static/materials"),
	}

	// GOOGLE_API_KEY kept as an alias for compatibility with older deployments.
	if cfg.GeminiKey == "" {
		cfg.GeminiKey = os.Getenv("GOOGLE_API_KEY")
	}

	for _, dir := range []string{cfg.UploadDir, cfg.OutputDir, filepath.Dir(cfg.Database)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("failed to ensure dir %s: %v", dir, err)
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
