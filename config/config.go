package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	APIKey              string
	Model               string
	Providers           []string
	HotkeyAI            string
	HotkeyDirect        string
	HotkeyQuit          string
	ScreenshotsDir      string
	OutputDir           string
	AnalysisDeadlineSec int
	EnableFileLogging   bool
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or executable directory
	envPaths := []string{".env"}

	// If running as executable, also try the executable's directory
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		envPaths = append(envPaths, filepath.Join(execDir, ".env"))
	}

	// Try to load .env file (ignore errors if file doesn't exist)
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			godotenv.Load(envPath)
			break
		}
	}

	// Parse providers from comma-separated string
	var providers []string
	if providersStr := os.Getenv("PROVIDERS"); providersStr != "" {
		for _, provider := range strings.Split(providersStr, ",") {
			if trimmed := strings.TrimSpace(provider); trimmed != "" {
				providers = append(providers, trimmed)
			}
		}
	}

	// Resolve analysis deadline (seconds) with env override and sane default
	deadlineSec := 45
	if v := os.Getenv("ANALYSIS_DEADLINE_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			deadlineSec = n
		}
	}

	cfg := &Config{
		APIKey:              os.Getenv("OPENROUTER_API_KEY"),
		Model:               getEnvWithDefault("MODEL", "google/gemini-2.5-flash"),
		Providers:           providers,
		HotkeyAI:            getEnvWithDefault("HOTKEY_AI", "Ctrl+Alt+V"),
		HotkeyDirect:        getEnvWithDefault("HOTKEY_DIRECT", "Ctrl+Alt+B"),
		HotkeyQuit:          getEnvWithDefault("HOTKEY_QUIT", "Ctrl+Alt+X"),
		ScreenshotsDir:      getEnvWithDefault("SCREENSHOTS_DIR", "screenshots"),
		OutputDir:           getEnvWithDefault("OUTPUT_DIR", "output"),
		AnalysisDeadlineSec: deadlineSec,
		EnableFileLogging:   strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
