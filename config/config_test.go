package config

import (
	"os"
	"reflect"
	"testing"
)

// clearEnv unsets every config variable for the test, restoring afterwards.
// t.Setenv registers the restore; Unsetenv matters because godotenv will not
// override variables that are present, even when empty.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENROUTER_API_KEY", "MODEL", "PROVIDERS",
		"HOTKEY_AI", "HOTKEY_DIRECT", "HOTKEY_QUIT",
		"SCREENSHOTS_DIR", "OUTPUT_DIR",
		"ANALYSIS_DEADLINE_SEC", "ENABLE_FILE_LOGGING",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// chdir changes into dir and restores the original working directory on
// cleanup; it stands in for t.Chdir, which needs Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir()) // no .env in reach

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Model != "google/gemini-2.5-flash" {
		t.Errorf("default model = %q", cfg.Model)
	}
	if cfg.HotkeyAI != "Ctrl+Alt+V" || cfg.HotkeyDirect != "Ctrl+Alt+B" || cfg.HotkeyQuit != "Ctrl+Alt+X" {
		t.Errorf("default hotkeys = %q / %q / %q", cfg.HotkeyAI, cfg.HotkeyDirect, cfg.HotkeyQuit)
	}
	if cfg.ScreenshotsDir != "screenshots" || cfg.OutputDir != "output" {
		t.Errorf("default dirs = %q / %q", cfg.ScreenshotsDir, cfg.OutputDir)
	}
	if cfg.AnalysisDeadlineSec != 45 {
		t.Errorf("default deadline = %d", cfg.AnalysisDeadlineSec)
	}
	if cfg.EnableFileLogging {
		t.Error("file logging should default to off")
	}
	if cfg.Providers != nil {
		t.Errorf("default providers = %v", cfg.Providers)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("MODEL", "anthropic/claude-sonnet-4")
	t.Setenv("HOTKEY_AI", "Ctrl+Shift+A")
	t.Setenv("ANALYSIS_DEADLINE_SEC", "90")
	t.Setenv("ENABLE_FILE_LOGGING", "TRUE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.APIKey != "sk-or-test" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Model != "anthropic/claude-sonnet-4" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.HotkeyAI != "Ctrl+Shift+A" {
		t.Errorf("HotkeyAI = %q", cfg.HotkeyAI)
	}
	if cfg.AnalysisDeadlineSec != 90 {
		t.Errorf("AnalysisDeadlineSec = %d", cfg.AnalysisDeadlineSec)
	}
	if !cfg.EnableFileLogging {
		t.Error("ENABLE_FILE_LOGGING=TRUE not honored")
	}
}

func TestLoadProvidersParsing(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []string
	}{
		{"single", "deepinfra", []string{"deepinfra"}},
		{"multiple", "deepinfra,google-vertex", []string{"deepinfra", "google-vertex"}},
		{"spaces and empties", " deepinfra , , google-vertex ", []string{"deepinfra", "google-vertex"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			chdir(t, t.TempDir())
			t.Setenv("PROVIDERS", tt.value)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !reflect.DeepEqual(cfg.Providers, tt.expected) {
				t.Errorf("Providers = %v, want %v", cfg.Providers, tt.expected)
			}
		})
	}
}

func TestLoadInvalidDeadlineFallsBack(t *testing.T) {
	for _, bad := range []string{"abc", "-5", "0"} {
		t.Run(bad, func(t *testing.T) {
			clearEnv(t)
			chdir(t, t.TempDir())
			t.Setenv("ANALYSIS_DEADLINE_SEC", bad)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.AnalysisDeadlineSec != 45 {
				t.Errorf("AnalysisDeadlineSec = %d, want 45", cfg.AnalysisDeadlineSec)
			}
		})
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir+"/.env", "MODEL=qwen/qwen2.5-vl-72b-instruct\nOPENROUTER_API_KEY=sk-from-file\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "qwen/qwen2.5-vl-72b-instruct" {
		t.Errorf("Model from .env = %q", cfg.Model)
	}
	if cfg.APIKey != "sk-from-file" {
		t.Errorf("APIKey from .env = %q", cfg.APIKey)
	}
}
