package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/repopac/repopac/internal/config"
)

func writeConfigFile(t *testing.T, path string, content string) {
	t.Helper()
	if mkdirError := os.MkdirAll(filepath.Dir(path), 0o755); mkdirError != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), mkdirError)
	}
	if writeError := os.WriteFile(path, []byte(content), 0o644); writeError != nil {
		t.Fatalf("write %s: %v", path, writeError)
	}
}

func TestLoadApplicationConfigurationAbsentFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: t.TempDir(),
	})
	if loadError != nil {
		t.Fatalf("absent configuration must not be an error: %v", loadError)
	}
	if configuration.Clipboard != nil || configuration.Summary != nil || configuration.Tokens.Enabled != nil {
		t.Fatalf("expected zero configuration, got %+v", configuration)
	}
}

func TestLoadApplicationConfigurationLocalOverridesGlobal(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	globalPath := filepath.Join(homeDirectory, config.GlobalConfigDirectoryName, config.ConfigFileName)
	writeConfigFile(t, globalPath, "clipboard: true\nsummary: true\ntokens:\n  model: gpt-4o\n")

	workingDirectory := t.TempDir()
	localPath := filepath.Join(workingDirectory, config.ConfigFileName)
	writeConfigFile(t, localPath, "summary: false\ntokens:\n  enabled: true\n  model: gpt-4.1\n")

	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
	})
	if loadError != nil {
		t.Fatalf("LoadApplicationConfiguration: %v", loadError)
	}
	if configuration.Clipboard == nil || !*configuration.Clipboard {
		t.Fatalf("global clipboard value must survive, got %+v", configuration.Clipboard)
	}
	if configuration.Summary == nil || *configuration.Summary {
		t.Fatalf("local summary value must win, got %+v", configuration.Summary)
	}
	if configuration.Tokens.Enabled == nil || !*configuration.Tokens.Enabled {
		t.Fatalf("local tokens.enabled must apply, got %+v", configuration.Tokens.Enabled)
	}
	if configuration.Tokens.Model != "gpt-4.1" {
		t.Fatalf("local model must win, got %q", configuration.Tokens.Model)
	}
}

func TestLoadApplicationConfigurationExplicitPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workingDirectory := t.TempDir()
	explicitPath := filepath.Join(workingDirectory, "custom.yaml")
	writeConfigFile(t, explicitPath, "clipboard: true\n")

	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: "custom.yaml",
	})
	if loadError != nil {
		t.Fatalf("LoadApplicationConfiguration: %v", loadError)
	}
	if configuration.Clipboard == nil || !*configuration.Clipboard {
		t.Fatalf("explicit file must be honored, got %+v", configuration.Clipboard)
	}
}

func TestMergePrecedence(t *testing.T) {
	truthy := true
	falsy := false
	base := config.ApplicationConfiguration{
		Clipboard: &truthy,
		Tokens:    config.TokenConfiguration{Model: "gpt-4o"},
	}
	override := config.ApplicationConfiguration{
		Clipboard: &falsy,
		Summary:   &truthy,
		Tokens:    config.TokenConfiguration{Enabled: &truthy},
	}
	merged := base.Merge(override)
	if merged.Clipboard == nil || *merged.Clipboard {
		t.Fatalf("override clipboard must win, got %+v", merged.Clipboard)
	}
	if merged.Summary == nil || !*merged.Summary {
		t.Fatalf("override summary must apply, got %+v", merged.Summary)
	}
	if merged.Tokens.Model != "gpt-4o" {
		t.Fatalf("unset override model must keep base value, got %q", merged.Tokens.Model)
	}
	if merged.Tokens.Enabled == nil || !*merged.Tokens.Enabled {
		t.Fatalf("override tokens.enabled must apply, got %+v", merged.Tokens.Enabled)
	}
}
