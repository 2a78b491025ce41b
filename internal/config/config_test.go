// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"toolbelt-cli/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.SearchPaths) != 0 {
		t.Errorf("expected default search paths to be empty, got %v", cfg.SearchPaths)
	}

	if len(cfg.ToolPaths) != 0 {
		t.Errorf("expected default tool paths to be empty, got %v", cfg.ToolPaths)
	}

	if cfg.DataDirName != "" {
		t.Errorf("expected default data dir name to be empty, got %q", cfg.DataDirName)
	}

	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme to be auto, got %s", cfg.UI.ColorScheme)
	}

	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}

	if cfg.UI.Interactive {
		t.Error("expected default interactive to be false")
	}

	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config should be valid, got %v", errs)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG behavior is linux-only")
	}

	testXDGPath := "/tmp/test-xdg-config"
	restoreXDG := testutil.MustSetenv(t, "XDG_CONFIG_HOME", testXDGPath)
	defer restoreXDG()

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}

	expected := filepath.Join(testXDGPath, AppName)
	if dir != expected {
		t.Errorf("ConfigDir() = %s, want %s", dir, expected)
	}

	// With XDG_CONFIG_HOME unset the directory falls back to ~/.config.
	restoreXDG()
	restoreUnset := testutil.MustUnsetenv(t, "XDG_CONFIG_HOME")
	defer restoreUnset()

	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected = filepath.Join(home, ".config", AppName)
	if dir != expected {
		t.Errorf("ConfigDir() = %s, want %s", dir, expected)
	}
}

func TestConfigDir_Override(t *testing.T) {
	tmpDir := t.TempDir()
	SetConfigDirOverride(tmpDir)
	defer Reset()

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if dir != tmpDir {
		t.Errorf("ConfigDir() = %s, want override %s", dir, tmpDir)
	}
}

func TestToolsDir(t *testing.T) {
	dir, err := ToolsDir()
	if err != nil {
		t.Fatalf("ToolsDir() returned error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".toolbelt", "tools")
	if dir != expected {
		t.Errorf("ToolsDir() = %s, want %s", dir, expected)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, AppName)

	// Use direct override instead of env vars (more reliable across platforms)
	SetConfigDirOverride(configDir)
	defer Reset()

	err := EnsureConfigDir()
	if err != nil {
		t.Fatalf("EnsureConfigDir() returned error: %v", err)
	}

	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Errorf("EnsureConfigDir() did not create directory %s", configDir)
	}
}

func TestEnsureToolsDir(t *testing.T) {
	tmpDir := t.TempDir()
	cleanup := testutil.SetHomeDir(t, tmpDir)
	defer cleanup()

	err := EnsureToolsDir()
	if err != nil {
		t.Fatalf("EnsureToolsDir() returned error: %v", err)
	}

	expectedDir := filepath.Join(tmpDir, ".toolbelt", "tools")
	if _, err := os.Stat(expectedDir); os.IsNotExist(err) {
		t.Errorf("EnsureToolsDir() did not create directory %s", expectedDir)
	}
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	restoreWd := testutil.MustChdir(t, tmpDir)
	defer restoreWd()

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err != nil {
		t.Fatalf("loadWithOptions returned error: %v", err)
	}
	if path != "" {
		t.Errorf("expected no resolved path, got %q", path)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme, got %s", cfg.UI.ColorScheme)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	tmpDir := t.TempDir()
	cuePath := filepath.Join(tmpDir, "config.cue")
	content := `
search_paths: ["/home/user/projects"]
tool_paths: ["/opt/shared-tools"]
data_dir_name: ".state"

ui: {
	color_scheme: "dark"
	verbose:      true
}
`
	if err := os.WriteFile(cuePath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err != nil {
		t.Fatalf("loadWithOptions returned error: %v", err)
	}
	if path != cuePath {
		t.Errorf("resolved path = %q, want %q", path, cuePath)
	}
	if len(cfg.SearchPaths) != 1 || cfg.SearchPaths[0] != "/home/user/projects" {
		t.Errorf("SearchPaths = %v", cfg.SearchPaths)
	}
	if len(cfg.ToolPaths) != 1 || cfg.ToolPaths[0] != "/opt/shared-tools" {
		t.Errorf("ToolPaths = %v", cfg.ToolPaths)
	}
	if cfg.DataDirName != ".state" {
		t.Errorf("DataDirName = %q", cfg.DataDirName)
	}
	if cfg.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("ColorScheme = %q", cfg.UI.ColorScheme)
	}
	if !cfg.UI.Verbose {
		t.Error("Verbose should be true")
	}
	// Fields the file does not set keep their defaults.
	if cfg.UI.Interactive {
		t.Error("Interactive should keep its default")
	}
}

func TestLoad_ExplicitFilePath(t *testing.T) {
	tmpDir := t.TempDir()
	cuePath := filepath.Join(tmpDir, "custom.cue")
	if err := os.WriteFile(cuePath, []byte(`ui: {verbose: true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: cuePath})
	if err != nil {
		t.Fatalf("loadWithOptions returned error: %v", err)
	}
	if path != cuePath {
		t.Errorf("resolved path = %q, want %q", path, cuePath)
	}
	if !cfg.UI.Verbose {
		t.Error("Verbose should be true")
	}
}

func TestLoad_ExplicitFilePathMissing(t *testing.T) {
	_, _, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue"),
	})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_InvalidCUEFails(t *testing.T) {
	tmpDir := t.TempDir()
	cuePath := filepath.Join(tmpDir, "config.cue")
	if err := os.WriteFile(cuePath, []byte(`ui: {color_scheme: "sepia"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err == nil {
		t.Fatal("expected schema violation to fail loading")
	}
}

func TestLoad_DuplicatePathFails(t *testing.T) {
	tmpDir := t.TempDir()
	cuePath := filepath.Join(tmpDir, "config.cue")
	content := `
search_paths: ["/opt/tools/"]
tool_paths: ["/opt/tools"]
`
	if err := os.WriteFile(cuePath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err == nil {
		t.Fatal("expected duplicate path to fail validation")
	}
	if !strings.Contains(err.Error(), "duplicate path") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := loadWithOptions(ctx, LoadOptions{})
	if err == nil {
		t.Fatal("expected canceled context to fail loading")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error should wrap context.Canceled, got %v", err)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	SetConfigDirOverride(tmpDir)
	defer Reset()

	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() returned error: %v", err)
	}

	cfgPath := filepath.Join(tmpDir, "config.cue")
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	// A second call must not overwrite an existing file.
	if err := os.WriteFile(cfgPath, []byte(`ui: {verbose: true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() second call returned error: %v", err)
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "verbose: true") {
		t.Error("CreateDefaultConfig() overwrote an existing config file")
	}
}

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	SetConfigDirOverride(tmpDir)
	defer Reset()

	cfg := DefaultConfig()
	cfg.SearchPaths = []SearchPath{"/home/user/projects", "/opt/extra"}
	cfg.DataDirName = ".state"
	cfg.UI.ColorScheme = ColorSchemeLight
	cfg.UI.Verbose = true

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	loaded, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err != nil {
		t.Fatalf("reloading saved config failed: %v", err)
	}
	if len(loaded.SearchPaths) != 2 || loaded.SearchPaths[1] != "/opt/extra" {
		t.Errorf("SearchPaths = %v", loaded.SearchPaths)
	}
	if loaded.DataDirName != ".state" {
		t.Errorf("DataDirName = %q", loaded.DataDirName)
	}
	if loaded.UI.ColorScheme != ColorSchemeLight {
		t.Errorf("ColorScheme = %q", loaded.UI.ColorScheme)
	}
	if !loaded.UI.Verbose {
		t.Error("Verbose should survive the round trip")
	}
}

func TestGenerateCUE_OmitsEmptySections(t *testing.T) {
	out := GenerateCUE(DefaultConfig())
	if strings.Contains(out, "search_paths") {
		t.Error("empty search_paths should not be written")
	}
	if strings.Contains(out, "tool_paths") {
		t.Error("empty tool_paths should not be written")
	}
	if strings.Contains(out, "data_dir_name") {
		t.Error("empty data_dir_name should not be written")
	}
	if !strings.Contains(out, `color_scheme: "auto"`) {
		t.Errorf("ui section missing from generated CUE:\n%s", out)
	}
}
