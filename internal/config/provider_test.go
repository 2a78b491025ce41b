// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestProvider_LoadDefaults(t *testing.T) {
	p := NewProvider()

	cfg, err := p.Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme, got %s", cfg.UI.ColorScheme)
	}
}

func TestProvider_LoadExplicitFile(t *testing.T) {
	tmpDir := t.TempDir()
	cuePath := filepath.Join(tmpDir, "custom.cue")
	if err := os.WriteFile(cuePath, []byte(`ui: {interactive: true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewProvider()
	cfg, err := p.Load(context.Background(), LoadOptions{ConfigFilePath: cuePath})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.UI.Interactive {
		t.Error("Interactive should be true")
	}
}

func TestProvider_LoadMissingExplicitFile(t *testing.T) {
	p := NewProvider()
	_, err := p.Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "missing.cue"),
	})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
