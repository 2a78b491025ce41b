// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMustChdir(t *testing.T) {
	before, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	restore := MustChdir(t, dir)
	now, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	// Getwd may return a symlink-resolved path (e.g. /private on macOS).
	if filepath.Base(now) != filepath.Base(dir) {
		t.Errorf("cwd = %q, want %q", now, dir)
	}

	restore()
	after, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if after != before {
		t.Errorf("cwd after restore = %q, want %q", after, before)
	}
}

func TestMustSetenv_RestoresOriginal(t *testing.T) {
	const key = "TOOLBELT_TESTUTIL_VAR"
	if err := os.Setenv(key, "original"); err != nil {
		t.Fatal(err)
	}
	defer os.Unsetenv(key)

	restore := MustSetenv(t, key, "changed")
	if got := os.Getenv(key); got != "changed" {
		t.Errorf("value = %q, want changed", got)
	}
	restore()
	if got := os.Getenv(key); got != "original" {
		t.Errorf("value after restore = %q, want original", got)
	}
}

func TestMustSetenv_UnsetsWhenPreviouslyAbsent(t *testing.T) {
	const key = "TOOLBELT_TESTUTIL_ABSENT"
	os.Unsetenv(key)

	restore := MustSetenv(t, key, "temp")
	restore()
	if _, ok := os.LookupEnv(key); ok {
		t.Error("variable should be unset after restore")
	}
}

func TestMustUnsetenv(t *testing.T) {
	const key = "TOOLBELT_TESTUTIL_UNSET"
	if err := os.Setenv(key, "value"); err != nil {
		t.Fatal(err)
	}
	defer os.Unsetenv(key)

	restore := MustUnsetenv(t, key)
	if _, ok := os.LookupEnv(key); ok {
		t.Error("variable should be unset")
	}
	restore()
	if got := os.Getenv(key); got != "value" {
		t.Errorf("value after restore = %q, want value", got)
	}
}
