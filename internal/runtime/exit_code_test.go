// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"testing"
)

func TestExitCode_IsValid(t *testing.T) {
	tests := []struct {
		code ExitCode
		want bool
	}{
		{0, true},
		{1, true},
		{255, true},
		{-1, false},
		{256, false},
	}

	for _, tt := range tests {
		valid, errs := tt.code.IsValid()
		if valid != tt.want {
			t.Errorf("ExitCode(%d).IsValid() = %v, want %v", tt.code, valid, tt.want)
		}
		if !tt.want && !errors.Is(errs[0], ErrInvalidExitCode) {
			t.Errorf("ExitCode(%d) error should wrap ErrInvalidExitCode", tt.code)
		}
	}
}

func TestExitCode_IsSuccess(t *testing.T) {
	if !ExitCode(0).IsSuccess() {
		t.Error("0 should be success")
	}
	if ExitCode(1).IsSuccess() {
		t.Error("1 should not be success")
	}
}

func TestExitCode_String(t *testing.T) {
	if got := ExitCode(42).String(); got != "42" {
		t.Errorf("String() = %q, want %q", got, "42")
	}
}
