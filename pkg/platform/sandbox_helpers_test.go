// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

// Test-only adapters bridging the test scaffolding identifiers to the
// sync.OnceValue-based implementation in sandbox.go.

// resetSandboxDetection clears the cached detection result by reinstalling a
// fresh sync.OnceValue, mirroring the production initializer.
func resetSandboxDetection() {
	detectedSandbox = SandboxNone
	detectOnce = sync.OnceValue(func() SandboxType {
		return detectSandboxFrom(os.Getenv, statFile)
	})
}

// detectSandboxInternal performs an uncached detection using the real OS
// lookups, matching what the production initializer runs.
func detectSandboxInternal() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
}

// detectedSandbox holds a value injected by tests via sandboxOnce.Do.
var detectedSandbox SandboxType

// sandboxOnce lets tests seed the detection cache directly: after the
// provided function assigns detectedSandbox, the cached result is pinned
// to that value until resetSandboxDetection is called.
var sandboxOnce = sandboxOnceShim{}

type sandboxOnceShim struct{}

func (sandboxOnceShim) Do(f func()) {
	f()
	v := detectedSandbox
	detectOnce = func() SandboxType { return v }
}
