// Package testutil holds helpers shared by tests.
package testutil

import (
	"os"
	"testing"

	"grimm.is/ifcompat/internal/brand"
)

// KernelTestEnv enables tests that talk to the running kernel.
var KernelTestEnv = brand.ConfigEnvPrefix + "_KERNEL_TEST"

// RequireKernel skips the test unless KernelTestEnv is set. Tests that open
// netlink or ethtool sockets against the host only run where that is safe.
func RequireKernel(t *testing.T) {
	t.Helper()
	if os.Getenv(KernelTestEnv) == "" {
		t.Skipf("Skipping test: requires %s environment", KernelTestEnv)
	}
}
