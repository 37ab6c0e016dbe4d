package version

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// MinimumGoVersion is the oldest Go runtime the setup is tested against.
const MinimumGoVersion = "1.22"

// errRuntimeTooOld indicates the binary runs on a Go runtime older than supported.
var errRuntimeTooOld = errors.New("go runtime is too old")

// EnsureRuntime verifies the executing Go runtime satisfies MinimumGoVersion.
// It must be called before any setup work begins.
func EnsureRuntime() error {
	return ensureRuntime(runtime.Version(), MinimumGoVersion)
}

// ensureRuntime compares a raw runtime.Version() string against a minimum.
// Development toolchains ("devel ...") carry no comparable version and pass
// the gate.
func ensureRuntime(current, minimum string) error {
	raw := strings.TrimPrefix(current, "go")

	currentVersion, err := goversion.NewVersion(raw)
	if err != nil {
		// Not a release toolchain, nothing to compare against.
		return nil //nolint:nilerr // Unparseable versions pass the gate on purpose.
	}

	minimumVersion, err := goversion.NewVersion(minimum)
	if err != nil {
		return fmt.Errorf("parse minimum version %q: %w", minimum, err)
	}

	if currentVersion.LessThan(minimumVersion) {
		return fmt.Errorf("%w: have %s, need at least go%s", errRuntimeTooOld, current, minimum)
	}

	return nil
}
