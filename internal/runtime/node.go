package runtime

import (
	"context"
	"fmt"

	"github.com/Ihuangmi/hm-cra-template-demo/internal/logging"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/style"
)

// CheckNode warns when the installed Node is older than MinNode. It returns
// false only when a version was found and is unsupported; a missing node is
// left for the installer to report.
func (t *Toolchain) CheckNode(ctx context.Context) bool {
	raw, v, err := ToolVersion(ctx, "node")
	if err != nil {
		logger := logging.Get("runtime")
		logger.Debug().Err(err).Msg("Skipping Node version check")
		return true
	}
	if satisfies(v, MinNode) {
		return true
	}

	fmt.Fprintln(t.stdout(), style.Warning(
		fmt.Sprintf("You are using Node %s so the project will be bootstrapped with an old unsupported version of tools.\n\n", raw)+
			"Please update to Node 14 or higher for a better, fully supported experience.\n"))
	return false
}

// CheckNpm warns when the installed npm is older than MinNpm or reports a
// version that does not parse. Failure to run npm is silent.
func (t *Toolchain) CheckNpm(ctx context.Context) bool {
	raw, v, err := ToolVersion(ctx, "npm")
	if raw == "" {
		logger := logging.Get("runtime")
		logger.Debug().Err(err).Msg("Skipping npm version check")
		return true
	}
	if v != nil && satisfies(v, MinNpm) {
		return true
	}

	fmt.Fprintln(t.stdout(), style.Warning(
		fmt.Sprintf("You are using npm %s so the project will be bootstrapped with an old unsupported version of tools.\n\n", raw)+
			"Please update to npm 6 or higher for a better, fully supported experience.\n"))
	return false
}
