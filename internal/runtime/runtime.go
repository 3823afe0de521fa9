package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/Ihuangmi/hm-cra-template-demo/internal/logging"
)

// Minimum supported versions.
const (
	MinNode = ">=14"
	MinNpm  = ">=6.0.0"
)

// Toolchain runs node and npm to check the local installation.
type Toolchain struct {
	// Stdout and Stderr can be set for testing; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

func (t *Toolchain) stdout() io.Writer {
	if t.Stdout == nil {
		return os.Stdout
	}
	return t.Stdout
}

func (t *Toolchain) stderr() io.Writer {
	if t.Stderr == nil {
		return os.Stderr
	}
	return t.Stderr
}

// ToolVersion runs `<bin> --version` and returns the raw output with the
// version it parses to.
func ToolVersion(ctx context.Context, bin string) (string, *semver.Version, error) {
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", nil, fmt.Errorf("%s not found: %w", bin, err)
	}

	logging.LogCommand(logging.Get("runtime"), path, []string{"--version"}, "")
	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "", nil, fmt.Errorf("running %s --version: %w", bin, err)
	}

	raw := strings.TrimSpace(string(out))
	v, err := Coerce(raw)
	if err != nil {
		return raw, nil, err
	}
	return raw, v, nil
}

// Coerce parses a version string and drops any prerelease or build
// metadata, so "v15.0.0-nightly2020" compares as 15.0.0.
func Coerce(raw string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", raw, err)
	}
	return semver.New(v.Major(), v.Minor(), v.Patch(), "", ""), nil
}

func satisfies(v *semver.Version, constraint string) bool {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false
	}
	return c.Check(v)
}
