package pkgmanager

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ihuangmi/hm-cra-template-demo/internal/style"
)

func init() {
	style.DisableColor()
}

// fakeBin puts a shell script named name on PATH. The script records its
// working directory and arguments to a log file and exits with code.
func fakeBin(t *testing.T, name string, code int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake binaries are shell scripts")
	}
	binDir := t.TempDir()
	logPath := filepath.Join(binDir, name+".log")
	script := "#!/bin/sh\n" +
		"echo \"cwd=$(pwd)\" > " + logPath + "\n" +
		"echo \"args=$*\" >> " + logPath + "\n" +
		"exit " + strconv.Itoa(code) + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(binDir, name), []byte(script), 0755))
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return logPath
}

func readLog(t *testing.T, path string) (cwd, args string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if v, ok := strings.CutPrefix(line, "cwd="); ok {
			cwd = v
		}
		if v, ok := strings.CutPrefix(line, "args="); ok {
			args = v
		}
	}
	return cwd, args
}

func TestDetect(t *testing.T) {
	tests := []struct {
		ua, override string
		want         Kind
	}{
		{"yarn/1.22.19 npm/? node/v18.17.0 darwin arm64", "", Yarn},
		{"npm/9.6.7 node/v18.17.0 darwin arm64 workspaces/false", "", Npm},
		{"", "", Npm},
		{"npm/9.6.7 node/v18.17.0", "yarn", Yarn},
		{"yarn/1.22.19", "NPM", Npm},
		{"yarn/1.22.19", "bogus", Yarn},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Detect(tt.ua, tt.override), "ua=%q override=%q", tt.ua, tt.override)
	}
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, "npm", Npm.String())
	assert.Equal(t, "yarn", Yarn.String())
	assert.Equal(t, "npm", Npm.Bin())
	assert.Equal(t, "yarnpkg", Yarn.Bin())
}

func TestInstallArgs(t *testing.T) {
	deps := []string{"cra-hm-template-demo-mobile@1.0.0"}

	assert.Equal(t,
		[]string{"install", "--no-audit", "--save", "--save-exact", "--loglevel", "error", "cra-hm-template-demo-mobile@1.0.0"},
		New(Npm).InstallArgs("/work/app", deps, false),
		"npm ignores the online flag")

	assert.Equal(t,
		[]string{"add", "--exact", "cra-hm-template-demo-mobile@1.0.0", "--cwd", "/work/app"},
		New(Yarn).InstallArgs("/work/app", deps, true))

	assert.Equal(t,
		[]string{"add", "--exact", "--offline", "cra-hm-template-demo-mobile@1.0.0", "--cwd", "/work/app"},
		New(Yarn).InstallArgs("/work/app", deps, false))
}

func TestInstall_RunsInRoot(t *testing.T) {
	logPath := fakeBin(t, "npm", 0)
	root := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)

	var out bytes.Buffer
	inst := New(Npm, WithStdio(strings.NewReader(""), &out, &out))
	require.NoError(t, inst.Install(context.Background(), root, []string{"my-template"}, true))

	cwd, args := readLog(t, logPath)
	resolvedRoot, _ := filepath.EvalSymlinks(root)
	resolvedCwd, _ := filepath.EvalSymlinks(cwd)
	assert.Equal(t, resolvedRoot, resolvedCwd)
	assert.Equal(t, "install --no-audit --save --save-exact --loglevel error my-template", args)

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, after, "process working directory must not change")
}

func TestInstall_YarnOfflineNotice(t *testing.T) {
	logPath := fakeBin(t, "yarnpkg", 0)
	root := t.TempDir()

	var out bytes.Buffer
	inst := New(Yarn, WithStdio(strings.NewReader(""), &out, &out))
	require.NoError(t, inst.Install(context.Background(), root, []string{"my-template"}, false))

	assert.Contains(t, out.String(), "You appear to be offline.\nFalling back to the local Yarn cache.\n")
	_, args := readLog(t, logPath)
	assert.Equal(t, "add --exact --offline my-template --cwd "+root, args)
}

func TestInstall_NonZeroExit(t *testing.T) {
	fakeBin(t, "npm", 1)

	var out bytes.Buffer
	inst := New(Npm, WithStdio(strings.NewReader(""), &out, &out))
	err := inst.Install(context.Background(), t.TempDir(), []string{"my-template"}, true)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr), "got %v", err)
	assert.Equal(t, "npm install --no-audit --save --save-exact --loglevel error my-template", cmdErr.Command)
	assert.Equal(t, 1, cmdErr.ExitCode)
}

func TestInstall_MissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	inst := New(Yarn, WithStdio(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}))
	err := inst.Install(context.Background(), t.TempDir(), []string{"x"}, true)

	require.Error(t, err)
	var cmdErr *CommandError
	assert.False(t, errors.As(err, &cmdErr), "spawn failures are not command failures")
}

func TestRemove(t *testing.T) {
	logPath := fakeBin(t, "yarnpkg", 0)
	root := t.TempDir()

	inst := New(Yarn, WithStdio(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}))
	require.NoError(t, inst.Remove(context.Background(), root, "my-template"))

	_, args := readLog(t, logPath)
	assert.Equal(t, "remove my-template --cwd "+root, args)
	assert.Equal(t, []string{"uninstall", "--no-audit", "--save", "--loglevel", "error", "my-template"}, New(Npm).RemoveArgs(root, "my-template"))
}
