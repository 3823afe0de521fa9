//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// fakeNpm answers the npm subcommands the tool uses. "install" writes a
// package.json and installs the last argument as a template package under
// node_modules, unless FAKE_NPM_FAIL is set.
const fakeNpm = `#!/bin/sh
case "$1" in
--version)
	echo "9.6.7"
	;;
config)
	if [ "$2" = "list" ]; then
		echo "; cwd = $(pwd)"
	else
		echo "null"
	fi
	;;
install|add)
	if [ -n "$FAKE_NPM_FAIL" ]; then
		echo '{"name":"partial"}' > package.json
		mkdir -p node_modules/.cache
		exit 1
	fi
	dir=$(pwd)
	pkg=""
	prev=""
	for a in "$@"; do
		if [ "$prev" = "--cwd" ]; then
			dir="$a"
		else
			case "$a" in
			-*|install|add) ;;
			*) pkg="$a" ;;
			esac
		fi
		prev="$a"
	done
	if [ "$pkg" = "$dir" ]; then pkg=""; fi
	cd "$dir" || exit 2
	echo '{"name":"app","dependencies":{}}' > package.json
	mkdir -p "node_modules/$pkg/template/src"
	echo "{\"name\":\"$pkg\",\"version\":\"1.0.0\"}" > "node_modules/$pkg/package.json"
	echo '{"name":"from-template","private":true}' > "node_modules/$pkg/template/package.json"
	echo 'export default 1' > "node_modules/$pkg/template/src/App.tsx"
	;;
*)
	exit 3
	;;
esac
`

const fakeNode = `#!/bin/sh
echo "v18.17.0"
`

// testEnv is an isolated HOME, PATH and working area.
type testEnv struct {
	HomeDir string
	WorkDir string
	BinDir  string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake package managers are shell scripts")
	}

	env := &testEnv{
		HomeDir: t.TempDir(),
		WorkDir: t.TempDir(),
		BinDir:  t.TempDir(),
	}

	writeScript(t, filepath.Join(env.BinDir, "npm"), fakeNpm)
	writeScript(t, filepath.Join(env.BinDir, "yarnpkg"), fakeNpm)
	writeScript(t, filepath.Join(env.BinDir, "node"), fakeNode)

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("PATH", env.BinDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("npm_config_user_agent", "")
	t.Setenv("https_proxy", "")
	t.Setenv("FAKE_NPM_FAIL", "")
	return env
}

func writeScript(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatal(err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err == nil {
		t.Errorf("expected %s not to exist", path)
	}
}
