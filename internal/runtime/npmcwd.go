package runtime

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"

	"github.com/Ihuangmi/hm-cra-template-demo/internal/logging"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/style"
)

const npmCwdPrefix = "; cwd = "

// CheckNpmCwd starts `npm config list` in dir and compares the directory npm
// reports with dir. A broken shell AutoRun on Windows can send new processes
// elsewhere. Anything that prevents the check passes it.
func (t *Toolchain) CheckNpmCwd(ctx context.Context, dir string) bool {
	logger := logging.Get("runtime")
	logging.LogCommand(logger, "npm", []string{"config", "list"}, dir)

	cmd := exec.CommandContext(ctx, "npm", "config", "list")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil && len(out) == 0 {
		logger.Debug().Err(err).Msg("Skipping npm cwd check")
		return true
	}

	npmCwd, ok := parseNpmCwd(string(out))
	if !ok || samePath(npmCwd, dir) {
		return true
	}

	w := t.stderr()
	fmt.Fprintln(w, style.Error("Could not start an npm process in the right directory.\n\n")+
		style.Error("The current directory is: ")+style.Bold(dir)+"\n"+
		style.Error("However, a newly started npm process runs in: ")+style.Bold(npmCwd)+"\n\n"+
		style.Error("This is probably caused by a misconfigured system terminal shell."))
	if goruntime.GOOS == "windows" {
		fmt.Fprintln(w, style.Error("On Windows, this can usually be fixed by running:\n\n")+
			"  "+style.Command("reg")+` delete "HKCU\Software\Microsoft\Command Processor" /v AutoRun /f`+"\n"+
			"  "+style.Command("reg")+` delete "HKLM\Software\Microsoft\Command Processor" /v AutoRun /f`+"\n\n"+
			style.Error("Try to run the above two lines in the terminal.\n")+
			style.Error("To learn more about this problem, read: https://blogs.msdn.microsoft.com/oldnewthing/20071121-00/?p=24433/"))
	}
	return false
}

// parseNpmCwd finds the "; cwd = <dir>" line of `npm config list` output.
func parseNpmCwd(output string) (string, bool) {
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if rest, ok := strings.CutPrefix(line, npmCwdPrefix); ok {
			return rest, true
		}
	}
	return "", false
}

func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	return errA == nil && errB == nil && ra == rb
}
