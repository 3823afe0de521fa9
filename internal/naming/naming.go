// Package naming validates proposed project names against npm's package
// naming rules and the list of names reserved by the template's own
// dependencies.
package naming

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	apperrors "github.com/Ihuangmi/hm-cra-template-demo/internal/errors"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/style"
)

// MaxLength is the longest name npm accepts for new packages.
const MaxLength = 214

var (
	scopedPackagePattern = regexp.MustCompile(`^(?:@([^/]+?)[/])?([^/]+?)$`)
	specialChars         = regexp.MustCompile(`[~'!()*]`)

	blacklist = []string{"node_modules", "favicon.ico"}

	// coreModules are Node built-ins; npm still installs them but warns.
	coreModules = []string{
		"assert", "async_hooks", "buffer", "child_process", "cluster", "console",
		"constants", "crypto", "dgram", "diagnostics_channel", "dns", "domain",
		"events", "fs", "http", "http2", "https", "inspector", "module", "net",
		"os", "path", "perf_hooks", "process", "punycode", "querystring",
		"readline", "repl", "stream", "string_decoder", "sys", "timers", "tls",
		"trace_events", "tty", "url", "util", "v8", "vm", "wasi",
		"worker_threads", "zlib",
	}
)

// ReservedNames collide with dependencies of the generated project.
var ReservedNames = []string{"react", "react-dom", "react-scripts"}

// Result holds every problem found with a name.
type Result struct {
	Errors   []string
	Warnings []string
}

// ValidForNewPackages reports whether npm would publish a new package with
// this name: no errors and no warnings.
func (r Result) ValidForNewPackages() bool {
	return len(r.Errors) == 0 && len(r.Warnings) == 0
}

// ValidForOldPackages reports whether the name is acceptable for packages
// that predate the stricter rules.
func (r Result) ValidForOldPackages() bool {
	return len(r.Errors) == 0
}

// Problems returns errors followed by warnings.
func (r Result) Problems() []string {
	out := make([]string, 0, len(r.Errors)+len(r.Warnings))
	out = append(out, r.Errors...)
	return append(out, r.Warnings...)
}

// Validate applies npm's package naming rules. It is a pure function of name.
func Validate(name string) Result {
	var r Result

	if len(name) == 0 {
		r.Errors = append(r.Errors, "name length must be greater than zero")
	}
	if strings.HasPrefix(name, ".") {
		r.Errors = append(r.Errors, "name cannot start with a period")
	}
	if strings.HasPrefix(name, "_") {
		r.Errors = append(r.Errors, "name cannot start with an underscore")
	}
	if strings.TrimSpace(name) != name {
		r.Errors = append(r.Errors, "name cannot contain leading or trailing spaces")
	}

	lower := strings.ToLower(name)
	for _, b := range blacklist {
		if lower == b {
			r.Errors = append(r.Errors, b+" is a blacklisted name")
		}
	}
	for _, m := range coreModules {
		if lower == m {
			r.Warnings = append(r.Warnings, m+" is a core module name")
		}
	}

	if len(name) > MaxLength {
		r.Warnings = append(r.Warnings, fmt.Sprintf("name can no longer contain more than %d characters", MaxLength))
	}
	if lower != name {
		r.Warnings = append(r.Warnings, "name can no longer contain capital letters")
	}
	segments := strings.Split(name, "/")
	if specialChars.MatchString(segments[len(segments)-1]) {
		r.Warnings = append(r.Warnings, `name can no longer contain special characters ("~'!()*")`)
	}

	if !uriComponentSafe(name) && !validScopedName(name) {
		r.Errors = append(r.Errors, "name can only contain URL-friendly characters")
	}

	return r
}

// validScopedName accepts "@scope/name" where both parts are URL-friendly.
func validScopedName(name string) bool {
	m := scopedPackagePattern.FindStringSubmatch(name)
	if m == nil || !strings.HasPrefix(name, "@") {
		return false
	}
	return uriComponentSafe(m[1]) && uriComponentSafe(m[2])
}

// uriComponentSafe reports whether s survives URI component encoding
// unchanged: ASCII letters, digits and -_.!~*'().
func uriComponentSafe(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.IndexByte("-_.!~*'()", c) >= 0:
		default:
			return false
		}
	}
	return true
}

// IsReserved reports whether name is one of ReservedNames.
func IsReserved(name string) bool {
	for _, r := range ReservedNames {
		if r == name {
			return true
		}
	}
	return false
}

// Check validates appName, printing every violation to w. It returns a
// coded error when the name cannot be used.
func Check(w io.Writer, appName string) error {
	result := Validate(appName)
	if !result.ValidForNewPackages() {
		fmt.Fprintln(w, style.Error(fmt.Sprintf("Cannot create a project named %s because of npm naming restrictions:\n",
			style.Name(fmt.Sprintf("%q", appName)))))
		for _, p := range result.Problems() {
			fmt.Fprintln(w, style.Error("  * "+p))
		}
		fmt.Fprintln(w, style.Error("\nPlease choose a different project name."))
		return apperrors.Newf(apperrors.ErrInvalidName, "invalid project name %q: %s", appName, strings.Join(result.Problems(), "; "))
	}

	if IsReserved(appName) {
		deps := append([]string(nil), ReservedNames...)
		sort.Strings(deps)
		lines := make([]string, len(deps))
		for i, d := range deps {
			lines[i] = "  " + d
		}
		fmt.Fprintln(w, style.Error(fmt.Sprintf("Cannot create a project named %s because a dependency with the same name exists.\n"+
			"Due to the way npm works, the following names are not allowed:\n\n", style.Name(fmt.Sprintf("%q", appName))))+
			style.Command(strings.Join(lines, "\n"))+
			style.Error("\n\nPlease choose a different project name."))
		return apperrors.Newf(apperrors.ErrInvalidName, "project name %q collides with a dependency", appName)
	}

	return nil
}
