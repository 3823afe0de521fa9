// Package templatespec turns the user's --template value into a single
// installable package specifier and classifies it once, so later stages
// switch on Kind instead of re-matching the string.
package templatespec

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Kind is the shape of an installable specifier.
type Kind int

const (
	// BareName is a plain registry name, e.g. "cra-hm-template-demo-mobile".
	BareName Kind = iota
	// Archive is a .tgz/.tar.gz path or URL.
	Archive
	// GitURL is a "git+" URL.
	GitURL
	// Versioned is a registry name with a version or tag, e.g. "name@1.0.0".
	Versioned
	// LocalPath is a "file:" directory.
	LocalPath
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case BareName:
		return "bare-name"
	case Archive:
		return "archive"
	case GitURL:
		return "git-url"
	case Versioned:
		return "versioned"
	case LocalPath:
		return "local-path"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// FilePrefix marks local directory specifiers.
const FilePrefix = "file:"

var (
	archivePattern   = regexp.MustCompile(`^.+\.(tgz|tar\.gz)$`)
	packagePattern   = regexp.MustCompile(`^(@[^/]+/)?([^@]+)?(@.+)?$`)
	versionedPattern = regexp.MustCompile(`.+@`)
)

// Spec is a resolved, classified installable specifier.
type Spec struct {
	Kind Kind
	// Raw is passed verbatim to the package manager.
	Raw string
}

// String returns Raw.
func (s Spec) String() string { return s.Raw }

// Path returns the directory of a LocalPath spec.
func (s Spec) Path() string {
	return strings.TrimPrefix(s.Raw, FilePrefix)
}

// IsRemote reports whether an Archive spec is fetched over HTTP.
func (s Spec) IsRemote() bool {
	return s.Kind == Archive && strings.HasPrefix(s.Raw, "http")
}

// Resolve maps the user's template value to an installable specifier.
// template may be empty; originalDir anchors relative file: paths;
// defaultName is both the default package and the prefix for bare names.
func Resolve(template, originalDir, defaultName string) Spec {
	return Classify(resolveRaw(template, originalDir, defaultName))
}

func resolveRaw(template, originalDir, defaultName string) string {
	if template == "" {
		return defaultName
	}

	if strings.HasPrefix(template, FilePrefix) {
		rel := strings.TrimPrefix(template, FilePrefix)
		abs := rel
		if !filepath.IsAbs(rel) {
			abs = filepath.Join(originalDir, rel)
		}
		return FilePrefix + filepath.Clean(abs)
	}

	if strings.Contains(template, "://") || archivePattern.MatchString(template) {
		return template
	}

	m := packagePattern.FindStringSubmatch(template)
	if m == nil {
		return template
	}
	scope, name, version := m[1], m[2], m[3]

	switch {
	case name == defaultName || strings.HasPrefix(name, defaultName+"-"):
		// cra-hm-template-demo, @SCOPE/cra-hm-template-demo-NAME, ...
		return scope + name + version
	case version != "" && scope == "" && name == "":
		// "@SCOPE" alone. The version group captured the scope, so this
		// yields "@SCOPE/<default>".
		return version + "/" + defaultName
	default:
		// NAME, @SCOPE/NAME, NAME@VERSION
		return scope + defaultName + "-" + name + version
	}
}

// Classify determines the Kind of an installable specifier. Precedence:
// archive, git URL, versioned registry name, local path, bare name.
func Classify(raw string) Spec {
	switch {
	case archivePattern.MatchString(raw):
		return Spec{Kind: Archive, Raw: raw}
	case strings.HasPrefix(raw, "git+"):
		return Spec{Kind: GitURL, Raw: raw}
	case versionedPattern.MatchString(raw):
		return Spec{Kind: Versioned, Raw: raw}
	case strings.HasPrefix(raw, FilePrefix):
		return Spec{Kind: LocalPath, Raw: raw}
	default:
		return Spec{Kind: BareName, Raw: raw}
	}
}
