package manifest

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// FileName is the manifest file name at a package root.
const FileName = "package.json"

// PackageManifest holds the package.json fields the scaffolder reads.
type PackageManifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version,omitempty"`
	Description     string            `json:"description,omitempty"`
	Private         bool              `json:"private,omitempty"`
	Main            string            `json:"main,omitempty"`
	Files           []string          `json:"files,omitempty"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// SemVer parses Version. A leading "v" is tolerated.
func (m *PackageManifest) SemVer() (*semver.Version, error) {
	if m.Version == "" {
		return nil, fmt.Errorf("package %s has no version", m.Name)
	}
	v, err := semver.NewVersion(m.Version)
	if err != nil {
		return nil, fmt.Errorf("package %s: invalid version %q: %w", m.Name, m.Version, err)
	}
	return v, nil
}
