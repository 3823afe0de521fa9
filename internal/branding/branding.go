// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. Forks rename the tool or point it at a different
// default template by editing that file only.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName         string `yaml:"cli_name"`
	DisplayName     string `yaml:"display_name"`
	Description     string `yaml:"description"`
	HomeDir         string `yaml:"home_dir"`
	EnvPrefix       string `yaml:"env_prefix"`
	DefaultTemplate string `yaml:"default_template"`
	ExampleTemplate string `yaml:"example_template"`
	RegistryHost    string `yaml:"registry_host"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:         "hm-create-template-demo",
			DisplayName:     "HM Create Template",
			Description:     "Create a new app from an npm template package",
			HomeDir:         ".hm-create-template",
			EnvPrefix:       "HMCT",
			DefaultTemplate: "cra-hm-template-demo",
			ExampleTemplate: "cra-hm-template-demo-mobile",
			RegistryHost:    "registry.yarnpkg.com",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "hm-create-template-demo").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".hm-create-template").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "HMCT").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// DefaultTemplate returns the package installed when no --template is given.
// It is also the prefix added to bare template names.
func DefaultTemplate() string { load(); return defaults.DefaultTemplate }

// ExampleTemplate returns the template name shown in --help.
func ExampleTemplate() string { load(); return defaults.ExampleTemplate }

// RegistryHost returns the hostname probed to decide whether Yarn is online.
func RegistryHost() string { load(); return defaults.RegistryHost }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("home") → "HMCT_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
