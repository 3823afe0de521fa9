package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ihuangmi/hm-cra-template-demo/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys.
const (
	KeyDefaultTemplate   = "template.default"
	KeyUninstallTemplate = "template.uninstall"
	KeyRegistryHost      = "registry.host"
	KeyPackageManager    = "package_manager"
	KeyHTTPSProxy        = "https_proxy"
	KeyUserAgent         = "npm_config_user_agent"
)

// Settings is the resolved configuration for one run.
type Settings struct {
	// DefaultTemplate is installed when no --template is given.
	DefaultTemplate string
	// UninstallTemplate removes the template package from the new project's
	// dependencies after its files were copied. Off by default.
	UninstallTemplate bool
	// RegistryHost is resolved to decide whether Yarn can reach the network.
	RegistryHost string
	// PackageManager forces "npm" or "yarn"; empty means detect from UserAgent.
	PackageManager string
	// HTTPSProxy comes from the https_proxy environment variable.
	HTTPSProxy string
	// UserAgent is npm_config_user_agent as exported by npm/Yarn.
	UserAgent string
}

// Dir returns the path to the config directory (~/.hm-create-template/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Load reads the config file (if present) and the environment.
func Load() (*Settings, error) {
	return LoadFile(FilePath())
}

// LoadFile is Load with an explicit config file path. A missing file is not
// an error.
func LoadFile(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDefaultTemplate, branding.DefaultTemplate())
	v.SetDefault(KeyUninstallTemplate, false)
	v.SetDefault(KeyRegistryHost, branding.RegistryHost())
	v.SetDefault(KeyPackageManager, "")

	// These are exported by npm and Yarn themselves, without our prefix.
	if err := v.BindEnv(KeyHTTPSProxy, "https_proxy"); err != nil {
		return nil, fmt.Errorf("binding %s: %w", KeyHTTPSProxy, err)
	}
	if err := v.BindEnv(KeyUserAgent, "npm_config_user_agent"); err != nil {
		return nil, fmt.Errorf("binding %s: %w", KeyUserAgent, err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	s := &Settings{
		DefaultTemplate:   v.GetString(KeyDefaultTemplate),
		UninstallTemplate: v.GetBool(KeyUninstallTemplate),
		RegistryHost:      v.GetString(KeyRegistryHost),
		PackageManager:    strings.ToLower(v.GetString(KeyPackageManager)),
		HTTPSProxy:        v.GetString(KeyHTTPSProxy),
		UserAgent:         v.GetString(KeyUserAgent),
	}

	switch s.PackageManager {
	case "", "npm", "yarn":
	default:
		return nil, fmt.Errorf("%s (%s) must be 'npm' or 'yarn', got %q",
			KeyPackageManager, branding.EnvVar(KeyPackageManager), s.PackageManager)
	}

	return s, nil
}
