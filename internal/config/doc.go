// Package config loads user-level settings from ~/.hm-create-template/config.yaml
// and the environment. Besides the HMCT_* overrides it binds the raw
// npm_config_user_agent and https_proxy variables that npm and Yarn export,
// so the rest of the tool never reads the process environment directly.
package config
