// Package netcheck decides whether Yarn should install from the network or
// fall back to its offline cache.
package netcheck

import (
	"context"
	"net"
	"net/url"
	"os/exec"
	"strings"

	"github.com/Ihuangmi/hm-cra-template-demo/internal/branding"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/logging"
)

// Resolver looks up host names. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// ProxySource returns the configured npm HTTPS proxy, or "" when unset.
type ProxySource func(ctx context.Context) string

// Prober checks registry reachability.
type Prober struct {
	resolver     Resolver
	registryHost string
	httpsProxy   string
	npmProxy     ProxySource
}

// Option configures a Prober.
type Option func(*Prober)

// WithResolver replaces the DNS resolver.
func WithResolver(r Resolver) Option {
	return func(p *Prober) {
		p.resolver = r
	}
}

// WithRegistryHost sets the host that must resolve for Yarn to be online.
func WithRegistryHost(host string) Option {
	return func(p *Prober) {
		if host != "" {
			p.registryHost = host
		}
	}
}

// WithHTTPSProxy sets the proxy taken from the environment. It wins over
// npm's configuration.
func WithHTTPSProxy(proxy string) Option {
	return func(p *Prober) {
		p.httpsProxy = proxy
	}
}

// WithNpmProxySource replaces the `npm config get https-proxy` lookup.
func WithNpmProxySource(src ProxySource) Option {
	return func(p *Prober) {
		p.npmProxy = src
	}
}

// New creates a Prober.
func New(opts ...Option) *Prober {
	p := &Prober{
		resolver:     net.DefaultResolver,
		registryHost: branding.RegistryHost(),
		npmProxy:     NpmConfigProxy,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Online reports whether installs should hit the network. npm is always
// treated as online. For Yarn the registry host must resolve, or failing
// that the host of the configured HTTPS proxy.
func (p *Prober) Online(ctx context.Context, useYarn bool) bool {
	if !useYarn {
		return true
	}
	logger := logging.Get("netcheck")

	_, err := p.resolver.LookupHost(ctx, p.registryHost)
	if err == nil {
		logger.Debug().Str("host", p.registryHost).Msg("Registry resolved")
		return true
	}
	logger.Debug().Err(err).Str("host", p.registryHost).Msg("Registry lookup failed")

	proxy := p.proxy(ctx)
	if proxy == "" {
		return false
	}
	u, err := url.Parse(proxy)
	if err != nil || u.Hostname() == "" {
		logger.Debug().Str("proxy", proxy).Msg("Unusable proxy URL")
		return false
	}
	_, err = p.resolver.LookupHost(ctx, u.Hostname())
	logger.Debug().Err(err).Str("proxy", u.Hostname()).Msg("Proxy lookup")
	return err == nil
}

func (p *Prober) proxy(ctx context.Context) string {
	if p.httpsProxy != "" {
		return p.httpsProxy
	}
	if p.npmProxy == nil {
		return ""
	}
	return p.npmProxy(ctx)
}

// NpmConfigProxy runs `npm config get https-proxy`. npm prints "null" when
// the key is unset; that and any failure yield "".
func NpmConfigProxy(ctx context.Context) string {
	out, err := exec.CommandContext(ctx, "npm", "config", "get", "https-proxy").Output()
	if err != nil {
		return ""
	}
	proxy := strings.TrimSpace(string(out))
	if proxy == "null" || proxy == "undefined" {
		return ""
	}
	return proxy
}
