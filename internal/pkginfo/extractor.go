package pkginfo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Ihuangmi/hm-cra-template-demo/internal/logging"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/manifest"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/style"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/templatespec"
)

var (
	// Drops an optional "-<version>" suffix, e.g. react-scripts-0.2.0-alpha.1.tgz.
	archiveNamePattern = regexp.MustCompile(`^(?:.*/)?(.+?)(?:-\d+.+)?\.(?:tgz|tar\.gz)$`)
	gitNamePattern     = regexp.MustCompile(`([^/]+)\.git(?:#.*)?$`)
)

// Extractor resolves package identities.
type Extractor struct {
	httpClient *http.Client
	userAgent  string
	tempRoot   string
	out        io.Writer
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithHTTPClient sets the client used to download remote archives.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Extractor) {
		e.httpClient = c
	}
}

// WithTempRoot sets the parent directory for extraction directories.
func WithTempRoot(dir string) Option {
	return func(e *Extractor) {
		e.tempRoot = dir
	}
}

// WithOutput sets where fallback notices are printed.
func WithOutput(w io.Writer) Option {
	return func(e *Extractor) {
		e.out = w
	}
}

// WithUserAgent sets the User-Agent header for downloads.
func WithUserAgent(ua string) Option {
	return func(e *Extractor) {
		e.userAgent = ua
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		httpClient: http.DefaultClient,
		userAgent:  "hm-create-template-demo",
		out:        os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the identity of the package spec installs. Archive
// failures never produce an error; they produce a Guessed identity.
func (e *Extractor) Extract(ctx context.Context, spec templatespec.Spec) (Identity, error) {
	logger := logging.Get("pkginfo")
	logger.Debug().Str("spec", spec.Raw).Stringer("kind", spec.Kind).Msg("Extracting package identity")

	switch spec.Kind {
	case templatespec.Archive:
		return e.fromArchive(ctx, spec), nil
	case templatespec.GitURL:
		return fromGitURL(spec.Raw), nil
	case templatespec.Versioned:
		return fromVersioned(spec.Raw), nil
	case templatespec.LocalPath:
		m, err := manifest.ReadPackage(spec.Path())
		if err != nil {
			return Identity{}, fmt.Errorf("reading template package at %s: %w", spec.Path(), err)
		}
		return identityOf(m), nil
	case templatespec.BareName:
		return Identity{Name: spec.Raw}, nil
	default:
		return Identity{}, fmt.Errorf("unsupported specifier kind %s", spec.Kind)
	}
}

func (e *Extractor) fromArchive(ctx context.Context, spec templatespec.Spec) Identity {
	m, err := e.readArchiveManifest(ctx, spec)
	if err == nil {
		return identityOf(m)
	}

	name := GuessArchiveName(spec.Raw)
	fmt.Fprintf(e.out, "Could not extract the package name from the archive: %v\n", err)
	fmt.Fprintf(e.out, "Based on the filename, assuming it is \"%s\"\n", style.Command(name))
	logger := logging.Get("pkginfo")
	logger.Debug().Err(err).Str("name", name).Msg("Guessed package name from archive file name")

	return Identity{Name: name, Confidence: Guessed, Cause: err}
}

func (e *Extractor) readArchiveManifest(ctx context.Context, spec templatespec.Spec) (*manifest.PackageManifest, error) {
	tmp, err := os.MkdirTemp(e.tempRoot, "hmct-archive-")
	if err != nil {
		return nil, fmt.Errorf("creating temporary directory: %w", err)
	}
	// The OS reclaims the temp dir eventually if this fails.
	defer os.RemoveAll(tmp)

	r, err := e.openArchive(ctx, spec)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if err := unpack(r, tmp); err != nil {
		return nil, err
	}
	return manifest.ReadPackage(tmp)
}

func identityOf(m *manifest.PackageManifest) Identity {
	if v, err := m.SemVer(); err == nil {
		logger := logging.Get("pkginfo")
		logger.Debug().Str("name", m.Name).Stringer("version", v).Msg("Read template manifest")
	}
	return Identity{Name: m.Name, Version: m.Version}
}

// GuessArchiveName derives a package name from an archive path or URL by
// stripping the directory, the extension and a trailing "-<version>".
func GuessArchiveName(src string) string {
	if m := archiveNamePattern.FindStringSubmatch(src); m != nil {
		return m[1]
	}
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, ".tgz")
	return strings.TrimSuffix(base, ".tar.gz")
}

// fromGitURL takes the repository name, e.g.
// git+ssh://github.com/mycompany/react-scripts.git#v1.2.3 → react-scripts.
func fromGitURL(raw string) Identity {
	if m := gitNamePattern.FindStringSubmatch(raw); m != nil {
		return Identity{Name: m[1]}
	}
	ref, _, _ := strings.Cut(raw, "#")
	return Identity{Name: ref[strings.LastIndex(ref, "/")+1:]}
}

// fromVersioned splits name@version, keeping the leading @ of a scope.
func fromVersioned(raw string) Identity {
	if raw == "" {
		return Identity{}
	}
	name, rest, _ := strings.Cut(raw[1:], "@")
	version, _, _ := strings.Cut(rest, "@")
	return Identity{Name: raw[:1] + name, Version: version}
}
