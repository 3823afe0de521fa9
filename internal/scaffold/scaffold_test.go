package scaffold

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Ihuangmi/hm-cra-template-demo/internal/errors"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/pkginfo"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/pkgmanager"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/style"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/templatedir"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/templatespec"
)

func init() {
	style.DisableColor()
}

// fakeInstaller simulates a package manager. On success it writes
// package.json and node_modules/<name>/ with a template directory.
type fakeInstaller struct {
	err          error
	withTemplate bool
	root         string
	deps         []string
	online       bool
}

func (f *fakeInstaller) Install(_ context.Context, root string, deps []string, online bool) error {
	f.root, f.deps, f.online = root, deps, online
	if err := os.WriteFile(filepath.Join(root, "package.json"), []byte(`{"name":"x"}`), 0644); err != nil {
		return err
	}
	pkg := filepath.Join(root, "node_modules", "cra-hm-template-demo-mobile")
	if err := os.MkdirAll(pkg, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(pkg, "package.json"), []byte(`{"name":"cra-hm-template-demo-mobile"}`), 0644); err != nil {
		return err
	}
	if f.withTemplate {
		if err := os.MkdirAll(filepath.Join(pkg, "template", "src"), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(pkg, "template", "src", "main.tsx"), []byte("render()"), 0644); err != nil {
			return err
		}
	}
	return f.err
}

type fakeExtractor struct {
	err  error
	spec templatespec.Spec
}

func (f *fakeExtractor) Extract(_ context.Context, spec templatespec.Spec) (pkginfo.Identity, error) {
	f.spec = spec
	if f.err != nil {
		return pkginfo.Identity{}, f.err
	}
	return pkginfo.Identity{Name: "cra-hm-template-demo-mobile"}, nil
}

type fakeProber struct{ online bool }

func (f fakeProber) Online(context.Context, bool) bool { return f.online }

type fakeToolchain struct {
	cwdOK    bool
	cwdCalls int
}

func (f *fakeToolchain) CheckNode(context.Context) bool { return true }
func (f *fakeToolchain) CheckNpm(context.Context) bool  { return true }
func (f *fakeToolchain) CheckNpmCwd(context.Context, string) bool {
	f.cwdCalls++
	return f.cwdOK
}

type harness struct {
	env       *Env
	out       *bytes.Buffer
	installer *fakeInstaller
	extractor *fakeExtractor
	toolchain *fakeToolchain
	parent    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	var out bytes.Buffer
	h := &harness{
		out:       &out,
		installer: &fakeInstaller{withTemplate: true},
		extractor: &fakeExtractor{},
		toolchain: &fakeToolchain{cwdOK: true},
		parent:    t.TempDir(),
	}
	h.env = &Env{
		Out:             &out,
		ErrOut:          &out,
		Installer:       h.installer,
		Extractor:       h.extractor,
		Prober:          fakeProber{online: true},
		Materializer:    &templatedir.Materializer{Out: &out, ErrOut: &out},
		Toolchain:       h.toolchain,
		WorkDir:         h.parent,
		DefaultTemplate: "cra-hm-template-demo",
	}
	return h
}

func TestCreateApp_Success(t *testing.T) {
	h := newHarness(t)
	wd, err := os.Getwd()
	require.NoError(t, err)

	err = CreateApp(context.Background(), h.env, Request{ProjectName: "my-app", Template: "mobile"})
	require.NoError(t, err)

	root := filepath.Join(h.parent, "my-app")
	assert.Equal(t, root, h.installer.root)
	assert.Equal(t, []string{"cra-hm-template-demo-mobile"}, h.installer.deps)
	assert.Equal(t, templatespec.BareName, h.extractor.spec.Kind)

	assert.FileExists(t, filepath.Join(root, "src", "main.tsx"))
	assert.NoDirExists(t, filepath.Join(root, "node_modules"))
	assert.NoFileExists(t, filepath.Join(root, "package.json"), "installer package.json is replaced by the template's files")

	assert.Contains(t, h.out.String(), "Creating a new app in "+root+".")
	assert.Contains(t, h.out.String(), "Success! Created my-app at "+root)
	assert.Equal(t, 1, h.toolchain.cwdCalls)

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, after)
}

func TestCreateApp_YarnSkipsNpmChecks(t *testing.T) {
	h := newHarness(t)
	h.toolchain.cwdOK = false

	err := CreateApp(context.Background(), h.env, Request{ProjectName: "my-app", UseYarn: true})
	require.NoError(t, err)
	assert.Zero(t, h.toolchain.cwdCalls)
	assert.Equal(t, []string{"cra-hm-template-demo"}, h.installer.deps)
}

func TestCreateApp_InvalidName(t *testing.T) {
	h := newHarness(t)

	err := CreateApp(context.Background(), h.env, Request{ProjectName: "React"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidName), "got %v", err)
	assert.Contains(t, h.out.String(), "npm naming restrictions")
	assert.NoDirExists(t, filepath.Join(h.parent, "React"))
	assert.Nil(t, h.installer.deps)
}

func TestCreateApp_ReservedName(t *testing.T) {
	h := newHarness(t)

	err := CreateApp(context.Background(), h.env, Request{ProjectName: "react-dom"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidName), "got %v", err)
	assert.Contains(t, h.out.String(), "a dependency with the same name exists")
}

func TestCreateApp_UnsafeDirectory(t *testing.T) {
	h := newHarness(t)
	root := filepath.Join(h.parent, "my-app")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte("{}"), 0644))

	err := CreateApp(context.Background(), h.env, Request{ProjectName: "my-app"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnsafeDirectory), "got %v", err)
	assert.Contains(t, h.out.String(), "The directory my-app contains files that could conflict:")
	assert.Contains(t, h.out.String(), "  src/\n")
	assert.Contains(t, h.out.String(), "  package.json\n")
	assert.FileExists(t, filepath.Join(root, "package.json"), "nothing is rolled back before the pipeline starts")
}

func TestCreateApp_NpmCwdMismatch(t *testing.T) {
	h := newHarness(t)
	h.toolchain.cwdOK = false

	err := CreateApp(context.Background(), h.env, Request{ProjectName: "my-app"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNpmCwdMismatch), "got %v", err)
	assert.Nil(t, h.installer.deps)
}

func TestRun_InstallFailureRollsBack(t *testing.T) {
	h := newHarness(t)
	h.installer.err = &pkgmanager.CommandError{Command: "npm install --no-audit cra-hm-template-demo", ExitCode: 1}
	root := filepath.Join(h.parent, "my-app")
	require.NoError(t, os.MkdirAll(root, 0755))

	err := Run(context.Background(), h.env, Options{Root: root, AppName: "my-app", OriginalDir: h.parent})

	assert.True(t, apperrors.IsCode(err, apperrors.ErrAborted), "got %v", err)
	var cmdErr *pkgmanager.CommandError
	assert.True(t, errors.As(err, &cmdErr))

	out := h.out.String()
	assert.Contains(t, out, "Aborting installation.\n  npm install --no-audit cra-hm-template-demo has failed.\n")
	assert.Contains(t, out, "Deleting generated file... package.json\n")
	assert.Contains(t, out, "Deleting generated file... node_modules\n")
	assert.Contains(t, out, "Deleting my-app/ from "+h.parent+"\n")
	assert.Contains(t, out, "Done.\n")
	assert.NoDirExists(t, root)
}

func TestRun_RollbackKeepsUserFiles(t *testing.T) {
	h := newHarness(t)
	h.installer.err = &pkgmanager.CommandError{Command: "yarnpkg add --exact x", ExitCode: 1}
	root := filepath.Join(h.parent, "my-app")
	require.NoError(t, os.MkdirAll(root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("hi"), 0644))

	err := Run(context.Background(), h.env, Options{Root: root, AppName: "my-app", OriginalDir: h.parent})
	require.Error(t, err)

	assert.FileExists(t, filepath.Join(root, "README.md"))
	assert.NoFileExists(t, filepath.Join(root, "package.json"))
	assert.NotContains(t, h.out.String(), "Deleting my-app/")
}

func TestRun_UnexpectedError(t *testing.T) {
	h := newHarness(t)
	h.extractor.err = errors.New("reading template package: boom")
	root := filepath.Join(h.parent, "my-app")
	require.NoError(t, os.MkdirAll(root, 0755))

	err := Run(context.Background(), h.env, Options{Root: root, AppName: "my-app", OriginalDir: h.parent})

	assert.True(t, apperrors.IsCode(err, apperrors.ErrAborted), "got %v", err)
	assert.Contains(t, h.out.String(), "Unexpected error. Please report it as a bug:\nreading template package: boom\n")
	assert.Nil(t, h.installer.deps, "install must not run after a failed stage")
	assert.NoDirExists(t, root)
}

func TestRun_MissingTemplateDirRollsBack(t *testing.T) {
	h := newHarness(t)
	h.installer.withTemplate = false
	root := filepath.Join(h.parent, "my-app")
	require.NoError(t, os.MkdirAll(root, 0755))

	err := Run(context.Background(), h.env, Options{Root: root, AppName: "my-app", OriginalDir: h.parent})

	assert.True(t, apperrors.IsCode(err, apperrors.ErrAborted), "got %v", err)
	assert.ErrorIs(t, err, apperrors.New(apperrors.ErrTemplateNotFound, ""))
	assert.Contains(t, h.out.String(), "Could not locate supplied template: ")
	assert.NoDirExists(t, root)
}

func TestRun_PassesOnlineFlag(t *testing.T) {
	h := newHarness(t)
	h.env.Prober = fakeProber{online: false}
	root := filepath.Join(h.parent, "my-app")
	require.NoError(t, os.MkdirAll(root, 0755))

	require.NoError(t, Run(context.Background(), h.env, Options{Root: root, AppName: "my-app", UseYarn: true}))
	assert.False(t, h.installer.online)
}

func TestRun_LocalTemplateResolvedAgainstOriginalDir(t *testing.T) {
	h := newHarness(t)
	root := filepath.Join(h.parent, "my-app")
	require.NoError(t, os.MkdirAll(root, 0755))

	require.NoError(t, Run(context.Background(), h.env, Options{
		Root: root, AppName: "my-app", OriginalDir: h.parent, Template: "file:../tpl",
	}))
	assert.Equal(t, templatespec.LocalPath, h.extractor.spec.Kind)
	assert.Equal(t, "file:"+filepath.Join(filepath.Dir(h.parent), "tpl"), h.extractor.spec.Raw)
}
