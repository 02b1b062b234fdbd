package core_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/stitch/pkg/adapters/fs"
	"github.com/aretw0/stitch/pkg/core"
)

type site struct {
	root     string
	content  string
	partials string
	output   string
	logs     *bytes.Buffer
}

// setupSite lays out partials and a small content tree under a temp dir.
func setupSite(t *testing.T) *site {
	t.Helper()
	root := t.TempDir()
	s := &site{
		root:     root,
		content:  filepath.Join(root, "content"),
		partials: filepath.Join(root, "partials"),
		output:   filepath.Join(root, "public"),
		logs:     &bytes.Buffer{},
	}
	s.write(t, "partials/head.html", "<html><head><title>{{title}}</title></head>\n")
	s.write(t, "partials/header.html", "<body><header>site</header>\n")
	s.write(t, "partials/footer.html", "<footer>bye</footer></body></html>\n")
	s.write(t, "content/about.html", "<body id=\"our-team\">\n<p>About us</p>\n")
	s.write(t, "content/contact-us.html", "<p>Write to us</p>\n")
	s.write(t, "content/blog/first-post.html", "<p>First!</p>\n")
	s.write(t, "content/css/site.css", "body { color: red; }\n")
	return s
}

func (s *site) write(t *testing.T, rel, content string) {
	t.Helper()
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func (s *site) touch(t *testing.T, rel string, when time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(filepath.Join(s.root, filepath.FromSlash(rel)), when, when))
}

func (s *site) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(s.output, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func (s *site) config() core.Config {
	return core.Config{InputDir: s.content, PartialsDir: s.partials, OutputDir: s.output}
}

func (s *site) builder(cfg core.Config) *core.Builder {
	logger := slog.New(slog.NewTextHandler(s.logs, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return core.NewBuilder(cfg, fs.NewStore(fs.Config{Logger: logger}), logger, nil)
}

// assertLogged checks that a single log line contains every fragment.
func assertLogged(t *testing.T, logs *bytes.Buffer, fragments ...string) {
	t.Helper()
	for _, line := range strings.Split(logs.String(), "\n") {
		matched := true
		for _, f := range fragments {
			if !strings.Contains(line, f) {
				matched = false
				break
			}
		}
		if matched {
			return
		}
	}
	t.Errorf("no log line contains %q\n%s", fragments, logs.String())
}

// snapshot returns every output file's content keyed by relative path.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		data, err := os.ReadFile(path)
		files[filepath.ToSlash(rel)] = string(data)
		return err
	})
	require.NoError(t, err)
	return files
}

func TestBuild_ComposesPagesAndCopiesAssets(t *testing.T) {
	s := setupSite(t)
	report, err := s.builder(s.config()).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Count(core.ActionCompose))
	assert.Equal(t, 1, report.Count(core.ActionCopy))
	assert.NotEmpty(t, report.BuildID)

	about := s.read(t, "about.html")
	assert.Equal(t,
		"<html><head><title>Our Team</title></head>\n"+
			"<body><header>site</header>\n"+
			"<body id=\"our-team\">\n<p>About us</p>\n"+
			"<footer>bye</footer></body></html>\n",
		about)

	assert.Contains(t, s.read(t, "contact-us.html"), "<title>Contact Us</title>")
	assert.Contains(t, s.read(t, "blog/first-post.html"), "<title>First Post</title>")
	assert.Equal(t, "body { color: red; }\n", s.read(t, "css/site.css"))

	_, err = os.Stat(filepath.Join(s.output, core.DefaultMarker))
	assert.True(t, os.IsNotExist(err), "no marker without reload")

	assertLogged(t, s.logs, "msg=compose", "path=about.html")
	assertLogged(t, s.logs, "msg=copy", "path=css/site.css")
}

func TestBuild_SecondRunIsFresh(t *testing.T) {
	s := setupSite(t)
	b := s.builder(s.config())

	_, err := b.Build(context.Background())
	require.NoError(t, err)
	before := snapshot(t, s.output)

	report, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Writes())
	assert.Equal(t, 4, report.Count(core.ActionFresh))
	assert.Equal(t, before, snapshot(t, s.output))
}

func TestBuild_SecondRunWithReloadOnlyTouchesMarker(t *testing.T) {
	s := setupSite(t)
	cfg := s.config()
	cfg.Reload = true
	b := s.builder(cfg)

	first, err := b.Build(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, first.Marker)
	before := snapshot(t, s.output)

	second, err := b.Build(context.Background())
	require.NoError(t, err)
	after := snapshot(t, s.output)

	assert.Equal(t, 0, second.Writes())
	assert.NotEqual(t, before[core.DefaultMarker], after[core.DefaultMarker])
	assert.Equal(t, second.Marker, after[core.DefaultMarker])

	delete(before, core.DefaultMarker)
	delete(after, core.DefaultMarker)
	assert.Equal(t, before, after)
}

func TestBuild_ReloadSnippetUsesRelativeMarker(t *testing.T) {
	s := setupSite(t)
	cfg := s.config()
	cfg.Reload = true

	_, err := s.builder(cfg).Build(context.Background())
	require.NoError(t, err)

	top := s.read(t, "about.html")
	nested := s.read(t, "blog/first-post.html")
	assert.True(t, strings.HasSuffix(top, core.ReloadSnippet("reload.txt")))
	assert.True(t, strings.HasSuffix(nested, core.ReloadSnippet("../reload.txt")))
	assert.NotContains(t, s.read(t, "css/site.css"), "<script>")
}

func TestBuild_ReprocessesOnlyNewerInputs(t *testing.T) {
	s := setupSite(t)
	b := s.builder(s.config())
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	for _, rel := range []string{"about.html", "contact-us.html", "blog/first-post.html", "css/site.css"} {
		require.NoError(t, os.Chtimes(filepath.Join(s.output, filepath.FromSlash(rel)), past, past))
		s.touch(t, "content/"+rel, past.Add(-time.Minute))
	}
	s.write(t, "content/contact-us.html", "<p>New address</p>\n")
	s.touch(t, "content/contact-us.html", past.Add(time.Minute))

	report, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(core.ActionCompose))
	assert.Equal(t, 3, report.Count(core.ActionFresh))
	assert.Contains(t, s.read(t, "contact-us.html"), "New address")
}

func TestBuild_PartialChangeIgnoredByDefault(t *testing.T) {
	s := setupSite(t)
	b := s.builder(s.config())
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	s.write(t, "partials/footer.html", "<footer>changed</footer>\n")
	s.touch(t, "partials/footer.html", time.Now().Add(time.Hour))

	report, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Writes())
	assert.NotContains(t, s.read(t, "about.html"), "changed")
}

func TestBuild_PartialsInvalidate(t *testing.T) {
	s := setupSite(t)
	cfg := s.config()
	cfg.PartialsInvalidate = true
	b := s.builder(cfg)
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	s.write(t, "partials/footer.html", "<footer>changed</footer>\n")
	s.touch(t, "partials/footer.html", time.Now().Add(time.Hour))

	report, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Count(core.ActionCompose))
	assert.Equal(t, 1, report.Count(core.ActionFresh), "assets do not depend on partials")
	assert.Contains(t, s.read(t, "about.html"), "<footer>changed</footer>")
}

func TestBuild_DryRunCleanLeavesOutputUntouched(t *testing.T) {
	s := setupSite(t)
	s.write(t, "public/stale.html", "old output")
	s.touch(t, "public/stale.html", time.Now().Add(-time.Hour))
	before := snapshot(t, s.output)

	cfg := s.config()
	cfg.Clean = true
	cfg.DryRun = true
	cfg.Reload = true

	report, err := s.builder(cfg).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, before, snapshot(t, s.output))
	assert.Equal(t, 3, report.Count(core.ActionWouldCompose))
	assert.Equal(t, 1, report.Count(core.ActionWouldCopy))
	assert.Empty(t, report.Marker)

	assertLogged(t, s.logs, `msg="would delete"`, "path="+s.output)
	assertLogged(t, s.logs, `msg="would compose"`, "path=about.html")
	assert.NotContains(t, s.logs.String(), "msg=delete ")
}

func TestBuild_CleanRemovesOutputFirst(t *testing.T) {
	s := setupSite(t)
	s.write(t, "public/orphan.html", "left over")

	cfg := s.config()
	cfg.Clean = true
	_, err := s.builder(cfg).Build(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(s.output, "orphan.html"))
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, filepath.Join(s.output, "about.html"))
}

func TestBuild_MissingPartialAbortsBeforeWriting(t *testing.T) {
	s := setupSite(t)
	require.NoError(t, os.Remove(filepath.Join(s.partials, "header.html")))
	s.write(t, "public/keep.html", "existing")

	cfg := s.config()
	cfg.Clean = true
	_, err := s.builder(cfg).Build(context.Background())
	require.Error(t, err)

	var missing *core.MissingPartialError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, core.PartialHeader, missing.Kind)
	assert.ErrorIs(t, err, core.ErrMissingPartial)

	assert.Equal(t, map[string]string{"keep.html": "existing"}, snapshot(t, s.output))
}

// failingStore wraps a store and fails copies.
type failingStore struct {
	core.Store
	processed []string
}

func (f *failingStore) Copy(ctx context.Context, src, dst string) error {
	return errors.New("disk full")
}

func (f *failingStore) WriteFile(ctx context.Context, path string, data []byte) error {
	f.processed = append(f.processed, filepath.Base(path))
	return f.Store.WriteFile(ctx, path, data)
}

func TestBuild_IOErrorAbortsPass(t *testing.T) {
	s := setupSite(t)
	store := &failingStore{Store: fs.NewStore(fs.Config{})}
	b := core.NewBuilder(s.config(), store, slog.New(slog.NewTextHandler(s.logs, nil)), nil)

	_, err := b.Build(context.Background())
	require.Error(t, err)

	var ioErr *core.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "copy", ioErr.Op)
	assert.Equal(t, "css/site.css", ioErr.Path)

	// Lexical walk: the three pages come before css/site.css, nothing after it.
	assert.Equal(t, []string{"about.html", "first-post.html", "contact-us.html"}, store.processed)
}

func TestBuild_MissingInputRoot(t *testing.T) {
	s := setupSite(t)
	require.NoError(t, os.RemoveAll(s.content))

	_, err := s.builder(s.config()).Build(context.Background())
	var ioErr *core.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "walk", ioErr.Op)
}

func TestBuilder_State(t *testing.T) {
	s := setupSite(t)
	b := s.builder(s.config())

	_, err := b.Build(context.Background())
	require.NoError(t, err)

	state, ok := b.State().(core.BuilderState)
	require.True(t, ok)
	assert.Equal(t, 1, state.Builds)
	assert.Equal(t, "fs-store", state.StoreType)
	require.NotNil(t, state.LastReport)
	assert.Equal(t, 3, state.LastReport.Count(core.ActionCompose))
	assert.Equal(t, "builder", b.ComponentType())
}
