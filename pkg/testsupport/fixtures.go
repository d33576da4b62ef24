package testsupport

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstructure/pkg/resource"
)

// Paths into the bundled fixture content.
const (
	DemoPage      = "/content/we-retail/demo-page"
	DemoGrid      = DemoPage + "/jcr:content/root/responsivegrid"
	DemoForm      = DemoGrid + "/container"
	ContactPage   = "/content/we-retail/contact"
	ContactForm   = ContactPage + "/jcr:content/root/form"
	ContentMount  = "/content"
	AppsMount     = "/apps"
	ContentSource = "testdata/content.json"
	AppsSource    = "testdata/apps.json"
)

//go:embed testdata/*.json
var fixtures embed.FS

// Fixture pairs a content file with the path it is mounted at.
type Fixture struct {
	File  string
	Mount string
}

// DefaultFixtures returns the bundled component definitions and page content.
func DefaultFixtures() []Fixture {
	return []Fixture{
		{File: AppsSource, Mount: AppsMount},
		{File: ContentSource, Mount: ContentMount},
	}
}

// FixtureFS exposes the bundled fixture files.
func FixtureFS() fs.FS {
	return fixtures
}

// LoadTree builds a tree from the bundled fixtures (or the supplied ones) and
// fails the test on error.
func LoadTree(t *testing.T, options ...resource.Option) *resource.Tree {
	t.Helper()

	tree, err := NewTree(fixtures, DefaultFixtures(), options...)
	if err != nil {
		t.Fatalf("load tree: %v", err)
	}
	return tree
}

// NewTree loads each fixture from fsys into a fresh tree, returning an error
// for callers managing setup outside of *testing.T.
func NewTree(fsys fs.FS, items []Fixture, options ...resource.Option) (*resource.Tree, error) {
	if fsys == nil {
		return nil, errors.New("testsupport: fixture filesystem is required")
	}
	tree := resource.NewTree(options...)
	for _, item := range items {
		if err := tree.LoadFS(fsys, item.File, item.Mount); err != nil {
			return nil, fmt.Errorf("testsupport: load %s: %w", item.File, err)
		}
	}
	return tree, nil
}

// MustResource resolves path or fails the test.
func MustResource(t *testing.T, resolver resource.Resolver, path string) *resource.Resource {
	t.Helper()

	res := resolver.GetResource(path)
	if res == nil {
		t.Fatalf("resource %s not found", path)
	}
	return res
}

// WriteFixtures copies the bundled fixtures into dir and returns the written
// file paths keyed by fixture file name.
func WriteFixtures(t *testing.T, dir string) map[string]string {
	t.Helper()

	out := make(map[string]string)
	for _, item := range DefaultFixtures() {
		data, err := fs.ReadFile(fixtures, item.File)
		if err != nil {
			t.Fatalf("read fixture: %v", err)
		}
		target := filepath.Join(dir, filepath.Base(item.File))
		if err := os.WriteFile(target, data, 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		out[filepath.Base(item.File)] = target
	}
	return out
}

// Names collects resource names from seq in order.
func Names(seq iter.Seq[*resource.Resource]) []string {
	var out []string
	for res := range seq {
		out = append(out, res.Name())
	}
	return out
}

// Paths collects resource paths from seq in order.
func Paths(seq iter.Seq[*resource.Resource]) []string {
	var out []string
	for res := range seq {
		out = append(out, res.Path())
	}
	return out
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
