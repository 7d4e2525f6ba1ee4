package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestFindProjectConfig(t *testing.T) {
	t.Parallel()

	t.Run("nearest directory wins", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		nested := filepath.Join(root, "a", "b")
		if err := os.MkdirAll(nested, 0755); err != nil {
			t.Fatal(err)
		}
		writeConfig(t, root, ".gomdmark.yml", "flavor: gfm\n")
		want := writeConfig(t, filepath.Join(root, "a"), "gomdmark.yaml", "flavor: commonmark\n")

		got, err := FindProjectConfig(context.Background(), nested)
		if err != nil {
			t.Fatalf("FindProjectConfig() error = %v", err)
		}
		if got != want {
			t.Errorf("FindProjectConfig() = %q, want %q", got, want)
		}
	})

	t.Run("stops at VCS root", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		repo := filepath.Join(root, "repo")
		if err := os.MkdirAll(filepath.Join(repo, ".git"), 0755); err != nil {
			t.Fatal(err)
		}
		writeConfig(t, root, ".gomdmark.yml", "flavor: gfm\n")

		got, err := FindProjectConfig(context.Background(), repo)
		if err != nil {
			t.Fatalf("FindProjectConfig() error = %v", err)
		}
		if got != "" {
			t.Errorf("expected no config past the VCS root, got %q", got)
		}
	})

	t.Run("yml preferred over json", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeConfig(t, dir, ".gomdmark.json", "{}")
		want := writeConfig(t, dir, ".gomdmark.yml", "flavor: gfm\n")

		got, err := FindProjectConfig(context.Background(), dir)
		if err != nil {
			t.Fatalf("FindProjectConfig() error = %v", err)
		}
		if got != want {
			t.Errorf("FindProjectConfig() = %q, want %q", got, want)
		}
	})

	t.Run("directory named like a config is skipped", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if err := os.MkdirAll(filepath.Join(dir, ".git"), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.Mkdir(filepath.Join(dir, ".gomdmark.yml"), 0755); err != nil {
			t.Fatal(err)
		}

		got, err := FindProjectConfig(context.Background(), dir)
		if err != nil {
			t.Fatalf("FindProjectConfig() error = %v", err)
		}
		if got != "" {
			t.Errorf("expected no config, got %q", got)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := FindProjectConfig(ctx, t.TempDir())
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestSearchDirs(t *testing.T) {
	t.Parallel()

	home := filepath.Join(string(filepath.Separator), "home", "user")
	start := filepath.Join(home, "src", "docs")

	got := slices.Collect(searchDirs(start, home))
	want := []string{start, filepath.Join(home, "src"), home}
	if !slices.Equal(got, want) {
		t.Errorf("searchDirs() = %v, want %v", got, want)
	}
}

func TestIsJSONConfig(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		".gomdmark.json":  true,
		".gomdmark.JSONC": true,
		".gomdmark.yml":   false,
		"config":          false,
	}
	for path, want := range tests {
		if got := IsJSONConfig(path); got != want {
			t.Errorf("IsJSONConfig(%q) = %v, want %v", path, got, want)
		}
	}
}
