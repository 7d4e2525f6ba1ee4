package configloader

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// ConfigPaths holds the config files found for each layer. Empty means the
// layer has no file.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string
}

// projectConfigNames are checked in each directory, first match wins.
var projectConfigNames = []string{
	".gomdmark.yml",
	".gomdmark.yaml",
	"gomdmark.yml",
	"gomdmark.yaml",
	".gomdmark.json",
	".gomdmark.jsonc",
}

// globalConfigNames are checked in the system and user config directories.
var globalConfigNames = []string{"config.yaml", "config.yml", "config.json"}

// DiscoverPaths finds the system, user and project config files for workDir.
// The project search walks upward and stops at a VCS root or the home
// directory.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), globalConfigNames),
		User:    firstFile(userConfigDir(), globalConfigNames),
		Project: project,
	}, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/gomdmark"
	}
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, "gomdmark")
}

// userConfigDir honours XDG_CONFIG_HOME on every platform.
func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gomdmark")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gomdmark")
}

// FindProjectConfig returns the nearest project config at or above startDir,
// or "" when there is none.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	home, _ := os.UserHomeDir()
	for candidate := range searchDirs(dir, home) {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("discover config: %w", err)
		}
		if path := firstFile(candidate, projectConfigNames); path != "" {
			return path, nil
		}
	}
	return "", nil
}

// searchDirs yields dir and its parents, ending after a VCS root, the home
// directory or the filesystem root.
func searchDirs(dir, home string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			if !yield(dir) || isVCSRoot(dir) || dir == home {
				return
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				return
			}
			dir = parent
		}
	}
}

func isVCSRoot(dir string) bool {
	return slices.ContainsFunc([]string{".git", ".hg", ".svn"}, func(marker string) bool {
		info, err := os.Stat(filepath.Join(dir, marker))
		return err == nil && info.IsDir()
	})
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

// IsJSONConfig reports whether path names a JSON or JSONC config file.
func IsJSONConfig(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return true
	}
	return false
}
