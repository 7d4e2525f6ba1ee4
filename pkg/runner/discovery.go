package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// File is a discovered input document.
type File struct {
	// Path is the absolute, cleaned path.
	Path string

	// Rel is the path relative to the directory argument it was found under,
	// or the base name for files named explicitly. Batch outputs mirror it.
	Rel string
}

// Discover resolves opts.Paths into the documents to convert, sorted by path
// and free of duplicates.
func Discover(ctx context.Context, opts Options) ([]File, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	excludes, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	w := &walker{
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		excludes:   excludes,
		follow:     opts.FollowSymlinks,
		seen:       make(map[string]struct{}),
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(workDir, absPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if info.IsDir() {
			if err := w.walk(ctx, absPath, absPath); err != nil {
				return nil, err
			}
			continue
		}
		if !w.excluded(filepath.Dir(absPath), absPath) {
			w.add(absPath, filepath.Base(absPath))
		}
	}

	slices.SortFunc(w.files, func(a, b File) int { return strings.Compare(a.Path, b.Path) })
	return w.files, nil
}

type walker struct {
	workDir    string
	extensions []string
	excludes   []glob.Glob
	follow     bool
	seen       map[string]struct{}
	files      []File
}

func (w *walker) add(path, rel string) {
	if _, ok := w.seen[path]; ok {
		return
	}
	w.seen[path] = struct{}{}
	w.files = append(w.files, File{Path: path, Rel: filepath.ToSlash(rel)})
}

// walk adds matching files under dir. Rel paths are computed against root,
// which differs from dir when following a directory symlink.
func (w *walker) walk(ctx context.Context, root, dir string) error {
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != dir && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || w.excluded(root, path) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // unreadable targets are skipped
			}
			if info.IsDir() {
				if !w.follow {
					return nil
				}
				return w.walkLinked(ctx, root, path, target)
			}
		}

		if w.hasExtension(path) && !w.excluded(root, path) {
			w.add(path, relTo(root, path))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", dir, err)
	}
	return nil
}

// walkLinked walks a symlinked directory's target while reporting files
// under the link's own path.
func (w *walker) walkLinked(ctx context.Context, root, link, target string) error {
	sub := &walker{
		workDir:    w.workDir,
		extensions: w.extensions,
		excludes:   w.excludes,
		follow:     false,
		seen:       make(map[string]struct{}),
	}
	if err := sub.walk(ctx, target, target); err != nil {
		return err
	}
	for _, f := range sub.files {
		path := filepath.Join(link, filepath.FromSlash(f.Rel))
		w.add(path, relTo(root, path))
	}
	return nil
}

func (w *walker) hasExtension(path string) bool {
	return slices.Contains(w.extensions, strings.ToLower(filepath.Ext(path)))
}

// excluded matches path against the exclude globs relative to the working
// directory, relative to the walk root, and by base name.
func (w *walker) excluded(root, path string) bool {
	candidates := []string{
		filepath.ToSlash(relTo(w.workDir, path)),
		filepath.ToSlash(relTo(root, path)),
		filepath.Base(path),
	}
	for _, g := range w.excludes {
		for _, c := range candidates {
			if g.Match(c) {
				return true
			}
		}
	}
	return false
}

// compileGlobs compiles exclude patterns. A trailing "/**" also matches the
// directory itself so whole trees are pruned during the walk.
func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
			pattern = "{" + prefix + "," + pattern + "}"
		}
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		return os.Getwd()
	}
	return filepath.Abs(workDir)
}

func relTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}
