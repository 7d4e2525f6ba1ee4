// Package runner converts batches of documents concurrently.
package runner

// Options controls file discovery and concurrency for a batch conversion.
type Options struct {
	// Paths are the files or directories to convert. Defaults to ".".
	Paths []string

	// WorkingDir resolves relative Paths. Defaults to the process working directory.
	WorkingDir string

	// Extensions are the lowercase file extensions, with leading dot, that
	// directory walks pick up. Files named explicitly are always included.
	// Defaults to DefaultExtensions().
	Extensions []string

	// ExcludeGlobs skip matching files and directories. Patterns are matched
	// against slash-separated paths relative to WorkingDir and support "**".
	ExcludeGlobs []string

	// FollowSymlinks walks into symlinked directories.
	FollowSymlinks bool

	// Jobs bounds the number of concurrent conversions. Zero or negative
	// means runtime.NumCPU().
	Jobs int
}

// DefaultExtensions returns the extensions of every input format gomdmark reads.
func DefaultExtensions() []string {
	return []string{".md", ".markdown", ".html", ".htm", ".txt"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
