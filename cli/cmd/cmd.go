package cmd

import (
	"context"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdinSource names standard input in place of a file.
const stdinSource = "-"

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniqueFiles returns the canonical paths of files in order, dropping
// every path that refers to a file already listed. Paths that cannot be
// resolved are kept as given so that reading them reports the error.
func uniqueFiles(files []string) []string {
	seen := make(map[fileKey]struct{}, len(files))
	out := make([]string, 0, len(files))

	for _, file := range files {
		path, err := filepath.Abs(file)
		if err == nil {
			if real, err := filepath.EvalSymlinks(path); err == nil {
				path = real
			}
		} else {
			path = file
		}

		if info, err := os.Stat(path); err == nil {
			if key, ok := makeFileKey(info); ok {
				if _, dup := seen[key]; dup {
					continue
				}

				seen[key] = struct{}{}
			}
		}

		out = append(out, path)
	}

	return out
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
