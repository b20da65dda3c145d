package lang

// Builtins are shared by every expression. The table is built once per
// process and cloned for each evaluation so that variables may shadow any
// builtin name without affecting other evaluations.

import (
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// VarsName is the expression identifier bound to the whole variable scope
// as a map. It reaches variables whose names are not valid identifiers,
// as in VARS["name with space"].
const VarsName = "VARS"

//nolint:gochecknoglobals
var (
	builtinOnce sync.Once
	builtins    map[string]any
)

func makeBuiltins() map[string]any {
	builtinOnce.Do(func() {
		builtins = map[string]any{
			// Host information.
			"platform": map[string]any{
				"os":   runtime.GOOS,
				"arch": runtime.GOARCH,
			},
			"hostname": getHostname(),

			// Process environment.
			"env": envFunc(buildProcessEnvMap(nil)),

			// Value filters, usually applied with the pipe operator.
			"default": defaultFilter,
			"label":   labelFilter,
			"dig":     digFilter,

			"file": map[string]any{
				"exists":    fileExists,
				"isDir":     fileIsDir,
				"isRegular": fileIsRegular,
			},

			"path": map[string]any{
				"abs":  pathAbs,
				"cat":  pathCat,
				"rel":  pathRel,
				"base": filepath.Base,
				"dir":  filepath.Dir,
				"ext":  filepath.Ext,
			},

			// PATH-like list manipulation.
			"mung": map[string]any{
				"prefix":   mungPrefix,
				"prefixif": mungPrefixIf,
			},
		}
	})

	return maps.Clone(builtins)
}

// Builtins returns the names of every builtin expression identifier.
func Builtins() []string {
	env := makeBuiltins()
	keys := make([]string, 0, len(env))

	for k := range env {
		keys = append(keys, k)
	}

	return keys
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}

func fileIsRegular(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathCat(elem ...string) string {
	return filepath.Join(elem...)
}

func pathRel(from, to string) string {
	p, err := filepath.Rel(pathAbs(from), pathAbs(to))
	if err != nil {
		return pathCat(from, to)
	}

	return p
}

func mungPrefix(key string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

func mungPrefixIf(
	key string,
	predicate func(string) bool,
	prefix ...string,
) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(predicate),
	).String()
}

// buildProcessEnvMap converts a "KEY=VALUE" list to a map.
// If envList is empty, os.Environ() is used.
func buildProcessEnvMap(envList []string) map[string]string {
	if len(envList) == 0 {
		envList = os.Environ()
	}

	result := make(map[string]string, len(envList))

	for _, entry := range envList {
		key, value, ok := strings.Cut(entry, "=")
		if ok {
			result[key] = value
		}
	}

	return result
}

// envFunc returns the env() builtin over a snapshot of the process
// environment.
func envFunc(processEnv map[string]string) func(string) string {
	return func(key string) string {
		return processEnv[key]
	}
}
